package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-backend/internal/shared/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)

	FromError(c, err)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestFromError_StatusMapping(t *testing.T) {
	ref := apperror.Resource{Type: "post", ID: "p1"}
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperror.NotFound("Post not found", ref), http.StatusNotFound, "NOT_FOUND"},
		{apperror.PreconditionFailed("Cannot edit deleted post", ref), http.StatusBadRequest, "PRECONDITION_FAILED"},
		{apperror.PermissionDenied("You can only edit your own posts", ref), http.StatusForbidden, "PERMISSION_DENIED"},
		{apperror.Unauthenticated("You must be logged in"), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{apperror.ValidationFailed(errors.New("content is required")), http.StatusBadRequest, "VALIDATION_FAILED"},
		{apperror.Conflict("Username already taken"), http.StatusConflict, "CONFLICT"},
		{apperror.TooManyRequests("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w, body := render(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestFromError_ResourcesIncluded(t *testing.T) {
	_, body := render(t, apperror.PermissionDenied("nope", apperror.Resource{Type: "comment", ID: "c9"}))
	require.Len(t, body.Error.Resources, 1)
	assert.Equal(t, "comment", body.Error.Resources[0].Type)
	assert.Equal(t, "c9", body.Error.Resources[0].ID)
}

func TestFromError_InternalHidesCause(t *testing.T) {
	w, body := render(t, errors.New("pq: connection refused at 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL", body.Error.Code)
	assert.Equal(t, "Internal server error", body.Error.Message)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestFromError_ValidationDetails(t *testing.T) {
	verr := validation.Errors{"content": errors.New("cannot be blank")}
	_, body := render(t, apperror.ValidationFailed(verr))

	details, ok := body.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "cannot be blank", details["content"])
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusCreated, "Post created", gin.H{"id": "p1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Post created", body.Message)
}
