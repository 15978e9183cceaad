package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-backend/internal/config"
	"social-backend/internal/domains/user"
	"social-backend/internal/shared/policy"
	"social-backend/pkg/container"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	c      *container.Container
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		App:     config.AppConfig{Name: "Social API", Environment: "test", Version: "test"},
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory},
		JWT:     config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour},
		Auth:    config.AuthConfig{BcryptCost: 4, MaxFailedLogins: 5, LockoutWindow: time.Minute},
	}

	c, err := container.NewContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)

	return &testServer{t: t, router: SetupRouter(c), c: c}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *testServer) register(username string) string {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":  username,
		"password":  "Passw0rd!",
		"full_name": "Test " + username,
	})
	require.Equal(s.t, http.StatusCreated, code)

	var auth user.AuthResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &auth))
	return auth.AccessToken
}

func (s *testServer) admin() string {
	s.t.Helper()
	_, _, err := s.c.UserService.EnsureUser(context.Background(), user.RegisterRequest{
		Username: "moderator",
		Password: "Passw0rd!",
		FullName: "Mod Erator",
	}, policy.RoleAdmin)
	require.NoError(s.t, err)

	code, env := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "moderator",
		"password": "Passw0rd!",
	})
	require.Equal(s.t, http.StatusOK, code)

	var auth user.AuthResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &auth))
	return auth.AccessToken
}

type postBody struct {
	ID            string  `json:"id"`
	IsDeleted     bool    `json:"is_deleted"`
	EditLabel     string  `json:"edit_label"`
	CommentsCount int     `json:"comments_count"`
	Moderation    *gin.H  `json:"moderation"`
	Author        *gin.H  `json:"author"`
	EditedByAdmin bool    `json:"edited_by_admin"`
	Content       string  `json:"content"`
	EditedAt      *string `json:"edited_at"`
}

func (s *testServer) createPost(token, content string) postBody {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/posts", token, gin.H{"content": content})
	require.Equal(s.t, http.StatusCreated, code)

	var p postBody
	require.NoError(s.t, json.Unmarshal(env.Data, &p))
	return p
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestAnonymousMutationsAreUnauthenticated(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/v1/posts", "", gin.H{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)

	code, _ = s.do(http.MethodDelete, "/api/v1/comments/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestPostModerationFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")
	admin := s.admin()

	post := s.createPost(alice, "hello world")

	// admins may not edit other users' posts
	code, env := s.do(http.MethodPut, "/api/v1/posts/"+post.ID, admin, gin.H{"content": "censored"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "PERMISSION_DENIED", env.Error.Code)

	// nor may other users delete it
	code, _ = s.do(http.MethodDelete, "/api/v1/posts/"+post.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// admins may delete it
	code, _ = s.do(http.MethodDelete, "/api/v1/posts/"+post.ID, admin, nil)
	require.Equal(t, http.StatusOK, code)

	// hidden from everyone but admins, author included
	for _, token := range []string{"", alice, bob} {
		code, env = s.do(http.MethodGet, "/api/v1/posts/"+post.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	}

	code, env = s.do(http.MethodGet, "/api/v1/posts/"+post.ID, admin, nil)
	require.Equal(t, http.StatusOK, code)
	var seen postBody
	require.NoError(t, json.Unmarshal(env.Data, &seen))
	assert.True(t, seen.IsDeleted)
	require.NotNil(t, seen.Moderation)

	// editing a deleted post is a precondition failure, even for the owner
	code, env = s.do(http.MethodPut, "/api/v1/posts/"+post.ID, alice, gin.H{"content": "again"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "PRECONDITION_FAILED", env.Error.Code)

	// commenting on it too
	code, env = s.do(http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", bob, gin.H{"content": "hey"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "PRECONDITION_FAILED", env.Error.Code)

	// the admin delete is in the audit trail; non-admins cannot read it
	code, _ = s.do(http.MethodGet, "/api/v1/admin/moderation-events", alice, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodGet, "/api/v1/admin/moderation-events", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var events struct {
		Events []struct {
			Action     string `json:"action"`
			ResourceID string `json:"resource_id"`
		} `json:"events"`
		Pagination policy.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &events))
	require.Len(t, events.Events, 1)
	assert.Equal(t, "delete", events.Events[0].Action)
	assert.Equal(t, post.ID, events.Events[0].ResourceID)
	assert.Equal(t, 1, events.Pagination.Total)
}

func TestCommentAttributionAndCounts(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")
	admin := s.admin()

	post := s.createPost(alice, "first post")

	code, env := s.do(http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", bob, gin.H{"content": "nice"})
	require.Equal(t, http.StatusCreated, code)
	var comment struct {
		ID            string `json:"id"`
		EditLabel     string `json:"edit_label"`
		EditedByAdmin bool   `json:"edited_by_admin"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &comment))

	// admins may edit comments; readers only learn that an admin did
	code, _ = s.do(http.MethodPut, "/api/v1/comments/"+comment.ID, admin, gin.H{"content": "[removed]"})
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodGet, "/api/v1/posts/"+post.ID+"/comments", alice, nil)
	require.Equal(t, http.StatusOK, code)
	var list struct {
		Comments []struct {
			EditLabel     string `json:"edit_label"`
			EditedByAdmin bool   `json:"edited_by_admin"`
			Moderation    *gin.H `json:"moderation"`
		} `json:"comments"`
		Pagination policy.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Comments, 1)
	assert.Equal(t, "edited by admin", list.Comments[0].EditLabel)
	assert.True(t, list.Comments[0].EditedByAdmin)
	assert.Nil(t, list.Comments[0].Moderation)

	code, env = s.do(http.MethodGet, "/api/v1/posts/"+post.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	var seen postBody
	require.NoError(t, json.Unmarshal(env.Data, &seen))
	assert.Equal(t, 1, seen.CommentsCount)
	assert.Nil(t, seen.Moderation)
}

func TestTimelineAndSearch(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")

	s.createPost(alice, "golang tips")
	s.createPost(alice, "weekend hike")

	code, env := s.do(http.MethodGet, "/api/v1/posts?limit=1000&offset=-3", "", nil)
	require.Equal(t, http.StatusOK, code)
	var timeline struct {
		Posts      []postBody        `json:"posts"`
		Pagination policy.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &timeline))
	assert.Len(t, timeline.Posts, 2)
	assert.Equal(t, policy.Pagination{Limit: 100, Offset: 0, Total: 2}, timeline.Pagination)

	code, env = s.do(http.MethodGet, "/api/v1/posts/search?q=GOLANG", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &timeline))
	require.Len(t, timeline.Posts, 1)
	assert.Equal(t, "golang tips", timeline.Posts[0].Content)

	code, env = s.do(http.MethodGet, "/api/v1/posts/search?q=%20%20", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")

	code, _ := s.do(http.MethodGet, "/api/v1/users/me", alice, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPost, "/api/v1/auth/logout", alice, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/api/v1/users/me", alice, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
