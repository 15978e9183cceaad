package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindNotFound, KindOf(NotFound("Post not found", Resource{Type: "post", ID: "1"})))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))

	wrapped := fmt.Errorf("service: %w", PermissionDenied("nope", Resource{Type: "post", ID: "1"}))
	assert.Equal(t, KindPermissionDenied, KindOf(wrapped))
}

func TestAs_WrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := As(cause)

	require.NotNil(t, appErr)
	assert.Equal(t, KindInternal, appErr.Kind)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.ErrorIs(t, appErr, cause)
}

func TestError_IsMatchesKind(t *testing.T) {
	err := PreconditionFailed("Cannot comment on deleted post", Resource{Type: "post", ID: "p1"})

	assert.True(t, errors.Is(err, &Error{Kind: KindPreconditionFailed}))
	assert.False(t, errors.Is(err, &Error{Kind: KindNotFound}))
	assert.Equal(t, "Cannot comment on deleted post", err.Error())
}

func TestValidationFailed_KeepsCause(t *testing.T) {
	cause := errors.New("content: cannot be blank.")
	err := ValidationFailed(cause)

	assert.Equal(t, KindValidationFailed, err.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cannot be blank")
}
