package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the transport layer.
// Every kind except KindInternal is a terminal, user-facing failure.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindPreconditionFailed Kind = "PRECONDITION_FAILED"
	KindPermissionDenied   Kind = "PERMISSION_DENIED"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindValidationFailed   Kind = "VALIDATION_FAILED"
	KindConflict           Kind = "CONFLICT"
	KindTooManyRequests    Kind = "TOO_MANY_REQUESTS"
	KindInternal           Kind = "INTERNAL"
)

// Resource identifies the entity an error is about.
type Resource struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Error is the application error carried from services to handlers.
type Error struct {
	Kind      Kind
	Message   string
	Resources []Resource
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: ...}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// =====================================================
// CONSTRUCTORS
// =====================================================

func NotFound(message string, resource Resource) *Error {
	return &Error{Kind: KindNotFound, Message: message, Resources: []Resource{resource}}
}

func PreconditionFailed(message string, resources ...Resource) *Error {
	return &Error{Kind: KindPreconditionFailed, Message: message, Resources: resources}
}

func PermissionDenied(message string, resources ...Resource) *Error {
	return &Error{Kind: KindPermissionDenied, Message: message, Resources: resources}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func ValidationFailed(err error) *Error {
	return &Error{Kind: KindValidationFailed, Message: "Validation failed", Err: err}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func TooManyRequests(message string) *Error {
	return &Error{Kind: KindTooManyRequests, Message: message}
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err. Anything that is not an *Error is internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As returns the *Error inside err, wrapping unknown errors as internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}
