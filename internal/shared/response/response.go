package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"social-backend/internal/shared/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code      string              `json:"code"`
	Message   string              `json:"message"`
	Resources []apperror.Resource `json:"resources,omitempty"`
	Details   interface{}         `json:"details,omitempty"`
}

// Success writes {success: true, message, data}.
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error writes a transport-level failure (malformed body, bad path param).
func Error(c *gin.Context, statusCode int, message string, err error) {
	body := &ErrorBody{
		Code:    codeForStatus(statusCode),
		Message: message,
	}
	if err != nil && statusCode < http.StatusInternalServerError {
		body.Details = err.Error()
	}
	c.JSON(statusCode, Response{Success: false, Error: body})
}

// FromError renders a service error through the apperror taxonomy.
// Internal failures answer a fixed message; their cause is only logged.
func FromError(c *gin.Context, err error) {
	appErr := apperror.As(err)
	status := StatusFor(appErr.Kind)

	body := &ErrorBody{
		Code:      string(appErr.Kind),
		Message:   appErr.Message,
		Resources: appErr.Resources,
	}

	switch appErr.Kind {
	case apperror.KindInternal:
		log.Error().
			Err(appErr.Err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("Internal error")
		body.Message = "Internal server error"
		body.Resources = nil
	case apperror.KindValidationFailed:
		if m, ok := appErr.Err.(json.Marshaler); ok {
			body.Details = m
		} else if appErr.Err != nil {
			body.Details = appErr.Err.Error()
		}
	}

	c.JSON(status, Response{Success: false, Error: body})
}

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindPreconditionFailed:
		return http.StatusBadRequest
	case apperror.KindPermissionDenied:
		return http.StatusForbidden
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperror.KindValidationFailed:
		return http.StatusBadRequest
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return string(apperror.KindUnauthenticated)
	case http.StatusForbidden:
		return string(apperror.KindPermissionDenied)
	case http.StatusNotFound:
		return string(apperror.KindNotFound)
	default:
		return string(apperror.KindInternal)
	}
}
