package middleware

import (
	"github.com/gin-gonic/gin"

	"social-backend/internal/shared/apperror"
	"social-backend/internal/shared/policy"
)

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if err := policy.RequireActor(actor); err != nil {
			abortWith(c, err)
			return
		}
		if !actor.IsAdmin() {
			abortWith(c, apperror.PermissionDenied("Access denied: admin role required"))
			return
		}
		c.Next()
	}
}
