package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"social-backend/internal/shared/apperror"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Interface("error", rec).
					Msg("Panic recovered")

				abortWith(c, apperror.Internal("Internal server error", fmt.Errorf("panic: %v", rec)))
			}
		}()

		c.Next()
	}
}
