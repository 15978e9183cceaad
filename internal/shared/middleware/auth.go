package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"social-backend/internal/shared/apperror"
	"social-backend/internal/shared/policy"
	"social-backend/internal/shared/response"
	"social-backend/pkg/jwt"
)

const (
	ContextActorKey       = "actor"
	ContextTokenIDKey     = "token_id"
	ContextTokenExpiryKey = "token_expires_at"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// OptionalAuth resolves the actor when a Bearer token is present and lets
// anonymous requests through. A malformed, expired or revoked token is
// rejected rather than silently downgraded to anonymous.
func OptionalAuth(jwtManager *jwt.Manager, revocation RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if !authenticate(c, jwtManager, revocation) {
			return
		}
		c.Next()
	}
}

// AuthMiddleware requires a valid, unrevoked access token.
func AuthMiddleware(jwtManager *jwt.Manager, revocation RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			abortWith(c, apperror.Unauthenticated("Missing authorization header"))
			return
		}
		if !authenticate(c, jwtManager, revocation) {
			return
		}
		c.Next()
	}
}

// ActorFrom returns the authenticated actor, or nil for anonymous requests.
func ActorFrom(c *gin.Context) *policy.Actor {
	v, ok := c.Get(ContextActorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*policy.Actor)
	return actor
}

// TokenFrom returns the id and expiry of the token that authenticated the request.
func TokenFrom(c *gin.Context) (string, time.Time) {
	expiresAt, _ := c.Get(ContextTokenExpiryKey)
	t, _ := expiresAt.(time.Time)
	return c.GetString(ContextTokenIDKey), t
}

func authenticate(c *gin.Context, jwtManager *jwt.Manager, revocation RevocationChecker) bool {
	// Step 1: extract "Bearer <token>"
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		abortWith(c, apperror.Unauthenticated("Invalid authorization header format"))
		return false
	}

	// Step 2: verify signature, expiry and type
	claims, err := jwtManager.ValidateAccessToken(strings.TrimSpace(parts[1]))
	if err != nil {
		abortWith(c, apperror.Unauthenticated("Invalid or expired token"))
		return false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		abortWith(c, apperror.Unauthenticated("Invalid or expired token"))
		return false
	}

	// Step 3: logout revocation
	if revocation != nil {
		revoked, err := revocation.IsTokenRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Failed to check token revocation")
			abortWith(c, apperror.Internal("Internal server error", err))
			return false
		}
		if revoked {
			abortWith(c, apperror.Unauthenticated("Token has been revoked"))
			return false
		}
	}

	// Step 4: expose the actor
	c.Set(ContextActorKey, policy.NewActor(userID, policy.Role(claims.Role)))
	c.Set(ContextTokenIDKey, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(ContextTokenExpiryKey, claims.ExpiresAt.Time)
	}
	return true
}

func abortWith(c *gin.Context, err error) {
	response.FromError(c, err)
	c.Abort()
}
