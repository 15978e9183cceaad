package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"social-backend/internal/shared/middleware"
	"social-backend/internal/shared/response"
	"social-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupPostRoutes(v1, c)
		setupCommentRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// Reads and writes both resolve the actor optionally: the services report
// a missing login themselves, in the same error taxonomy as everything else.
func optionalAuth(c *container.Container) gin.HandlerFunc {
	return middleware.OptionalAuth(c.JWTManager, c.UserService)
}

func requireAuth(c *container.Container) gin.HandlerFunc {
	return middleware.AuthMiddleware(c.JWTManager, c.UserService)
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/logout", requireAuth(c), c.UserHandler.Logout)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(requireAuth(c))
	{
		users.GET("/me", c.UserHandler.GetProfile)
		users.PUT("/me", c.UserHandler.UpdateProfile)
	}
}

// ========================================
// POST ROUTES
// ========================================
func setupPostRoutes(v1 *gin.RouterGroup, c *container.Container) {
	posts := v1.Group("/posts")
	posts.Use(optionalAuth(c))
	{
		posts.GET("", c.PostHandler.GetTimeline)
		posts.GET("/search", c.PostHandler.SearchPosts)
		posts.GET("/:id", c.PostHandler.GetPost)
		posts.POST("", c.PostHandler.CreatePost)
		posts.PUT("/:id", c.PostHandler.UpdatePost)
		posts.DELETE("/:id", c.PostHandler.DeletePost)

		posts.GET("/:id/comments", c.CommentHandler.ListByPost)
		posts.POST("/:id/comments", c.CommentHandler.CreateComment)
	}
}

// ========================================
// COMMENT ROUTES
// ========================================
func setupCommentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	comments := v1.Group("/comments")
	comments.Use(optionalAuth(c))
	{
		comments.GET("/:id/replies", c.CommentHandler.ListReplies)
		comments.PUT("/:id", c.CommentHandler.UpdateComment)
		comments.DELETE("/:id", c.CommentHandler.DeleteComment)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(requireAuth(c), middleware.AdminMiddleware())
	{
		admin.GET("/moderation-events", c.ModerationHandler.ListEvents)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		status := c.HealthCheck(checkCtx)
		code := http.StatusOK
		for _, v := range status {
			if v == "unhealthy" {
				code = http.StatusServiceUnavailable
			}
		}

		response.Success(ctx, code, "Health check", gin.H{
			"service": c.Config.App.Name,
			"version": c.Config.App.Version,
			"checks":  status,
			"time":    time.Now().UTC(),
		})
	}
}
