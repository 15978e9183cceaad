package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"social-backend/internal/shared/response"
	"social-backend/pkg/container"
)

// checkDependencies verifies every backing store before consuming tasks.
func checkDependencies(c *container.Container) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for name, status := range c.HealthCheck(ctx) {
		if status == "unhealthy" {
			return fmt.Errorf("%s is unhealthy", name)
		}
		log.Info().Str("check", name).Str("status", status).Msg("[Startup] Dependency OK")
	}
	return nil
}

// startHealthCheckServer exposes liveness and readiness probes.
func startHealthCheckServer(c *container.Container) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(ctx *gin.Context) {
		response.Success(ctx, http.StatusOK, "UP", gin.H{"service": c.Config.App.Name + " worker"})
	})
	router.GET("/ready", func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := c.HealthCheck(checkCtx)
		code := http.StatusOK
		for _, v := range status {
			if v == "unhealthy" {
				code = http.StatusServiceUnavailable
			}
		}
		ctx.JSON(code, gin.H{"checks": status})
	})

	srv := &http.Server{
		Addr:              ":" + c.Config.Worker.HealthPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", c.Config.Worker.HealthPort).Msg("[Health] Starting health check server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("[Health] Failed to start")
		}
	}()

	return srv
}
