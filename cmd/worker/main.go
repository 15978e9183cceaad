package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"social-backend/pkg/container"
	"social-backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		logger.Error("[Worker] Exited with error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Cleanup()

	if err := checkDependencies(c); err != nil {
		return err
	}

	srv, err := setupAsynqServer(cfg, initializeHandlers(c))
	if err != nil {
		return err
	}
	health := startHealthCheckServer(c)

	waitForShutdown(srv, health)
	return nil
}

func waitForShutdown(srv *asynqServer, health *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := health.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("[Health] Forced shutdown")
	}

	srv.Shutdown()
}
