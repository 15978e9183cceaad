package main

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"social-backend/internal/config"
	"social-backend/internal/infrastructure/queue"
	"social-backend/pkg/container"
)

// asynqServer wraps asynq.Server with additional functionality
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates the server and starts its processors. Signal
// handling stays in main, so Start is used instead of Run.
func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) (*asynqServer, error) {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		container.RedisClientOpt(cfg),
		asynq.Config{
			Queues: map[string]int{
				queue.QueueDefault: 10,
			},
			Concurrency: cfg.Worker.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				log.Error().
					Err(err).
					Str("type", task.Type()).
					Int("retry", retried).
					Int("max_retry", maxRetry).
					Msg("[Asynq] Task failed")
			}),
		},
	)

	log.Info().Msg("[Worker] Starting")
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("start asynq server: %w", err)
	}

	return &asynqServer{Server: srv}, nil
}

// Shutdown stops fetching new tasks and waits for in-flight ones.
func (s *asynqServer) Shutdown() {
	log.Info().Msg("[Worker] Shutting down")
	s.Server.Shutdown()
	log.Info().Msg("[Worker] Stopped")
}
