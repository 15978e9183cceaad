package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"social-backend/internal/domains/moderation/model"
	"social-backend/internal/domains/moderation/service"
)

// AuditHandler persists moderation events delivered through asynq.
type AuditHandler struct {
	service service.ServiceInterface
}

func NewAuditHandler(service service.ServiceInterface) *AuditHandler {
	return &AuditHandler{service: service}
}

// ProcessTask handles moderation:record_event.
// Malformed payloads are not retried; storage failures are.
func (h *AuditHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	// 1. Parse payload
	var event model.Event
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		log.Error().Err(err).Str("task", task.Type()).Msg("Failed to unmarshal moderation event")
		return fmt.Errorf("unmarshal moderation event: %v: %w", err, asynq.SkipRetry)
	}

	// 2. Persist
	if err := h.service.Record(ctx, &event); err != nil {
		if errors.Is(err, service.ErrInvalidEvent) {
			log.Error().Str("event_id", event.ID.String()).Msg("Dropping invalid moderation event")
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		log.Error().Err(err).Str("event_id", event.ID.String()).Msg("Failed to record moderation event")
		return err
	}

	return nil
}
