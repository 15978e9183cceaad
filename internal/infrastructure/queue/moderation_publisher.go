package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"social-backend/internal/domains/moderation/model"
)

const (
	QueueDefault       = "default"
	moderationMaxRetry = 5
)

// ModerationPublisher enqueues moderation events for the worker.
type ModerationPublisher struct {
	client *asynq.Client
}

func NewModerationPublisher(client *asynq.Client) *ModerationPublisher {
	return &ModerationPublisher{client: client}
}

// Publish enqueues the event under its own id as task id, so a repeated
// publish of the same event is dropped by the queue.
func (p *ModerationPublisher) Publish(ctx context.Context, event *model.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal moderation event: %w", err)
	}

	task := asynq.NewTask(model.TypeRecordEvent, payload)
	_, err = p.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(moderationMaxRetry),
		asynq.TaskID(event.ID.String()),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue moderation event: %w", err)
	}
	return nil
}

var _ model.Publisher = (*ModerationPublisher)(nil)
