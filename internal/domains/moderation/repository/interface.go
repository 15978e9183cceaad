package repository

import (
	"context"

	"social-backend/internal/domains/moderation/model"
	"social-backend/internal/shared/policy"
)

type EventRepository interface {
	// Record stores the event. Recording the same event id twice is a no-op,
	// so retried jobs never duplicate entries.
	Record(ctx context.Context, event *model.Event) error

	// List returns events newest first plus the total
	List(ctx context.Context, page policy.Page) ([]*model.Event, int, error)
}
