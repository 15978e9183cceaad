package model

import (
	"context"
	"time"

	"github.com/google/uuid"

	"social-backend/internal/shared/policy"
)

// TypeRecordEvent is the asynq task that persists an Event.
const TypeRecordEvent = "moderation:record_event"

// Event records an admin acting on someone else's post or comment.
// It is the only place moderator identities are kept outside the rows themselves.
type Event struct {
	ID           uuid.UUID           `json:"id"`
	Action       policy.Operation    `json:"action"`
	ResourceType policy.ResourceType `json:"resource_type"`
	ResourceID   uuid.UUID           `json:"resource_id"`
	AuthorID     uuid.UUID           `json:"author_id"`
	ModeratorID  uuid.UUID           `json:"moderator_id"`
	OccurredAt   time.Time           `json:"occurred_at"`
}

func NewEvent(action policy.Operation, resource policy.ResourceType, resourceID uuid.UUID, item *policy.Lifecycle, moderator *policy.Actor, at time.Time) *Event {
	return &Event{
		ID:           uuid.New(),
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		AuthorID:     item.AuthorID,
		ModeratorID:  moderator.ID,
		OccurredAt:   at,
	}
}

// Publisher hands events to the audit trail. Delivery may be asynchronous.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

type ListEventsResponse struct {
	Events     []*Event          `json:"events"`
	Pagination policy.Pagination `json:"pagination"`
}
