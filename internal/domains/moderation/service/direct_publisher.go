package service

import (
	"context"

	"social-backend/internal/domains/moderation/model"
)

// DirectPublisher records events synchronously in-process. Used when no
// queue is configured (memory storage driver).
type DirectPublisher struct {
	service ServiceInterface
}

func NewDirectPublisher(service ServiceInterface) *DirectPublisher {
	return &DirectPublisher{service: service}
}

func (p *DirectPublisher) Publish(ctx context.Context, event *model.Event) error {
	return p.service.Record(ctx, event)
}

var _ model.Publisher = (*DirectPublisher)(nil)
