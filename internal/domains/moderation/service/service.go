package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"social-backend/internal/domains/moderation/model"
	"social-backend/internal/domains/moderation/repository"
	"social-backend/internal/shared/apperror"
	"social-backend/internal/shared/policy"
)

var ErrInvalidEvent = errors.New("invalid moderation event")

type ServiceInterface interface {
	// Record persists an event delivered by a Publisher.
	Record(ctx context.Context, event *model.Event) error

	// ListEvents is restricted to admins.
	ListEvents(ctx context.Context, actor *policy.Actor, limit, offset int) (*model.ListEventsResponse, error)
}

type moderationService struct {
	repo repository.EventRepository
}

func NewModerationService(repo repository.EventRepository) ServiceInterface {
	return &moderationService{repo: repo}
}

func (s *moderationService) Record(ctx context.Context, event *model.Event) error {
	if event == nil || event.ID == uuid.Nil || event.ResourceID == uuid.Nil || event.ModeratorID == uuid.Nil {
		return ErrInvalidEvent
	}

	if err := s.repo.Record(ctx, event); err != nil {
		return fmt.Errorf("record moderation event: %w", err)
	}

	log.Info().
		Str("event_id", event.ID.String()).
		Str("action", string(event.Action)).
		Str("resource_type", string(event.ResourceType)).
		Str("resource_id", event.ResourceID.String()).
		Str("moderator_id", event.ModeratorID.String()).
		Msg("Moderation event recorded")
	return nil
}

func (s *moderationService) ListEvents(ctx context.Context, actor *policy.Actor, limit, offset int) (*model.ListEventsResponse, error) {
	// Step 1: admins only
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperror.PermissionDenied("Access denied: admin role required")
	}

	// Step 2: page
	page := policy.ClampPage(limit, offset)
	events, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, apperror.Internal("Internal server error", err)
	}

	return &model.ListEventsResponse{
		Events:     events,
		Pagination: policy.NewPagination(page, total),
	}, nil
}
