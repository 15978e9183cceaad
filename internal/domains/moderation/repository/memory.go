package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"social-backend/internal/domains/moderation/model"
	"social-backend/internal/shared/policy"
)

type memoryEventRepository struct {
	mu     sync.RWMutex
	events []*model.Event
	seen   map[uuid.UUID]struct{}
}

func NewMemoryEventRepository() EventRepository {
	return &memoryEventRepository{seen: make(map[uuid.UUID]struct{})}
}

func (r *memoryEventRepository) Record(ctx context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.seen[event.ID]; dup {
		return nil
	}
	stored := *event
	r.events = append(r.events, &stored)
	r.seen[event.ID] = struct{}{}
	return nil
}

func (r *memoryEventRepository) List(ctx context.Context, page policy.Page) ([]*model.Event, int, error) {
	r.mu.RLock()
	all := make([]*model.Event, len(r.events))
	for i, e := range r.events {
		copied := *e
		all[i] = &copied
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].OccurredAt.After(all[j].OccurredAt)
	})

	start, end := page.Window(len(all))
	return all[start:end], len(all), nil
}
