package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	user "social-backend/internal/domains/user"
)

type memoryRepository struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*user.User
	byUsername map[string]uuid.UUID
}

// NewMemoryRepository is the in-process user store used by the memory
// storage driver and by service tests.
func NewMemoryRepository() user.Repository {
	return &memoryRepository{
		users:      make(map[uuid.UUID]*user.User),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (r *memoryRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[u.Username]; taken {
		return user.ErrUsernameAlreadyExists
	}

	stored := *u
	r.users[u.ID] = &stored
	r.byUsername[u.Username] = u.ID
	return nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *r.users[id]
	return &copied, nil
}

func (r *memoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[uuid.UUID]*user.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			copied := *u
			result[id] = &copied
		}
	}
	return result, nil
}

func (r *memoryRepository) Update(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	existing.FullName = u.FullName
	existing.Initials = u.Initials
	existing.Role = u.Role
	existing.UpdatedAt = u.UpdatedAt
	return nil
}
