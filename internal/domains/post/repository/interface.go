package repository

import (
	"context"

	"github.com/google/uuid"

	"social-backend/internal/domains/post/model"
	"social-backend/internal/shared/policy"
)

// =====================================================
// POST REPOSITORY INTERFACE
// =====================================================

// ListFilter drives both the page query and its total, so the two can
// never disagree on which rows are visible.
type ListFilter struct {
	Visibility policy.Visibility
	// Query holds lower-case search tokens; empty means no search.
	Query []string
	Page  policy.Page
}

type PostRepository interface {
	// Create inserts a new post
	Create(ctx context.Context, post *model.Post) error

	// GetByID returns the post regardless of deletion state, with Author resolved
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)

	// Update writes content and edit attribution. Returns ErrPostDeleted for soft-deleted rows.
	Update(ctx context.Context, post *model.Post) error

	// SoftDelete writes the deletion fields. Returns ErrPostDeleted when already deleted.
	SoftDelete(ctx context.Context, post *model.Post) error

	// List returns one page ordered newest first plus the filtered total
	List(ctx context.Context, filter ListFilter) ([]*model.Post, int, error)
}
