package repository

import (
	"context"

	"github.com/google/uuid"

	"social-backend/internal/domains/comment/model"
	"social-backend/internal/shared/policy"
)

// =====================================================
// COMMENT REPOSITORY INTERFACE
// =====================================================

// ListFilter drives both the page query and its total.
type ListFilter struct {
	PostID uuid.UUID
	// ParentCommentID nil selects top-level comments; otherwise direct replies.
	ParentCommentID *uuid.UUID
	Visibility      policy.Visibility
	Page            policy.Page
}

type CommentRepository interface {
	// Create inserts a comment. Returns ErrPostUnavailable when the post is
	// deleted or missing, ErrCommentNotFound when the parent is missing and
	// ErrCommentDeleted when the parent is deleted.
	Create(ctx context.Context, comment *model.Comment) error

	// GetByID returns the comment regardless of deletion state, with Author resolved
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)

	// Update writes content and edit attribution. Returns ErrCommentDeleted for soft-deleted rows.
	Update(ctx context.Context, comment *model.Comment) error

	// SoftDelete writes the deletion fields. Returns ErrCommentDeleted when already deleted.
	SoftDelete(ctx context.Context, comment *model.Comment) error

	// List returns one page ordered newest first plus the filtered total
	List(ctx context.Context, filter ListFilter) ([]*model.Comment, int, error)

	// CountTopLevelByPostIDs counts non-deleted top-level comments per post.
	// Posts without comments are absent from the map.
	CountTopLevelByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error)
}
