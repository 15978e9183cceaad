package service

import (
	"context"

	"github.com/google/uuid"

	"social-backend/internal/domains/comment/model"
	"social-backend/internal/shared/policy"
)

// =====================================================
// COMMENT SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// ========================================
	// MUTATIONS
	// ========================================

	// CreateComment adds a top-level comment, or a reply when req.ParentCommentID is set.
	CreateComment(ctx context.Context, actor *policy.Actor, postID uuid.UUID, req model.CreateCommentRequest) (*model.CommentResponse, error)

	// UpdateComment is allowed for the author or an admin.
	UpdateComment(ctx context.Context, actor *policy.Actor, id uuid.UUID, req model.UpdateCommentRequest) (*model.CommentResponse, error)

	// DeleteComment soft-deletes for the author or an admin and returns the deleted item.
	DeleteComment(ctx context.Context, actor *policy.Actor, id uuid.UUID) (*model.CommentResponse, error)

	// ========================================
	// READS
	// ========================================

	// ListByPost lists top-level comments of a visible post.
	ListByPost(ctx context.Context, viewer *policy.Actor, postID uuid.UUID, limit, offset int) (*model.ListCommentsResponse, error)

	// ListReplies lists direct replies of a visible comment.
	ListReplies(ctx context.Context, viewer *policy.Actor, commentID uuid.UUID, limit, offset int) (*model.ListCommentsResponse, error)
}
