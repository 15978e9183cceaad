package service

import (
	"context"

	"github.com/google/uuid"

	"social-backend/internal/domains/post/model"
	"social-backend/internal/shared/policy"
)

// =====================================================
// POST SERVICE INTERFACE
// =====================================================

// ServiceInterface takes the acting identity explicitly on every call.
// A nil actor is an anonymous caller.
type ServiceInterface interface {
	// ========================================
	// MUTATIONS
	// ========================================

	CreatePost(ctx context.Context, actor *policy.Actor, req model.CreatePostRequest) (*model.PostResponse, error)

	// UpdatePost is restricted to the author, admins included.
	UpdatePost(ctx context.Context, actor *policy.Actor, id uuid.UUID, req model.UpdatePostRequest) (*model.PostResponse, error)

	// DeletePost soft-deletes for the author or an admin and returns the deleted item.
	DeletePost(ctx context.Context, actor *policy.Actor, id uuid.UUID) (*model.PostResponse, error)

	// ========================================
	// READS
	// ========================================

	GetPost(ctx context.Context, viewer *policy.Actor, id uuid.UUID) (*model.PostResponse, error)
	GetTimeline(ctx context.Context, viewer *policy.Actor, limit, offset int) (*model.ListPostsResponse, error)
	SearchPosts(ctx context.Context, viewer *policy.Actor, query string, limit, offset int) (*model.ListPostsResponse, error)
}

// CommentCounter reports non-deleted top-level comments per post.
type CommentCounter interface {
	CountTopLevelByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error)
}
