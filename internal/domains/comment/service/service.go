package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"social-backend/internal/domains/comment/model"
	"social-backend/internal/domains/comment/repository"
	moderation "social-backend/internal/domains/moderation/model"
	postmodel "social-backend/internal/domains/post/model"
	postrepo "social-backend/internal/domains/post/repository"
	"social-backend/internal/shared/apperror"
	"social-backend/internal/shared/policy"
)

type commentService struct {
	repo      repository.CommentRepository
	posts     postrepo.PostRepository
	publisher moderation.Publisher
	now       func() time.Time
}

func NewCommentService(repo repository.CommentRepository, posts postrepo.PostRepository, publisher moderation.Publisher) ServiceInterface {
	return &commentService{
		repo:      repo,
		posts:     posts,
		publisher: publisher,
		now:       time.Now,
	}
}

// =====================================================
// MUTATIONS
// =====================================================

func (s *commentService) CreateComment(ctx context.Context, actor *policy.Actor, postID uuid.UUID, req model.CreateCommentRequest) (*model.CommentResponse, error) {
	// Step 1: authenticate, then validate
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.ValidationFailed(err)
	}

	// Step 2: the post must exist and be live
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted {
		return nil, postPrecondition("Cannot comment on deleted post", postID)
	}

	// Step 3: a parent must be a live top-level comment of the same post
	if req.ParentCommentID != nil {
		parent, err := s.load(ctx, *req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if err := checkParent(parent, postID); err != nil {
			return nil, err
		}
	}

	// Step 4: persist
	comment := &model.Comment{
		ID:              uuid.New(),
		PostID:          postID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
		Lifecycle:       policy.NewLifecycle(actor.ID, s.now()),
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, s.createError(comment, err)
	}

	log.Info().
		Str("comment_id", comment.ID.String()).
		Str("post_id", postID.String()).
		Str("actor_id", actor.ID.String()).
		Msg("Comment created")

	// Step 5: reload with the author resolved
	created, err := s.repo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, s.internal("reload comment", err)
	}
	res := model.NewCommentResponse(created, actor)
	return &res, nil
}

func (s *commentService) UpdateComment(ctx context.Context, actor *policy.Actor, id uuid.UUID, req model.UpdateCommentRequest) (*model.CommentResponse, error) {
	// Step 1: authenticate, then validate
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.ValidationFailed(err)
	}

	// Step 2: load and authorize
	comment, err := s.authorize(ctx, actor, id, policy.OperationEdit)
	if err != nil {
		return nil, err
	}

	// Step 3: apply
	comment.Content = req.Content
	comment.MarkEdited(actor.ID, s.now())

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, s.writeError("update comment", id, policy.OperationEdit, err)
	}

	s.recordModeration(ctx, policy.OperationEdit, comment, actor)

	res := model.NewCommentResponse(comment, actor)
	return &res, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actor *policy.Actor, id uuid.UUID) (*model.CommentResponse, error) {
	// Step 1: authenticate
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}

	// Step 2: load and authorize
	comment, err := s.authorize(ctx, actor, id, policy.OperationDelete)
	if err != nil {
		return nil, err
	}

	// Step 3: apply
	comment.MarkDeleted(actor.ID, s.now())
	if err := s.repo.SoftDelete(ctx, comment); err != nil {
		return nil, s.writeError("delete comment", id, policy.OperationDelete, err)
	}

	log.Info().Str("comment_id", id.String()).Str("actor_id", actor.ID.String()).Msg("Comment deleted")

	s.recordModeration(ctx, policy.OperationDelete, comment, actor)

	res := model.NewCommentResponse(comment, actor)
	return &res, nil
}

// =====================================================
// READS
// =====================================================

func (s *commentService) ListByPost(ctx context.Context, viewer *policy.Actor, postID uuid.UUID, limit, offset int) (*model.ListCommentsResponse, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !policy.IsVisible(&post.Lifecycle, viewer) {
		return nil, postNotFound(postID)
	}

	return s.list(ctx, viewer, repository.ListFilter{PostID: postID}, limit, offset)
}

func (s *commentService) ListReplies(ctx context.Context, viewer *policy.Actor, commentID uuid.UUID, limit, offset int) (*model.ListCommentsResponse, error) {
	parent, err := s.load(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !policy.IsVisible(&parent.Lifecycle, viewer) {
		return nil, commentNotFound(commentID)
	}

	// replies under a hidden post are hidden with it
	post, err := s.loadPost(ctx, parent.PostID)
	if err != nil {
		return nil, err
	}
	if !policy.IsVisible(&post.Lifecycle, viewer) {
		return nil, commentNotFound(commentID)
	}

	return s.list(ctx, viewer, repository.ListFilter{
		PostID:          parent.PostID,
		ParentCommentID: &parent.ID,
	}, limit, offset)
}

func (s *commentService) list(ctx context.Context, viewer *policy.Actor, filter repository.ListFilter, limit, offset int) (*model.ListCommentsResponse, error) {
	filter.Visibility = policy.VisibilityFor(viewer)
	filter.Page = policy.ClampPage(limit, offset)

	comments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.internal("list comments", err)
	}

	return &model.ListCommentsResponse{
		Comments:   model.NewCommentResponses(comments, viewer),
		Pagination: policy.NewPagination(filter.Page, total),
	}, nil
}

// =====================================================
// HELPERS
// =====================================================

// authorize loads the comment and its post and runs the mutation checks:
// NotFound, then PreconditionFailed for a deleted post or comment, then
// PermissionDenied.
func (s *commentService) authorize(ctx context.Context, actor *policy.Actor, id uuid.UUID, op policy.Operation) (*model.Comment, error) {
	comment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	post, err := s.loadPost(ctx, comment.PostID)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted {
		return nil, postPrecondition(fmt.Sprintf("Cannot %s comment on deleted post", op), post.ID)
	}

	if err := policy.AuthorizeMutation(policy.ResourceComment, op, id.String(), &comment.Lifecycle, actor); err != nil {
		return nil, err
	}
	return comment, nil
}

func checkParent(parent *model.Comment, postID uuid.UUID) error {
	ref := apperror.Resource{Type: string(policy.ResourceComment), ID: parent.ID.String()}

	switch {
	case parent.IsDeleted:
		return apperror.PreconditionFailed("Cannot reply to deleted comment", ref)
	case parent.PostID != postID:
		return apperror.PreconditionFailed("Parent comment belongs to a different post", ref)
	case parent.IsReply():
		return apperror.PreconditionFailed("Cannot reply to a reply", ref)
	}
	return nil
}

func (s *commentService) load(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			return nil, commentNotFound(id)
		}
		return nil, s.internal("get comment", err)
	}
	return comment, nil
}

func (s *commentService) loadPost(ctx context.Context, id uuid.UUID) (*postmodel.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postmodel.ErrPostNotFound) {
			return nil, postNotFound(id)
		}
		return nil, s.internal("get post", err)
	}
	return post, nil
}

// createError maps the repository's in-transaction re-checks.
func (s *commentService) createError(comment *model.Comment, err error) error {
	switch {
	case errors.Is(err, model.ErrPostUnavailable):
		return postPrecondition("Cannot comment on deleted post", comment.PostID)
	case errors.Is(err, model.ErrCommentNotFound) && comment.ParentCommentID != nil:
		return commentNotFound(*comment.ParentCommentID)
	case errors.Is(err, model.ErrCommentDeleted) && comment.ParentCommentID != nil:
		return apperror.PreconditionFailed("Cannot reply to deleted comment",
			apperror.Resource{Type: string(policy.ResourceComment), ID: comment.ParentCommentID.String()})
	}
	return s.internal("create comment", err)
}

func (s *commentService) writeError(action string, id uuid.UUID, op policy.Operation, err error) error {
	switch {
	case errors.Is(err, model.ErrCommentNotFound):
		return commentNotFound(id)
	case errors.Is(err, model.ErrCommentDeleted):
		return apperror.PreconditionFailed(
			fmt.Sprintf("Cannot %s deleted comment", op),
			apperror.Resource{Type: string(policy.ResourceComment), ID: id.String()},
		)
	}
	return s.internal(action, err)
}

func (s *commentService) recordModeration(ctx context.Context, op policy.Operation, comment *model.Comment, actor *policy.Actor) {
	if !policy.IsModeratorAction(&comment.Lifecycle, actor) {
		return
	}

	event := moderation.NewEvent(op, policy.ResourceComment, comment.ID, &comment.Lifecycle, actor, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("comment_id", comment.ID.String()).
			Str("actor_id", actor.ID.String()).
			Msg("Failed to publish moderation event")
		return
	}

	log.Info().
		Str("comment_id", comment.ID.String()).
		Str("actor_id", actor.ID.String()).
		Str("action", string(op)).
		Msg("Moderator action on comment")
}

func (s *commentService) internal(action string, err error) error {
	log.Error().Err(err).Str("action", action).Msg("Comment repository failure")
	return apperror.Internal("Internal server error", fmt.Errorf("%s: %w", action, err))
}

func commentNotFound(id uuid.UUID) error {
	return apperror.NotFound("Comment not found", apperror.Resource{Type: string(policy.ResourceComment), ID: id.String()})
}

func postNotFound(id uuid.UUID) error {
	return apperror.NotFound("Post not found", apperror.Resource{Type: string(policy.ResourcePost), ID: id.String()})
}

func postPrecondition(message string, id uuid.UUID) error {
	return apperror.PreconditionFailed(message, apperror.Resource{Type: string(policy.ResourcePost), ID: id.String()})
}
