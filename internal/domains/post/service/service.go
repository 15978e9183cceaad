package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	moderation "social-backend/internal/domains/moderation/model"
	"social-backend/internal/domains/post/model"
	"social-backend/internal/domains/post/repository"
	"social-backend/internal/shared/apperror"
	"social-backend/internal/shared/policy"
)

type postService struct {
	repo      repository.PostRepository
	comments  CommentCounter
	publisher moderation.Publisher
	now       func() time.Time
}

func NewPostService(repo repository.PostRepository, comments CommentCounter, publisher moderation.Publisher) ServiceInterface {
	return &postService{
		repo:      repo,
		comments:  comments,
		publisher: publisher,
		now:       time.Now,
	}
}

// =====================================================
// MUTATIONS
// =====================================================

func (s *postService) CreatePost(ctx context.Context, actor *policy.Actor, req model.CreatePostRequest) (*model.PostResponse, error) {
	// Step 1: authenticate, then validate
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.ValidationFailed(err)
	}

	// Step 2: persist
	post := &model.Post{
		ID:        uuid.New(),
		Content:   req.Content,
		Lifecycle: policy.NewLifecycle(actor.ID, s.now()),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, s.internal("create post", err)
	}

	log.Info().Str("post_id", post.ID.String()).Str("actor_id", actor.ID.String()).Msg("Post created")

	// Step 3: reload with the author resolved
	created, err := s.repo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, s.internal("reload post", err)
	}
	res := model.NewPostResponse(created, actor, 0)
	return &res, nil
}

func (s *postService) UpdatePost(ctx context.Context, actor *policy.Actor, id uuid.UUID, req model.UpdatePostRequest) (*model.PostResponse, error) {
	// Step 1: authenticate, then validate
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.ValidationFailed(err)
	}

	// Step 2: load and authorize (deleted before ownership)
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeMutation(policy.ResourcePost, policy.OperationEdit, id.String(), &post.Lifecycle, actor); err != nil {
		return nil, err
	}

	// Step 3: apply
	post.Content = req.Content
	post.MarkEdited(actor.ID, s.now())

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, s.writeError("update post", id, policy.OperationEdit, err)
	}

	s.recordModeration(ctx, policy.OperationEdit, post, actor)
	return s.single(ctx, post, actor)
}

func (s *postService) DeletePost(ctx context.Context, actor *policy.Actor, id uuid.UUID) (*model.PostResponse, error) {
	// Step 1: authenticate
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}

	// Step 2: load and authorize
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeMutation(policy.ResourcePost, policy.OperationDelete, id.String(), &post.Lifecycle, actor); err != nil {
		return nil, err
	}

	// Step 3: apply
	post.MarkDeleted(actor.ID, s.now())
	if err := s.repo.SoftDelete(ctx, post); err != nil {
		return nil, s.writeError("delete post", id, policy.OperationDelete, err)
	}

	log.Info().Str("post_id", id.String()).Str("actor_id", actor.ID.String()).Msg("Post deleted")

	s.recordModeration(ctx, policy.OperationDelete, post, actor)
	return s.single(ctx, post, actor)
}

// =====================================================
// READS
// =====================================================

func (s *postService) GetPost(ctx context.Context, viewer *policy.Actor, id uuid.UUID) (*model.PostResponse, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.IsVisible(&post.Lifecycle, viewer) {
		return nil, notFound(id)
	}
	return s.single(ctx, post, viewer)
}

func (s *postService) GetTimeline(ctx context.Context, viewer *policy.Actor, limit, offset int) (*model.ListPostsResponse, error) {
	return s.list(ctx, viewer, nil, limit, offset)
}

func (s *postService) SearchPosts(ctx context.Context, viewer *policy.Actor, query string, limit, offset int) (*model.ListPostsResponse, error) {
	tokens := policy.ParseQuery(query)
	if len(tokens) == 0 {
		return nil, apperror.ValidationFailed(validation.Errors{
			"q": errors.New("search query is required"),
		})
	}
	return s.list(ctx, viewer, tokens, limit, offset)
}

func (s *postService) list(ctx context.Context, viewer *policy.Actor, tokens []string, limit, offset int) (*model.ListPostsResponse, error) {
	page := policy.ClampPage(limit, offset)

	posts, total, err := s.repo.List(ctx, repository.ListFilter{
		Visibility: policy.VisibilityFor(viewer),
		Query:      tokens,
		Page:       page,
	})
	if err != nil {
		return nil, s.internal("list posts", err)
	}

	items, err := s.render(ctx, posts, viewer)
	if err != nil {
		return nil, err
	}

	return &model.ListPostsResponse{
		Posts:      items,
		Pagination: policy.NewPagination(page, total),
	}, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *postService) load(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			return nil, notFound(id)
		}
		return nil, s.internal("get post", err)
	}
	return post, nil
}

func (s *postService) single(ctx context.Context, post *model.Post, viewer *policy.Actor) (*model.PostResponse, error) {
	items, err := s.render(ctx, []*model.Post{post}, viewer)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *postService) render(ctx context.Context, posts []*model.Post, viewer *policy.Actor) ([]model.PostResponse, error) {
	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	counts, err := s.comments.CountTopLevelByPostIDs(ctx, ids)
	if err != nil {
		return nil, s.internal("count comments", err)
	}

	items := make([]model.PostResponse, len(posts))
	for i, p := range posts {
		items[i] = model.NewPostResponse(p, viewer, counts[p.ID])
	}
	return items, nil
}

// writeError maps a guarded write that lost a race with a delete.
func (s *postService) writeError(action string, id uuid.UUID, op policy.Operation, err error) error {
	switch {
	case errors.Is(err, model.ErrPostNotFound):
		return notFound(id)
	case errors.Is(err, model.ErrPostDeleted):
		return apperror.PreconditionFailed(
			fmt.Sprintf("Cannot %s deleted post", op),
			apperror.Resource{Type: string(policy.ResourcePost), ID: id.String()},
		)
	}
	return s.internal(action, err)
}

// recordModeration publishes an audit event when the actor is not the author.
// Failures are logged; the mutation has already succeeded.
func (s *postService) recordModeration(ctx context.Context, op policy.Operation, post *model.Post, actor *policy.Actor) {
	if !policy.IsModeratorAction(&post.Lifecycle, actor) {
		return
	}

	event := moderation.NewEvent(op, policy.ResourcePost, post.ID, &post.Lifecycle, actor, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("post_id", post.ID.String()).
			Str("actor_id", actor.ID.String()).
			Msg("Failed to publish moderation event")
		return
	}

	log.Info().
		Str("post_id", post.ID.String()).
		Str("actor_id", actor.ID.String()).
		Str("action", string(op)).
		Msg("Moderator action on post")
}

func (s *postService) internal(action string, err error) error {
	log.Error().Err(err).Str("action", action).Msg("Post repository failure")
	return apperror.Internal("Internal server error", fmt.Errorf("%s: %w", action, err))
}

func notFound(id uuid.UUID) error {
	return apperror.NotFound("Post not found", apperror.Resource{Type: string(policy.ResourcePost), ID: id.String()})
}
