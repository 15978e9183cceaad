package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	moderation "social-backend/internal/domains/moderation/model"
	"social-backend/internal/domains/post/model"
	"social-backend/internal/domains/post/repository"
	"social-backend/internal/domains/user"
	userrepo "social-backend/internal/domains/user/repository"
	"social-backend/internal/shared/apperror"
	"social-backend/internal/shared/policy"
)

type recordingPublisher struct {
	events []*moderation.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event *moderation.Event) error {
	p.events = append(p.events, event)
	return p.err
}

type fakeCounter struct {
	counts map[uuid.UUID]int
}

func (f *fakeCounter) CountTopLevelByPostIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int)
	for _, id := range ids {
		if n, ok := f.counts[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type testEnv struct {
	svc     *postService
	repo    repository.PostRepository
	users   user.Repository
	pub     *recordingPublisher
	counter *fakeCounter
	clock   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := userrepo.NewMemoryRepository()
	repo := repository.NewMemoryPostRepository(users)
	env := &testEnv{
		repo:    repo,
		users:   users,
		pub:     &recordingPublisher{},
		counter: &fakeCounter{counts: map[uuid.UUID]int{}},
		clock:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	env.svc = NewPostService(repo, env.counter, env.pub).(*postService)
	env.svc.now = func() time.Time { return env.clock }
	return env
}

func (e *testEnv) tick() {
	e.clock = e.clock.Add(time.Minute)
}

func (e *testEnv) newActor(t *testing.T, username, fullName string, role policy.Role) *policy.Actor {
	t.Helper()
	u := &user.User{
		ID:        uuid.New(),
		Username:  username,
		FullName:  fullName,
		Initials:  strings.ToUpper(username[:1]),
		Role:      role,
		CreatedAt: e.clock,
		UpdatedAt: e.clock,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u.Actor()
}

func (e *testEnv) createPost(t *testing.T, actor *policy.Actor, content string) *model.PostResponse {
	t.Helper()
	res, err := e.svc.CreatePost(context.Background(), actor, model.CreatePostRequest{Content: content})
	require.NoError(t, err)
	return res
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newActor(t, "alice", "Alice Smith", policy.RoleUser)

	t.Run("anonymous is rejected before validation", func(t *testing.T) {
		_, err := env.svc.CreatePost(ctx, nil, model.CreatePostRequest{Content: ""})
		assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
	})

	t.Run("blank content", func(t *testing.T) {
		_, err := env.svc.CreatePost(ctx, alice, model.CreatePostRequest{Content: "   "})
		assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
	})

	t.Run("too long", func(t *testing.T) {
		_, err := env.svc.CreatePost(ctx, alice, model.CreatePostRequest{Content: strings.Repeat("é", model.MaxContentLength+1)})
		assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
	})

	t.Run("max length in runes is accepted", func(t *testing.T) {
		_, err := env.svc.CreatePost(ctx, alice, model.CreatePostRequest{Content: strings.Repeat("é", model.MaxContentLength)})
		assert.NoError(t, err)
	})

	t.Run("created", func(t *testing.T) {
		res := env.createPost(t, alice, "  hello world  ")
		assert.Equal(t, "hello world", res.Content)
		require.NotNil(t, res.Author)
		assert.Equal(t, "alice", res.Author.Username)
		assert.False(t, res.IsEdited)
		assert.Equal(t, policy.LabelNone, res.EditLabel)
		assert.Nil(t, res.Moderation)
	})
}

func TestUpdatePost_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newActor(t, "alice", "Alice", policy.RoleUser)
	bob := env.newActor(t, "bob", "Bob", policy.RoleUser)
	admin := env.newActor(t, "admin", "Admin", policy.RoleAdmin)

	post := env.createPost(t, alice, "original")
	req := model.UpdatePostRequest{Content: "changed"}

	_, err := env.svc.UpdatePost(ctx, bob, post.ID, req)
	assert.Equal(t, apperror.KindPermissionDenied, apperror.KindOf(err))
	assert.Equal(t, "You can only edit your own posts", apperror.As(err).Message)

	_, err = env.svc.UpdatePost(ctx, admin, post.ID, req)
	assert.Equal(t, apperror.KindPermissionDenied, apperror.KindOf(err))

	_, err = env.svc.UpdatePost(ctx, nil, post.ID, req)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	_, err = env.svc.UpdatePost(ctx, alice, uuid.New(), req)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	env.tick()
	res, err := env.svc.UpdatePost(ctx, alice, post.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "changed", res.Content)
	assert.True(t, res.IsEdited)
	assert.Equal(t, policy.LabelEdited, res.EditLabel)
	assert.False(t, res.EditedByAdmin)
	require.NotNil(t, res.EditedAt)
	assert.Equal(t, env.clock, *res.EditedAt)
	assert.Empty(t, env.pub.events)
}

func TestUpdatePost_DeletedIsPrecondition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newActor(t, "alice", "Alice", policy.RoleUser)
	bob := env.newActor(t, "bob", "Bob", policy.RoleUser)

	post := env.createPost(t, alice, "original")
	_, err := env.svc.DeletePost(ctx, alice, post.ID)
	require.NoError(t, err)

	_, err = env.svc.UpdatePost(ctx, alice, post.ID, model.UpdatePostRequest{Content: "again"})
	assert.Equal(t, apperror.KindPreconditionFailed, apperror.KindOf(err))
	assert.Equal(t, "Cannot edit deleted post", apperror.As(err).Message)

	// precondition is reported before ownership
	_, err = env.svc.UpdatePost(ctx, bob, post.ID, model.UpdatePostRequest{Content: "again"})
	assert.Equal(t, apperror.KindPreconditionFailed, apperror.KindOf(err))

	// validation is reported before precondition
	_, err = env.svc.UpdatePost(ctx, alice, post.ID, model.UpdatePostRequest{Content: ""})
	assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newActor(t, "alice", "Alice", policy.RoleUser)
	bob := env.newActor(t, "bob", "Bob", policy.RoleUser)
	admin := env.newActor(t, "admin", "Admin", policy.RoleAdmin)

	post := env.createPost(t, bob, "bob's post")

	_, err := env.svc.DeletePost(ctx, alice, post.ID)
	assert.Equal(t, apperror.KindPermissionDenied, apperror.KindOf(err))
	assert.Equal(t, "You can only delete your own posts", apperror.As(err).Message)

	env.tick()
	res, err := env.svc.DeletePost(ctx, admin, post.ID)
	require.NoError(t, err)
	assert.True(t, res.IsDeleted)
	require.NotNil(t, res.Moderation)
	require.NotNil(t, res.Moderation.DeletedBy)
	assert.Equal(t, admin.ID, *res.Moderation.DeletedBy)
	assert.Equal(t, env.clock, *res.Moderation.DeletedAt)

	require.Len(t, env.pub.events, 1)
	event := env.pub.events[0]
	assert.Equal(t, policy.OperationDelete, event.Action)
	assert.Equal(t, policy.ResourcePost, event.ResourceType)
	assert.Equal(t, post.ID, event.ResourceID)
	assert.Equal(t, bob.ID, event.AuthorID)
	assert.Equal(t, admin.ID, event.ModeratorID)

	// deletion is terminal
	_, err = env.svc.DeletePost(ctx, bob, post.ID)
	assert.Equal(t, apperror.KindPreconditionFailed, apperror.KindOf(err))
	_, err = env.svc.DeletePost(ctx, admin, post.ID)
	assert.Equal(t, apperror.KindPreconditionFailed, apperror.KindOf(err))

	stored, err := env.repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.Equal(t, admin.ID, *stored.DeletedBy)
}

func TestDeletePost_PublishFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.pub.err = errors.New("queue down")
	bob := env.newActor(t, "bob", "Bob", policy.RoleUser)
	admin := env.newActor(t, "admin", "Admin", policy.RoleAdmin)

	post := env.createPost(t, bob, "bob's post")
	res, err := env.svc.DeletePost(context.Background(), admin, post.ID)
	require.NoError(t, err)
	assert.True(t, res.IsDeleted)
}

func TestGetPost_Visibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newActor(t, "alice", "Alice", policy.RoleUser)
	admin := env.newActor(t, "admin", "Admin", policy.RoleAdmin)

	post := env.createPost(t, alice, "soon gone")
	_, err := env.svc.DeletePost(ctx, alice, post.ID)
	require.NoError(t, err)

	// no author override
	_, err = env.svc.GetPost(ctx, alice, post.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	_, err = env.svc.GetPost(ctx, nil, post.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	res, err := env.svc.GetPost(ctx, admin, post.ID)
	require.NoError(t, err)
	assert.True(t, res.IsDeleted)
	require.NotNil(t, res.Moderation)
	assert.Equal(t, alice.ID, *res.Moderation.DeletedBy)
}

func TestGetPost_EditedByAdminLabel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newActor(t, "alice", "Alice", policy.RoleUser)
	admin := env.newActor(t, "admin", "Admin", policy.RoleAdmin)

	created := env.createPost(t, alice, "original")

	// stored state written by a moderator
	post, err := env.repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	post.Content = "moderated"
	post.MarkEdited(admin.ID, env.clock)
	require.NoError(t, env.repo.Update(ctx, post))

	res, err := env.svc.GetPost(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, policy.LabelEditedByAdmin, res.EditLabel)
	assert.True(t, res.EditedByAdmin)
	assert.Equal(t, alice.ID, res.Author.ID)
	assert.Nil(t, res.Moderation, "moderator identity is hidden from users")

	res, err = env.svc.GetPost(ctx, admin, created.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Moderation)
	assert.Equal(t, admin.ID, *res.Moderation.EditedBy)
}

func TestGetTimeline_OrderingAndPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newActor(t, "alice", "Alice", policy.RoleUser)
	admin := env.newActor(t, "admin", "Admin", policy.RoleAdmin)

	first := env.createPost(t, alice, "first")
	env.tick()
	tieA := env.createPost(t, alice, "tie a")
	tieB := env.createPost(t, alice, "tie b")
	env.tick()
	latest := env.createPost(t, alice, "latest")

	res, err := env.svc.GetTimeline(ctx, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, res.Posts, 4)
	assert.Equal(t, latest.ID, res.Posts[0].ID)
	assert.Equal(t, tieA.ID, res.Posts[1].ID, "ties keep insertion order")
	assert.Equal(t, tieB.ID, res.Posts[2].ID)
	assert.Equal(t, first.ID, res.Posts[3].ID)
	assert.Equal(t, policy.Pagination{Limit: 10, Offset: 0, Total: 4}, res.Pagination)

	_, err = env.svc.DeletePost(ctx, alice, tieA.ID)
	require.NoError(t, err)

	res, err = env.svc.GetTimeline(ctx, alice, 10, 0)
	require.NoError(t, err)
	assert.Len(t, res.Posts, 3)
	assert.Equal(t, 3, res.Pagination.Total)

	res, err = env.svc.GetTimeline(ctx, admin, 10, 0)
	require.NoError(t, err)
	assert.Len(t, res.Posts, 4)
	assert.Equal(t, 4, res.Pagination.Total)

	t.Run("clamped", func(t *testing.T) {
		res, err := env.svc.GetTimeline(ctx, nil, 0, -5)
		require.NoError(t, err)
		assert.Len(t, res.Posts, 1)
		assert.Equal(t, policy.Pagination{Limit: 1, Offset: 0, Total: 3}, res.Pagination)

		res, err = env.svc.GetTimeline(ctx, nil, 1000, 2)
		require.NoError(t, err)
		assert.Len(t, res.Posts, 1)
		assert.Equal(t, policy.MaxLimit, res.Pagination.Limit)
	})

	t.Run("offset past the end", func(t *testing.T) {
		res, err := env.svc.GetTimeline(ctx, nil, 10, 50)
		require.NoError(t, err)
		assert.Empty(t, res.Posts)
		assert.Equal(t, 3, res.Pagination.Total)
	})
}

func TestGetTimeline_CommentsCount(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newActor(t, "alice", "Alice", policy.RoleUser)

	post := env.createPost(t, alice, "popular")
	env.counter.counts[post.ID] = 7

	res, err := env.svc.GetTimeline(context.Background(), nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, 7, res.Posts[0].CommentsCount)
}

func TestSearchPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newActor(t, "alice", "Alice Smith", policy.RoleUser)
	bob := env.newActor(t, "bob", "Bob Jones", policy.RoleUser)
	admin := env.newActor(t, "admin", "Admin", policy.RoleAdmin)

	techPost := env.createPost(t, alice, "Technology news today")
	env.tick()
	deleted := env.createPost(t, bob, "More technology, deleted later")
	env.tick()
	env.createPost(t, bob, "Gardening tips")

	_, err := env.svc.DeletePost(ctx, bob, deleted.ID)
	require.NoError(t, err)

	t.Run("empty query", func(t *testing.T) {
		_, err := env.svc.SearchPosts(ctx, nil, "  ?! ", 10, 0)
		assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
	})

	t.Run("deleted matches are hidden from users", func(t *testing.T) {
		res, err := env.svc.SearchPosts(ctx, bob, "TECHNOLOGY", 10, 0)
		require.NoError(t, err)
		require.Len(t, res.Posts, 1)
		assert.Equal(t, techPost.ID, res.Posts[0].ID)
		assert.Equal(t, 1, res.Pagination.Total)
	})

	t.Run("admins see deleted matches", func(t *testing.T) {
		res, err := env.svc.SearchPosts(ctx, admin, "technology", 10, 0)
		require.NoError(t, err)
		assert.Len(t, res.Posts, 2)
		assert.Equal(t, 2, res.Pagination.Total)
	})

	t.Run("all tokens must match", func(t *testing.T) {
		res, err := env.svc.SearchPosts(ctx, nil, "technology gardening", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, res.Posts)
	})

	t.Run("author identity", func(t *testing.T) {
		res, err := env.svc.SearchPosts(ctx, nil, "jones", 10, 0)
		require.NoError(t, err)
		require.Len(t, res.Posts, 1)
		assert.Equal(t, "Gardening tips", res.Posts[0].Content)
	})
}
