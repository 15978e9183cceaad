package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"social-backend/internal/domains/post/model"
	"social-backend/internal/domains/user"
	"social-backend/internal/shared/policy"
)

type memoryPostRepository struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*model.Post
	order []uuid.UUID // insertion order, used as the tiebreak
	users user.Repository
}

// NewMemoryPostRepository resolves authors through users on every read.
func NewMemoryPostRepository(users user.Repository) PostRepository {
	return &memoryPostRepository{
		posts: make(map[uuid.UUID]*model.Post),
		users: users,
	}
}

func (r *memoryPostRepository) Create(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[post.ID]; exists {
		return fmt.Errorf("post %s already exists", post.ID)
	}

	stored := *post
	stored.Author = nil
	r.posts[post.ID] = &stored
	r.order = append(r.order, post.ID)
	return nil
}

func (r *memoryPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	r.mu.RLock()
	p, ok := r.posts[id]
	var copied model.Post
	if ok {
		copied = *p
	}
	r.mu.RUnlock()

	if !ok {
		return nil, model.ErrPostNotFound
	}

	if err := r.attachAuthors(ctx, []*model.Post{&copied}); err != nil {
		return nil, err
	}
	return &copied, nil
}

func (r *memoryPostRepository) Update(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[post.ID]
	if !ok {
		return model.ErrPostNotFound
	}
	if stored.IsDeleted {
		return model.ErrPostDeleted
	}

	stored.Content = post.Content
	stored.IsEdited = post.IsEdited
	stored.EditedAt = post.EditedAt
	stored.EditedBy = post.EditedBy
	stored.UpdatedAt = post.UpdatedAt
	return nil
}

func (r *memoryPostRepository) SoftDelete(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[post.ID]
	if !ok {
		return model.ErrPostNotFound
	}
	if stored.IsDeleted {
		return model.ErrPostDeleted
	}

	stored.IsDeleted = true
	stored.DeletedAt = post.DeletedAt
	stored.DeletedBy = post.DeletedBy
	stored.UpdatedAt = post.UpdatedAt
	return nil
}

func (r *memoryPostRepository) List(ctx context.Context, filter ListFilter) ([]*model.Post, int, error) {
	// Step 1: snapshot in insertion order
	r.mu.RLock()
	all := make([]*model.Post, 0, len(r.order))
	for _, id := range r.order {
		copied := *r.posts[id]
		all = append(all, &copied)
	}
	r.mu.RUnlock()

	// Step 2: authors are needed before filtering, search matches on them
	if err := r.attachAuthors(ctx, all); err != nil {
		return nil, 0, err
	}

	// Step 3: one filter for both page and total
	matched := make([]*model.Post, 0, len(all))
	for _, p := range all {
		if !filter.Visibility.Allows(&p.Lifecycle) {
			continue
		}
		if len(filter.Query) > 0 && !matchesPost(filter.Query, p) {
			continue
		}
		matched = append(matched, p)
	}

	// Step 4: newest first; stable keeps insertion order on ties
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	start, end := filter.Page.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func matchesPost(tokens []string, p *model.Post) bool {
	if p.Author == nil {
		return policy.MatchesQuery(tokens, p.Content)
	}
	return policy.MatchesQuery(tokens, p.Content, p.Author.Username, p.Author.FullName)
}

func (r *memoryPostRepository) attachAuthors(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(posts))
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}

	authors, err := r.users.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve post authors: %w", err)
	}

	for _, p := range posts {
		if u, ok := authors[p.AuthorID]; ok {
			p.Author = u.AuthorInfo()
		}
	}
	return nil
}
