package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"social-backend/internal/domains/comment/model"
	"social-backend/internal/domains/user"
)

type memoryCommentRepository struct {
	mu       sync.RWMutex
	comments map[uuid.UUID]*model.Comment
	order    []uuid.UUID
	users    user.Repository
}

// NewMemoryCommentRepository resolves authors through users on every read.
func NewMemoryCommentRepository(users user.Repository) CommentRepository {
	return &memoryCommentRepository{
		comments: make(map[uuid.UUID]*model.Comment),
		users:    users,
	}
}

func (r *memoryCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.comments[comment.ID]; exists {
		return fmt.Errorf("comment %s already exists", comment.ID)
	}
	if comment.ParentCommentID != nil {
		parent, ok := r.comments[*comment.ParentCommentID]
		if !ok {
			return model.ErrCommentNotFound
		}
		if parent.IsDeleted {
			return model.ErrCommentDeleted
		}
	}

	stored := *comment
	stored.Author = nil
	r.comments[comment.ID] = &stored
	r.order = append(r.order, comment.ID)
	return nil
}

func (r *memoryCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	r.mu.RLock()
	c, ok := r.comments[id]
	var copied model.Comment
	if ok {
		copied = *c
	}
	r.mu.RUnlock()

	if !ok {
		return nil, model.ErrCommentNotFound
	}

	if err := r.attachAuthors(ctx, []*model.Comment{&copied}); err != nil {
		return nil, err
	}
	return &copied, nil
}

func (r *memoryCommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.comments[comment.ID]
	if !ok {
		return model.ErrCommentNotFound
	}
	if stored.IsDeleted {
		return model.ErrCommentDeleted
	}

	stored.Content = comment.Content
	stored.IsEdited = comment.IsEdited
	stored.EditedAt = comment.EditedAt
	stored.EditedBy = comment.EditedBy
	stored.UpdatedAt = comment.UpdatedAt
	return nil
}

func (r *memoryCommentRepository) SoftDelete(ctx context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.comments[comment.ID]
	if !ok {
		return model.ErrCommentNotFound
	}
	if stored.IsDeleted {
		return model.ErrCommentDeleted
	}

	stored.IsDeleted = true
	stored.DeletedAt = comment.DeletedAt
	stored.DeletedBy = comment.DeletedBy
	stored.UpdatedAt = comment.UpdatedAt
	return nil
}

func (r *memoryCommentRepository) List(ctx context.Context, filter ListFilter) ([]*model.Comment, int, error) {
	// Step 1: filter in insertion order
	r.mu.RLock()
	matched := make([]*model.Comment, 0)
	for _, id := range r.order {
		c := r.comments[id]
		if !matchesFilter(c, filter) {
			continue
		}
		copied := *c
		matched = append(matched, &copied)
	}
	r.mu.RUnlock()

	// Step 2: newest first; stable keeps insertion order on ties
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	// Step 3: page, then resolve authors for the page only
	start, end := filter.Page.Window(len(matched))
	page := matched[start:end]
	if err := r.attachAuthors(ctx, page); err != nil {
		return nil, 0, err
	}
	return page, len(matched), nil
}

func matchesFilter(c *model.Comment, filter ListFilter) bool {
	if c.PostID != filter.PostID {
		return false
	}
	if filter.ParentCommentID == nil {
		if c.ParentCommentID != nil {
			return false
		}
	} else if c.ParentCommentID == nil || *c.ParentCommentID != *filter.ParentCommentID {
		return false
	}
	return filter.Visibility.Allows(&c.Lifecycle)
}

func (r *memoryCommentRepository) CountTopLevelByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	wanted := make(map[uuid.UUID]struct{}, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[uuid.UUID]int, len(postIDs))
	for _, c := range r.comments {
		if _, ok := wanted[c.PostID]; !ok {
			continue
		}
		if c.IsReply() || c.IsDeleted {
			continue
		}
		counts[c.PostID]++
	}
	return counts, nil
}

func (r *memoryCommentRepository) attachAuthors(ctx context.Context, comments []*model.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(comments))
	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.AuthorID]; ok {
			continue
		}
		seen[c.AuthorID] = struct{}{}
		ids = append(ids, c.AuthorID)
	}

	authors, err := r.users.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve comment authors: %w", err)
	}

	for _, c := range comments {
		if u, ok := authors[c.AuthorID]; ok {
			c.Author = u.AuthorInfo()
		}
	}
	return nil
}
