package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"social-backend/internal/domains/post/model"
	"social-backend/internal/domains/user"
	"social-backend/internal/shared/utils"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresPostRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postgresPostRepository{pool: pool}
}

const postSelect = `
	SELECT
		p.id, p.content, p.author_id,
		p.is_deleted, p.deleted_at, p.deleted_by,
		p.is_edited, p.edited_at, p.edited_by,
		p.created_at, p.updated_at,
		u.id, u.username, u.full_name, u.initials, u.role
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

func scanPost(row pgx.Row) (*model.Post, error) {
	p := &model.Post{}
	author := &user.AuthorInfo{}

	err := row.Scan(
		&p.ID,
		&p.Content,
		&p.AuthorID,
		&p.IsDeleted,
		&p.DeletedAt,
		&p.DeletedBy,
		&p.IsEdited,
		&p.EditedAt,
		&p.EditedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
		&author.ID,
		&author.Username,
		&author.FullName,
		&author.Initials,
		&author.Role,
	)
	if err != nil {
		return nil, err
	}

	p.Author = author
	return p, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresPostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.AuthorID,
		post.Content,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	query := postSelect + ` WHERE p.id = $1`

	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// =====================================================
// UPDATE / SOFT DELETE
// =====================================================

func (r *postgresPostRepository) Update(ctx context.Context, post *model.Post) error {
	query := `
		UPDATE posts
		SET content = $2, is_edited = $3, edited_at = $4, edited_by = $5, updated_at = $6
		WHERE id = $1 AND is_deleted = false
	`

	tag, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Content,
		post.IsEdited,
		post.EditedAt,
		post.EditedBy,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrDeleted(ctx, post.ID)
	}
	return nil
}

func (r *postgresPostRepository) SoftDelete(ctx context.Context, post *model.Post) error {
	query := `
		UPDATE posts
		SET is_deleted = true, deleted_at = $2, deleted_by = $3, updated_at = $4
		WHERE id = $1 AND is_deleted = false
	`

	tag, err := r.pool.Exec(ctx, query, post.ID, post.DeletedAt, post.DeletedBy, post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrDeleted(ctx, post.ID)
	}
	return nil
}

// missingOrDeleted explains why a guarded write touched no rows.
func (r *postgresPostRepository) missingOrDeleted(ctx context.Context, id uuid.UUID) error {
	var deleted bool
	err := r.pool.QueryRow(ctx, `SELECT is_deleted FROM posts WHERE id = $1`, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrPostNotFound
		}
		return fmt.Errorf("failed to check post state: %w", err)
	}
	if deleted {
		return model.ErrPostDeleted
	}
	return fmt.Errorf("post %s was not updated", id)
}

// =====================================================
// LIST
// =====================================================

func (r *postgresPostRepository) List(ctx context.Context, filter ListFilter) ([]*model.Post, int, error) {
	// Step 1: shared WHERE for page and total
	var where utils.WhereBuilder
	if !filter.Visibility.IncludeDeleted {
		where.AddRaw("p.is_deleted = false")
	}
	if len(filter.Query) > 0 {
		where.Add(`(
			to_tsvector('simple', p.content) @@ plainto_tsquery('simple', ?)
			OR to_tsvector('simple', u.username || ' ' || u.full_name) @@ plainto_tsquery('simple', ?)
		)`, strings.Join(filter.Query, " "))
	}

	// Step 2: total
	countQuery := `SELECT COUNT(*) FROM posts p JOIN users u ON u.id = p.author_id ` + where.SQL()

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	// Step 3: page; seq breaks created_at ties in insertion order
	query := postSelect + where.SQL() + ` ORDER BY p.created_at DESC, p.seq ASC`
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", where.Next(filter.Page.Limit), where.Next(filter.Page.Offset))

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0, filter.Page.Limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, total, nil
}
