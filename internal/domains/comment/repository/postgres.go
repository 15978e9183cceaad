package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"social-backend/internal/domains/comment/model"
	"social-backend/internal/domains/user"
	"social-backend/internal/shared/utils"
	txdb "social-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresCommentRepository{pool: pool}
}

const commentSelect = `
	SELECT
		c.id, c.post_id, c.parent_comment_id, c.content, c.author_id,
		c.is_deleted, c.deleted_at, c.deleted_by,
		c.is_edited, c.edited_at, c.edited_by,
		c.created_at, c.updated_at,
		u.id, u.username, u.full_name, u.initials, u.role
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

func scanComment(row pgx.Row) (*model.Comment, error) {
	c := &model.Comment{}
	author := &user.AuthorInfo{}

	err := row.Scan(
		&c.ID,
		&c.PostID,
		&c.ParentCommentID,
		&c.Content,
		&c.AuthorID,
		&c.IsDeleted,
		&c.DeletedAt,
		&c.DeletedBy,
		&c.IsEdited,
		&c.EditedAt,
		&c.EditedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
		&author.ID,
		&author.Username,
		&author.FullName,
		&author.Initials,
		&author.Role,
	)
	if err != nil {
		return nil, err
	}

	c.Author = author
	return c, nil
}

// =====================================================
// CREATE
// =====================================================

// Create re-checks the post and parent under a shared row lock so a
// concurrent delete cannot slip in between the service check and the insert.
func (r *postgresCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return txdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Step 1: post must exist and not be deleted
		var postDeleted bool
		err := tx.QueryRow(ctx, `SELECT is_deleted FROM posts WHERE id = $1 FOR SHARE`, comment.PostID).Scan(&postDeleted)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrPostUnavailable
			}
			return fmt.Errorf("failed to lock post: %w", err)
		}
		if postDeleted {
			return model.ErrPostUnavailable
		}

		// Step 2: parent must exist and not be deleted
		if comment.ParentCommentID != nil {
			var parentDeleted bool
			err := tx.QueryRow(ctx, `SELECT is_deleted FROM comments WHERE id = $1 FOR SHARE`, *comment.ParentCommentID).Scan(&parentDeleted)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return model.ErrCommentNotFound
				}
				return fmt.Errorf("failed to lock parent comment: %w", err)
			}
			if parentDeleted {
				return model.ErrCommentDeleted
			}
		}

		// Step 3: insert
		query := `
			INSERT INTO comments (id, post_id, parent_comment_id, author_id, content, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err = tx.Exec(ctx, query,
			comment.ID,
			comment.PostID,
			comment.ParentCommentID,
			comment.AuthorID,
			comment.Content,
			comment.CreatedAt,
			comment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return nil
	})
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	query := commentSelect + ` WHERE c.id = $1`

	comment, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// =====================================================
// UPDATE / SOFT DELETE
// =====================================================

func (r *postgresCommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	query := `
		UPDATE comments
		SET content = $2, is_edited = $3, edited_at = $4, edited_by = $5, updated_at = $6
		WHERE id = $1 AND is_deleted = false
	`

	tag, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.Content,
		comment.IsEdited,
		comment.EditedAt,
		comment.EditedBy,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrDeleted(ctx, comment.ID)
	}
	return nil
}

func (r *postgresCommentRepository) SoftDelete(ctx context.Context, comment *model.Comment) error {
	query := `
		UPDATE comments
		SET is_deleted = true, deleted_at = $2, deleted_by = $3, updated_at = $4
		WHERE id = $1 AND is_deleted = false
	`

	tag, err := r.pool.Exec(ctx, query, comment.ID, comment.DeletedAt, comment.DeletedBy, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrDeleted(ctx, comment.ID)
	}
	return nil
}

func (r *postgresCommentRepository) missingOrDeleted(ctx context.Context, id uuid.UUID) error {
	var deleted bool
	err := r.pool.QueryRow(ctx, `SELECT is_deleted FROM comments WHERE id = $1`, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCommentNotFound
		}
		return fmt.Errorf("failed to check comment state: %w", err)
	}
	if deleted {
		return model.ErrCommentDeleted
	}
	return fmt.Errorf("comment %s was not updated", id)
}

// =====================================================
// LIST / COUNT
// =====================================================

func (r *postgresCommentRepository) List(ctx context.Context, filter ListFilter) ([]*model.Comment, int, error) {
	// Step 1: shared WHERE for page and total
	var where utils.WhereBuilder
	where.Add("c.post_id = ?", filter.PostID)
	if filter.ParentCommentID == nil {
		where.AddRaw("c.parent_comment_id IS NULL")
	} else {
		where.Add("c.parent_comment_id = ?", *filter.ParentCommentID)
	}
	if !filter.Visibility.IncludeDeleted {
		where.AddRaw("c.is_deleted = false")
	}

	// Step 2: total
	var total int
	countQuery := `SELECT COUNT(*) FROM comments c ` + where.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	// Step 3: page
	query := commentSelect + where.SQL() + ` ORDER BY c.created_at DESC, c.seq ASC`
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", where.Next(filter.Page.Limit), where.Next(filter.Page.Offset))

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0, filter.Page.Limit)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, total, nil
}

func (r *postgresCommentRepository) CountTopLevelByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT post_id, COUNT(*)
		FROM comments
		WHERE post_id = ANY($1) AND parent_comment_id IS NULL AND is_deleted = false
		GROUP BY post_id
	`

	rows, err := r.pool.Query(ctx, query, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var n int
		if err := rows.Scan(&postID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan comment count: %w", err)
		}
		counts[postID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comment counts: %w", err)
	}

	return counts, nil
}
