package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"social-backend/internal/domains/moderation/model"
	"social-backend/internal/shared/policy"
)

type postgresEventRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresEventRepository(pool *pgxpool.Pool) EventRepository {
	return &postgresEventRepository{pool: pool}
}

func (r *postgresEventRepository) Record(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO moderation_events (id, action, resource_type, resource_id, author_id, moderator_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Action,
		event.ResourceType,
		event.ResourceID,
		event.AuthorID,
		event.ModeratorID,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record moderation event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) List(ctx context.Context, page policy.Page) ([]*model.Event, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM moderation_events`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count moderation events: %w", err)
	}

	query := `
		SELECT id, action, resource_type, resource_id, author_id, moderator_id, occurred_at
		FROM moderation_events
		ORDER BY occurred_at DESC, seq ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list moderation events: %w", err)
	}
	defer rows.Close()

	events := make([]*model.Event, 0, page.Limit)
	for rows.Next() {
		e := &model.Event{}
		if err := rows.Scan(
			&e.ID,
			&e.Action,
			&e.ResourceType,
			&e.ResourceID,
			&e.AuthorID,
			&e.ModeratorID,
			&e.OccurredAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan moderation event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate moderation events: %w", err)
	}

	return events, total, nil
}
