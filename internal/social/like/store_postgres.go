// Copyright (c) 2026 Triply. All rights reserved.

package like

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/social"
)

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed like store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// Upsert writes the like state, keyed on (user, target).
func (repository *postgresRepository) Upsert(ctx context.Context, like *Like) error {
	const query = `
		INSERT INTO social.likes (user_id, target_type, target_id, is_liked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, target_type, target_id) DO UPDATE SET
			is_liked = EXCLUDED.is_liked,
			updated_at = EXCLUDED.updated_at`

	like.UpdatedAt = time.Now()

	_, err := repository.pool.Exec(ctx, query,
		like.UserID,
		like.TargetType,
		like.TargetID,
		like.IsLiked,
		like.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_like_upsert_failed: %w", err)
	}

	return nil
}

// Find returns the like state for one (user, target) pair.
func (repository *postgresRepository) Find(ctx context.Context, userID string, targetType social.TargetType, targetID int64) (*Like, error) {
	const query = `
		SELECT user_id, target_type, target_id, is_liked, updated_at
		FROM social.likes
		WHERE user_id = $1 AND target_type = $2 AND target_id = $3`

	like := &Like{}
	err := repository.pool.QueryRow(ctx, query, userID, targetType, targetID).Scan(
		&like.UserID,
		&like.TargetType,
		&like.TargetID,
		&like.IsLiked,
		&like.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Like")
		}
		return nil, fmt.Errorf("postgres_like_find_failed: %w", err)
	}

	return like, nil
}

// ListActiveByUser returns the traveller's active likes, newest first.
// Rows whose flag was flipped off are excluded.
func (repository *postgresRepository) ListActiveByUser(ctx context.Context, userID string, limit, offset int) ([]*Like, int, error) {
	const query = `
		SELECT user_id, target_type, target_id, is_liked, updated_at,
			COUNT(*) OVER() AS total_count
		FROM social.likes
		WHERE user_id = $1 AND is_liked
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_like_list_failed: %w", err)
	}
	defer rows.Close()

	var likes []*Like
	total := 0

	for rows.Next() {
		like := &Like{}
		err := rows.Scan(
			&like.UserID,
			&like.TargetType,
			&like.TargetID,
			&like.IsLiked,
			&like.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_like_scan_failed: %w", err)
		}
		likes = append(likes, like)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_like_rows_failed: %w", err)
	}

	return likes, total, nil
}
