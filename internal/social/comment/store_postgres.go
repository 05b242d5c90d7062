// Copyright (c) 2026 Triply. All rights reserved.

package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/platform/dberr"
	"github.com/triply-app/triply/internal/social"
)

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed comment store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// Create persists a new comment row.
func (repository *postgresRepository) Create(ctx context.Context, comment *Comment) error {
	const query = `
		INSERT INTO social.comments (author_id, target_type, target_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id`

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	err := repository.pool.QueryRow(ctx, query,
		comment.AuthorID,
		comment.TargetType,
		comment.TargetID,
		comment.Content,
		now,
	).Scan(&comment.ID)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_comment_create_failed: %w", err), "create comment")
	}

	return nil
}

// FindByID returns one comment joined with its author's nickname.
func (repository *postgresRepository) FindByID(ctx context.Context, id int64) (*Comment, error) {
	const query = `
		SELECT c.id, c.author_id, a.nickname, c.target_type, c.target_id, c.content, c.created_at, c.updated_at
		FROM social.comments c
		JOIN users.account a ON a.login_id = c.author_id
		WHERE c.id = $1`

	comment := &Comment{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.AuthorID,
		&comment.AuthorNickname,
		&comment.TargetType,
		&comment.TargetID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_find_failed: %w", err)
	}

	return comment, nil
}

// ListByTarget returns a page of comments on one target, newest first.
func (repository *postgresRepository) ListByTarget(ctx context.Context, targetType social.TargetType, targetID int64, limit, offset int) ([]*Comment, int, error) {
	const query = `
		SELECT c.id, c.author_id, a.nickname, c.target_type, c.target_id, c.content, c.created_at, c.updated_at,
			COUNT(*) OVER() AS total_count
		FROM social.comments c
		JOIN users.account a ON a.login_id = c.author_id
		WHERE c.target_type = $1 AND c.target_id = $2
		ORDER BY c.created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := repository.pool.Query(ctx, query, targetType, targetID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_list_failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	total := 0

	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.AuthorID,
			&comment.AuthorNickname,
			&comment.TargetType,
			&comment.TargetID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_rows_failed: %w", err)
	}

	return comments, total, nil
}

// ListByAuthor returns a page of one traveller's comments, newest first.
func (repository *postgresRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*Comment, int, error) {
	const query = `
		SELECT c.id, c.author_id, a.nickname, c.target_type, c.target_id, c.content, c.created_at, c.updated_at,
			COUNT(*) OVER() AS total_count
		FROM social.comments c
		JOIN users.account a ON a.login_id = c.author_id
		WHERE c.author_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, query, authorID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_list_by_author_failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	total := 0

	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.AuthorID,
			&comment.AuthorNickname,
			&comment.TargetType,
			&comment.TargetID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_rows_failed: %w", err)
	}

	return comments, total, nil
}

// Update rewrites the content of an existing comment.
func (repository *postgresRepository) Update(ctx context.Context, comment *Comment) error {
	const query = `
		UPDATE social.comments
		SET content = $2, updated_at = $3
		WHERE id = $1`

	comment.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(ctx, query, comment.ID, comment.Content, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_comment_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

// Delete removes a comment row.
func (repository *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := repository.pool.Exec(ctx, `DELETE FROM social.comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres_comment_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}
