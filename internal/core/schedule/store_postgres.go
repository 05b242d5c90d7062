// Copyright (c) 2026 Triply. All rights reserved.

package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/platform/dberr"
)

const scheduleSocialCounters = `
	(SELECT COUNT(*) FROM social.likes l
	  WHERE l.target_type = 'schedule' AND l.target_id = s.id AND l.is_liked) AS like_count,
	(SELECT COUNT(*) FROM social.comments c
	  WHERE c.target_type = 'schedule' AND c.target_id = s.id) AS comment_count,
	EXISTS (SELECT 1 FROM social.likes l
	  WHERE l.target_type = 'schedule' AND l.target_id = s.id
	    AND l.user_id = $1 AND l.is_liked) AS is_liked`

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed schedule store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// Create inserts the schedule row and its details in one transaction.
func (repository *postgresRepository) Create(ctx context.Context, schedule *Schedule) error {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres_schedule_begin_failed: %w", err)
	}
	defer transaction.Rollback(ctx)

	const insertSchedule = `
		INSERT INTO core.schedule (owner_id, title, slug, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id`

	now := time.Now()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	err = transaction.QueryRow(ctx, insertSchedule,
		schedule.OwnerID,
		schedule.Title,
		schedule.Slug,
		schedule.StartDate,
		schedule.EndDate,
		now,
	).Scan(&schedule.ID)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_schedule_create_failed: %w", err), "create schedule")
	}

	if err := insertDetails(ctx, transaction, schedule); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_schedule_commit_failed: %w", err)
	}

	return nil
}

// FindByID returns one schedule, hydrated with details and social counters.
func (repository *postgresRepository) FindByID(ctx context.Context, id int64, viewerID string) (*Schedule, error) {
	query := `
		SELECT s.id, s.owner_id, s.title, s.slug, s.start_date, s.end_date, s.created_at, s.updated_at,` +
		scheduleSocialCounters + `
		FROM core.schedule s
		WHERE s.id = $2`

	schedule := &Schedule{}
	err := repository.pool.QueryRow(ctx, query, viewerID, id).Scan(
		&schedule.ID,
		&schedule.OwnerID,
		&schedule.Title,
		&schedule.Slug,
		&schedule.StartDate,
		&schedule.EndDate,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
		&schedule.LikeCount,
		&schedule.CommentCount,
		&schedule.IsLiked,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Schedule")
		}
		return nil, fmt.Errorf("postgres_schedule_find_failed: %w", err)
	}

	const detailQuery = `
		SELECT id, schedule_id, day, sequence, content_id, memo
		FROM core.schedule_detail
		WHERE schedule_id = $1
		ORDER BY day ASC, sequence ASC`

	rows, err := repository.pool.Query(ctx, detailQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_schedule_details_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		detail := Detail{}
		var memo *string
		if err := rows.Scan(&detail.ID, &detail.ScheduleID, &detail.Day, &detail.Sequence, &detail.ContentID, &memo); err != nil {
			return nil, fmt.Errorf("postgres_schedule_detail_scan_failed: %w", err)
		}
		if memo != nil {
			detail.Memo = *memo
		}
		schedule.Details = append(schedule.Details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_schedule_detail_rows_failed: %w", err)
	}

	return schedule, nil
}

// ListByOwner returns a page of one traveller's schedules, newest first.
func (repository *postgresRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Schedule, int, error) {
	query := `
		SELECT s.id, s.owner_id, s.title, s.slug, s.start_date, s.end_date, s.created_at, s.updated_at,
			COUNT(*) OVER() AS total_count,` + scheduleSocialCounters + `
		FROM core.schedule s
		WHERE s.owner_id = $2
		ORDER BY s.created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := repository.pool.Query(ctx, query, ownerID, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_schedule_list_failed: %w", err)
	}
	defer rows.Close()

	var schedules []*Schedule
	total := 0

	for rows.Next() {
		schedule := &Schedule{}
		err := rows.Scan(
			&schedule.ID,
			&schedule.OwnerID,
			&schedule.Title,
			&schedule.Slug,
			&schedule.StartDate,
			&schedule.EndDate,
			&schedule.CreatedAt,
			&schedule.UpdatedAt,
			&total,
			&schedule.LikeCount,
			&schedule.CommentCount,
			&schedule.IsLiked,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_schedule_list_scan_failed: %w", err)
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_schedule_list_rows_failed: %w", err)
	}

	return schedules, total, nil
}

// Update rewrites the schedule row and replaces its details wholesale.
func (repository *postgresRepository) Update(ctx context.Context, schedule *Schedule) error {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres_schedule_begin_failed: %w", err)
	}
	defer transaction.Rollback(ctx)

	const updateSchedule = `
		UPDATE core.schedule
		SET title = $2, slug = $3, start_date = $4, end_date = $5, updated_at = $6
		WHERE id = $1`

	schedule.UpdatedAt = time.Now()

	tag, err := transaction.Exec(ctx, updateSchedule,
		schedule.ID,
		schedule.Title,
		schedule.Slug,
		schedule.StartDate,
		schedule.EndDate,
		schedule.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_schedule_update_failed: %w", err), "update schedule")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Schedule")
	}

	// Wholesale replacement: drop every old stop, then insert the new set.
	if _, err := transaction.Exec(ctx, `DELETE FROM core.schedule_detail WHERE schedule_id = $1`, schedule.ID); err != nil {
		return fmt.Errorf("postgres_schedule_detail_delete_failed: %w", err)
	}

	if err := insertDetails(ctx, transaction, schedule); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_schedule_commit_failed: %w", err)
	}

	return nil
}

// Delete removes the schedule row; details cascade.
func (repository *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := repository.pool.Exec(ctx, `DELETE FROM core.schedule WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_schedule_delete_failed: %w", err), "delete schedule")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Schedule")
	}

	return nil
}

// insertDetails writes the schedule's stops inside an open transaction.
func insertDetails(ctx context.Context, transaction pgx.Tx, schedule *Schedule) error {
	if len(schedule.Details) == 0 {
		return nil
	}

	const query = `
		INSERT INTO core.schedule_detail (schedule_id, day, sequence, content_id, memo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	for i := range schedule.Details {
		detail := &schedule.Details[i]
		detail.ScheduleID = schedule.ID

		var memo *string
		if detail.Memo != "" {
			memo = &detail.Memo
		}

		err := transaction.QueryRow(ctx, query,
			schedule.ID,
			detail.Day,
			detail.Sequence,
			detail.ContentID,
			memo,
		).Scan(&detail.ID)
		if err != nil {
			return dberr.Wrap(fmt.Errorf("postgres_schedule_detail_insert_failed: %w", err), "insert schedule detail")
		}
	}

	return nil
}
