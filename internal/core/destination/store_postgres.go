// Copyright (c) 2026 Triply. All rights reserved.

/*
PostgreSQL implementation of the destination catalogue.

It leans on a few Postgres features to keep discovery fast:
  - Window Functions: COUNT(*) OVER() returns the total match count without
    a second round-trip.
  - Scalar Subqueries: like and comment counters are aggregated inline,
    avoiding N+1 queries from the service layer.
  - Batch Writes: catalogue imports use pgx.Batch to upsert staged rows in
    a single network flush.
*/
package destination

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triply-app/triply/internal/platform/apperr"
)

const destinationColumns = `
			d.content_id, d.title, d.address, d.address2, d.zipcode, d.tel, d.homepage,
			d.category_id, d.area_code, d.first_image, d.first_image2,
			d.map_x, d.map_y, d.overview, d.created_at, d.updated_at`

// likes only count while their flag is active; un-liking keeps the row.
const socialCounters = `
	(SELECT COUNT(*) FROM social.likes l
	  WHERE l.target_type = 'destination' AND l.target_id = d.content_id AND l.is_liked) AS like_count,
	(SELECT COUNT(*) FROM social.comments c
	  WHERE c.target_type = 'destination' AND c.target_id = d.content_id) AS comment_count,
	EXISTS (SELECT 1 FROM social.likes l
	  WHERE l.target_type = 'destination' AND l.target_id = d.content_id
	    AND l.user_id = $1 AND l.is_liked) AS is_liked`

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed destination store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

/*
Search returns a filtered, paginated slice of destinations and the total count.

Parameters:
  - context: context.Context
  - filter: Filter (category IDs, title substring)
  - viewerID: login ID used to personalise IsLiked ("" for anonymous)
  - limit, offset: pagination window

Returns:
  - []*Destination: Hydrated catalogue entries with social counters
  - int: Total count matching the filter
  - error: Database execution errors
*/
func (repository *postgresRepository) Search(context context.Context, filter Filter, viewerID string, limit, offset int) ([]*Destination, int, error) {

	var queryBuilder strings.Builder
	args := []any{viewerID}
	argID := 2

	queryBuilder.WriteString(`
		SELECT
			` + destinationColumns + `,
			COUNT(*) OVER() AS total_count,` + socialCounters + `
		FROM core.destination d
		WHERE 1=1`)

	if len(filter.CategoryIDs) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND d.category_id = ANY($%d)", argID))
		args = append(args, filter.CategoryIDs)
		argID++
	}

	if filter.Title != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND d.title ILIKE $%d", argID))
		args = append(args, "%"+filter.Title+"%")
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY like_count DESC, d.title ASC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_destination_search_failed: %w", err)
	}
	defer rows.Close()

	var destinations []*Destination
	total := 0

	for rows.Next() {
		entry, totalCount, err := scanDestinationWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_destination_scan_failed: %w", err)
		}
		total = totalCount
		destinations = append(destinations, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_destination_rows_failed: %w", err)
	}

	return destinations, total, nil
}

// FindByContentID returns one destination with its social counters.
func (repository *postgresRepository) FindByContentID(context context.Context, contentID int64, viewerID string) (*Destination, error) {
	query := `
		SELECT
			` + destinationColumns + `,` +
		socialCounters + `
		FROM core.destination d
		WHERE d.content_id = $2`

	entry, err := scanDestination(repository.pool.QueryRow(context, query, viewerID, contentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Destination")
		}
		return nil, fmt.Errorf("postgres_destination_find_failed: %w", err)
	}

	return entry, nil
}

// Ranking returns the most-liked destinations in descending order.
func (repository *postgresRepository) Ranking(context context.Context, limit int) ([]*RankingEntry, error) {
	query := `
		SELECT
			` + destinationColumns + `,` +
		socialCounters + `
		FROM core.destination d
		ORDER BY like_count DESC, comment_count DESC, d.title ASC
		LIMIT $2`

	// Ranking is never personalised; the viewer slot stays empty.
	rows, err := repository.pool.Query(context, query, "", limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_destination_ranking_failed: %w", err)
	}
	defer rows.Close()

	var entries []*RankingEntry
	rank := 1

	for rows.Next() {
		entry, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_destination_ranking_scan_failed: %w", err)
		}
		entries = append(entries, &RankingEntry{Rank: rank, Destination: *entry})
		rank++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_destination_ranking_rows_failed: %w", err)
	}

	return entries, nil
}

// BatchUpsert writes an import batch in a single network flush.
func (repository *postgresRepository) BatchUpsert(context context.Context, destinations []*Destination) (int, error) {
	if len(destinations) == 0 {
		return 0, nil
	}

	const query = `
		INSERT INTO core.destination (
			content_id, title, address, address2, zipcode, tel, homepage,
			category_id, area_code, first_image, first_image2,
			map_x, map_y, overview, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)
		ON CONFLICT (content_id) DO UPDATE SET
			title = EXCLUDED.title,
			address = EXCLUDED.address,
			address2 = EXCLUDED.address2,
			zipcode = EXCLUDED.zipcode,
			tel = EXCLUDED.tel,
			homepage = CASE WHEN EXCLUDED.homepage <> '' THEN EXCLUDED.homepage ELSE core.destination.homepage END,
			category_id = EXCLUDED.category_id,
			area_code = EXCLUDED.area_code,
			first_image = EXCLUDED.first_image,
			first_image2 = EXCLUDED.first_image2,
			map_x = EXCLUDED.map_x,
			map_y = EXCLUDED.map_y,
			overview = CASE WHEN EXCLUDED.overview <> '' THEN EXCLUDED.overview ELSE core.destination.overview END,
			updated_at = EXCLUDED.updated_at`

	now := time.Now()
	batch := &pgx.Batch{}
	for _, entry := range destinations {
		batch.Queue(query,
			entry.ContentID,
			entry.Title,
			entry.Address,
			entry.Address2,
			entry.Zipcode,
			entry.Tel,
			entry.Homepage,
			entry.CategoryID,
			entry.AreaCode,
			entry.FirstImage,
			entry.FirstImage2,
			entry.MapX,
			entry.MapY,
			entry.Overview,
			now,
		)
	}

	results := repository.pool.SendBatch(context, batch)
	defer results.Close()

	written := 0
	for range destinations {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("postgres_destination_upsert_failed: %w", err)
		}
		written += int(tag.RowsAffected())
	}

	return written, nil
}

// # Row Scanning

// optionalColumns holds the nullable catalogue columns during a scan.
type optionalColumns struct {
	address     *string
	address2    *string
	zipcode     *string
	tel         *string
	homepage    *string
	firstImage  *string
	firstImage2 *string
	overview    *string
	mapX        *float64
	mapY        *float64
}

// apply copies every non-NULL column onto the entity.
func (columns *optionalColumns) apply(entry *Destination) {
	if columns.address != nil {
		entry.Address = *columns.address
	}
	if columns.address2 != nil {
		entry.Address2 = *columns.address2
	}
	if columns.zipcode != nil {
		entry.Zipcode = *columns.zipcode
	}
	if columns.tel != nil {
		entry.Tel = *columns.tel
	}
	if columns.homepage != nil {
		entry.Homepage = *columns.homepage
	}
	if columns.firstImage != nil {
		entry.FirstImage = *columns.firstImage
	}
	if columns.firstImage2 != nil {
		entry.FirstImage2 = *columns.firstImage2
	}
	if columns.overview != nil {
		entry.Overview = *columns.overview
	}
	if columns.mapX != nil {
		entry.MapX = *columns.mapX
	}
	if columns.mapY != nil {
		entry.MapY = *columns.mapY
	}
}

func scanDestination(row pgx.Row) (*Destination, error) {
	entry := &Destination{}
	optional := &optionalColumns{}

	err := row.Scan(
		&entry.ContentID,
		&entry.Title,
		&optional.address,
		&optional.address2,
		&optional.zipcode,
		&optional.tel,
		&optional.homepage,
		&entry.CategoryID,
		&entry.AreaCode,
		&optional.firstImage,
		&optional.firstImage2,
		&optional.mapX,
		&optional.mapY,
		&optional.overview,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&entry.LikeCount,
		&entry.CommentCount,
		&entry.IsLiked,
	)
	if err != nil {
		return nil, err
	}

	optional.apply(entry)
	return entry, nil
}

func scanDestinationWithTotal(rows pgx.Rows) (*Destination, int, error) {
	entry := &Destination{}
	optional := &optionalColumns{}
	total := 0

	err := rows.Scan(
		&entry.ContentID,
		&entry.Title,
		&optional.address,
		&optional.address2,
		&optional.zipcode,
		&optional.tel,
		&optional.homepage,
		&entry.CategoryID,
		&entry.AreaCode,
		&optional.firstImage,
		&optional.firstImage2,
		&optional.mapX,
		&optional.mapY,
		&optional.overview,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&total,
		&entry.LikeCount,
		&entry.CommentCount,
		&entry.IsLiked,
	)
	if err != nil {
		return nil, 0, err
	}

	optional.apply(entry)
	return entry, total, nil
}
