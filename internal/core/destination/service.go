// Copyright (c) 2026 Triply. All rights reserved.

package destination

import (
	"context"
	"log/slog"
)

// DefaultRankingSize is the leaderboard length served when the client does
// not ask for a specific size.
const DefaultRankingSize = 10

// MaxRankingSize caps leaderboard requests to keep cache cardinality low.
const MaxRankingSize = 50

// # Service Layer

// Service orchestrates catalogue discovery and the popularity leaderboard.
type Service struct {
	repo         Repository
	rankingCache RankingCache
	logger       *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, rankingCache RankingCache, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		rankingCache: rankingCache,
		logger:       logger,
	}
}

/*
Search retrieves a paginated, filtered collection of destinations.

Description: Filters are applied at the database level; every returned entry
carries its social counters and, when viewerID is set, a personalised IsLiked
flag.

Parameters:
  - context: context.Context
  - filter: Filter (category IDs, title substring)
  - viewerID: login ID of the requesting traveller ("" for anonymous)
  - limit, offset: pagination window

Returns:
  - []*Destination: Matching catalogue entries
  - int: Total count for pagination metadata
  - error: Repository level errors
*/
func (service *Service) Search(context context.Context, filter Filter, viewerID string, limit, offset int) ([]*Destination, int, error) {
	return service.repo.Search(context, filter, viewerID, limit, offset)
}

// Get fetches one destination by its open-data content ID.
//
// Returns [apperr.NotFound] if the catalogue has no such entry.
func (service *Service) Get(context context.Context, contentID int64, viewerID string) (*Destination, error) {
	return service.repo.FindByContentID(context, contentID, viewerID)
}

/*
Ranking returns the destination popularity leaderboard.

Description: Served cache-aside from Redis. On a miss the leaderboard is
computed in Postgres and written back with a short TTL. A cache failure is
logged and degrades to a direct database read; it never fails the request.

Parameters:
  - context: context.Context
  - size: requested leaderboard length (clamped to [1, MaxRankingSize])

Returns:
  - []*RankingEntry: Ordered leaderboard, best first
  - error: Repository level errors
*/
func (service *Service) Ranking(context context.Context, size int) ([]*RankingEntry, error) {
	if size <= 0 {
		size = DefaultRankingSize
	}
	if size > MaxRankingSize {
		size = MaxRankingSize
	}

	// 1. Cache lookup
	cached, err := service.rankingCache.Get(context, size)
	if err != nil {
		service.logger.Warn("destination_ranking_cache_read_failed", slog.Any("error", err))
	}
	if cached != nil {
		return cached, nil
	}

	// 2. Authoritative read
	entries, err := service.repo.Ranking(context, size)
	if err != nil {
		return nil, err
	}

	// 3. Write-back
	if err := service.rankingCache.Set(context, size, entries); err != nil {
		service.logger.Warn("destination_ranking_cache_write_failed", slog.Any("error", err))
	}

	return entries, nil
}

// ImportBatch persists an import batch and drops stale leaderboards.
// Called by the ingest pipeline, not exposed over HTTP directly.
func (service *Service) ImportBatch(context context.Context, destinations []*Destination) (int, error) {
	written, err := service.repo.BatchUpsert(context, destinations)
	if err != nil {
		return written, err
	}

	if err := service.rankingCache.Invalidate(context); err != nil {
		service.logger.Warn("destination_ranking_cache_invalidate_failed", slog.Any("error", err))
	}

	return written, nil
}
