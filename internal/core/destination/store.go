// Copyright (c) 2026 Triply. All rights reserved.

package destination

import "context"

// Repository defines the data access contract for the destination catalogue.
type Repository interface {
	// Search returns a filtered, paginated slice of destinations together
	// with the total match count for pagination metadata.
	//
	// viewerID personalises the IsLiked flag; pass the empty string for
	// anonymous requests.
	Search(ctx context.Context, filter Filter, viewerID string, limit, offset int) ([]*Destination, int, error)

	// FindByContentID returns a single destination with its social counters.
	//
	// Returns [apperr.NotFound] if the catalogue has no such entry.
	FindByContentID(ctx context.Context, contentID int64, viewerID string) (*Destination, error)

	// Ranking returns the top destinations ordered by active like count.
	Ranking(ctx context.Context, limit int) ([]*RankingEntry, error)

	// BatchUpsert inserts or refreshes catalogue rows from an import run.
	// Existing rows are matched on ContentID; social data is untouched.
	// It returns the number of rows written.
	BatchUpsert(ctx context.Context, destinations []*Destination) (int, error)
}

// RankingCache is the volatile store for the popularity leaderboard.
//
// A cache miss is signalled by a nil slice and nil error.
type RankingCache interface {
	Get(ctx context.Context, limit int) ([]*RankingEntry, error)
	Set(ctx context.Context, limit int, entries []*RankingEntry) error
	Invalidate(ctx context.Context) error
}
