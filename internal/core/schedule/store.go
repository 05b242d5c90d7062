// Copyright (c) 2026 Triply. All rights reserved.

package schedule

import "context"

// Repository defines the data access contract for trip schedules.
type Repository interface {
	// Create persists a schedule together with its details in one transaction.
	Create(ctx context.Context, schedule *Schedule) error

	// FindByID returns one schedule with its details and social counters.
	//
	// viewerID personalises the IsLiked flag; pass "" for anonymous.
	// Returns [apperr.NotFound] if no such schedule exists.
	FindByID(ctx context.Context, id int64, viewerID string) (*Schedule, error)

	// ListByOwner returns a page of schedules belonging to one traveller,
	// newest first, without details.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Schedule, int, error)

	// Update rewrites the schedule row and replaces its details wholesale
	// in one transaction. A torn update can never leave a schedule with a
	// mix of old and new stops.
	Update(ctx context.Context, schedule *Schedule) error

	// Delete removes the schedule; details go with it via cascade.
	//
	// Returns [apperr.NotFound] if no such schedule exists.
	Delete(ctx context.Context, id int64) error
}
