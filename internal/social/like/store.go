// Copyright (c) 2026 Triply. All rights reserved.

package like

import (
	"context"

	"github.com/triply-app/triply/internal/social"
)

// Repository defines the data access contract for likes.
type Repository interface {
	// Upsert writes the like state for (userID, target), creating the row
	// on first contact and flipping the flag afterwards. Idempotent: setting
	// an already-set state is a no-op.
	Upsert(ctx context.Context, like *Like) error

	// Find returns the like state, or [apperr.NotFound] if the traveller has
	// never interacted with this target.
	Find(ctx context.Context, userID string, targetType social.TargetType, targetID int64) (*Like, error)

	// ListActiveByUser returns a page of the traveller's active likes
	// (IsLiked = true only), newest first, with the total count.
	ListActiveByUser(ctx context.Context, userID string, limit, offset int) ([]*Like, int, error)
}
