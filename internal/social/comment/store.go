// Copyright (c) 2026 Triply. All rights reserved.

package comment

import (
	"context"

	"github.com/triply-app/triply/internal/social"
)

// Repository defines the data access contract for comments.
type Repository interface {
	// Create persists a new comment.
	Create(ctx context.Context, comment *Comment) error

	// FindByID returns one comment.
	//
	// Returns [apperr.NotFound] if no such comment exists.
	FindByID(ctx context.Context, id int64) (*Comment, error)

	// ListByTarget returns a page of comments on one target, newest first,
	// together with the total count.
	ListByTarget(ctx context.Context, targetType social.TargetType, targetID int64, limit, offset int) ([]*Comment, int, error)

	// ListByAuthor returns a page of one traveller's comments across all
	// targets, newest first, together with the total count.
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*Comment, int, error)

	// Update rewrites the content of an existing comment.
	Update(ctx context.Context, comment *Comment) error

	// Delete removes a comment.
	//
	// Returns [apperr.NotFound] if no such comment exists.
	Delete(ctx context.Context, id int64) error
}
