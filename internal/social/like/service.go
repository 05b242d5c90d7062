// Copyright (c) 2026 Triply. All rights reserved.

package like

import (
	"context"
	"log/slog"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/platform/validate"
	"github.com/triply-app/triply/internal/social"
)

// Service orchestrates the like use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Set writes the like state for (userID, target). Idempotent: liking an
// already-liked target, or un-liking one never liked, succeeds and settles
// on the requested state.
func (service *Service) Set(context context.Context, userID string, targetType social.TargetType, targetID int64, liked bool) (*Like, error) {
	validator := &validate.Validator{}
	validator.
		Custom("target_type", !targetType.Valid(), "Must be 'destination' or 'schedule'").
		Custom("target_id", targetID <= 0, "A target reference is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	like := &Like{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
		IsLiked:    liked,
	}

	if err := service.repo.Upsert(context, like); err != nil {
		return nil, err
	}

	return like, nil
}

// Toggle flips the current like state and returns the new one.
// A target the traveller never touched toggles to liked.
func (service *Service) Toggle(context context.Context, userID string, targetType social.TargetType, targetID int64) (*Like, error) {
	current, err := service.repo.Find(context, userID, targetType, targetID)

	liked := true
	if err == nil {
		liked = !current.IsLiked
	} else if appError := apperr.As(err); appError == nil || appError.Code != "NOT_FOUND" {
		return nil, err
	}

	return service.Set(context, userID, targetType, targetID, liked)
}

// ListMine returns a page of the caller's active likes.
func (service *Service) ListMine(context context.Context, userID string, limit, offset int) ([]*Like, int, error) {
	return service.repo.ListActiveByUser(context, userID, limit, offset)
}
