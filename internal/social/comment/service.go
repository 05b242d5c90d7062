// Copyright (c) 2026 Triply. All rights reserved.

package comment

import (
	"context"
	"log/slog"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/platform/validate"
	"github.com/triply-app/triply/internal/social"
)

// Service orchestrates the comment use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateInput carries a new comment payload.
type CreateInput struct {
	TargetType social.TargetType
	TargetID   int64
	Content    string
}

// Create validates and persists a comment authored by authorID.
func (service *Service) Create(context context.Context, authorID string, input CreateInput) (*Comment, error) {
	validator := &validate.Validator{}
	validator.
		Custom("target_type", !input.TargetType.Valid(), "Must be 'destination' or 'schedule'").
		Custom("target_id", input.TargetID <= 0, "A target reference is required").
		Required("content", input.Content).
		MaxLen("content", input.Content, MaxContentLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		AuthorID:   authorID,
		TargetType: input.TargetType,
		TargetID:   input.TargetID,
		Content:    input.Content,
	}

	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListByTarget returns a page of comments on one target, newest first.
func (service *Service) ListByTarget(context context.Context, targetType social.TargetType, targetID int64, limit, offset int) ([]*Comment, int, error) {
	if !targetType.Valid() {
		return nil, 0, apperr.ValidationError("Unknown target type")
	}

	return service.repo.ListByTarget(context, targetType, targetID, limit, offset)
}

// ListMine returns a page of the caller's own comments across all targets.
func (service *Service) ListMine(context context.Context, authorID string, limit, offset int) ([]*Comment, int, error) {
	return service.repo.ListByAuthor(context, authorID, limit, offset)
}

// Update rewrites a comment's content. Only the author may edit it.
func (service *Service) Update(context context.Context, id int64, callerID, content string) (*Comment, error) {
	validator := &validate.Validator{}
	validator.
		Required("content", content).
		MaxLen("content", content, MaxContentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != callerID {
		return nil, apperr.Forbidden("Only the author can edit this comment")
	}

	comment.Content = content
	if err := service.repo.Update(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// Delete removes a comment. Only the author may delete it.
func (service *Service) Delete(context context.Context, id int64, callerID string) error {
	comment, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if comment.AuthorID != callerID {
		return apperr.Forbidden("Only the author can delete this comment")
	}

	return service.repo.Delete(context, id)
}
