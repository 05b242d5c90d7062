// Copyright (c) 2026 Triply. All rights reserved.

package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/platform/validate"
	"github.com/triply-app/triply/pkg/slice"
	"github.com/triply-app/triply/pkg/slug"
)

// # Service Layer

// Service orchestrates the trip schedule use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// DetailInput is one stop in a create or update payload.
type DetailInput struct {
	Day       int
	Sequence  int
	ContentID int64
	Memo      string
}

// Input carries the full schedule payload for create and update.
//
// Update semantics are wholesale: the details in the payload replace every
// existing stop. There is no per-stop patching.
type Input struct {
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Details   []DetailInput
}

// validateInput enforces the structural schedule rules.
func validateInput(input Input) error {
	validator := &validate.Validator{}
	validator.
		Required("title", input.Title).
		MaxLen("title", input.Title, 100).
		Custom("start_date", input.StartDate.IsZero(), "This field is required").
		Custom("end_date", input.EndDate.IsZero(), "This field is required").
		Custom("end_date", !input.EndDate.IsZero() && input.EndDate.Before(input.StartDate), "Must not be before start_date")

	tripDays := int(input.EndDate.Sub(input.StartDate).Hours()/24) + 1

	for i, detail := range input.Details {
		field := fmt.Sprintf("details[%d]", i)
		validator.
			Custom(field+".day", detail.Day < 1 || detail.Day > tripDays, "Day is outside the trip range").
			Custom(field+".sequence", detail.Sequence < 1, "Sequence must start at 1").
			Custom(field+".content_id", detail.ContentID <= 0, "A destination reference is required")
	}

	return validator.Err()
}

// buildSchedule assembles a schedule entity from a validated payload.
func buildSchedule(ownerID string, input Input) *Schedule {
	scheduleSlug := slug.From(input.Title)
	if scheduleSlug == "" {
		// Fully non-Latin titles slugify to nothing; fall back to a
		// date-based identifier.
		scheduleSlug = "trip-" + input.StartDate.Format("2006-01-02")
	}

	return &Schedule{
		OwnerID:   ownerID,
		Title:     input.Title,
		Slug:      scheduleSlug,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Details: slice.Map(input.Details, func(detail DetailInput) Detail {
			return Detail{
				Day:       detail.Day,
				Sequence:  detail.Sequence,
				ContentID: detail.ContentID,
				Memo:      detail.Memo,
			}
		}),
	}
}

// Create validates and persists a new schedule for ownerID.
func (service *Service) Create(context context.Context, ownerID string, input Input) (*Schedule, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	schedule := buildSchedule(ownerID, input)
	if err := service.repo.Create(context, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// Get returns one schedule with its stops and social counters.
func (service *Service) Get(context context.Context, id int64, viewerID string) (*Schedule, error) {
	return service.repo.FindByID(context, id, viewerID)
}

// ListMine returns a page of the caller's own schedules.
func (service *Service) ListMine(context context.Context, ownerID string, limit, offset int) ([]*Schedule, int, error) {
	return service.repo.ListByOwner(context, ownerID, limit, offset)
}

/*
Update replaces a schedule's content wholesale.

Description: The payload's details displace every existing stop in one
transaction. Only the owner may update a schedule.

Parameters:
  - context: context.Context
  - id: schedule ID
  - callerID: login ID of the requesting traveller
  - input: full replacement payload

Returns:
  - *Schedule: The updated schedule with its new stops
  - error: [apperr.NotFound], [apperr.Forbidden], validation errors
*/
func (service *Service) Update(context context.Context, id int64, callerID string, input Input) (*Schedule, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := service.repo.FindByID(context, id, "")
	if err != nil {
		return nil, err
	}

	if existing.OwnerID != callerID {
		return nil, apperr.Forbidden("Only the owner can modify this schedule")
	}

	schedule := buildSchedule(existing.OwnerID, input)
	schedule.ID = id
	schedule.CreatedAt = existing.CreatedAt

	if err := service.repo.Update(context, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// Delete removes a schedule. Only the owner may delete it.
func (service *Service) Delete(context context.Context, id int64, callerID string) error {
	existing, err := service.repo.FindByID(context, id, "")
	if err != nil {
		return err
	}

	if existing.OwnerID != callerID {
		return apperr.Forbidden("Only the owner can delete this schedule")
	}

	return service.repo.Delete(context, id)
}
