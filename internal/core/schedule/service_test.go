// Copyright (c) 2026 Triply. All rights reserved.

package schedule

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triply-app/triply/internal/platform/apperr"
)

// memoryRepository is an in-memory [Repository] for service tests.
type memoryRepository struct {
	schedules map[int64]*Schedule
	nextID    int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{schedules: make(map[int64]*Schedule), nextID: 1}
}

func (repo *memoryRepository) Create(_ context.Context, schedule *Schedule) error {
	schedule.ID = repo.nextID
	repo.nextID++
	clone := *schedule
	repo.schedules[schedule.ID] = &clone
	return nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id int64, _ string) (*Schedule, error) {
	schedule, ok := repo.schedules[id]
	if !ok {
		return nil, apperr.NotFound("Schedule")
	}
	clone := *schedule
	return &clone, nil
}

func (repo *memoryRepository) ListByOwner(_ context.Context, ownerID string, _, _ int) ([]*Schedule, int, error) {
	var result []*Schedule
	for _, schedule := range repo.schedules {
		if schedule.OwnerID == ownerID {
			clone := *schedule
			result = append(result, &clone)
		}
	}
	return result, len(result), nil
}

func (repo *memoryRepository) Update(_ context.Context, schedule *Schedule) error {
	if _, ok := repo.schedules[schedule.ID]; !ok {
		return apperr.NotFound("Schedule")
	}
	clone := *schedule
	repo.schedules[schedule.ID] = &clone
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id int64) error {
	if _, ok := repo.schedules[id]; !ok {
		return apperr.NotFound("Schedule")
	}
	delete(repo.schedules, id)
	return nil
}

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func jejuTrip() Input {
	return Input{
		Title:     "Jeju Olle Trail 3 Days",
		StartDate: date("2026-09-01"),
		EndDate:   date("2026-09-03"),
		Details: []DetailInput{
			{Day: 1, Sequence: 1, ContentID: 2501, Memo: "sunrise peak"},
			{Day: 1, Sequence: 2, ContentID: 2502},
			{Day: 3, Sequence: 1, ContentID: 2503},
		},
	}
}

func TestService_Create(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	schedule, err := service.Create(context.Background(), "alice", jejuTrip())

	require.NoError(t, err)
	assert.Equal(t, "alice", schedule.OwnerID)
	assert.Equal(t, "jeju-olle-trail-3-days", schedule.Slug)
	assert.Len(t, schedule.Details, 3)
}

func TestService_Create_NonLatinTitleFallsBackToDateSlug(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	input := jejuTrip()
	input.Title = "제주도 여행"

	schedule, err := service.Create(context.Background(), "alice", input)

	require.NoError(t, err)
	assert.Equal(t, "trip-2026-09-01", schedule.Slug)
}

func TestService_Create_Validation(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing title", func(input *Input) { input.Title = "" }},
		{"end before start", func(input *Input) { input.EndDate = date("2026-08-30") }},
		{"day outside trip", func(input *Input) { input.Details[0].Day = 9 }},
		{"zero sequence", func(input *Input) { input.Details[0].Sequence = 0 }},
		{"missing destination", func(input *Input) { input.Details[0].ContentID = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := jejuTrip()
			tc.mutate(&input)

			_, err := service.Create(context.Background(), "alice", input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

func TestService_Update_ReplacesDetailsWholesale(t *testing.T) {
	repo := newMemoryRepository()
	service := NewService(repo, slog.Default())

	created, err := service.Create(context.Background(), "alice", jejuTrip())
	require.NoError(t, err)

	replacement := Input{
		Title:     "Jeju Rainy Day Plan",
		StartDate: date("2026-09-01"),
		EndDate:   date("2026-09-03"),
		Details: []DetailInput{
			{Day: 2, Sequence: 1, ContentID: 2600, Memo: "museum"},
		},
	}

	updated, err := service.Update(context.Background(), created.ID, "alice", replacement)
	require.NoError(t, err)

	// The old three stops are gone; only the replacement remains.
	require.Len(t, updated.Details, 1)
	assert.Equal(t, int64(2600), updated.Details[0].ContentID)
	assert.Equal(t, "jeju-rainy-day-plan", updated.Slug)
}

func TestService_Update_RejectsNonOwner(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	created, err := service.Create(context.Background(), "alice", jejuTrip())
	require.NoError(t, err)

	_, err = service.Update(context.Background(), created.ID, "mallory", jejuTrip())
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestService_Delete(t *testing.T) {
	repo := newMemoryRepository()
	service := NewService(repo, slog.Default())

	created, err := service.Create(context.Background(), "alice", jejuTrip())
	require.NoError(t, err)

	// A stranger cannot delete it.
	err = service.Delete(context.Background(), created.ID, "mallory")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// The owner can.
	require.NoError(t, service.Delete(context.Background(), created.ID, "alice"))

	_, err = service.Get(context.Background(), created.ID, "")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
