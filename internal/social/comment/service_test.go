// Copyright (c) 2026 Triply. All rights reserved.

package comment

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/social"
)

// memoryRepository is an in-memory [Repository] for service tests.
type memoryRepository struct {
	comments map[int64]*Comment
	nextID   int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{comments: make(map[int64]*Comment), nextID: 1}
}

func (repo *memoryRepository) Create(_ context.Context, comment *Comment) error {
	comment.ID = repo.nextID
	repo.nextID++
	clone := *comment
	repo.comments[comment.ID] = &clone
	return nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id int64) (*Comment, error) {
	comment, ok := repo.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	clone := *comment
	return &clone, nil
}

func (repo *memoryRepository) ListByTarget(_ context.Context, targetType social.TargetType, targetID int64, _, _ int) ([]*Comment, int, error) {
	var result []*Comment
	for _, comment := range repo.comments {
		if comment.TargetType == targetType && comment.TargetID == targetID {
			clone := *comment
			result = append(result, &clone)
		}
	}
	return result, len(result), nil
}

func (repo *memoryRepository) ListByAuthor(_ context.Context, authorID string, _, _ int) ([]*Comment, int, error) {
	var result []*Comment
	for _, comment := range repo.comments {
		if comment.AuthorID == authorID {
			clone := *comment
			result = append(result, &clone)
		}
	}
	return result, len(result), nil
}

func (repo *memoryRepository) Update(_ context.Context, comment *Comment) error {
	if _, ok := repo.comments[comment.ID]; !ok {
		return apperr.NotFound("Comment")
	}
	clone := *comment
	repo.comments[comment.ID] = &clone
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id int64) error {
	if _, ok := repo.comments[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(repo.comments, id)
	return nil
}

func TestService_Create(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	comment, err := service.Create(context.Background(), "alice", CreateInput{
		TargetType: social.TargetDestination,
		TargetID:   2501,
		Content:    "The sunrise here is unreal.",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", comment.AuthorID)
	assert.Equal(t, social.TargetDestination, comment.TargetType)
	assert.NotZero(t, comment.ID)
}

func TestService_Create_Validation(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"unknown target type", CreateInput{TargetType: "playlist", TargetID: 1, Content: "hi"}},
		{"missing target id", CreateInput{TargetType: social.TargetSchedule, Content: "hi"}},
		{"empty content", CreateInput{TargetType: social.TargetDestination, TargetID: 1}},
		{"oversized content", CreateInput{
			TargetType: social.TargetDestination,
			TargetID:   1,
			Content:    strings.Repeat("a", MaxContentLength+1),
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), "alice", tc.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

func TestService_ListMine(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	for _, seed := range []struct {
		author  string
		target  social.TargetType
		content string
	}{
		{"alice", social.TargetDestination, "Go at low tide."},
		{"alice", social.TargetSchedule, "Swap day 1 and day 2."},
		{"bob", social.TargetDestination, "Parking is impossible."},
	} {
		_, err := service.Create(context.Background(), seed.author, CreateInput{
			TargetType: seed.target,
			TargetID:   1,
			Content:    seed.content,
		})
		require.NoError(t, err)
	}

	comments, total, err := service.ListMine(context.Background(), "alice", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, comment := range comments {
		assert.Equal(t, "alice", comment.AuthorID)
	}
}

func TestService_Update_AuthorOnly(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	created, err := service.Create(context.Background(), "alice", CreateInput{
		TargetType: social.TargetSchedule,
		TargetID:   7,
		Content:    "Day 2 needs more food stops.",
	})
	require.NoError(t, err)

	_, err = service.Update(context.Background(), created.ID, "mallory", "defaced")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	updated, err := service.Update(context.Background(), created.ID, "alice", "Day 2 is perfect now.")
	require.NoError(t, err)
	assert.Equal(t, "Day 2 is perfect now.", updated.Content)
}

func TestService_Delete_AuthorOnly(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	created, err := service.Create(context.Background(), "alice", CreateInput{
		TargetType: social.TargetDestination,
		TargetID:   2501,
		Content:    "Crowded in the morning.",
	})
	require.NoError(t, err)

	err = service.Delete(context.Background(), created.ID, "mallory")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	require.NoError(t, service.Delete(context.Background(), created.ID, "alice"))

	err = service.Delete(context.Background(), created.ID, "alice")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
