// Copyright (c) 2026 Triply. All rights reserved.

package like

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triply-app/triply/internal/platform/apperr"
	"github.com/triply-app/triply/internal/social"
)

type likeKey struct {
	userID     string
	targetType social.TargetType
	targetID   int64
}

// memoryRepository is an in-memory [Repository] for service tests.
type memoryRepository struct {
	likes map[likeKey]*Like
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{likes: make(map[likeKey]*Like)}
}

func (repo *memoryRepository) Upsert(_ context.Context, like *Like) error {
	clone := *like
	repo.likes[likeKey{like.UserID, like.TargetType, like.TargetID}] = &clone
	return nil
}

func (repo *memoryRepository) Find(_ context.Context, userID string, targetType social.TargetType, targetID int64) (*Like, error) {
	like, ok := repo.likes[likeKey{userID, targetType, targetID}]
	if !ok {
		return nil, apperr.NotFound("Like")
	}
	clone := *like
	return &clone, nil
}

func (repo *memoryRepository) ListActiveByUser(_ context.Context, userID string, _, _ int) ([]*Like, int, error) {
	var result []*Like
	for _, like := range repo.likes {
		if like.UserID == userID && like.IsLiked {
			clone := *like
			result = append(result, &clone)
		}
	}
	return result, len(result), nil
}

func TestService_Set_Idempotent(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	first, err := service.Set(context.Background(), "alice", social.TargetDestination, 2501, true)
	require.NoError(t, err)
	assert.True(t, first.IsLiked)

	// Liking the same target again settles on the same state.
	second, err := service.Set(context.Background(), "alice", social.TargetDestination, 2501, true)
	require.NoError(t, err)
	assert.True(t, second.IsLiked)

	// Un-liking something never liked also succeeds.
	third, err := service.Set(context.Background(), "alice", social.TargetSchedule, 99, false)
	require.NoError(t, err)
	assert.False(t, third.IsLiked)
}

func TestService_Set_RejectsUnknownTarget(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	_, err := service.Set(context.Background(), "alice", "playlist", 1, true)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestService_Toggle(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	// An untouched target toggles to liked.
	state, err := service.Toggle(context.Background(), "alice", social.TargetDestination, 2501)
	require.NoError(t, err)
	assert.True(t, state.IsLiked)

	// Toggling again flips it off; the row survives as un-liked.
	state, err = service.Toggle(context.Background(), "alice", social.TargetDestination, 2501)
	require.NoError(t, err)
	assert.False(t, state.IsLiked)

	// And back on.
	state, err = service.Toggle(context.Background(), "alice", social.TargetDestination, 2501)
	require.NoError(t, err)
	assert.True(t, state.IsLiked)
}

func TestService_ListMine_OnlyActiveLikes(t *testing.T) {
	service := NewService(newMemoryRepository(), slog.Default())

	_, err := service.Set(context.Background(), "alice", social.TargetDestination, 2501, true)
	require.NoError(t, err)
	_, err = service.Set(context.Background(), "alice", social.TargetDestination, 2502, true)
	require.NoError(t, err)
	_, err = service.Set(context.Background(), "alice", social.TargetSchedule, 7, true)
	require.NoError(t, err)

	// Un-like one destination; it must drop out of the list.
	_, err = service.Set(context.Background(), "alice", social.TargetDestination, 2502, false)
	require.NoError(t, err)

	likes, total, err := service.ListMine(context.Background(), "alice", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, like := range likes {
		assert.True(t, like.IsLiked)
		assert.NotEqual(t, int64(2502), like.TargetID)
	}
}
