// Copyright (c) 2026 Triply. All rights reserved.

package destination

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	Repository

	rankingCalls int
	entries      []*RankingEntry
	upserted     []*Destination
}

func (stub *stubRepository) Ranking(_ context.Context, limit int) ([]*RankingEntry, error) {
	stub.rankingCalls++
	if limit < len(stub.entries) {
		return stub.entries[:limit], nil
	}
	return stub.entries, nil
}

func (stub *stubRepository) BatchUpsert(_ context.Context, destinations []*Destination) (int, error) {
	stub.upserted = append(stub.upserted, destinations...)
	return len(destinations), nil
}

type stubCache struct {
	store       map[int][]*RankingEntry
	failReads   bool
	invalidated int
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[int][]*RankingEntry)}
}

func (stub *stubCache) Get(_ context.Context, limit int) ([]*RankingEntry, error) {
	if stub.failReads {
		return nil, errors.New("cache down")
	}
	return stub.store[limit], nil
}

func (stub *stubCache) Set(_ context.Context, limit int, entries []*RankingEntry) error {
	stub.store[limit] = entries
	return nil
}

func (stub *stubCache) Invalidate(_ context.Context) error {
	stub.invalidated++
	stub.store = make(map[int][]*RankingEntry)
	return nil
}

func leaderboard(size int) []*RankingEntry {
	entries := make([]*RankingEntry, size)
	for i := range entries {
		entries[i] = &RankingEntry{
			Rank: i + 1,
			Destination: Destination{
				ContentID: int64(1000 + i),
				Title:     "Place",
				LikeCount: size - i,
			},
		}
	}
	return entries
}

func TestService_Ranking_CacheAside(t *testing.T) {
	repo := &stubRepository{entries: leaderboard(10)}
	cache := newStubCache()
	service := NewService(repo, cache, slog.Default())

	// First call misses the cache and hits the repository.
	first, err := service.Ranking(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assert.Equal(t, 1, repo.rankingCalls)

	// Second call is served entirely from the cache.
	second, err := service.Ranking(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.rankingCalls)
}

func TestService_Ranking_ClampsSize(t *testing.T) {
	repo := &stubRepository{entries: leaderboard(MaxRankingSize)}
	service := NewService(repo, newStubCache(), slog.Default())

	// Zero falls back to the default size.
	entries, err := service.Ranking(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, DefaultRankingSize)

	// Oversized requests are capped.
	entries, err = service.Ranking(context.Background(), 10_000)
	require.NoError(t, err)
	assert.Len(t, entries, MaxRankingSize)
}

func TestService_Ranking_DegradesWhenCacheFails(t *testing.T) {
	repo := &stubRepository{entries: leaderboard(5)}
	cache := newStubCache()
	cache.failReads = true
	service := NewService(repo, cache, slog.Default())

	// A broken cache never fails the request.
	entries, err := service.Ranking(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	assert.Equal(t, 1, repo.rankingCalls)
}

func TestService_ImportBatch_InvalidatesRanking(t *testing.T) {
	repo := &stubRepository{entries: leaderboard(3)}
	cache := newStubCache()
	service := NewService(repo, cache, slog.Default())

	// Warm the cache so the import actually has something to drop.
	_, err := service.Ranking(context.Background(), 3)
	require.NoError(t, err)

	written, err := service.ImportBatch(context.Background(), []*Destination{
		{ContentID: 2501, Title: "Seongsan Ilchulbong", CategoryID: 12, AreaCode: 39},
		{ContentID: 2502, Title: "Hallasan", CategoryID: 12, AreaCode: 39},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Len(t, repo.upserted, 2)
	assert.Equal(t, 1, cache.invalidated)
}
