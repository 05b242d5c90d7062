// Copyright (c) 2026 Triply. All rights reserved.

package destination

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRankingCache(t *testing.T) (RankingCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRankingCache(client), server
}

func TestRankingCache_RoundTrip(t *testing.T) {
	cache, _ := newTestRankingCache(t)

	entries := []*RankingEntry{
		{Rank: 1, Destination: Destination{ContentID: 2501, Title: "Seongsan Ilchulbong", LikeCount: 42}},
		{Rank: 2, Destination: Destination{ContentID: 2502, Title: "Hallasan", LikeCount: 17}},
	}

	require.NoError(t, cache.Set(context.Background(), 10, entries))

	got, err := cache.Get(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2501), got[0].Destination.ContentID)
	assert.Equal(t, 42, got[0].Destination.LikeCount)
}

func TestRankingCache_MissReturnsNil(t *testing.T) {
	cache, _ := newTestRankingCache(t)

	got, err := cache.Get(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRankingCache_SizesAreIndependent(t *testing.T) {
	cache, _ := newTestRankingCache(t)

	require.NoError(t, cache.Set(context.Background(), 5, []*RankingEntry{
		{Rank: 1, Destination: Destination{ContentID: 2501}},
	}))

	// A different leaderboard size is a distinct cache entry.
	got, err := cache.Get(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRankingCache_EntriesExpire(t *testing.T) {
	cache, server := newTestRankingCache(t)

	require.NoError(t, cache.Set(context.Background(), 10, []*RankingEntry{
		{Rank: 1, Destination: Destination{ContentID: 2501}},
	}))

	server.FastForward(rankingTTL + 1)

	got, err := cache.Get(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRankingCache_Invalidate(t *testing.T) {
	cache, _ := newTestRankingCache(t)

	require.NoError(t, cache.Set(context.Background(), 5, []*RankingEntry{{Rank: 1}}))
	require.NoError(t, cache.Set(context.Background(), 10, []*RankingEntry{{Rank: 1}}))

	require.NoError(t, cache.Invalidate(context.Background()))

	for _, size := range []int{5, 10} {
		got, err := cache.Get(context.Background(), size)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}
