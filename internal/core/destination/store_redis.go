// Copyright (c) 2026 Triply. All rights reserved.

package destination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/triply-app/triply/internal/platform/constants"
)

// rankingTTL bounds leaderboard staleness. A like or comment shows up in the
// ranking at most this much later.
const rankingTTL = 5 * time.Minute

// redisRankingCache implements [RankingCache] on go-redis.
//
// Entries are stored as one JSON blob per requested leaderboard size, keyed
// under [constants.RedisPrefixRanking].
type redisRankingCache struct {
	client *redis.Client
}

// NewRankingCache constructs the Redis-backed leaderboard cache.
func NewRankingCache(client *redis.Client) RankingCache {
	return &redisRankingCache{client: client}
}

func rankingKey(limit int) string {
	return fmt.Sprintf("%stop:%d", constants.RedisPrefixRanking, limit)
}

// Get returns the cached leaderboard, or (nil, nil) on a cache miss.
func (cache *redisRankingCache) Get(ctx context.Context, limit int) ([]*RankingEntry, error) {
	payload, err := cache.client.Get(ctx, rankingKey(limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_ranking_get_failed: %w", err)
	}

	var entries []*RankingEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, nil
	}

	return entries, nil
}

// Set stores the leaderboard with the standard TTL.
func (cache *redisRankingCache) Set(ctx context.Context, limit int, entries []*RankingEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("redis_ranking_marshal_failed: %w", err)
	}

	if err := cache.client.Set(ctx, rankingKey(limit), payload, rankingTTL).Err(); err != nil {
		return fmt.Errorf("redis_ranking_set_failed: %w", err)
	}

	return nil
}

// Invalidate drops every cached leaderboard size, typically after a catalogue
// import rewrites large parts of the table.
func (cache *redisRankingCache) Invalidate(ctx context.Context) error {
	iter := cache.client.Scan(ctx, 0, constants.RedisPrefixRanking+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis_ranking_scan_failed: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := cache.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis_ranking_del_failed: %w", err)
	}

	return nil
}
