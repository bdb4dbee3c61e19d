// Package checkpoint records which wines a synthesis run has already
// written, so a rerun under the same run id can skip them.
package checkpoint

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a run's checkpoint set is kept
const DefaultTTL = 7 * 24 * time.Hour

// RedisStore keeps one Redis set of wine ids per run
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a checkpoint store on top of a Redis client
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		prefix: "wine-investment:run:",
		ttl:    ttl,
	}
}

func (s *RedisStore) key(runID string) string {
	return s.prefix + runID
}

// IsDone reports whether the wine was already written in this run
func (s *RedisStore) IsDone(ctx context.Context, runID string, wineID int) (bool, error) {
	done, err := s.client.SIsMember(ctx, s.key(runID), strconv.Itoa(wineID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read checkpoint for wine %d: %w", wineID, err)
	}
	return done, nil
}

// MarkDone records the wine as written and refreshes the run's TTL
func (s *RedisStore) MarkDone(ctx context.Context, runID string, wineID int) error {
	key := s.key(runID)
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, strconv.Itoa(wineID))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write checkpoint for wine %d: %w", wineID, err)
	}
	return nil
}

// Count returns how many wines the run has written
func (s *RedisStore) Count(ctx context.Context, runID string) (int64, error) {
	n, err := s.client.SCard(ctx, s.key(runID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count checkpoint for run %s: %w", runID, err)
	}
	return n, nil
}

// Clear removes a run's checkpoint
func (s *RedisStore) Clear(ctx context.Context, runID string) error {
	if err := s.client.Del(ctx, s.key(runID)).Err(); err != nil {
		return fmt.Errorf("failed to clear checkpoint for run %s: %w", runID, err)
	}
	return nil
}
