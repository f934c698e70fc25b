package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store deduplicates consumed messages through Redis SET NX with a TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Key identifies a message by its broker coordinates.
func (s *Store) Key(topic string, partition int, offset int64) string {
	return fmt.Sprintf("idem:%s:%d:%d", topic, partition, offset)
}

// EventKey identifies a message by its business content, so redeliveries of
// the same courier update are skipped even when offsets differ.
func (s *Store) EventKey(aggregateID, event string) string {
	return fmt.Sprintf("idem:event:%s:%s", aggregateID, event)
}

func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}

	return !ok, nil
}
