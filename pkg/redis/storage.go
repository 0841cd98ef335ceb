package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is a thin context-aware key/value wrapper over a go-redis client.
type Storage struct {
	db            redis.UniversalClient
	scanBatchSize int64
}

// NewStorage wraps a client. Uses a scan batch size of 1000 for DeletePrefix.
func NewStorage(redisClient redis.UniversalClient) *Storage {
	return &Storage{
		db:            redisClient,
		scanBatchSize: 1000,
	}
}

// NewStorageWithConfig wraps a client using the scan batch size from cfg.
func NewStorageWithConfig(redisClient redis.UniversalClient, cfg Config) *Storage {
	s := NewStorage(redisClient)
	if cfg.ScanBatchSize > 0 {
		s.scanBatchSize = int64(cfg.ScanBatchSize)
	}
	return s
}

// Get returns nil for empty keys and missing values (redis.Nil becomes nil).
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	val, err := s.db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores key-value with expiration. Zero duration means no expiration.
func (s *Storage) Set(ctx context.Context, key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.db.Set(ctx, key, val, exp).Err()
}

// Delete removes keys. Empty keys are ignored.
func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	nonEmpty := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			nonEmpty = append(nonEmpty, key)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}
	return s.db.Del(ctx, nonEmpty...).Err()
}

// DeletePrefix removes every key starting with prefix using SCAN to avoid blocking Redis.
// Returns the number of keys removed.
func (s *Storage) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		batch, next, err := s.db.Scan(ctx, cursor, prefix+"*", s.scanBatchSize).Result()
		if err != nil {
			return removed, err
		}
		if len(batch) > 0 {
			n, err := s.db.Del(ctx, batch...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}
