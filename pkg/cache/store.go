package cache

import (
	"context"
	"slices"
	"time"
)

// Store exposes an LRUCache of byte slices through the context-aware
// Get/Set/Delete shape shared with the redis storage, so either can back a read-through cache.
type Store struct {
	lru *LRUCache[string, []byte]
}

// NewStore creates an in-process byte store holding at most capacity keys.
func NewStore(capacity int) *Store {
	return &Store{lru: NewLRUCache[string, []byte](capacity)}
}

// SetClock replaces the time source used for expiry checks.
func (s *Store) SetClock(now func() time.Time) {
	s.lru.SetClock(now)
}

// Get returns nil, nil for missing or expired keys.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := s.lru.Get(key)
	if !ok {
		return nil, nil
	}
	return slices.Clone(val), nil
}

// Set stores a copy of val. A non-positive ttl never expires.
func (s *Store) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	s.lru.PutWithTTL(key, slices.Clone(val), ttl)
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.lru.Remove(key)
	}
	return nil
}
