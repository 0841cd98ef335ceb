package subscription

import (
	"context"
	"slices"
	"sync"
)

// MemoryUserStore keeps users in process memory in creation order.
// It implements VersionedUserStore and catalog.ReferenceChecker.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*User
	order []string
}

// NewMemoryUserStore creates an empty store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*User)}
}

func (s *MemoryUserStore) Get(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryUserStore) List(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.users[id].Clone())
	}
	return out, nil
}

func (s *MemoryUserStore) Upsert(_ context.Context, u *User) error {
	if u == nil || u.ID == "" {
		return ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u.Version = s.merge(u)
	return nil
}

func (s *MemoryUserStore) UpsertVersioned(_ context.Context, u *User, expected int64) error {
	if u == nil || u.ID == "" {
		return ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if stored, ok := s.users[u.ID]; ok {
		current = stored.Version
	}
	if current != expected {
		return ErrVersionConflict
	}

	u.Version = s.merge(u)
	return nil
}

func (s *MemoryUserStore) HasServiceReference(_ context.Context, serviceID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.ContainsFunc(s.order, func(id string) bool {
		return s.users[id].HasServiceReference(serviceID)
	}), nil
}

// merge applies the upsert rules and returns the new version. Must be called with lock held.
func (s *MemoryUserStore) merge(u *User) int64 {
	incoming := u.Clone()

	stored, ok := s.users[u.ID]
	if !ok {
		if incoming.Subscriptions == nil {
			incoming.Subscriptions = []Subscription{}
		}
		incoming.Version = 1
		s.users[u.ID] = incoming
		s.order = append(s.order, u.ID)
		return incoming.Version
	}

	if incoming.Phone != "" {
		stored.Phone = incoming.Phone
	}
	if incoming.Subscriptions != nil {
		stored.Subscriptions = incoming.Subscriptions
	}
	stored.Version++
	return stored.Version
}
