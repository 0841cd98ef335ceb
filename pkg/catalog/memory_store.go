package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps services in process memory, preserving insertion order.
// Useful for tests and single-instance deployments seeded from a file.
type MemoryStore struct {
	mu       sync.RWMutex
	services []Service
	index    map[string]int
	newID    func() string
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithIDGenerator overrides the id generator used by Create. Defaults to uuid.NewString.
func WithIDGenerator(fn func() string) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if fn != nil {
			ms.newID = fn
		}
	}
}

// NewMemoryStore creates an empty in-memory catalog.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		index: make(map[string]int),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

func (ms *MemoryStore) List(_ context.Context) ([]Service, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([]Service, 0, len(ms.services))
	for _, svc := range ms.services {
		out = append(out, svc.clone())
	}
	return out, nil
}

func (ms *MemoryStore) Get(_ context.Context, id string) (*Service, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	i, ok := ms.index[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	svc := ms.services[i].clone()
	return &svc, nil
}

func (ms *MemoryStore) Create(_ context.Context, svc Service) (*Service, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if svc.ID == "" {
		svc.ID = ms.newID()
	}
	if _, exists := ms.index[svc.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrServiceExists, svc.ID)
	}

	svc = svc.clone()
	ms.index[svc.ID] = len(ms.services)
	ms.services = append(ms.services, svc)

	out := svc.clone()
	return &out, nil
}

func (ms *MemoryStore) Update(_ context.Context, id string, patch Patch) (*Service, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	i, ok := ms.index[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	ms.services[i] = patch.Apply(ms.services[i])

	out := ms.services[i].clone()
	return &out, nil
}

func (ms *MemoryStore) Delete(_ context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	i, ok := ms.index[id]
	if !ok {
		return ErrServiceNotFound
	}

	ms.services = slices.Delete(ms.services, i, i+1)
	delete(ms.index, id)
	for j := i; j < len(ms.services); j++ {
		ms.index[ms.services[j].ID] = j
	}
	return nil
}
