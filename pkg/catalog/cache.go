package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dmitrymomot/subhub/pkg/logger"
)

// Cache is a byte-oriented key/value store with expiry.
// Get returns nil, nil on a miss. Implemented by redis.Storage and cache.Store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// PrefixDeleter is implemented by caches that can drop a whole key namespace, such as redis.Storage.
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// CachedStore is a read-through cache in front of another Store.
// Writes go to the underlying store first and then invalidate the affected keys.
// Cache failures never fail a call; they are logged and the underlying store is used.
type CachedStore struct {
	next   Store
	cache  Cache
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

// CachedStoreOption configures a CachedStore.
type CachedStoreOption func(*CachedStore)

// WithCacheKeyPrefix namespaces the cache keys. Defaults to "catalog:".
func WithCacheKeyPrefix(prefix string) CachedStoreOption {
	return func(cs *CachedStore) {
		cs.prefix = prefix
	}
}

// WithCacheLogger sets the logger used to report cache failures.
func WithCacheLogger(log *slog.Logger) CachedStoreOption {
	return func(cs *CachedStore) {
		if log != nil {
			cs.log = log
		}
	}
}

// NewCachedStore wraps next with a cache. A non-positive ttl disables expiry.
func NewCachedStore(next Store, cache Cache, ttl time.Duration, opts ...CachedStoreOption) *CachedStore {
	if next == nil {
		panic("catalog: underlying Store is required")
	}
	if cache == nil {
		panic("catalog: Cache is required")
	}

	cs := &CachedStore{
		next:   next,
		cache:  cache,
		ttl:    max(ttl, 0),
		prefix: "catalog:",
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

func (cs *CachedStore) List(ctx context.Context) ([]Service, error) {
	key := cs.listKey()

	var cached []Service
	if cs.load(ctx, key, &cached) {
		return cached, nil
	}

	services, err := cs.next.List(ctx)
	if err != nil {
		return nil, err
	}
	cs.store(ctx, key, services)
	return services, nil
}

func (cs *CachedStore) Get(ctx context.Context, id string) (*Service, error) {
	key := cs.serviceKey(id)

	var cached Service
	if cs.load(ctx, key, &cached) {
		return &cached, nil
	}

	svc, err := cs.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cs.store(ctx, key, svc)
	return svc, nil
}

func (cs *CachedStore) Create(ctx context.Context, svc Service) (*Service, error) {
	created, err := cs.next.Create(ctx, svc)
	if err != nil {
		return nil, err
	}
	cs.invalidate(ctx, created.ID)
	return created, nil
}

func (cs *CachedStore) Update(ctx context.Context, id string, patch Patch) (*Service, error) {
	updated, err := cs.next.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	cs.invalidate(ctx, id)
	return updated, nil
}

func (cs *CachedStore) Delete(ctx context.Context, id string) error {
	if err := cs.next.Delete(ctx, id); err != nil {
		return err
	}
	cs.invalidate(ctx, id)
	return nil
}

// Purge drops every cached entry under the key prefix, or only the list entry when the
// cache cannot delete by prefix. Run at start-up so entries written by an earlier
// process against different data are not served.
func (cs *CachedStore) Purge(ctx context.Context) error {
	if pd, ok := cs.cache.(PrefixDeleter); ok {
		n, err := pd.DeletePrefix(ctx, cs.prefix)
		if err != nil {
			return err
		}
		cs.log.DebugContext(ctx, "catalog cache purged", slog.Int("keys", n))
		return nil
	}
	return cs.cache.Delete(ctx, cs.listKey())
}

func (cs *CachedStore) listKey() string {
	return cs.prefix + "list"
}

func (cs *CachedStore) serviceKey(id string) string {
	return cs.prefix + "service:" + id
}

func (cs *CachedStore) load(ctx context.Context, key string, dst any) bool {
	data, err := cs.cache.Get(ctx, key)
	if err != nil {
		cs.log.WarnContext(ctx, "catalog cache read failed", slog.String("key", key), logger.Error(err))
		return false
	}
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		cs.log.WarnContext(ctx, "catalog cache entry is corrupt", slog.String("key", key), logger.Error(err))
		return false
	}
	return true
}

func (cs *CachedStore) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		cs.log.WarnContext(ctx, "catalog cache encode failed", slog.String("key", key), logger.Error(err))
		return
	}
	if err := cs.cache.Set(ctx, key, data, cs.ttl); err != nil {
		cs.log.WarnContext(ctx, "catalog cache write failed", slog.String("key", key), logger.Error(err))
	}
}

func (cs *CachedStore) invalidate(ctx context.Context, id string) {
	if err := cs.cache.Delete(ctx, cs.listKey(), cs.serviceKey(id)); err != nil {
		cs.log.WarnContext(ctx, "catalog cache invalidation failed", slog.String("service_id", id), logger.Error(err))
	}
}
