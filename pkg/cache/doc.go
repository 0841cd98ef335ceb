// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry expiry, and Store, a byte-oriented adapter over it.
//
// The cache evicts the least recently used entry once capacity is exceeded.
// Expired entries are dropped when they are next read.
//
//	c := cache.NewLRUCache[string, int](100)
//	c.PutWithTTL("answer", 42, time.Minute)
//	v, ok := c.Get("answer")
//
// Store has the same Get/Set/Delete shape as the redis storage, so a process
// without Redis can still put a read-through cache in front of the catalog:
//
//	services := catalog.NewCachedStore(pgStore, cache.NewStore(1024), time.Minute)
package cache
