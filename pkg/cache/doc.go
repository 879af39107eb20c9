// Package cache provides a generic expiring key-value Cache with an
// in-process implementation (Memory) and a Redis implementation.
//
// Memory bounds itself with LRU eviction when WithMaxEntries is set and
// purges expired entries in the background:
//
//	c := cache.NewMemory[*template.Template](cache.WithMaxEntries(256))
//	defer c.Close()
//
// Redis encodes values with a Codec, JSON unless another one is given:
//
//	c := cache.NewRedis[session.Record](client, nil, cache.WithPrefix("sess"))
//
// Group puts singleflight in front of any Cache so that a burst of misses
// for one key runs the loader once.
package cache
