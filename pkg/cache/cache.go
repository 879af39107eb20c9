package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Errors.
var (
	ErrNotFound  = errors.New("cache: entry not found")
	ErrClosed    = errors.New("cache: closed")
	ErrMarshal   = errors.New("cache: failed to marshal value")
	ErrUnmarshal = errors.New("cache: failed to unmarshal value")
)

// Cache is a key-value store with per-entry expiration.
//
// A positive ttl expires the entry after that duration, zero applies the
// cache default and a negative ttl keeps the entry until it is deleted or
// evicted.
type Cache[V any] interface {
	// Get returns ErrNotFound for missing and expired keys.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Codec converts values to bytes for backends that store raw data.
type Codec[V any] interface {
	Encode(v V) ([]byte, error)
	Decode(data []byte) (V, error)
}

// JSONCodec is the default Codec.
type JSONCodec[V any] struct{}

// Encode marshals v as JSON.
func (JSONCodec[V]) Encode(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

// Decode unmarshals JSON into a new V.
func (JSONCodec[V]) Decode(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

// Loader fills a cache miss. It returns the value and the ttl to store it with.
type Loader[V any] func(ctx context.Context) (V, time.Duration, error)

type loaded[V any] struct {
	val V
	ttl time.Duration
}

// Group deduplicates concurrent misses for one cache. Callers asking for the
// same key while a load is in flight share its result.
type Group[V any] struct {
	cache Cache[V]
	sf    singleflight.Group
}

// NewGroup wraps c.
func NewGroup[V any](c Cache[V]) *Group[V] {
	return &Group[V]{cache: c}
}

// Get returns the cached value for key or runs load once per concurrent miss.
// Load errors are returned and nothing is cached.
func (g *Group[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	if v, err := g.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := g.sf.Do(key, func() (any, error) {
		v, ttl, err := load(ctx)
		if err != nil {
			return nil, err
		}
		// a failed write only costs a future reload
		_ = g.cache.Set(ctx, key, v, ttl)
		return loaded[V]{val: v, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(loaded[V]).val, nil
}

// Forget drops key from the underlying cache.
func (g *Group[V]) Forget(ctx context.Context, key string) error {
	g.sf.Forget(key)
	return g.cache.Delete(ctx, key)
}
