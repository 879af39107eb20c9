package session

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/actionpack/pkg/cache"
)

// Record is the stored form of a session.
type Record struct {
	Values    map[string]any `json:"values"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// CacheBackend stores sessions in a cache.Cache, in process with
// cache.Memory or shared with cache.Redis. Entries expire with the session.
type CacheBackend struct {
	cache cache.Cache[Record]
}

// NewCacheBackend creates a CacheBackend.
func NewCacheBackend(c cache.Cache[Record]) *CacheBackend {
	return &CacheBackend{cache: c}
}

// Load implements Backend.
func (b *CacheBackend) Load(ctx context.Context, id string) (*Session, error) {
	rec, err := b.cache.Get(ctx, id)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sess := Restore(id, rec.Values, rec.CreatedAt, rec.ExpiresAt)
	if sess.IsExpired() {
		return nil, ErrExpired
	}
	return sess, nil
}

// Save implements Backend.
func (b *CacheBackend) Save(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	return b.cache.Set(ctx, s.ID, Record{
		Values:    s.Values,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}, ttl)
}

// Delete implements Backend.
func (b *CacheBackend) Delete(ctx context.Context, id string) error {
	return b.cache.Delete(ctx, id)
}

var _ Backend = (*CacheBackend)(nil)
