package session

import (
	"encoding/json"
	"errors"
	"maps"
	"time"
)

// Session is the per-client key-value state carried between requests.
// A Session is owned by one request and is not safe for concurrent use.
type Session struct {
	CreatedAt time.Time
	ExpiresAt time.Time // zero for browser-session lifetime
	Values    map[string]any
	ID        string // empty for cookie-backed sessions

	dirty bool
	isNew bool
}

// New returns an empty session that has never been persisted.
func New(id string, ttl time.Duration) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		Values:    make(map[string]any),
		CreatedAt: now,
		isNew:     true,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// Restore rebuilds a persisted session from stored data.
func Restore(id string, values map[string]any, createdAt, expiresAt time.Time) *Session {
	if values == nil {
		values = make(map[string]any)
	}
	return &Session{
		ID:        id,
		Values:    values,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// Set stores val under key.
func (s *Session) Set(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// Delete removes key. Deleting a missing key leaves the session clean.
func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

// Clear removes every value.
func (s *Session) Clear() {
	if len(s.Values) > 0 {
		clear(s.Values)
		s.dirty = true
	}
}

// Len returns the number of stored values.
func (s *Session) Len() int {
	return len(s.Values)
}

// Snapshot returns a copy of the stored values.
func (s *Session) Snapshot() map[string]any {
	return maps.Clone(s.Values)
}

// IsDirty reports whether the session changed since it was loaded.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// IsNew reports whether the session has never been persisted.
func (s *Session) IsNew() bool {
	return s.isNew
}

// IsExpired reports whether ExpiresAt has passed.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// MarkPersisted is called by stores after a successful commit.
func (s *Session) MarkPersisted() {
	s.dirty = false
	s.isNew = false
}

// Value returns the value under key as T. Values that went through a JSON
// store come back as generic JSON types and are converted when possible.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	raw, ok := s.Get(key)
	if !ok {
		return zero, ErrNotFound
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return zero, errors.Join(ErrTypeMismatch, err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, errors.Join(ErrTypeMismatch, err)
	}
	return v, nil
}

// ValueOr returns the value under key as T, or def when it is missing or
// has another type.
func ValueOr[T any](s *Session, key string, def T) T {
	v, err := Value[T](s, key)
	if err != nil {
		return def
	}
	return v
}
