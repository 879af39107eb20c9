// Package flash carries short-lived messages from one request to the next.
//
// A Flash has two halves. Values read from the incoming cookie are visible
// for the current request only. Values written with Set are persisted for
// the next request. Now writes a value that is visible immediately and is
// never persisted, which suits rendering an error on the same response.
//
//	f.Set("notice", "Note saved")      // shown after the redirect
//	f.Now("alert", "Title is blank")    // shown on this render
package flash

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"

	"github.com/dmitrymomot/actionpack/pkg/cookie"
)

// DefaultCookieName is the cookie CookieStore writes to.
const DefaultCookieName = "_actionpack_flash"

// Flash holds the current and next request's messages.
// A Flash is owned by one request and is not safe for concurrent use.
type Flash struct {
	now      map[string]any
	next     map[string]any
	incoming bool
}

// New returns an empty Flash. incoming reports whether the request carried
// a flash cookie that must be cleared if nothing replaces it.
func New(now map[string]any, incoming bool) *Flash {
	if now == nil {
		now = make(map[string]any)
	}
	return &Flash{now: now, next: make(map[string]any), incoming: incoming}
}

// Get returns the value under key, preferring the current request's value.
func (f *Flash) Get(key string) (any, bool) {
	if v, ok := f.now[key]; ok {
		return v, true
	}
	v, ok := f.next[key]
	return v, ok
}

// Set stores val for the next request.
func (f *Flash) Set(key string, val any) {
	f.next[key] = val
}

// Now stores val for the current request only.
func (f *Flash) Now(key string, val any) {
	f.now[key] = val
}

// Keep carries the current request's values over to the next request.
// With keys it carries only those.
func (f *Flash) Keep(keys ...string) {
	if len(keys) == 0 {
		for k, v := range f.now {
			if _, ok := f.next[k]; !ok {
				f.next[k] = v
			}
		}
		return
	}
	for _, k := range keys {
		if v, ok := f.now[k]; ok {
			f.next[k] = v
		}
	}
}

// All returns every visible value, current values winning over next ones.
func (f *Flash) All() map[string]any {
	out := maps.Clone(f.next)
	if out == nil {
		out = make(map[string]any)
	}
	maps.Copy(out, f.now)
	return out
}

// Next returns the values that will be persisted.
func (f *Flash) Next() map[string]any {
	return maps.Clone(f.next)
}

// Store loads a request's flash and writes the next request's values.
type Store interface {
	Load(ctx context.Context, r *http.Request) (*Flash, error)
	Commit(ctx context.Context, w http.ResponseWriter, f *Flash) error
}

// CookieStore keeps the flash in a single cookie.
type CookieStore struct {
	cookies *cookie.Manager
	name    string
}

// NewCookieStore creates a CookieStore. An empty name selects DefaultCookieName.
func NewCookieStore(cookies *cookie.Manager, name string) *CookieStore {
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieStore{cookies: cookies, name: name}
}

// Load decodes the incoming flash cookie. Unreadable cookies count as
// present so they get cleared.
func (s *CookieStore) Load(_ context.Context, r *http.Request) (*Flash, error) {
	var now map[string]any
	err := s.cookies.GetJSON(r, s.name, &now)
	switch {
	case err == nil:
		return New(now, true), nil
	case errors.Is(err, cookie.ErrNotFound):
		return New(nil, false), nil
	case errors.Is(err, cookie.ErrMalformed), errors.Is(err, cookie.ErrDecrypt):
		return New(nil, true), nil
	default:
		return nil, fmt.Errorf("load flash cookie: %w", err)
	}
}

// Commit writes next-request values, clears a consumed incoming cookie or
// does nothing.
func (s *CookieStore) Commit(_ context.Context, w http.ResponseWriter, f *Flash) error {
	if len(f.next) == 0 {
		if f.incoming {
			s.cookies.Delete(w, s.name)
		}
		return nil
	}
	if err := s.cookies.SetJSON(w, s.name, f.next, 0); err != nil {
		return fmt.Errorf("commit flash cookie: %w", err)
	}
	return nil
}

var _ Store = (*CookieStore)(nil)
