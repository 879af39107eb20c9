package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/actionpack/pkg/cookie"
)

// DefaultCookieName is the cookie CookieStore writes to.
const DefaultCookieName = "_actionpack_session"

// CookieStore keeps the whole session in a single cookie. Values are
// encrypted when the cookie manager has a secret.
type CookieStore struct {
	cookies *cookie.Manager
	name    string
	ttl     time.Duration
}

// CookieStoreOption configures a CookieStore.
type CookieStoreOption func(*CookieStore)

// WithCookieName overrides DefaultCookieName.
func WithCookieName(name string) CookieStoreOption {
	return func(s *CookieStore) {
		if name != "" {
			s.name = name
		}
	}
}

// WithTTL sets the session lifetime. Zero keeps the cookie for the browser
// session.
func WithTTL(ttl time.Duration) CookieStoreOption {
	return func(s *CookieStore) {
		s.ttl = ttl
	}
}

// NewCookieStore creates a CookieStore.
func NewCookieStore(cookies *cookie.Manager, opts ...CookieStoreOption) *CookieStore {
	s := &CookieStore{cookies: cookies, name: DefaultCookieName}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type cookiePayload struct {
	Values    map[string]any `json:"v"`
	CreatedAt time.Time      `json:"c"`
	ExpiresAt time.Time      `json:"e,omitzero"`
}

// Load decodes the session cookie. A missing, tampered or expired cookie
// yields a fresh session.
func (s *CookieStore) Load(_ context.Context, r *http.Request) (*Session, error) {
	var p cookiePayload
	err := s.cookies.GetJSON(r, s.name, &p)
	switch {
	case err == nil:
	case errors.Is(err, cookie.ErrNotFound),
		errors.Is(err, cookie.ErrMalformed),
		errors.Is(err, cookie.ErrDecrypt):
		return New("", s.ttl), nil
	default:
		return nil, fmt.Errorf("load session cookie: %w", err)
	}

	sess := Restore("", p.Values, p.CreatedAt, p.ExpiresAt)
	if sess.IsExpired() {
		return New("", s.ttl), nil
	}
	return sess, nil
}

// Commit writes the session cookie.
func (s *CookieStore) Commit(_ context.Context, w http.ResponseWriter, sess *Session) error {
	if sess.Len() == 0 {
		if !sess.IsNew() {
			s.cookies.Delete(w, s.name)
			sess.MarkPersisted()
		}
		return nil
	}

	if s.ttl > 0 {
		sess.ExpiresAt = time.Now().Add(s.ttl)
	}
	p := cookiePayload{Values: sess.Values, CreatedAt: sess.CreatedAt, ExpiresAt: sess.ExpiresAt}
	if err := s.cookies.SetJSON(w, s.name, p, int(s.ttl.Seconds())); err != nil {
		return fmt.Errorf("commit session cookie: %w", err)
	}
	sess.MarkPersisted()
	return nil
}

var _ Store = (*CookieStore)(nil)
