package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/actionpack/pkg/cookie"
)

// DefaultIDCookieName is the cookie ServerStore keeps the session ID in.
const DefaultIDCookieName = "_actionpack_sid"

// Backend persists session values keyed by session ID.
type Backend interface {
	// Load returns ErrNotFound or ErrExpired when the ID has no live session.
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// ServerStore keeps only a random session ID in the cookie and the values
// in a Backend. The ID cookie is signed when the cookie manager has a secret.
type ServerStore struct {
	backend Backend
	cookies *cookie.Manager
	name    string
	ttl     time.Duration
}

// ServerStoreOption configures a ServerStore.
type ServerStoreOption func(*ServerStore)

// WithIDCookieName overrides DefaultIDCookieName.
func WithIDCookieName(name string) ServerStoreOption {
	return func(s *ServerStore) {
		if name != "" {
			s.name = name
		}
	}
}

// WithSessionTTL sets how long an idle session lives. Default 24h.
// Unchanged sessions are re-saved once a tenth of the TTL has passed since
// the last save, so an idle session expires between 90% and 100% of ttl
// after its last request.
func WithSessionTTL(ttl time.Duration) ServerStoreOption {
	return func(s *ServerStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewServerStore creates a ServerStore over backend.
func NewServerStore(backend Backend, cookies *cookie.Manager, opts ...ServerStoreOption) *ServerStore {
	s := &ServerStore{
		backend: backend,
		cookies: cookies,
		name:    DefaultIDCookieName,
		ttl:     24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load resolves the ID cookie against the backend. Unknown, expired and
// forged IDs yield a fresh session with a new ID.
func (s *ServerStore) Load(ctx context.Context, r *http.Request) (*Session, error) {
	id, err := s.readID(r)
	if err != nil {
		return s.fresh(), nil
	}

	sess, err := s.backend.Load(ctx, id)
	switch {
	case err == nil:
		if sess.IsExpired() {
			return s.fresh(), nil
		}
		return sess, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrExpired):
		return s.fresh(), nil
	default:
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
}

// Commit saves changed sessions and refreshes the ID cookie. Unchanged
// sessions are saved again when their expiry is due for a slide.
func (s *ServerStore) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess.Len() == 0 {
		if sess.IsNew() {
			return nil
		}
		if err := s.backend.Delete(ctx, sess.ID); err != nil {
			return fmt.Errorf("delete session %s: %w", sess.ID, err)
		}
		s.cookies.Delete(w, s.name)
		sess.MarkPersisted()
		return nil
	}

	if !sess.IsDirty() && !sess.IsNew() && !s.dueForRefresh(sess) {
		return nil
	}

	sess.ExpiresAt = time.Now().Add(s.ttl)
	if err := s.backend.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	if err := s.writeID(w, sess.ID); err != nil {
		return err
	}
	sess.MarkPersisted()
	return nil
}

// dueForRefresh reports whether a tenth of the TTL has passed since the
// session was last saved.
func (s *ServerStore) dueForRefresh(sess *Session) bool {
	return time.Until(sess.ExpiresAt) < s.ttl-s.ttl/10
}

func (s *ServerStore) fresh() *Session {
	return New(uuid.NewString(), s.ttl)
}

func (s *ServerStore) readID(r *http.Request) (string, error) {
	var (
		id  string
		err error
	)
	if s.cookies.HasSecret() {
		id, err = s.cookies.GetSigned(r, s.name)
	} else {
		id, err = s.cookies.Get(r, s.name)
	}
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNotFound
	}
	return id, nil
}

func (s *ServerStore) writeID(w http.ResponseWriter, id string) error {
	maxAge := int(s.ttl.Seconds())
	if s.cookies.HasSecret() {
		return s.cookies.SetSigned(w, s.name, id, maxAge)
	}
	s.cookies.Set(w, s.name, id, maxAge)
	return nil
}

var _ Store = (*ServerStore)(nil)
