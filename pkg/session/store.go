package session

import (
	"context"
	"net/http"
)

// Store loads a request's session and writes it back into the response.
//
// Commit of a session that is new and empty writes nothing. A persisted
// session that has been emptied is removed.
type Store interface {
	Load(ctx context.Context, r *http.Request) (*Session, error)
	Commit(ctx context.Context, w http.ResponseWriter, s *Session) error
}
