// Package sqlstore persists sessions in a SQL table through sqlx.
//
// The schema ships as goose migrations in Migrations:
//
//	err := db.Migrate(ctx, conn.DB, sqlstore.Migrations, "migrations", "", logger)
//	store := session.NewServerStore(sqlstore.New(conn), cookies)
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dmitrymomot/actionpack/pkg/session"
)

// Migrations holds the goose migrations for the sessions table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const (
	selectSession = `SELECT id, data, created_at, expires_at FROM actionpack_sessions WHERE id = ?`
	upsertSession = `INSERT INTO actionpack_sessions (id, data, created_at, expires_at) VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`
	deleteSession = `DELETE FROM actionpack_sessions WHERE id = ?`
	deleteExpired = `DELETE FROM actionpack_sessions WHERE expires_at < ?`
)

type row struct {
	ID        string    `db:"id"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Backend implements session.Backend over a SQL database.
type Backend struct {
	db *sqlx.DB
}

// New creates a Backend. Queries are rebound to the driver's placeholder style.
func New(db *sqlx.DB) *Backend {
	return &Backend{db: db}
}

// Load implements session.Backend.
func (b *Backend) Load(ctx context.Context, id string) (*session.Session, error) {
	var r row
	if err := b.db.GetContext(ctx, &r, b.db.Rebind(selectSession), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}

	if time.Now().After(r.ExpiresAt) {
		return nil, session.ErrExpired
	}

	values := make(map[string]any)
	if err := json.Unmarshal(r.Data, &values); err != nil {
		return nil, fmt.Errorf("decode session data: %w", err)
	}
	return session.Restore(r.ID, values, r.CreatedAt, r.ExpiresAt), nil
}

// Save implements session.Backend.
func (b *Backend) Save(ctx context.Context, s *session.Session) error {
	data, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("encode session data: %w", err)
	}
	if _, err := b.db.ExecContext(ctx, b.db.Rebind(upsertSession), s.ID, data, s.CreatedAt, s.ExpiresAt); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Delete implements session.Backend.
func (b *Backend) Delete(ctx context.Context, id string) error {
	if _, err := b.db.ExecContext(ctx, b.db.Rebind(deleteSession), id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions that expired before now and reports how
// many rows went away.
func (b *Backend) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := b.db.ExecContext(ctx, b.db.Rebind(deleteExpired), time.Now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}

var _ session.Backend = (*Backend)(nil)
