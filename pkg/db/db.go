package db

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

// Errors.
var (
	ErrInvalidDSN        = errors.New("db: invalid connection string")
	ErrConnectionFailed  = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed = errors.New("db: healthcheck failed")
	ErrMigrate           = errors.New("db: failed to apply migrations")
)

// Config holds connection settings. The koanf tags match pkg/config.
type Config struct {
	DSN             string        `koanf:"dsn" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	RetryAttempts   int           `koanf:"retry_attempts"`
	RetryInterval   time.Duration `koanf:"retry_interval"`
}

func (c Config) withDefaults() Config {
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 10
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 30 * time.Minute
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 3
	}
	if c.RetryInterval == 0 {
		c.RetryInterval = 2 * time.Second
	}
	return c
}

// Open connects to PostgreSQL through the pgx stdlib driver and pings until
// the server answers or the retry budget is spent.
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	cfg = cfg.withDefaults()

	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrInvalidDSN, err)
	}

	db := sqlx.NewDb(stdlib.OpenDB(*connCfg), DriverName)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	var lastErr error
	for attempt := 1; attempt <= cfg.RetryAttempts; attempt++ {
		if lastErr = db.PingContext(ctx); lastErr == nil {
			return db, nil
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(attempt) * cfg.RetryInterval):
		}
	}
	_ = db.Close()
	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Healthcheck returns a readiness check that pings db.
func Healthcheck(db interface{ PingContext(context.Context) error }) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown returns a shutdown hook that closes db.
func Shutdown(db io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return db.Close()
	}
}
