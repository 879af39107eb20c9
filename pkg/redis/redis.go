// Package redis opens go-redis clients with pool defaults and startup retry,
// and exposes health and shutdown hooks for them.
package redis

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Errors.
var (
	ErrEmptyURL          = errors.New("redis: empty connection URL")
	ErrInvalidURL        = errors.New("redis: invalid connection URL")
	ErrConnectionFailed  = errors.New("redis: failed to establish connection")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)

// Option tunes the client options before the first dial.
type Option func(*settings)

type settings struct {
	client        *redis.Options
	retryAttempts int
	retryInterval time.Duration
}

// WithPoolSize sets the connection pool size. Default 10.
func WithPoolSize(n int) Option {
	return func(s *settings) {
		s.client.PoolSize = n
	}
}

// WithTimeouts sets dial, read and write timeouts.
func WithTimeouts(dial, read, write time.Duration) Option {
	return func(s *settings) {
		s.client.DialTimeout = dial
		s.client.ReadTimeout = read
		s.client.WriteTimeout = write
	}
}

// WithRetry sets how many pings are attempted before Open gives up and
// the base interval between them. The wait grows linearly per attempt.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(s *settings) {
		s.retryAttempts = attempts
		s.retryInterval = interval
	}
}

// Open parses a redis:// or rediss:// URL and returns a client that has
// answered a ping.
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrInvalidURL
	}

	clientOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	clientOpts.PoolSize = 10
	clientOpts.MinIdleConns = 2
	clientOpts.ConnMaxIdleTime = 10 * time.Minute
	clientOpts.DialTimeout = 5 * time.Second
	clientOpts.ReadTimeout = 3 * time.Second
	clientOpts.WriteTimeout = 3 * time.Second

	s := &settings{client: clientOpts, retryAttempts: 3, retryInterval: 2 * time.Second}
	for _, opt := range opts {
		opt(s)
	}

	var lastErr error
	for attempt := 1; attempt <= max(s.retryAttempts, 1); attempt++ {
		client := redis.NewClient(s.client)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(attempt) * s.retryInterval):
		}
	}
	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Healthcheck returns a readiness check that pings the client.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown returns a shutdown hook that closes the client.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
