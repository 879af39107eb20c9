// Package logger builds *slog.Logger instances for applications.
//
// Records go to a JSON handler on stdout by default. Options add a rotating
// file sink, Sentry reporting and context extractors that copy
// request-scoped values (request ID, controller, action) onto every record
// logged with a context.
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithFile("log/app.log"),
//		logger.WithSentry(os.Getenv("SENTRY_DSN"), "production"),
//		logger.WithExtractors(middlewares.RequestIDExtractor()),
//	)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/natefinch/lumberjack"
)

// Option configures New.
type Option func(*config)

type config struct {
	level      slog.Level
	text       bool
	out        io.Writer
	file       *lumberjack.Logger
	sentryDSN  string
	sentryEnv  string
	extractors []ContextExtractor
}

// WithLevel sets the minimum level. Default info.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithText switches the stdout handler to logfmt-style text.
func WithText() Option {
	return func(c *config) {
		c.text = true
	}
}

// WithOutput replaces stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.out = w
		}
	}
}

// WithFile also writes JSON records to path, rotated at 100MB and kept for
// 28 days, 5 backups, compressed.
func WithFile(path string) Option {
	return func(c *config) {
		if path == "" {
			return
		}
		c.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
	}
}

// WithSentry reports errors as Sentry issues and keeps warnings as Sentry
// logs. An empty dsn leaves Sentry off.
func WithSentry(dsn, environment string) Option {
	return func(c *config) {
		c.sentryDSN = dsn
		c.sentryEnv = environment
	}
}

// WithExtractors adds context extractors.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		c.extractors = append(c.extractors, extractors...)
	}
}

// New creates a logger. Sentry initialization failures are logged and
// leave the other sinks working.
func New(opts ...Option) *slog.Logger {
	cfg := &config{level: slog.LevelInfo, out: os.Stdout}
	for _, opt := range opts {
		opt(cfg)
	}

	hopts := &slog.HandlerOptions{Level: cfg.level}
	var primary slog.Handler = slog.NewJSONHandler(cfg.out, hopts)
	if cfg.text {
		primary = slog.NewTextHandler(cfg.out, hopts)
	}

	handlers := []slog.Handler{primary}
	if cfg.file != nil {
		handlers = append(handlers, slog.NewJSONHandler(cfg.file, hopts))
	}

	if cfg.sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.sentryDSN,
			Environment: cfg.sentryEnv,
			EnableLogs:  true,
		})
		if err != nil {
			slog.New(primary).Error("sentry init failed", slog.String("error", err.Error()))
		} else {
			handlers = append(handlers, sentryslog.Option{
				EventLevel: []slog.Level{slog.LevelError},
				LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
			}.NewSentryHandler(context.Background()))
		}
	}

	var h slog.Handler = primary
	if len(handlers) > 1 {
		h = fanout(handlers)
	}
	return slog.New(Decorate(h, cfg.extractors...))
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// FlushSentry returns a shutdown hook that waits up to timeout for queued
// Sentry events to be sent.
func FlushSentry(timeout time.Duration) func(context.Context) error {
	return func(context.Context) error {
		sentry.Flush(timeout)
		return nil
	}
}
