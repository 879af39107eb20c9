package internal

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/actionpack/pkg/cookie"
	"github.com/dmitrymomot/actionpack/pkg/flash"
	"github.com/dmitrymomot/actionpack/pkg/health"
	"github.com/dmitrymomot/actionpack/pkg/logger"
	"github.com/dmitrymomot/actionpack/pkg/session"
)

// Option configures the application.
type Option func(*App)

// WithControllers registers controller types. Each type's routes are
// mounted on the app router.
func WithControllers(types ...*ControllerType) Option {
	return func(a *App) {
		for _, t := range types {
			if t == nil {
				a.errs = append(a.errs, fmt.Errorf("%w: nil controller type", ErrInvalidControllerType))
				continue
			}
			a.controllers = append(a.controllers, t)
		}
	}
}

// WithMiddleware adds global middleware. Middleware runs in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithSessionStore sets the session store. Defaults to a session.CookieStore
// over the app's cookie manager.
//
// Example:
//
//	backend := session.NewCacheBackend(cache.NewRedis[session.Record](client, nil))
//	internal.WithSessionStore(session.NewServerStore(backend, cookies))
func WithSessionStore(s session.Store) Option {
	return func(a *App) {
		a.services.Sessions = s
	}
}

// WithFlashStore sets the flash store. Defaults to a flash.CookieStore over
// the app's cookie manager.
func WithFlashStore(s flash.Store) Option {
	return func(a *App) {
		a.services.Flashes = s
	}
}

// WithViews sets the template engine used by Render and the default render.
func WithViews(v Views) Option {
	return func(a *App) {
		a.services.Views = v
	}
}

// WithCookieOptions configures the cookie manager behind the default
// session and flash stores.
//
// Example:
//
//	internal.WithCookieOptions(
//	    cookie.WithSecret(os.Getenv("COOKIE_SECRET")),
//	    cookie.WithSecure(true),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookies = cookie.New(opts...)
	}
}

// WithLogger creates a JSON logger with a component name and context
// extractors.
//
// Example:
//
//	internal.WithLogger("web", middlewares.RequestIDExtractor())
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(logger.WithExtractors(extractors...)).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithNotFoundHandler sets the handler for unmatched routes.
func WithNotFoundHandler(h http.Handler) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMetrics registers dispatch metrics on reg. A non-empty path exposes
// reg there when it is also a prometheus.Gatherer.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	internal.WithMetrics(reg, "/metrics")
func WithMetrics(reg prometheus.Registerer, path string) Option {
	return func(a *App) {
		m, err := NewMetrics(reg)
		if err != nil {
			a.errs = append(a.errs, fmt.Errorf("register metrics: %w", err))
			return
		}
		a.metrics = m
		a.metricsPath = path
	}
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	internal.WithStaticFiles("/static/", assets, "public")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			a.errs = append(a.errs, fmt.Errorf("static files %s: %w", pattern, err))
			return
		}

		fileServer := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(subFS))
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler: handler, pattern: pattern})
	}
}

// WithHealthChecks enables liveness and readiness endpoints.
//
// Example:
//
//	internal.WithHealthChecks(
//	    internal.WithReadinessCheck("db", db.Healthcheck(conn)),
//	    internal.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// healthConfig holds health endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
	timeout       time.Duration
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets the liveness path. Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets the readiness path. Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessTimeout bounds one readiness run. Defaults to 5 seconds.
func WithReadinessTimeout(d time.Duration) HealthOption {
	return func(c *healthConfig) {
		c.timeout = d
	}
}

// WithReadinessCheck adds a named readiness check. Checks run in parallel.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		c.checks[name] = fn
	}
}
