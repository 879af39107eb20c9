package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/actionpack/pkg/cookie"
	"github.com/dmitrymomot/actionpack/pkg/flash"
	"github.com/dmitrymomot/actionpack/pkg/health"
	"github.com/dmitrymomot/actionpack/pkg/logger"
	"github.com/dmitrymomot/actionpack/pkg/session"
)

// App routes requests to controller actions and turns each dispatch into
// exactly one HTTP response. App is immutable after New.
type App struct {
	router          chi.Router
	services        Services
	cookies         *cookie.Manager
	errorHandler    ErrorHandler
	notFoundHandler http.Handler
	healthConfig    *healthConfig
	metrics         *Metrics
	logger          *slog.Logger
	metricsPath     string
	middlewares     []Middleware
	controllers     []*ControllerType
	staticRoutes    []staticRoute
	errs            []error
}

// staticRoute represents a static file handler mount point.
type staticRoute struct {
	handler http.Handler
	pattern string
}

// New creates an application. It fails when an option is invalid or a
// route names an action its controller type does not have.
//
// Example:
//
//	app, err := internal.New(
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover(log)),
//	    internal.WithViews(view.New(templates)),
//	    internal.WithControllers(notes),
//	)
func New(opts ...Option) (*App, error) {
	a := &App{
		router:       chi.NewRouter(),
		logger:       logger.NewNope(),
		cookies:      cookie.New(),
		errorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.services.Sessions == nil {
		a.services.Sessions = session.NewCookieStore(a.cookies)
	}
	if a.services.Flashes == nil {
		a.services.Flashes = flash.NewCookieStore(a.cookies, "")
	}
	a.services.Logger = a.logger

	a.setupRoutes()
	if len(a.errs) > 0 {
		return nil, errors.Join(a.errs...)
	}
	return a, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run serves the app on addr and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080", internal.ShutdownHook(db.Shutdown(conn)))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}
	return runServer(runtimeConfig{
		handler:   a.router,
		address:   addr,
		runConfig: cfg,
	})
}

// setupRoutes mounts middleware, infrastructure endpoints and controller routes.
func (a *App) setupRoutes() {
	for _, mw := range a.middlewares {
		a.router.Use(mw)
	}

	if a.notFoundHandler != nil {
		a.router.NotFound(a.notFoundHandler.ServeHTTP)
	}

	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}

	if a.healthConfig != nil {
		var opts []health.Option
		if a.healthConfig.timeout > 0 {
			opts = append(opts, health.WithTimeout(a.healthConfig.timeout))
		}
		opts = append(opts, health.WithLogger(a.logger))
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, opts...))
	}

	if a.metrics != nil && a.metricsPath != "" && a.metrics.Handler() != nil {
		a.router.Method(http.MethodGet, a.metricsPath, a.metrics.Handler())
	}

	for _, t := range a.controllers {
		if t.routes == nil {
			continue
		}
		t.routes(&routerAdapter{router: a.router, app: a, typ: t})
	}
}

// actionHandler dispatches one action. A successful dispatch sends the
// buffered response; a failed one discards it and runs the error handler.
func (a *App) actionHandler(typ *ControllerType, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		c, err := NewController(typ, r, routeParams(r), a.services)
		if err == nil {
			err = c.InvokeAction(action)
		}

		if err == nil {
			if sendErr := c.Response().Send(rec); sendErr != nil {
				a.logger.DebugContext(r.Context(), "response write failed", slog.Any("error", sendErr))
			}
		} else {
			a.errorHandler(rec, r, err)
		}

		elapsed := time.Since(start)
		a.logDispatch(r, typ.Name(), action, rec, err, elapsed)
		if a.metrics != nil {
			a.metrics.Observe(typ.Name(), action, err, elapsed)
		}
	}
}

func (a *App) logDispatch(r *http.Request, controller, action string, rec *statusRecorder, err error, elapsed time.Duration) {
	attrs := []slog.Attr{
		slog.String("controller", controller),
		slog.String("action", action),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", rec.Status()),
		slog.Int64("size", rec.Size()),
		slog.Duration("duration", elapsed),
	}

	level := slog.LevelInfo
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
		level = slog.LevelError
		if StatusFor(err) < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
	}
	a.logger.LogAttrs(r.Context(), level, "action dispatched", attrs...)
}
