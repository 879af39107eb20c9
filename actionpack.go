package actionpack

import (
	"context"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/actionpack/internal"
	"github.com/dmitrymomot/actionpack/pkg/cookie"
	"github.com/dmitrymomot/actionpack/pkg/flash"
	"github.com/dmitrymomot/actionpack/pkg/health"
	"github.com/dmitrymomot/actionpack/pkg/logger"
	"github.com/dmitrymomot/actionpack/pkg/session"
)

// Type aliases - public API
type (
	// App routes requests to controller actions.
	App = internal.App

	// Controller carries the state of one request dispatched to one action.
	Controller = internal.Controller

	// ControllerType describes a controller: name, actions, protection and routes.
	ControllerType = internal.ControllerType

	// ControllerOption configures a ControllerType.
	ControllerOption = internal.ControllerOption

	// Action handles one named action.
	Action = internal.Action

	// Router is the interface controller types use to declare routes.
	Router = internal.Router

	// Params holds merged route, query and form parameters.
	Params = internal.Params

	// Response is the buffered response of one action.
	Response = internal.Response

	// ResponseGuard is the at-most-once finalization flag.
	ResponseGuard = internal.ResponseGuard

	// Services are the collaborators a controller reaches out to.
	Services = internal.Services

	// Views resolves and renders action templates.
	Views = internal.Views

	// Middleware wraps the HTTP handler chain.
	Middleware = internal.Middleware

	// ErrorHandler answers a request whose action failed.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// HTTPError lets an action pick the response status code.
	HTTPError = internal.HTTPError

	// UnknownActionError reports an action missing from a controller type.
	UnknownActionError = internal.UnknownActionError

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor
)

// Errors
var (
	ErrDoubleRender             = internal.ErrDoubleRender
	ErrInvalidAuthenticityToken = internal.ErrInvalidAuthenticityToken
	ErrUnknownAction            = internal.ErrUnknownAction
	ErrResponseFinalized        = internal.ErrResponseFinalized
	ErrInvalidControllerType    = internal.ErrInvalidControllerType
	ErrNoViews                  = internal.ErrNoViews
)

// Constructors

// New creates an application. The App is immutable after creation.
func New(opts ...Option) (*App, error) {
	return internal.New(opts...)
}

// NewControllerType validates and builds a controller type.
func NewControllerType(name string, opts ...ControllerOption) (*ControllerType, error) {
	return internal.NewControllerType(name, opts...)
}

// MustControllerType is like NewControllerType but panics on error.
func MustControllerType(name string, opts ...ControllerOption) *ControllerType {
	return internal.MustControllerType(name, opts...)
}

// NewController prepares a controller for r outside of an App, for
// example in tests or custom adapters.
func NewController(typ *ControllerType, r *http.Request, routeParams map[string]string, svc Services) (*Controller, error) {
	return internal.NewController(typ, r, routeParams, svc)
}

// Controller options

// WithForgeryProtection requires a valid authenticity token on non-GET requests.
func WithForgeryProtection() ControllerOption {
	return internal.WithForgeryProtection()
}

// WithAction registers an action under name.
func WithAction(name string, fn Action) ControllerOption {
	return internal.WithAction(name, fn)
}

// WithActions registers several actions at once.
func WithActions(actions map[string]Action) ControllerOption {
	return internal.WithActions(actions)
}

// WithRoutes declares the HTTP routes that dispatch to the controller.
func WithRoutes(fn func(r Router)) ControllerOption {
	return internal.WithRoutes(fn)
}

// App options

// WithControllers registers controller types and mounts their routes.
func WithControllers(types ...*ControllerType) Option {
	return internal.WithControllers(types...)
}

// WithMiddleware adds global middleware. Middleware runs in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithSessionStore sets the session store.
func WithSessionStore(s session.Store) Option {
	return internal.WithSessionStore(s)
}

// WithFlashStore sets the flash store.
func WithFlashStore(s flash.Store) Option {
	return internal.WithFlashStore(s)
}

// WithViews sets the template engine.
func WithViews(v Views) Option {
	return internal.WithViews(v)
}

// WithCookieOptions configures the cookie manager behind the default stores.
func WithCookieOptions(opts ...cookie.Option) Option {
	return internal.WithCookieOptions(opts...)
}

// WithLogger creates a JSON logger with a component name and context extractors.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets the handler for unmatched routes.
func WithNotFoundHandler(h http.Handler) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMetrics registers dispatch metrics and optionally exposes them at path.
func WithMetrics(reg prometheus.Registerer, path string) Option {
	return internal.WithMetrics(reg, path)
}

// WithStaticFiles mounts a static file handler at the given pattern.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	actionpack.WithStaticFiles("/static/", assets, "public")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithHealthChecks enables liveness and readiness endpoints.
//
// Example:
//
//	actionpack.WithHealthChecks(
//	    actionpack.WithReadinessCheck("db", db.Healthcheck(conn)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// Health options

// WithLivenessPath sets the liveness path. Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets the readiness path. Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessTimeout bounds one readiness run.
func WithReadinessTimeout(d time.Duration) HealthOption {
	return internal.WithReadinessTimeout(d)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the runtime logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before serving.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run after the server stops.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context; cancelling it triggers shutdown.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// WithListener serves on ln instead of listening on the address.
func WithListener(ln net.Listener) RunOption {
	return internal.WithListener(ln)
}

// Helpers

// Param returns a typed parameter, or T's zero value.
func Param[T string | int | int64 | float64 | bool](p Params, key string) T {
	return internal.Param[T](p, key)
}

// ParamDefault returns a typed parameter, or def.
func ParamDefault[T string | int | int64 | float64 | bool](p Params, key string, def T) T {
	return internal.ParamDefault(p, key, def)
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string, cause ...error) *HTTPError {
	return internal.NewHTTPError(code, message, cause...)
}

// ErrNotFound returns a 404 HTTPError.
func ErrNotFound(message string, cause ...error) *HTTPError {
	return internal.ErrNotFound(message, cause...)
}

// ErrBadRequest returns a 400 HTTPError.
func ErrBadRequest(message string, cause ...error) *HTTPError {
	return internal.ErrBadRequest(message, cause...)
}

// ErrForbidden returns a 403 HTTPError.
func ErrForbidden(message string, cause ...error) *HTTPError {
	return internal.ErrForbidden(message, cause...)
}

// ErrUnprocessable returns a 422 HTTPError.
func ErrUnprocessable(message string, cause ...error) *HTTPError {
	return internal.ErrUnprocessable(message, cause...)
}

// DefaultErrorHandler is the error handler used unless WithErrorHandler is set.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	internal.DefaultErrorHandler(w, r, err)
}

// StatusFor maps a dispatch error to a status code.
func StatusFor(err error) int {
	return internal.StatusFor(err)
}
