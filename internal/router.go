package internal

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router is the interface controller types use to declare routes.
// Each route names an action of the controller type that declares it.
type Router interface {
	// GET routes GET requests to the action.
	GET(pattern, action string)

	// POST routes POST requests to the action.
	POST(pattern, action string)

	// PUT routes PUT requests to the action.
	PUT(pattern, action string)

	// PATCH routes PATCH requests to the action.
	PATCH(pattern, action string)

	// DELETE routes DELETE requests to the action.
	DELETE(pattern, action string)

	// Route creates a route group sharing the pattern prefix.
	Route(pattern string, fn func(r Router))

	// With returns a router whose routes run behind the given middleware.
	With(mw ...Middleware) Router
}

// routerAdapter binds chi routes to one controller type.
type routerAdapter struct {
	router chi.Router
	app    *App
	typ    *ControllerType
}

func (r *routerAdapter) GET(pattern, action string) {
	r.handle(http.MethodGet, pattern, action)
}

func (r *routerAdapter) POST(pattern, action string) {
	r.handle(http.MethodPost, pattern, action)
}

func (r *routerAdapter) PUT(pattern, action string) {
	r.handle(http.MethodPut, pattern, action)
}

func (r *routerAdapter) PATCH(pattern, action string) {
	r.handle(http.MethodPatch, pattern, action)
}

func (r *routerAdapter) DELETE(pattern, action string) {
	r.handle(http.MethodDelete, pattern, action)
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app, typ: r.typ})
	})
}

func (r *routerAdapter) With(mw ...Middleware) Router {
	chiMW := make([]func(http.Handler) http.Handler, len(mw))
	for i, m := range mw {
		chiMW[i] = m
	}
	return &routerAdapter{router: r.router.With(chiMW...), app: r.app, typ: r.typ}
}

// handle registers a route. Routes naming an unknown action are recorded
// as setup errors and New fails.
func (r *routerAdapter) handle(method, pattern, action string) {
	if !r.typ.HasAction(action) {
		err := &UnknownActionError{Controller: r.typ.Name(), Action: action}
		r.app.errs = append(r.app.errs, fmt.Errorf("route %s %s: %w", method, pattern, err))
		return
	}
	r.router.Method(method, pattern, r.app.actionHandler(r.typ, action))
}

// routeParams collects the chi URL parameters of the matched route.
func routeParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}
