package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/actionpack/pkg/cookie"
	"github.com/dmitrymomot/actionpack/pkg/flash"
	"github.com/dmitrymomot/actionpack/pkg/logger"
	"github.com/dmitrymomot/actionpack/pkg/session"
	"github.com/dmitrymomot/actionpack/pkg/view"
)

// Content types set by the finalizers.
const (
	ContentTypeHTML = "text/html"
	ContentTypeJSON = "application/json"
)

// Views resolves and renders the template of a controller action.
type Views interface {
	view.Resolver
	view.Renderer
}

// Services are the collaborators a controller reaches out to.
// Nil fields fall back to cookie-backed stores and a discarding logger.
type Services struct {
	Sessions session.Store
	Flashes  flash.Store
	Views    Views
	Logger   *slog.Logger
}

func (s Services) withDefaults() Services {
	if s.Sessions == nil || s.Flashes == nil {
		cookies := cookie.New()
		if s.Sessions == nil {
			s.Sessions = session.NewCookieStore(cookies)
		}
		if s.Flashes == nil {
			s.Flashes = flash.NewCookieStore(cookies, "")
		}
	}
	if s.Logger == nil {
		s.Logger = logger.NewNope()
	}
	return s
}

// Controller carries the state of one request dispatched to one action.
// It owns the response and guarantees that at most one redirect or render
// happens. A Controller is used by a single goroutine.
type Controller struct {
	req      *http.Request
	res      *Response
	typ      *ControllerType
	svc      Services
	params   Params
	guard    ResponseGuard
	session  *session.Session
	flash    *flash.Flash
	bindings view.Data
	action   string
	token    string
}

// NewController prepares a controller for r. Route parameters are merged
// under the request's query and form parameters. An unreadable form body
// yields a 400 HTTPError.
func NewController(typ *ControllerType, r *http.Request, routeParams map[string]string, svc Services) (*Controller, error) {
	request, err := ParseRequestParams(r)
	if err != nil {
		return nil, ErrBadRequest("", err)
	}
	return &Controller{
		req:      r,
		res:      NewResponse(),
		typ:      typ,
		svc:      svc.withDefaults(),
		params:   NewParams(routeParams, request),
		bindings: make(view.Data),
	}, nil
}

// Request returns the incoming request.
func (c *Controller) Request() *http.Request {
	return c.req
}

// Context returns the request context.
func (c *Controller) Context() context.Context {
	return c.req.Context()
}

// Response returns the buffered response.
func (c *Controller) Response() *Response {
	return c.res
}

// Type returns the controller type being dispatched.
func (c *Controller) Type() *ControllerType {
	return c.typ
}

// ActionName returns the action being dispatched, or "" before InvokeAction.
func (c *Controller) ActionName() string {
	return c.action
}

// Params returns the merged request parameters.
func (c *Controller) Params() Params {
	return c.params
}

// Param returns the first value of a merged parameter.
func (c *Controller) Param(key string) string {
	return c.params.Get(key)
}

// Logger returns the logger annotated with the controller and action.
func (c *Controller) Logger() *slog.Logger {
	return c.svc.Logger.With("controller", c.typ.Name(), "action", c.action)
}

// Finalized reports whether the response was already redirected or rendered.
func (c *Controller) Finalized() bool {
	return c.guard.Finalized()
}

// Session loads the request's session on first use and returns the same
// instance afterwards.
func (c *Controller) Session() (*session.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	s, err := c.svc.Sessions.Load(c.Context(), c.req)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	c.session = s
	return s, nil
}

// Flash loads the request's flash on first use and returns the same
// instance afterwards.
func (c *Controller) Flash() (*flash.Flash, error) {
	if c.flash != nil {
		return c.flash, nil
	}
	f, err := c.svc.Flashes.Load(c.Context(), c.req)
	if err != nil {
		return nil, fmt.Errorf("load flash: %w", err)
	}
	c.flash = f
	return f, nil
}

// Expose makes val available to templates under key.
func (c *Controller) Expose(key string, val any) {
	c.bindings[key] = val
}

// SetStatus sets the response status code.
func (c *Controller) SetStatus(code int) error {
	if c.guard.Finalized() {
		return ErrResponseFinalized
	}
	c.res.WriteHeader(code)
	return nil
}

// SetHeader sets a response header.
func (c *Controller) SetHeader(key, value string) error {
	if c.guard.Finalized() {
		return ErrResponseFinalized
	}
	c.res.Header().Set(key, value)
	return nil
}

// Write appends to the response body without finalizing it.
func (c *Controller) Write(b []byte) (int, error) {
	if c.guard.Finalized() {
		return 0, ErrResponseFinalized
	}
	return c.res.Write(b)
}

// RedirectTo answers with a 302 to url, then persists the session and the
// flash. It returns ErrDoubleRender if the response is already finalized.
func (c *Controller) RedirectTo(url string) error {
	if c.guard.Finalized() {
		return ErrDoubleRender
	}

	c.res.WriteHeader(http.StatusFound)
	c.res.Header().Set("Location", url)
	if err := c.guard.Finalize(); err != nil {
		return err
	}

	if err := c.commitSession(); err != nil {
		return err
	}
	return c.commitFlash()
}

// RenderContent answers with body as contentType, then persists the flash
// and the session. It returns ErrDoubleRender if the response is already
// finalized.
func (c *Controller) RenderContent(body, contentType string) error {
	if c.guard.Finalized() {
		return ErrDoubleRender
	}

	if _, err := c.res.WriteString(body); err != nil {
		return err
	}
	c.res.Header().Set("Content-Type", contentType)
	if err := c.guard.Finalize(); err != nil {
		return err
	}

	if err := c.commitFlash(); err != nil {
		return err
	}
	return c.commitSession()
}

// Render renders the named template of this controller type as HTML.
func (c *Controller) Render(name string) error {
	if c.guard.Finalized() {
		return ErrDoubleRender
	}
	if c.svc.Views == nil {
		return ErrNoViews
	}

	path, err := c.svc.Views.Resolve(c.typ.Name(), name)
	if err != nil {
		return err
	}
	data, err := c.viewData()
	if err != nil {
		return err
	}
	html, err := c.svc.Views.Render(c.Context(), path, data)
	if err != nil {
		return err
	}
	return c.RenderContent(html, ContentTypeHTML)
}

// RenderComponent renders a templ component as HTML.
func (c *Controller) RenderComponent(component templ.Component) error {
	if c.guard.Finalized() {
		return ErrDoubleRender
	}

	var buf bytes.Buffer
	if err := component.Render(c.Context(), &buf); err != nil {
		return fmt.Errorf("render component: %w", err)
	}
	return c.RenderContent(buf.String(), ContentTypeHTML)
}

// RenderJSON encodes v as the JSON response body.
func (c *Controller) RenderJSON(v any) error {
	if c.guard.Finalized() {
		return ErrDoubleRender
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return c.RenderContent(string(data), ContentTypeJSON)
}

// viewData assembles template bindings. Exposed values override the
// built-in ones.
func (c *Controller) viewData() (view.Data, error) {
	token, err := c.AuthenticityToken()
	if err != nil {
		return nil, err
	}
	f, err := c.Flash()
	if err != nil {
		return nil, err
	}

	data := view.Data{
		"controller":    c.typ.Name(),
		"action":        c.action,
		"flash":         f.All(),
		csrfBindingName: token,
	}
	for k, v := range c.bindings {
		data[k] = v
	}
	return data, nil
}

func (c *Controller) commitSession() error {
	s, err := c.Session()
	if err != nil {
		return err
	}
	if err := c.svc.Sessions.Commit(c.Context(), c.res, s); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (c *Controller) commitFlash() error {
	f, err := c.Flash()
	if err != nil {
		return err
	}
	if err := c.svc.Flashes.Commit(c.Context(), c.res, f); err != nil {
		return fmt.Errorf("commit flash: %w", err)
	}
	return nil
}
