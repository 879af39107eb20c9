package internal

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Action handles one named action of a controller type.
// Returning an error aborts the request; the error reaches the caller unchanged.
type Action func(c *Controller) error

// ControllerType describes a controller: its name, its explicit action map,
// whether it is protected from request forgery, and its routes.
// It is immutable after NewControllerType and safe for concurrent use.
type ControllerType struct {
	name    string
	actions map[string]Action
	routes  func(r Router)
	protect bool
}

// ControllerOption configures a ControllerType under construction.
type ControllerOption func(*controllerBuilder)

type controllerBuilder struct {
	typ  *ControllerType
	errs []error
}

// WithForgeryProtection requires a valid authenticity token on every
// non-GET request dispatched to the controller.
func WithForgeryProtection() ControllerOption {
	return func(b *controllerBuilder) {
		b.typ.protect = true
	}
}

// WithAction registers an action under name.
func WithAction(name string, fn Action) ControllerOption {
	return func(b *controllerBuilder) {
		switch {
		case name == "":
			b.errs = append(b.errs, errors.New("empty action name"))
		case fn == nil:
			b.errs = append(b.errs, fmt.Errorf("action %q: nil handler", name))
		default:
			if _, ok := b.typ.actions[name]; ok {
				b.errs = append(b.errs, fmt.Errorf("action %q: registered twice", name))
				return
			}
			b.typ.actions[name] = fn
		}
	}
}

// WithActions registers several actions at once.
func WithActions(actions map[string]Action) ControllerOption {
	return func(b *controllerBuilder) {
		for _, name := range slices.Sorted(maps.Keys(actions)) {
			WithAction(name, actions[name])(b)
		}
	}
}

// WithRoutes declares the HTTP routes that dispatch to the controller.
//
// Example:
//
//	internal.WithRoutes(func(r internal.Router) {
//	    r.GET("/notes", "index")
//	    r.POST("/notes", "create")
//	})
func WithRoutes(fn func(r Router)) ControllerOption {
	return func(b *controllerBuilder) {
		b.typ.routes = fn
	}
}

// NewControllerType validates and builds a controller type.
// Empty or duplicate action names and an empty controller name are errors
// matching ErrInvalidControllerType.
func NewControllerType(name string, opts ...ControllerOption) (*ControllerType, error) {
	b := &controllerBuilder{
		typ: &ControllerType{
			name:    name,
			actions: make(map[string]Action),
		},
	}
	if name == "" {
		b.errs = append(b.errs, errors.New("empty controller name"))
	}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidControllerType, name, errors.Join(b.errs...))
	}
	return b.typ, nil
}

// MustControllerType is like NewControllerType but panics on error.
func MustControllerType(name string, opts ...ControllerOption) *ControllerType {
	t, err := NewControllerType(name, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the controller name.
func (t *ControllerType) Name() string {
	return t.name
}

// ProtectsFromForgery reports whether non-GET requests must carry a token.
func (t *ControllerType) ProtectsFromForgery() bool {
	return t.protect
}

// HasAction reports whether name is a registered action.
func (t *ControllerType) HasAction(name string) bool {
	_, ok := t.actions[name]
	return ok
}

// Actions returns the registered action names in sorted order.
func (t *ControllerType) Actions() []string {
	return slices.Sorted(maps.Keys(t.actions))
}

func (t *ControllerType) action(name string) (Action, bool) {
	fn, ok := t.actions[name]
	return fn, ok
}
