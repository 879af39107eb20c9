// Package internal provides the core types and implementation for actionpack.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/actionpack" instead, which re-exports the public API.
//
// # Core Types
//
//   - ControllerType: an immutable controller declaration: name, explicit
//     action map, forgery protection flag and routes
//   - Controller: per-request state; owns the buffered Response and the
//     ResponseGuard, lazily loads the session and flash
//   - ResponseGuard: the at-most-once flag behind RedirectTo and RenderContent
//   - App: chi-based HTTP adapter that dispatches routes to actions
//
// # Dispatch
//
// InvokeAction looks the action up, runs the CSRF gate, calls the action and
// renders the action's template if the action did not finalize the response.
// Finalizers persist state in a fixed order:
//
//	RedirectTo:    302, Location, finalize, commit session, commit flash
//	RenderContent: body, Content-Type, finalize, commit flash, commit session
//
// A second redirect or render returns ErrDoubleRender. Status, header and
// body mutators return ErrResponseFinalized once the response is finalized.
//
// # Forgery protection
//
// Controller types built with WithForgeryProtection reject non-GET requests
// whose authenticity_token parameter does not match the authenticity_token
// cookie. Every other request has a token issued and exposed to templates.
package internal
