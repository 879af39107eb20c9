// Package actionpack is a per-request action lifecycle engine for
// server-rendered Go web applications.
//
// For one request and one target action it enforces that exactly one
// response is emitted, runs CSRF protection before the action, and persists
// session and flash state into the response in a fixed order however the
// response was produced.
//
// # Quick Start
//
// Declare a controller type with its actions and routes, then build an App:
//
//	notes := actionpack.MustControllerType("NotesController",
//	    actionpack.WithForgeryProtection(),
//	    actionpack.WithAction("new", func(c *actionpack.Controller) error {
//	        return nil // renders notes_controller/new.html
//	    }),
//	    actionpack.WithAction("create", func(c *actionpack.Controller) error {
//	        f, err := c.Flash()
//	        if err != nil {
//	            return err
//	        }
//	        f.Set("notice", "Note saved")
//	        return c.RedirectTo("/notes")
//	    }),
//	    actionpack.WithRoutes(func(r actionpack.Router) {
//	        r.GET("/notes/new", "new")
//	        r.POST("/notes", "create")
//	    }),
//	)
//
//	app, err := actionpack.New(
//	    actionpack.WithViews(view.New(templates)),
//	    actionpack.WithControllers(notes),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Response lifecycle
//
// Actions write into a buffered response. RedirectTo and RenderContent
// finalize it; a second finalizer returns [ErrDoubleRender]. An action that
// finalizes nothing gets its template rendered as text/html. The buffered
// response is sent only when dispatch succeeds; on error it is discarded and
// the error handler answers instead:
//
//   - [ErrInvalidAuthenticityToken]: 403
//   - [ErrUnknownAction]: 404
//   - [*HTTPError]: its code
//   - anything else: 500
//
// # Forgery protection
//
// Controller types built with [WithForgeryProtection] verify the
// authenticity_token form parameter against the authenticity_token cookie on
// every non-GET request. GET requests, and every request to unprotected
// controllers, have a token issued and exposed to templates as
// .authenticity_token.
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM for graceful shutdown. Register cleanup
// functions with ShutdownHook:
//
//	app.Run(":8080", actionpack.ShutdownHook(db.Shutdown(conn)))
package actionpack
