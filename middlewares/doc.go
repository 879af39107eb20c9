// Package middlewares provides HTTP middleware for actionpack applications.
//
// # Request ID
//
// RequestID assigns an ID to each request. An incoming X-Request-ID or
// X-Correlation-ID header is kept, otherwise a UUID is generated.
// Pair it with RequestIDExtractor so every log line carries the ID:
//
//	app, err := actionpack.New(
//	    actionpack.WithLogger("web", middlewares.RequestIDExtractor()),
//	    actionpack.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover turns a panic into a *PanicError, logs it with the stack trace
// and answers 500. Actions write into a buffered response, so nothing has
// reached the client when an action panics.
//
//	actionpack.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Recover(middlewares.WithRecoverLogger(log)),
//	)
//
// # Timeout
//
// Timeout puts a deadline on the request context. Session backends and
// actions that honour the context give up once it passes.
//
// # Recommended Middleware Order
//
//	actionpack.WithMiddleware(
//	    middlewares.RequestID(),             // first: ID for all later logging
//	    middlewares.Recover(),               // second: catch panics below
//	    middlewares.Timeout(10*time.Second), // third: bound the dispatch
//	)
package middlewares
