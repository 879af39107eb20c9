package internal

import "net/http"

// Middleware wraps the HTTP handler chain, chi style.
//
// Example:
//
//	func RequireLogin(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        if !loggedIn(r) {
//	            http.Redirect(w, r, "/login", http.StatusFound)
//	            return
//	        }
//	        next.ServeHTTP(w, r)
//	    })
//	}
type Middleware func(next http.Handler) http.Handler

// ErrorHandler answers a request whose action failed. The buffered
// response of the failed action has already been discarded.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler answers with the status from StatusFor and a plain
// text body. Only HTTPError messages are shown to the client.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	msg := http.StatusText(status)
	if httpErr := AsHTTPError(err); httpErr != nil && httpErr.Code == status {
		msg = httpErr.Message
	}
	http.Error(w, msg, status)
}
