package internal

import (
	"bytes"
	"net/http"
	"slices"
	"strconv"
)

// Response buffers the status, headers and body an action produces.
// Nothing reaches the client until Send, so session and flash cookies
// can still be added after the body has been written.
//
// Response implements http.ResponseWriter. It is owned by one controller
// and is not safe for concurrent use.
type Response struct {
	header http.Header
	body   bytes.Buffer
	status int
	sent   bool
}

// NewResponse creates an empty 200 response.
func NewResponse() *Response {
	return &Response{
		header: make(http.Header),
		status: http.StatusOK,
	}
}

// Header returns the buffered header map.
func (r *Response) Header() http.Header {
	return r.header
}

// Write appends to the buffered body.
func (r *Response) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

// WriteString appends s to the buffered body.
func (r *Response) WriteString(s string) (int, error) {
	return r.body.WriteString(s)
}

// WriteHeader records the status code.
func (r *Response) WriteHeader(code int) {
	r.status = code
}

// Status returns the buffered status code.
func (r *Response) Status() int {
	return r.status
}

// Body returns the buffered body.
func (r *Response) Body() []byte {
	return r.body.Bytes()
}

// Send copies the buffered response to w. It may be called once.
func (r *Response) Send(w http.ResponseWriter) error {
	if r.sent {
		return ErrDoubleRender
	}
	r.sent = true

	dst := w.Header()
	for k, vv := range r.header {
		// cookies set upstream by middleware survive
		if k == "Set-Cookie" {
			dst[k] = append(dst[k], vv...)
			continue
		}
		dst[k] = slices.Clone(vv)
	}
	if r.body.Len() > 0 && dst.Get("Content-Length") == "" {
		dst.Set("Content-Length", strconv.Itoa(r.body.Len()))
	}

	w.WriteHeader(r.status)
	if r.body.Len() == 0 {
		return nil
	}
	_, err := w.Write(r.body.Bytes())
	return err
}
