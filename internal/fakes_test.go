package internal_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionpack/internal"
	"github.com/dmitrymomot/actionpack/pkg/flash"
	"github.com/dmitrymomot/actionpack/pkg/session"
	"github.com/dmitrymomot/actionpack/pkg/view"
)

// commit captures the response as a store saw it while committing.
type commit struct {
	store       string
	status      int
	location    string
	contentType string
	body        string
}

// journal records store activity for one controller.
type journal struct {
	sessionLoads int
	flashLoads   int
	commits      []commit
	loadErr      error
	commitErr    error
}

func (j *journal) record(store string, w http.ResponseWriter) error {
	c := commit{store: store}
	if res, ok := w.(*internal.Response); ok {
		c.status = res.Status()
		c.location = res.Header().Get("Location")
		c.contentType = res.Header().Get("Content-Type")
		c.body = string(res.Body())
	}
	j.commits = append(j.commits, c)
	return j.commitErr
}

func (j *journal) order() []string {
	out := make([]string, len(j.commits))
	for i, c := range j.commits {
		out[i] = c.store
	}
	return out
}

type sessionStore struct{ j *journal }

func (s sessionStore) Load(context.Context, *http.Request) (*session.Session, error) {
	s.j.sessionLoads++
	if s.j.loadErr != nil {
		return nil, s.j.loadErr
	}
	return session.New("", time.Hour), nil
}

func (s sessionStore) Commit(_ context.Context, w http.ResponseWriter, _ *session.Session) error {
	return s.j.record("session", w)
}

type flashStore struct{ j *journal }

func (s flashStore) Load(context.Context, *http.Request) (*flash.Flash, error) {
	s.j.flashLoads++
	return flash.New(map[string]any{"notice": "hello"}, true), nil
}

func (s flashStore) Commit(_ context.Context, w http.ResponseWriter, _ *flash.Flash) error {
	return s.j.record("flash", w)
}

// templates is a view fixture for the "NotesController" type.
var templates = fstest.MapFS{
	"notes_controller/index.html": {Data: []byte(`<ul>{{range .notes}}<li>{{.}}</li>{{end}}</ul>`)},
	"notes_controller/new.html":   {Data: []byte(`<form><input name="authenticity_token" value="{{.authenticity_token}}"></form>`)},
	"notes_controller/show.html":  {Data: []byte(`{{.controller}}#{{.action}} {{index .flash "notice"}}`)},
}

func services(j *journal) internal.Services {
	return internal.Services{
		Sessions: sessionStore{j},
		Flashes:  flashStore{j},
		Views:    view.New(templates, view.WithoutCache()),
	}
}

// request builds a request; a non-nil form is sent as an urlencoded body.
func request(method, target string, form url.Values, cookies ...*http.Cookie) *http.Request {
	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func newController(t *testing.T, typ *internal.ControllerType, r *http.Request, j *journal) *internal.Controller {
	t.Helper()
	c, err := internal.NewController(typ, r, nil, services(j))
	require.NoError(t, err)
	return c
}

// responseCookie returns the named Set-Cookie of the buffered response.
func responseCookie(res *internal.Response, name string) *http.Cookie {
	for _, c := range (&http.Response{Header: res.Header()}).Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var errBoom = errors.New("boom")
