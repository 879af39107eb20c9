package middlewares_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionpack/internal"
	"github.com/dmitrymomot/actionpack/middlewares"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("recovers from panic and answers 500", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))

		h := middlewares.Recover(middlewares.WithRecoverLogger(log))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("test panic")
		}))

		rec := httptest.NewRecorder()
		require.NotPanics(t, func() {
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		})
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, buf.String(), "panic recovered")
		require.Contains(t, buf.String(), "test panic")
		require.Contains(t, buf.String(), "stack")
	})

	t.Run("passes PanicError to the error handler", func(t *testing.T) {
		t.Parallel()

		var got *middlewares.PanicError
		h := middlewares.Recover(
			middlewares.WithRecoverErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				pe, ok := middlewares.AsPanicError(err)
				require.True(t, ok)
				got = pe
				w.WriteHeader(http.StatusTeapot)
			}),
		)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notes", nil))

		require.Equal(t, http.StatusTeapot, rec.Code)
		require.NotNil(t, got)
		require.Equal(t, "boom", got.Value)
		require.NotEmpty(t, got.Stack)
		require.Equal(t, "panic in POST /notes: boom", got.Error())
		require.NoError(t, got.Unwrap())
	})

	t.Run("respects DisablePrintStack option", func(t *testing.T) {
		t.Parallel()

		var got *middlewares.PanicError
		h := middlewares.Recover(
			middlewares.WithRecoverDisablePrintStack(),
			middlewares.WithRecoverErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				got, _ = middlewares.AsPanicError(err)
			}),
		)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("no stack")
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotNil(t, got)
		require.Nil(t, got.Stack)
	})

	t.Run("unwraps error panics", func(t *testing.T) {
		t.Parallel()

		var got error
		h := middlewares.Recover(
			middlewares.WithRecoverErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				got = err
			}),
		)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(internal.ErrDoubleRender)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.ErrorIs(t, got, internal.ErrDoubleRender)
	})

	t.Run("passes through when no panic", func(t *testing.T) {
		t.Parallel()

		h := middlewares.Recover()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("re-panics ErrAbortHandler", func(t *testing.T) {
		t.Parallel()

		h := middlewares.Recover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		require.Panics(t, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("sets a deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool
		h := middlewares.Timeout(time.Second)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			_, hasDeadline = r.Context().Deadline()
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.True(t, hasDeadline)
	})

	t.Run("zero disables", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool
		h := middlewares.Timeout(0)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			_, hasDeadline = r.Context().Deadline()
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.False(t, hasDeadline)
	})
}
