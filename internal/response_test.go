package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionpack/internal"
)

func TestResponseSend(t *testing.T) {
	t.Parallel()

	t.Run("copies status headers and body", func(t *testing.T) {
		t.Parallel()

		res := internal.NewResponse()
		res.WriteHeader(http.StatusCreated)
		res.Header().Set("Content-Type", "text/plain")
		http.SetCookie(res, &http.Cookie{Name: "a", Value: "1"})
		_, err := res.Write([]byte("hello"))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		http.SetCookie(rec, &http.Cookie{Name: "upstream", Value: "x"})
		require.NoError(t, res.Send(rec))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "hello", rec.Body.String())
		require.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
		require.Equal(t, "5", rec.Header().Get("Content-Length"))
		require.Len(t, rec.Result().Cookies(), 2)
	})

	t.Run("sends once", func(t *testing.T) {
		t.Parallel()

		res := internal.NewResponse()
		require.NoError(t, res.Send(httptest.NewRecorder()))
		require.ErrorIs(t, res.Send(httptest.NewRecorder()), internal.ErrDoubleRender)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		res := internal.NewResponse()
		res.WriteHeader(http.StatusFound)
		res.Header().Set("Location", "/home")

		rec := httptest.NewRecorder()
		require.NoError(t, res.Send(rec))
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/home", rec.Header().Get("Location"))
		require.Empty(t, rec.Body.String())
	})
}
