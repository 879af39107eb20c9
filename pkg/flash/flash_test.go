package flash_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionpack/pkg/cookie"
	"github.com/dmitrymomot/actionpack/pkg/flash"
)

func TestFlashHalves(t *testing.T) {
	t.Parallel()

	f := flash.New(map[string]any{"notice": "old"}, true)

	v, ok := f.Get("notice")
	require.True(t, ok)
	require.Equal(t, "old", v)

	f.Set("notice", "new")
	v, _ = f.Get("notice")
	require.Equal(t, "old", v, "current value wins while rendering this request")
	require.Equal(t, map[string]any{"notice": "new"}, f.Next())

	f.Now("alert", "now only")
	require.Equal(t, "now only", f.All()["alert"])
	require.NotContains(t, f.Next(), "alert")
}

func TestFlashKeep(t *testing.T) {
	t.Parallel()

	f := flash.New(map[string]any{"a": 1, "b": 2}, true)
	f.Keep("a", "missing")
	require.Equal(t, map[string]any{"a": 1}, f.Next())

	f.Set("b", 3)
	f.Keep()
	require.Equal(t, map[string]any{"a": 1, "b": 3}, f.Next())
}

func TestCookieStore(t *testing.T) {
	t.Parallel()

	for name, m := range map[string]*cookie.Manager{
		"plain":     cookie.New(),
		"encrypted": cookie.New(cookie.WithSecret("this-is-a-32-byte-or-longer-key!")),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := flash.NewCookieStore(m, "")
			ctx := context.Background()

			// request 1 sets a message
			f, err := store.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			f.Set("notice", "Saved")
			w := httptest.NewRecorder()
			require.NoError(t, store.Commit(ctx, w, f))
			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			require.Equal(t, flash.DefaultCookieName, cookies[0].Name)

			// request 2 sees it, and its commit clears the cookie
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(cookies[0])
			f, err = store.Load(ctx, r)
			require.NoError(t, err)
			v, ok := f.Get("notice")
			require.True(t, ok)
			require.Equal(t, "Saved", v)

			w = httptest.NewRecorder()
			require.NoError(t, store.Commit(ctx, w, f))
			cookies = w.Result().Cookies()
			require.Len(t, cookies, 1)
			require.Equal(t, -1, cookies[0].MaxAge)
		})
	}
}

func TestCookieStoreNoopWithoutState(t *testing.T) {
	t.Parallel()

	store := flash.NewCookieStore(cookie.New(), "")
	f, err := store.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, store.Commit(context.Background(), w, f))
	require.Empty(t, w.Result().Cookies())
}

func TestCookieStoreClearsUnreadableCookie(t *testing.T) {
	t.Parallel()

	store := flash.NewCookieStore(cookie.New(), "")
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: flash.DefaultCookieName, Value: "%%%"})

	f, err := store.Load(context.Background(), r)
	require.NoError(t, err)
	require.Empty(t, f.All())

	w := httptest.NewRecorder()
	require.NoError(t, store.Commit(context.Background(), w, f))
	require.Equal(t, -1, w.Result().Cookies()[0].MaxAge)
}
