package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionpack/internal"
	"github.com/dmitrymomot/actionpack/pkg/csrf"
)

func TestUnknownActionError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("dispatch: %w", &internal.UnknownActionError{Controller: "NotesController", Action: "destroy"})
	require.ErrorIs(t, err, internal.ErrUnknownAction)
	require.Contains(t, err.Error(), `unknown action "destroy" for NotesController`)
	require.NotErrorIs(t, err, internal.ErrDoubleRender)
}

func TestInvalidAuthenticityTokenIsCSRFError(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, csrf.Verify("abc", "xyz"), internal.ErrInvalidAuthenticityToken)
}

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("wrapped HTTPError", func(t *testing.T) {
		t.Parallel()

		httpErr := internal.ErrNotFound("note not found")
		got := internal.AsHTTPError(fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", httpErr)))
		require.Same(t, httpErr, got)
		require.Equal(t, http.StatusNotFound, got.StatusCode())
	})

	t.Run("unrelated and nil", func(t *testing.T) {
		t.Parallel()

		require.Nil(t, internal.AsHTTPError(errors.New("x")))
		require.Nil(t, internal.AsHTTPError(nil))
	})

	t.Run("message defaults to status text and keeps the cause", func(t *testing.T) {
		t.Parallel()

		err := internal.ErrUnprocessable("", errBoom)
		require.Equal(t, "Unprocessable Entity", err.Message)
		require.ErrorIs(t, err, errBoom)
		require.Equal(t, "Unprocessable Entity: boom", err.Error())
	})
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		err  error
		want int
	}{
		"forgery":        {err: internal.ErrInvalidAuthenticityToken, want: http.StatusForbidden},
		"unknown action": {err: &internal.UnknownActionError{Controller: "C", Action: "a"}, want: http.StatusNotFound},
		"http error":     {err: fmt.Errorf("wrap: %w", internal.ErrForbidden("no")), want: http.StatusForbidden},
		"bad request":    {err: internal.ErrBadRequest(""), want: http.StatusBadRequest},
		"double render":  {err: internal.ErrDoubleRender, want: http.StatusInternalServerError},
		"other":          {err: errBoom, want: http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, internal.StatusFor(tc.err))
		})
	}
}
