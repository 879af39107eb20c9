package internal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionpack/internal"
)

func noop(*internal.Controller) error { return nil }

func TestNewControllerType(t *testing.T) {
	t.Parallel()

	t.Run("valid declaration", func(t *testing.T) {
		t.Parallel()

		typ, err := internal.NewControllerType("NotesController",
			internal.WithForgeryProtection(),
			internal.WithAction("index", noop),
			internal.WithActions(map[string]internal.Action{"show": noop, "create": noop}),
		)
		require.NoError(t, err)
		require.Equal(t, "NotesController", typ.Name())
		require.True(t, typ.ProtectsFromForgery())
		require.Equal(t, []string{"create", "index", "show"}, typ.Actions())
		require.True(t, typ.HasAction("show"))
		require.False(t, typ.HasAction("destroy"))
	})

	t.Run("protection defaults to off", func(t *testing.T) {
		t.Parallel()

		typ, err := internal.NewControllerType("PagesController", internal.WithAction("home", noop))
		require.NoError(t, err)
		require.False(t, typ.ProtectsFromForgery())
	})

	cases := map[string]struct {
		name string
		opts []internal.ControllerOption
	}{
		"empty controller name": {name: "", opts: []internal.ControllerOption{internal.WithAction("index", noop)}},
		"empty action name":     {name: "NotesController", opts: []internal.ControllerOption{internal.WithAction("", noop)}},
		"nil action":            {name: "NotesController", opts: []internal.ControllerOption{internal.WithAction("index", nil)}},
		"duplicate action":      {name: "NotesController", opts: []internal.ControllerOption{internal.WithAction("index", noop), internal.WithAction("index", noop)}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			typ, err := internal.NewControllerType(tc.name, tc.opts...)
			require.ErrorIs(t, err, internal.ErrInvalidControllerType)
			require.Nil(t, typ)
		})
	}

	t.Run("must panics on invalid declaration", func(t *testing.T) {
		t.Parallel()

		require.Panics(t, func() {
			internal.MustControllerType("NotesController", internal.WithAction("", noop))
		})
	})
}
