package internal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionpack/internal"
)

func TestResponseGuard(t *testing.T) {
	t.Parallel()

	var g internal.ResponseGuard
	require.False(t, g.Finalized())

	require.NoError(t, g.Finalize())
	require.True(t, g.Finalized())

	for range 3 {
		require.ErrorIs(t, g.Finalize(), internal.ErrDoubleRender)
		require.True(t, g.Finalized())
	}
}
