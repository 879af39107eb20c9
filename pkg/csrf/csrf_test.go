package csrf_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionpack/pkg/csrf"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	a, err := csrf.GenerateToken()
	require.NoError(t, err)
	b, err := csrf.GenerateToken()
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.Len(t, a, 22)
	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	require.Len(t, raw, 16)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cookie    string
		submitted string
		ok        bool
	}{
		{"match", "abc", "abc", true},
		{"mismatch", "abc", "abd", false},
		{"missing param", "abc", "", false},
		{"missing cookie", "", "abc", false},
		{"both missing", "", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := csrf.Verify(tc.cookie, tc.submitted)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, csrf.ErrInvalidToken)
		})
	}
}
