package installer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "0.1.0", b: "0.2.0", want: -1},
		{a: "0.2.0", b: "0.2.0", want: 0},
		{a: "0.10.0", b: "0.9.0", want: 1},
		{a: "2021-03-27", b: "2024-01-13", want: -1},
		{a: "2024-01-13", b: "2024.01.13", want: 0},
		{a: "2024-01-13", b: "2024-1-13", want: 0},
		{a: "2025-04-26", b: "2024-01-13", want: 1},
		{a: "1.2", b: "1.2.0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare_Invalid(t *testing.T) {
	for _, pair := range [][2]string{{"", "1.0"}, {"1.0", "abc"}, {"1..0", "1.0"}} {
		_, err := Compare(pair[0], pair[1])
		assert.ErrorIs(t, err, ErrInvalidVersion, "%q vs %q", pair[0], pair[1])
	}
}

func TestIsOlder(t *testing.T) {
	older, err := IsOlder("0.1.0", "0.2.0")
	require.NoError(t, err)
	assert.True(t, older)

	older, err = IsOlder("0.2.0", "0.2.0")
	require.NoError(t, err)
	assert.False(t, older)

	older, err = IsOlder("2024-01-13", "2021-03-27")
	require.NoError(t, err)
	assert.False(t, older)

	_, err = IsOlder("x", "0.2.0")
	assert.ErrorIs(t, err, ErrInvalidVersion)
}
