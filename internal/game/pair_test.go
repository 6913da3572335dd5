package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePairCanonical(t *testing.T) {
	cases := map[string]string{
		"A-B":  "A-B",
		"b-a":  "A-B",
		"C,D":  "C-D",
		"ED":   "D-E",
		" f-g": "F-G",
	}
	for in, want := range cases {
		got, err := CanonicalPair(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParsePairRejectsDegenerate(t *testing.T) {
	for _, in := range []string{"", "A-A", "AA", "ABC", "-B"} {
		_, err := ParsePair(in)
		assert.ErrorIs(t, err, ErrInvalidPair, in)
	}
}

func TestPairOther(t *testing.T) {
	p, err := NewPair("b", "a")
	require.NoError(t, err)
	other, ok := p.Other("A")
	require.True(t, ok)
	assert.Equal(t, "B", other)
	_, ok = p.Other("C")
	assert.False(t, ok)
	assert.True(t, p.Has("B"))
}
