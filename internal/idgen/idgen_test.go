package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLength(t *testing.T) {
	gen := New()
	for _, length := range []int{1, 5, 8, 21, 128} {
		assert.Len(t, gen.Generate(length), length)
	}
}

func TestGenerateAlphabet(t *testing.T) {
	gen := New()
	id := gen.Generate(256)
	for _, c := range id {
		assert.Containsf(t, alphabet, string(c), "unexpected character %q", c)
	}
}

func TestGenerateDistinct(t *testing.T) {
	gen := New()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen.Generate(8)
		require.False(t, seen[id], "duplicate identifier %q", id)
		seen[id] = true
	}
}

func TestSecret(t *testing.T) {
	secret := Secret(64)
	// 64 bytes encode to 86 unpadded base64url characters.
	assert.Len(t, secret, 86)
	assert.False(t, strings.ContainsAny(secret, "+/="))
	assert.NotEqual(t, secret, Secret(64))
}
