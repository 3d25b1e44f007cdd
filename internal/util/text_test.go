package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeWhitespace("  a \t b\n\nc  "))
	assert.Equal(t, "", NormalizeWhitespace("   "))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"fyp", "dance"}, Tokenize("#fyp #Dance"))
	assert.Equal(t, []string{"plain", "words"}, Tokenize("plain words"))
	assert.Equal(t, []string{"日本語", "café"}, Tokenize("#日本語 #Café"))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("# #"))
	assert.Empty(t, Tokenize("#a x"))
}
