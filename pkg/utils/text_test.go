package utils

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "he...", TruncateString("hello world", 5))
	assert.Equal(t, "hel", TruncateString("hello", 3))
	assert.Equal(t, "", TruncateString("hello", -1))
}

func TestTruncateString_KeepsRunesWhole(t *testing.T) {
	got := TruncateString("héllo wörld", 5)
	assert.Equal(t, "hé...", got)

	got = TruncateString("日本語のテキスト", 4)
	assert.Equal(t, "日...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "日本", TruncateString("日本語", 2))
	assert.Equal(t, "日本語", TruncateString("日本語", 3))
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 2, EstimateTokens("12345678"))
}
