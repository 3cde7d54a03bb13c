package keygen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCodeFormat(t *testing.T, code string) {
	t.Helper()

	segments := strings.Split(code, Separator)
	require.Len(t, segments, SegmentCount)
	for _, seg := range segments {
		require.Len(t, seg, SegmentLength)
		for _, ch := range seg {
			assert.Contains(t, Charset, string(ch), "unexpected character %q in %s", ch, code)
		}
	}
}

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		assertCodeFormat(t, Generate())
	}
}

func TestGenerate_ExcludesAmbiguousCharacters(t *testing.T) {
	for _, forbidden := range []string{"0", "O", "1", "I"} {
		assert.NotContains(t, Charset, forbidden)
	}
}

func TestGenerateFallback_SameFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		assertCodeFormat(t, GenerateFallback())
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		code := Generate()
		require.False(t, seen[code], "duplicate code generated: %s", code)
		seen[code] = true
	}
}

func TestGenerateBatch(t *testing.T) {
	codes := GenerateBatch(50, "")
	require.Len(t, codes, 50)
	for _, code := range codes {
		assertCodeFormat(t, code)
	}
}

func TestGenerateBatch_Prefix(t *testing.T) {
	codes := GenerateBatch(10, "vip")
	require.Len(t, codes, 10)
	for _, code := range codes {
		require.True(t, strings.HasPrefix(code, "VIP"+Separator), "code %s missing prefix", code)
		assertCodeFormat(t, strings.TrimPrefix(code, "VIP"+Separator))
	}
}

func TestGenerateAPIKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := GenerateAPIKey()
		require.Len(t, key, APIKeyLength)
		assert.NotContains(t, key, Separator)
		for _, ch := range key {
			assert.Contains(t, apiCharset, string(ch))
		}
		require.False(t, seen[key])
		seen[key] = true
	}
}
