// Package keygen produces card-key and API-key codes. There is exactly one
// format contract; the primary and the fallback generator both reference it.
package keygen

import (
	cryptorand "crypto/rand"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"
)

// Codes avoid 0/O and 1/I so they survive being read over the phone.
const (
	Charset       = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	SegmentLength = 5
	SegmentCount  = 5
	Separator     = "-"

	APIKeyLength = 32
	apiCharset   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	fallbackMu  sync.Mutex
	fallbackRnd = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
)

// Generate returns a card-key code such as KF8Q2-9XWNM-R4TLH-ZD7VP-B3GJS.
// Randomness comes from crypto/rand; when the system entropy source is
// unavailable it degrades to the math/rand fallback with the same format.
func Generate() string {
	raw, err := randomChars(Charset, SegmentLength*SegmentCount)
	if err != nil {
		raw = fallbackChars(Charset, SegmentLength*SegmentCount)
	}
	return joinSegments(raw)
}

// GenerateFallback produces a code without touching crypto/rand. It exists
// so callers can exercise the degraded path directly; the format is
// identical to Generate.
func GenerateFallback() string {
	return joinSegments(fallbackChars(Charset, SegmentLength*SegmentCount))
}

// GenerateBatch returns n codes. A non-empty prefix is uppercased and
// prepended as an extra segment.
func GenerateBatch(n int, prefix string) []string {
	codes := make([]string, 0, n)
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	for i := 0; i < n; i++ {
		code := Generate()
		if prefix != "" {
			code = prefix + Separator + code
		}
		codes = append(codes, code)
	}
	return codes
}

// GenerateAPIKey returns the opaque per-program API key: 32 uppercase
// alphanumeric characters, no separators.
func GenerateAPIKey() string {
	raw, err := randomChars(apiCharset, APIKeyLength)
	if err != nil {
		raw = fallbackChars(apiCharset, APIKeyLength)
	}
	return raw
}

func joinSegments(raw string) string {
	segments := make([]string, 0, SegmentCount)
	for i := 0; i < len(raw); i += SegmentLength {
		segments = append(segments, raw[i:i+SegmentLength])
	}
	return strings.Join(segments, Separator)
}

func randomChars(charset string, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := cryptorand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = charset[int(b)%len(charset)]
	}
	return string(out), nil
}

func fallbackChars(charset string, n int) string {
	fallbackMu.Lock()
	defer fallbackMu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = charset[fallbackRnd.Intn(len(charset))]
	}
	return string(out)
}
