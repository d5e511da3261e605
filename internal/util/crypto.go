package util

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"
)

// Reader is the entropy source for tokens. Tests may swap it.
var Reader io.Reader = rand.Reader

// GenerateToken returns n random bytes, hex-encoded.
func GenerateToken(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := io.ReadFull(Reader, bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// MaskCode keeps a short prefix of a code for logs.
func MaskCode(code string) string {
	if len(code) <= 6 {
		return "****"
	}
	return code[:6] + "****"
}

// MaskPath masks the leading segment of a gated path (/{code}/{domain}/...)
// so the full code never reaches the logs. Single-segment paths are returned
// unchanged.
func MaskPath(p string) string {
	rest, ok := strings.CutPrefix(p, "/")
	if !ok {
		return p
	}
	code, tail, found := strings.Cut(rest, "/")
	if !found || code == "" {
		return p
	}
	return "/" + MaskCode(code) + "/" + tail
}
