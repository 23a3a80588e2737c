// Package b64url provides URL-safe base64 helpers tolerant of missing padding.
package b64url

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Encode returns the base64url encoding of b with no padding.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode accepts base64url input with or without trailing padding and
// returns the raw bytes. Inputs containing characters outside the
// base64url alphabet are rejected.
func Decode(s string) ([]byte, error) {
	if n := len(s) % 4; n != 0 {
		s += strings.Repeat("=", 4-n)
	}
	out, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64url segment: %w", err)
	}
	return out, nil
}
