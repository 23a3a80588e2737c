package token

import (
	"errors"
	"time"
)

var (
	ErrTokenExpired     = errors.New("token is expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrTokenTooOld      = errors.New("token exceeds the maximum age")
)

// ValidateTimes checks the exp, nbf and iat claims against the supplied
// reference time. The clock is always an explicit argument; this function
// never reads the system clock. A maxAge of zero disables the age check.
// Claims that are absent (including reserved claims that arrived with a
// non-numeric value) are skipped.
func ValidateTimes(c *Claims, maxAge time.Duration, now time.Time) error {
	ts := now.Unix()
	if c.ExpiresAt != nil && ts >= *c.ExpiresAt {
		return ErrTokenExpired
	}
	if c.NotBefore != nil && ts < *c.NotBefore {
		return ErrTokenNotYetValid
	}
	if maxAge > 0 && c.IssuedAt != nil && ts > *c.IssuedAt+int64(maxAge/time.Second) {
		return ErrTokenTooOld
	}
	return nil
}
