// Package ratelimiter bounds outbound document fetches per subject address.
package ratelimiter

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultIdleTTL = 10 * time.Minute

// MapLimiter keeps one token bucket per subject and evicts buckets that
// have been idle longer than the TTL. A nil limiter allows everything.
type MapLimiter struct {
	limit rate.Limit
	burst int

	mu    sync.Mutex
	byKey map[string]*entry
	hits  uint64
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a per-subject limiter; invalid arguments yield nil, which
// disables limiting.
func New(rps float64, burst int) *MapLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return &MapLimiter{
		limit: rate.Limit(rps),
		burst: burst,
		byKey: make(map[string]*entry),
	}
}

// Allow reports whether one fetch may proceed for the subject at now.
func (l *MapLimiter) Allow(subject string, now time.Time) bool {
	if l == nil {
		return true
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[subject]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[subject] = e
	}
	e.lastSeen = now

	l.hits++
	if l.hits%256 == 0 {
		cutoff := now.Add(-defaultIdleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}

	return e.limiter.AllowN(now, 1)
}
