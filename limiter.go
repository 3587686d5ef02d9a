package journal

import (
	"strings"
	"sync"
	"time"
)

// LoginLimiter counts failed logins per account and refuses further attempts
// once max failures fall inside the window.
type LoginLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewLoginLimiter creates a LoginLimiter that allows max failures per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		failures: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

func limiterKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Check returns true if email has not used up its failures. It does not
// record anything; call Record after a rejected login.
func (l *LoginLimiter) Check(email string) bool {
	key := limiterKey(email)
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	hits := l.failures[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.failures, key)
	} else {
		l.failures[key] = kept
	}
	return len(kept) < l.max
}

// Record registers a failed login for email.
func (l *LoginLimiter) Record(email string) {
	key := limiterKey(email)
	l.mu.Lock()
	l.failures[key] = append(l.failures[key], l.now())
	l.mu.Unlock()
}

// Reset forgets the failures for email after a successful login.
func (l *LoginLimiter) Reset(email string) {
	l.mu.Lock()
	delete(l.failures, limiterKey(email))
	l.mu.Unlock()
}
