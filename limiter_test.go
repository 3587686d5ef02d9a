package journal

import (
	"testing"
	"time"
)

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewLoginLimiter(2, time.Minute)
	email := "admin@example.com"

	if !limiter.Check(email) {
		t.Fatalf("expected first attempt to be allowed")
	}
	limiter.Record(email)
	if !limiter.Check(email) {
		t.Fatalf("expected second attempt to be allowed")
	}
	limiter.Record(email)
	if limiter.Check(email) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	limiter := NewLoginLimiter(1, time.Minute)
	limiter.now = func() time.Time { return now }
	email := "admin@example.com"

	limiter.Record(email)
	if limiter.Check(email) {
		t.Fatalf("expected attempt inside window to be blocked")
	}

	now = now.Add(61 * time.Second)
	if !limiter.Check(email) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestLoginLimiterIsPerAccount(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)

	limiter.Record("one@example.com")
	if !limiter.Check("two@example.com") {
		t.Fatalf("expected second account to be allowed independently")
	}
	if limiter.Check("ONE@example.com ") {
		t.Fatalf("expected email match to ignore case and spaces")
	}
}

func TestLoginLimiterReset(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	email := "admin@example.com"

	limiter.Record(email)
	limiter.Reset(email)
	if !limiter.Check(email) {
		t.Fatalf("expected attempt after reset to be allowed")
	}
}
