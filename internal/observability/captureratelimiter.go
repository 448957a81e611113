package observability

import (
	"crypto/md5"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// CaptureRateLimiter drops Sentry reports of a message that was reported
// less than an interval ago.
//
// Last report times are remembered for a bounded number of distinct
// messages. A nil value lets all messages through.
type CaptureRateLimiter struct {
	mu sync.Mutex

	// lastSent maps message digests to the time they were last reported.
	lastSent *lru.Cache

	interval time.Duration
}

func NewCaptureRateLimiter(
	size int,
	interval time.Duration,
) (*CaptureRateLimiter, error) {
	lastSent, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("observability: capture rate limiter: %v", err)
	}

	return &CaptureRateLimiter{lastSent: lastSent, interval: interval}, nil
}

// AllowCapture reports whether msg may be sent now, and if so records it
// as sent.
func (rl *CaptureRateLimiter) AllowCapture(msg string) bool {
	if rl == nil {
		return true
	}

	digest := md5.Sum([]byte(msg))
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if last, ok := rl.lastSent.Get(digest); ok &&
		now.Before(last.(time.Time).Add(rl.interval)) {
		return false
	}

	rl.lastSent.Add(digest, now)
	return true
}
