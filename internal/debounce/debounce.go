// Package debounce coalesces bursts of redraw requests.
package debounce

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tbviz/histograms/internal/observability"
)

// DefaultInterval is the minimum time between two redraws.
const DefaultInterval = 350 * time.Millisecond

// Debouncer rate limits a function that should run after a change, such as
// rebuilding a chart after new histogram data arrives.
//
// It is safe for concurrent use. A nil Debouncer does nothing.
type Debouncer struct {
	mu            sync.Mutex
	limiter       *rate.Limiter
	finished      bool
	needsDebounce bool
	logger        *observability.CoreLogger
}

// NewDebouncer creates a debouncer that runs at most once per interval.
func NewDebouncer(
	interval time.Duration,
	logger *observability.CoreLogger,
) *Debouncer {
	return &Debouncer{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

// SetNeedsDebounce records that a change happened.
func (d *Debouncer) SetNeedsDebounce() {
	if d == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.needsDebounce = true
}

// Debounce calls f if a change happened and the rate limiter allows it.
func (d *Debouncer) Debounce(f func()) {
	if d == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.finished || !d.needsDebounce || !d.limiter.Allow() {
		return
	}
	d.flushLocked(f)
}

// Flush calls f if a change happened, regardless of the rate limit.
func (d *Debouncer) Flush(f func()) {
	if d == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.finished {
		return
	}
	d.flushLocked(f)
}

func (d *Debouncer) flushLocked(f func()) {
	if !d.needsDebounce {
		return
	}

	d.logger.Debug("debounce: flushing")
	d.needsDebounce = false
	f()
}

// Stop makes all future debounce operations no-ops.
func (d *Debouncer) Stop() {
	if d == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.finished = true
}
