// Package validation implements the client-side validation pipeline:
// a debounce gate, a TTL result cache, and a single-flight validation
// client that streams tagged updates to a callback.
package validation

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is the quiet period applied when none is configured.
const DefaultDebounceDelay = 300 * time.Millisecond

// Debouncer delays invocation of a function until a quiet period elapses,
// collapsing bursts of rapid calls into one. Intermediate calls are
// dropped, not deferred.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{delay: delay}
}

// Do schedules fn to run after the quiet period. Any previously scheduled
// call that has not fired yet is cancelled, so only the last call within a
// rolling window executes.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Delay returns the configured quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
