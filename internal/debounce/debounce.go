// Package debounce delays a callback until its input has been quiet for a
// fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer holds the latest pushed value and fires it once the delay
// elapses without another push. It is safe for concurrent use.
type Debouncer[T any] struct {
	delay time.Duration
	fire  func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New returns a Debouncer that calls fire on its own goroutine.
func New[T any](delay time.Duration, fire func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fire: fire}
}

// Push replaces any pending value with v and restarts the delay.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := gen == d.gen && !d.stopped
		d.mu.Unlock()
		if current {
			d.fire(v)
		}
	})
}

// Flush cancels the pending timer. It reports whether a value was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	pending := d.timer.Stop()
	d.timer = nil
	d.gen++
	return pending
}

// Stop cancels any pending value. Later pushes are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
