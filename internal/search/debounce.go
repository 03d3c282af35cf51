package search

import (
	"sync"
	"time"
)

// DefaultWindow is the quiescence delay before a raw query becomes
// effective. The mobile app used 300ms on the home screen.
const DefaultWindow = 300 * time.Millisecond

// debouncer delays emission of the most recent value until it has been
// stable for a full window. It is a two-state machine: idle (no timer) and
// pending (timer armed). Every Update cancels the pending timer and arms a
// new one, so at most one emission fires per quiescence window.
type debouncer struct {
	mu     sync.Mutex
	window time.Duration
	emit   func(string)

	timer   *time.Timer
	pending bool
	gen     uint64
	value   string
}

func newDebouncer(window time.Duration, emit func(string)) *debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &debouncer{window: window, emit: emit}
}

// update records a new raw value and restarts the quiescence window.
func (d *debouncer) update(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.value = v
	d.gen++
	gen := d.gen
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

// flush emits the given value immediately and cancels any pending window.
func (d *debouncer) flush(v string) {
	d.mu.Lock()
	d.value = v
	d.gen++
	d.cancelLocked()
	emit := d.emit
	d.mu.Unlock()
	emit(v)
}

// cancel drops any pending emission and returns to idle.
func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.cancelLocked()
}

func (d *debouncer) cancelLocked() {
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire runs on the timer goroutine. A stale generation means another update
// or cancel happened after this timer was armed.
func (d *debouncer) fire(gen uint64) {
	d.mu.Lock()
	if !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	v := d.value
	emit := d.emit
	d.mu.Unlock()
	// emit outside the lock so sinks may call back into the debouncer
	emit(v)
}
