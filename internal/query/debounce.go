package query

import (
	"sync"
	"time"
)

// Debouncer collapses a burst of updates into one emission of the final
// value, delay after the last update. The pending timer is cleared on
// every new value, on delay change and on Stop, so nothing fires
// against a torn-down consumer.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	out     chan T
	stopped bool
}

func NewDebouncer[T any](delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, out: make(chan T, 1)}
}

// C delivers debounced values. The channel is buffered by one; an
// unread emission is replaced by the next, so consumers always see the
// latest value.
func (d *Debouncer[T]) C() <-chan T { return d.out }

// Set schedules v for emission after the configured delay, cancelling
// any pending emission.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.emit(v) })
}

// SetDelay changes the debounce interval and cancels any pending
// emission, matching the reset-on-delay-change contract.
func (d *Debouncer[T]) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.delay = delay
}

// Stop cancels any pending emission. Safe to call more than once.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) emit(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	select {
	case d.out <- v:
	default:
		select {
		case <-d.out:
		default:
		}
		select {
		case d.out <- v:
		default:
		}
	}
}
