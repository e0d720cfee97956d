package chat

import (
	"sync"
	"time"
)

// defaultPersistDelay is the quiet period before a snapshot write.
const defaultPersistDelay = 500 * time.Millisecond

// Debouncer coalesces bursts of snapshot writes into a single delayed write.
// The last snapshot scheduled within the window is the one written;
// intermediate snapshots are superseded, never interleaved.
//
// Each Store owns exactly one Debouncer: timer state is never shared across
// conversations.
type Debouncer struct {
	delay time.Duration
	write func(snapshot []Message)

	mu      sync.Mutex
	timer   *time.Timer
	pending []Message
}

// NewDebouncer constructs a Debouncer with a safe default delay when the
// input is invalid.
func NewDebouncer(delay time.Duration, write func(snapshot []Message)) *Debouncer {
	if delay <= 0 {
		delay = defaultPersistDelay
	}
	return &Debouncer{delay: delay, write: write}
}

// Schedule replaces the pending snapshot and (re)starts the quiet-period
// timer. The write fires on the timer goroutine once the window elapses
// without another Schedule call.
func (d *Debouncer) Schedule(snapshot []Message) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = snapshot
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.fire)
		return
	}
	d.timer.Reset(d.delay)
}

// Flush writes any pending snapshot immediately and cancels the timer.
// Used on session teardown so the last state is never lost to the window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	snap := d.pending
	d.pending = nil
	d.mu.Unlock()

	if snap != nil {
		d.write(snap)
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	snap := d.pending
	d.pending = nil
	d.mu.Unlock()

	if snap != nil {
		d.write(snap)
	}
}
