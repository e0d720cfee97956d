package chat

import (
	"sync"
	"testing"
	"time"
)

type writeRecorder struct {
	mu     sync.Mutex
	writes [][]Message
}

func (w *writeRecorder) write(snapshot []Message) {
	w.mu.Lock()
	w.writes = append(w.writes, snapshot)
	w.mu.Unlock()
}

func (w *writeRecorder) snapshot() [][]Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]Message, len(w.writes))
	copy(out, w.writes)
	return out
}

func TestDebouncerCoalesces(t *testing.T) {
	t.Parallel()

	rec := &writeRecorder{}
	d := NewDebouncer(shortDelay, rec.write)

	for i := 0; i < 5; i++ {
		snap := make([]Message, i+1)
		d.Schedule(snap)
	}

	time.Sleep(10 * shortDelay)

	writes := rec.snapshot()
	if len(writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(writes))
	}
	if len(writes[0]) != 5 {
		t.Fatalf("written snapshot len = %d, want 5 (the last scheduled)", len(writes[0]))
	}
}

func TestDebouncerSeparateBursts(t *testing.T) {
	t.Parallel()

	rec := &writeRecorder{}
	d := NewDebouncer(shortDelay, rec.write)

	d.Schedule(make([]Message, 1))
	time.Sleep(10 * shortDelay)
	d.Schedule(make([]Message, 2))
	time.Sleep(10 * shortDelay)

	writes := rec.snapshot()
	if len(writes) != 2 {
		t.Fatalf("writes = %d, want 2", len(writes))
	}
}

func TestDebouncerFlush(t *testing.T) {
	t.Parallel()

	rec := &writeRecorder{}
	d := NewDebouncer(time.Hour, rec.write)

	d.Schedule(make([]Message, 3))
	d.Flush()

	writes := rec.snapshot()
	if len(writes) != 1 {
		t.Fatalf("writes after Flush = %d, want 1", len(writes))
	}
	if len(writes[0]) != 3 {
		t.Fatalf("flushed snapshot len = %d, want 3", len(writes[0]))
	}

	// Nothing pending: Flush is a no-op.
	d.Flush()
	if got := rec.snapshot(); len(got) != 1 {
		t.Fatalf("writes after second Flush = %d, want 1", len(got))
	}
}
