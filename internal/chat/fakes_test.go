package chat

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	v1 "github.com/eltonjung81/atualizarfront/contracts/chat/v1"
	"github.com/eltonjung81/atualizarfront/internal/transport"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// shortDelay keeps debounce windows small so tests stay fast but still
// observably coalesce.
const shortDelay = 20 * time.Millisecond

// fakeTransport implements transport.Transport and lets tests deliver
// inbound events and inspect outbound commands.
type fakeTransport struct {
	mu        sync.Mutex
	connected bool
	sendErr   error
	sent      []v1.Command
	nextID    int
	listeners map[int]transport.Listener
}

func newFakeTransport(connected bool) *fakeTransport {
	return &fakeTransport{
		connected: connected,
		listeners: make(map[int]transport.Listener),
	}
}

func (f *fakeTransport) AddListener(fn transport.Listener) func() {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.listeners[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *fakeTransport) SendCommand(_ context.Context, cmd v1.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeTransport) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeTransport) setConnected(v bool) {
	f.mu.Lock()
	f.connected = v
	f.mu.Unlock()
}

func (f *fakeTransport) deliver(ev v1.Event) {
	f.mu.Lock()
	fns := make([]transport.Listener, 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (f *fakeTransport) sentCommands() []v1.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]v1.Command, len(f.sent))
	copy(out, f.sent)
	return out
}

// recordSink implements notify.Sink and records what was raised.
type recordSink struct {
	mu       sync.Mutex
	soundErr error
	pushErr  error
	sounds   int
	pushes   []string
}

func (s *recordSink) PlayAlertSound() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.soundErr != nil {
		return s.soundErr
	}
	s.sounds++
	return nil
}

func (s *recordSink) RaiseLocalNotification(_, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pushErr != nil {
		return s.pushErr
	}
	s.pushes = append(s.pushes, body)
	return nil
}

func (s *recordSink) counts() (sounds, pushes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sounds, len(s.pushes)
}

func mustTime(t string) time.Time {
	ts, err := time.Parse(time.RFC3339, t)
	if err != nil {
		panic(err)
	}
	return ts
}
