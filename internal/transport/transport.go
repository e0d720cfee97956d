// Package transport defines the realtime transport contract consumed by the
// chat engine, plus a WebSocket implementation of it.
package transport

import (
	"context"
	"sync"

	v1 "github.com/eltonjung81/atualizarfront/contracts/chat/v1"
)

// Listener receives inbound wire events in transport arrival order.
type Listener func(ev v1.Event)

// Transport is the collaborator contract the chat session depends on.
//
//   - AddListener registers a handler and returns its remove function; the
//     session's teardown path calls it deterministically.
//   - SendCommand is fire-and-forget from the session's point of view, but
//     surfaces write errors so a failed send is visible, not silently dropped.
//   - IsConnected is readable at call time, not pushed.
type Transport interface {
	AddListener(fn Listener) (remove func())
	SendCommand(ctx context.Context, cmd v1.Command) error
	IsConnected() bool
}

// listenerRegistry is the fanout primitive shared by transport
// implementations. Each listener gets a registration id so removal stays
// O(1) and idempotent.
type listenerRegistry struct {
	mu        sync.RWMutex
	nextID    int64
	listeners map[int64]Listener
}

func newListenerRegistry() *listenerRegistry {
	return &listenerRegistry{listeners: make(map[int64]Listener)}
}

// add registers fn and returns its remove function.
func (r *listenerRegistry) add(fn Listener) func() {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// dispatch delivers ev to every registered listener. Called from a single
// reader goroutine, so per-listener event order matches arrival order.
func (r *listenerRegistry) dispatch(ev v1.Event) {
	r.mu.RLock()
	fns := make([]Listener, 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (r *listenerRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}
