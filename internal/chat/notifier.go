package chat

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/eltonjung81/atualizarfront/internal/notify"
)

// Notifier decides whether a just-reconciled peer message raises an
// out-of-band alert.
//
// Contract:
//   - The audible cue always plays (best-effort).
//   - A local push-style notification is raised only while the session is
//     backgrounded at the moment of reconciliation.
//   - Idempotent per message id: history merges never re-notify.
//
// Sink failures are logged and swallowed; they never reach the reconciler.
type Notifier struct {
	log        *slog.Logger
	sink       notify.Sink
	foreground func() bool
	peerName   string

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewNotifier constructs a Notifier. foreground is read at notification
// time, never cached.
func NewNotifier(log *slog.Logger, sink notify.Sink, foreground func() bool, peerName string) *Notifier {
	return &Notifier{
		log:        log,
		sink:       sink,
		foreground: foreground,
		peerName:   peerName,
		seen:       make(map[string]struct{}),
	}
}

// PeerMessage alerts for a newly inserted peer message.
func (n *Notifier) PeerMessage(m Message) {
	n.mu.Lock()
	if _, ok := n.seen[m.ID]; ok {
		n.mu.Unlock()
		return
	}
	n.seen[m.ID] = struct{}{}
	n.mu.Unlock()

	if err := n.sink.PlayAlertSound(); err != nil {
		n.log.Warn("notifier.sound.fail", "message_id", m.ID, "err", err)
	} else {
		alertsTotal.WithLabelValues("sound").Inc()
	}

	if n.foreground() {
		return
	}

	title := fmt.Sprintf("New message from %s", n.peerName)
	if err := n.sink.RaiseLocalNotification(title, m.Text); err != nil {
		n.log.Warn("notifier.push.fail", "message_id", m.ID, "err", err)
		return
	}
	alertsTotal.WithLabelValues("push").Inc()
}
