package chat

import (
	"log/slog"
	"sync"
	"time"

	v1 "github.com/eltonjung81/atualizarfront/contracts/chat/v1"
)

// Reconciler folds inbound transport events into the Store exactly once
// each. Events are processed strictly in arrival order; display order is
// the Store's concern.
type Reconciler struct {
	log            *slog.Logger
	store          *Store
	notifier       *Notifier
	conversationID string

	// now is the receipt-time source, a seam for tests.
	now func() time.Time

	onHistoryLoaded func()
	onPeerMessage   func(m Message)

	mu            sync.Mutex
	lastEventID   string
	historyLoaded bool
	// aliases maps any id the backend may reference a message by
	// (clientMessageId, server event id) onto the local log id.
	aliases map[string]string
}

// NewReconciler constructs a Reconciler for one conversation.
func NewReconciler(log *slog.Logger, store *Store, notifier *Notifier, conversationID string) *Reconciler {
	return &Reconciler{
		log:            log,
		store:          store,
		notifier:       notifier,
		conversationID: conversationID,
		now:            time.Now,
		aliases:        make(map[string]string),
	}
}

// Track records that clientMessageID refers to the local message localID.
// The composer calls this for every optimistic send so later echoes and
// status updates correlate back to the optimistic entry.
func (r *Reconciler) Track(clientMessageID, localID string) {
	if clientMessageID == "" || localID == "" {
		return
	}
	r.mu.Lock()
	r.aliases[clientMessageID] = localID
	r.mu.Unlock()
}

// HistoryLoaded reports whether at least one history replay was applied.
func (r *Reconciler) HistoryLoaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.historyLoaded
}

// HandleEvent applies one inbound event. Safe under the single transport
// reader; internal state is still locked because Track arrives from the
// composer path.
func (r *Reconciler) HandleEvent(ev v1.Event) {
	// Duplicate-delivery guard: at-most-once application per event id.
	if ev.EventID != "" {
		r.mu.Lock()
		if ev.EventID == r.lastEventID {
			r.mu.Unlock()
			duplicateEventsTotal.Inc()
			r.log.Debug("reconciler.event.duplicate", "event_id", ev.EventID)
			return
		}
		r.lastEventID = ev.EventID
		r.mu.Unlock()
	}

	switch ev.EventType {
	case v1.TypeChatMessage:
		r.handleChatMessage(ev)
	case v1.TypeChatHistory:
		r.handleHistory(ev)
	case v1.TypeStatusUpdate:
		r.handleStatusUpdate(ev)
	default:
		eventsTotal.WithLabelValues("unrecognized").Inc()
		r.log.Info("reconciler.event.unrecognized", "event_type", ev.EventType)
	}
}

func (r *Reconciler) handleChatMessage(ev v1.Event) {
	// Stale listeners during rapid navigation can still deliver events for
	// another conversation; drop them silently.
	if ev.ConversationID != r.conversationID {
		eventsTotal.WithLabelValues("foreign").Inc()
		return
	}

	if senderFromRole(ev.SenderRole) == SenderSelf {
		// Own echo: already optimistically shown. Use it for correlation
		// only, never for re-display.
		eventsTotal.WithLabelValues("own_echo").Inc()
		r.resolveEcho(ev)
		return
	}

	eventsTotal.WithLabelValues("peer_message").Inc()

	receipt := r.now()
	ts := parseWireTimestamp(ev.ServerTimestamp, receipt)

	id := ev.EventID
	if id == "" {
		// The backend does not always assign ids; synthesize a stable-enough
		// one from receipt time so the log invariant holds.
		id = "recv_" + receipt.UTC().Format("20060102150405.000000000")
	}

	m := Message{
		ID:          id,
		Text:        ev.Content,
		Sender:      SenderPeer,
		Timestamp:   ts,
		Status:      StatusDelivered,
		DisplayTime: formatDisplayTime(ts),
	}

	if !r.store.Upsert(m) {
		return
	}
	r.notifier.PeerMessage(m)
	if r.onPeerMessage != nil {
		r.onPeerMessage(m)
	}
}

// resolveEcho promotes the matching optimistic entry to sent and records the
// server id as an alias for future status updates.
func (r *Reconciler) resolveEcho(ev v1.Event) {
	localID := r.resolve(ev.ClientMessageID)
	if localID == "" {
		r.log.Debug("reconciler.echo.unmatched", "client_message_id", ev.ClientMessageID)
		return
	}
	if ev.EventID != "" {
		r.mu.Lock()
		r.aliases[ev.EventID] = localID
		r.mu.Unlock()
	}
	r.store.UpdateStatus(localID, StatusSent)
}

func (r *Reconciler) handleHistory(ev v1.Event) {
	if ev.ConversationID != r.conversationID {
		eventsTotal.WithLabelValues("foreign").Inc()
		return
	}
	eventsTotal.WithLabelValues("history_bulk").Inc()

	receipt := r.now()
	incoming := make([]Message, 0, len(ev.Messages))
	for _, e := range ev.Messages {
		ts := parseWireTimestamp(e.ServerTimestamp, receipt)
		status := StatusDelivered
		if st, ok := statusFromWire(e.Status); ok {
			status = st
		}
		incoming = append(incoming, Message{
			ID:          e.MessageID,
			Text:        e.Content,
			Sender:      senderFromRole(e.SenderRole),
			Timestamp:   ts,
			Status:      status,
			DisplayTime: formatDisplayTime(ts),
		})
	}

	r.store.MergeBulk(incoming)

	// Unblock the loading state exactly once, even across repeated replays.
	r.mu.Lock()
	first := !r.historyLoaded
	r.historyLoaded = true
	r.mu.Unlock()

	if first && r.onHistoryLoaded != nil {
		r.onHistoryLoaded()
	}
	r.log.Info("reconciler.history.merged", "conversation_id", r.conversationID, "messages", len(incoming))
}

func (r *Reconciler) handleStatusUpdate(ev v1.Event) {
	if ev.ConversationID != r.conversationID {
		eventsTotal.WithLabelValues("foreign").Inc()
		return
	}
	eventsTotal.WithLabelValues("status_update").Inc()

	status, ok := statusFromWire(ev.StatusValue)
	if !ok {
		r.log.Info("reconciler.status.unknown_value", "status", ev.StatusValue)
		return
	}

	localID := r.resolve(ev.StatusTarget)
	if localID == "" {
		localID = ev.StatusTarget
	}

	if !r.store.UpdateStatus(localID, status) && !r.store.Has(localID) {
		// Status for a message the log has never seen (e.g. out-of-order
		// delivery across reconnects): no-op by policy, but keep a trace.
		r.log.Info("reconciler.status.unmatched", "target", ev.StatusTarget, "status", status)
	}
}

// resolve maps a wire-referenced id onto the local log id, or "" when the
// id is unknown to the correlation table.
func (r *Reconciler) resolve(id string) string {
	if id == "" {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aliases[id]
}
