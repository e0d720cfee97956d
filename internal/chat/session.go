package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eltonjung81/atualizarfront/internal/ids"
	"github.com/eltonjung81/atualizarfront/internal/notify"
	"github.com/eltonjung81/atualizarfront/internal/storage"
	"github.com/eltonjung81/atualizarfront/internal/transport"
)

// SessionParams wires one conversation session.
type SessionParams struct {
	ConversationID string
	// PeerName labels notifications ("New message from <PeerName>").
	PeerName string
	// SenderKey is embedded in provisional message ids.
	SenderKey string

	Transport transport.Transport
	Snapshots storage.SnapshotStore
	Sink      notify.Sink
	Logger    *slog.Logger

	// PersistDelay tunes the snapshot debounce window (default 500ms).
	PersistDelay time.Duration

	// OnHistoryLoaded fires exactly once, on the first history replay.
	OnHistoryLoaded func()
	// OnPeerMessage fires for every newly inserted peer message, after
	// reconciliation. Observational only.
	OnPeerMessage func(m Message)
}

// Session is one conversation-scoped instance of the reconciliation engine.
// It exclusively owns its Store; sessions for the same conversation never
// overlap (single-active-screen assumption).
type Session struct {
	log            *slog.Logger
	sessionID      string
	conversationID string

	store      *Store
	reconciler *Reconciler
	composer   *Composer

	foreground  atomic.Bool
	unsubscribe func()
	closeOnce   sync.Once
}

// NewSession validates params, loads the persisted log, and subscribes to
// the transport. A missing conversation id is fatal: no partial session is
// created.
func NewSession(ctx context.Context, p SessionParams) (*Session, error) {
	if strings.TrimSpace(p.ConversationID) == "" {
		return nil, ErrMissingConversationID
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Sink == nil {
		p.Sink = notify.NopSink{}
	}
	if p.PeerName == "" {
		p.PeerName = "peer"
	}
	if p.SenderKey == "" {
		p.SenderKey = "self"
	}

	sessionID, err := ids.NewULID(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	log := p.Logger.With("session_id", sessionID, "conversation_id", p.ConversationID)

	s := &Session{
		log:            log,
		sessionID:      sessionID,
		conversationID: p.ConversationID,
	}
	// Sessions start foregrounded, like a freshly opened screen.
	s.foreground.Store(true)

	s.store = NewStore(log, p.ConversationID, p.Snapshots, p.PersistDelay)
	s.store.Load(ctx)

	notifier := NewNotifier(log, p.Sink, s.Foreground, p.PeerName)

	s.reconciler = NewReconciler(log, s.store, notifier, p.ConversationID)
	s.reconciler.onHistoryLoaded = p.OnHistoryLoaded
	s.reconciler.onPeerMessage = p.OnPeerMessage

	s.composer = NewComposer(log, s.store, p.Transport, p.ConversationID, p.SenderKey, s.reconciler.Track)

	s.unsubscribe = p.Transport.AddListener(s.reconciler.HandleEvent)

	log.Info("session.start", "loaded_messages", len(s.store.Messages()))
	return s, nil
}

// Send composes and sends a message. See Composer.Send.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	return s.composer.Send(ctx, text)
}

// Messages materializes the conversation log, sorted by timestamp.
func (s *Session) Messages() []Message {
	return s.store.Messages()
}

// HistoryLoaded reports whether at least one history replay was applied.
func (s *Session) HistoryLoaded() bool {
	return s.reconciler.HistoryLoaded()
}

// SetForeground records whether the conversation screen is visible.
// Consulted by the notifier only; reconciliation never depends on it.
func (s *Session) SetForeground(v bool) {
	s.foreground.Store(v)
}

// Foreground reports the current focus state.
func (s *Session) Foreground() bool {
	return s.foreground.Load()
}

// Close unsubscribes from the transport and flushes any pending snapshot.
// Idempotent; always called on teardown, never left to the GC.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		s.store.Flush()
		s.log.Info("session.stop")
	})
}
