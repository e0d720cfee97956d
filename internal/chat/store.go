package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/eltonjung81/atualizarfront/internal/storage"
)

const persistTimeout = 5 * time.Second

// Store is the durable per-conversation message log: the in-memory Log is
// the source of truth for the session; every accepted mutation schedules a
// debounced snapshot write behind it.
//
// Failure semantics: snapshot read/write errors are logged and swallowed.
// Persistence never blocks or fails the in-memory flow.
type Store struct {
	log            *slog.Logger
	conversationID string
	snapshots      storage.SnapshotStore
	debounce       *Debouncer

	mu   sync.Mutex
	msgs *Log
}

// NewStore constructs a Store for one conversation. persistDelay <= 0 uses
// the 500ms default.
func NewStore(log *slog.Logger, conversationID string, snapshots storage.SnapshotStore, persistDelay time.Duration) *Store {
	s := &Store{
		log:            log,
		conversationID: conversationID,
		snapshots:      snapshots,
		msgs:           NewLog(),
	}
	s.debounce = NewDebouncer(persistDelay, s.writeSnapshot)
	return s
}

func (s *Store) snapshotKey() string {
	return "chat:" + s.conversationID
}

// Load reads the persisted snapshot into the log. It fails soft: missing or
// corrupt data yields an empty log and never an error to the caller.
func (s *Store) Load(ctx context.Context) {
	data, err := s.snapshots.Get(ctx, s.snapshotKey())
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("store.load.fail", "conversation_id", s.conversationID, "err", err)
		}
		return
	}

	var loaded []Message
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.log.Warn("store.load.corrupt", "conversation_id", s.conversationID, "err", err)
		return
	}

	s.mu.Lock()
	s.msgs.MergeBulk(loaded)
	s.mu.Unlock()

	s.log.Info("store.load", "conversation_id", s.conversationID, "messages", len(loaded))
}

// Upsert inserts a message if its id is absent and reports whether an
// insertion happened. Schedules a persist on change.
func (s *Store) Upsert(m Message) bool {
	s.mu.Lock()
	inserted := s.msgs.Upsert(m)
	var snap []Message
	if inserted {
		snap = s.msgs.Messages()
	}
	s.mu.Unlock()

	if inserted {
		s.debounce.Schedule(snap)
	}
	return inserted
}

// UpdateStatus applies a status change and reports whether anything changed.
// Schedules a persist only on change.
func (s *Store) UpdateStatus(id string, status Status) bool {
	s.mu.Lock()
	changed := s.msgs.UpdateStatus(id, status)
	var snap []Message
	if changed {
		snap = s.msgs.Messages()
	}
	s.mu.Unlock()

	if changed {
		s.debounce.Schedule(snap)
	}
	return changed
}

// MergeBulk unions incoming messages into the log (incoming wins on id
// collision). Schedules a persist on change.
func (s *Store) MergeBulk(incoming []Message) {
	s.mu.Lock()
	changed := s.msgs.MergeBulk(incoming)
	var snap []Message
	if changed {
		snap = s.msgs.Messages()
	}
	s.mu.Unlock()

	if changed {
		s.debounce.Schedule(snap)
	}
}

// Has reports whether a message id is present.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msgs.Has(id)
}

// Messages materializes the log sorted ascending by timestamp.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msgs.Messages()
}

// Flush writes any pending snapshot immediately. Called on teardown.
func (s *Store) Flush() {
	s.debounce.Flush()
}

// writeSnapshot runs on the debounce timer goroutine.
func (s *Store) writeSnapshot(snapshot []Message) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		snapshotWritesTotal.WithLabelValues("fail").Inc()
		s.log.Warn("store.persist.encode_fail", "conversation_id", s.conversationID, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.snapshots.Set(ctx, s.snapshotKey(), data); err != nil {
		snapshotWritesTotal.WithLabelValues("fail").Inc()
		s.log.Warn("store.persist.fail", "conversation_id", s.conversationID, "err", err)
		return
	}
	snapshotWritesTotal.WithLabelValues("ok").Inc()
	s.log.Debug("store.persist", "conversation_id", s.conversationID, "messages", len(snapshot))
}
