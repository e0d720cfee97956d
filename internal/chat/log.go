package chat

import "sort"

// Log is the in-memory message set for one conversation.
//
// Invariants:
//   - IDs are unique; Upsert of a known id is a no-op.
//   - Messages() materializes ascending by timestamp, ties broken by
//     arrival order (stable sort over the arrival-ordered backing slice).
//
// Log is not safe for concurrent use; Store serializes access.
type Log struct {
	entries []Message
	index   map[string]int // id -> position in entries
}

// NewLog constructs an empty Log.
func NewLog() *Log {
	return &Log{index: make(map[string]int)}
}

// Len returns the number of messages in the log.
func (l *Log) Len() int { return len(l.entries) }

// Has reports whether a message id is present.
func (l *Log) Has(id string) bool {
	_, ok := l.index[id]
	return ok
}

// Upsert inserts a message if its id is absent and reports whether an
// insertion happened. An existing entry always wins: the duplicate-delivery
// guard for replays after reconnect lives here.
func (l *Log) Upsert(m Message) bool {
	if _, ok := l.index[m.ID]; ok {
		return false
	}
	l.index[m.ID] = len(l.entries)
	l.entries = append(l.entries, m)
	return true
}

// UpdateStatus sets a new delivery status on the message with the given id
// and reports whether anything changed. Unknown id or unchanged status is a
// no-op so callers can skip redundant persistence.
func (l *Log) UpdateStatus(id string, status Status) bool {
	pos, ok := l.index[id]
	if !ok {
		return false
	}
	if l.entries[pos].Status == status {
		return false
	}
	l.entries[pos].Status = status
	return true
}

// MergeBulk unions incoming messages into the log by id. On an id collision
// the incoming entry overwrites the existing one in place, keeping its
// original arrival position so tie-breaking stays stable. Used for history
// replay; reports whether the log changed.
func (l *Log) MergeBulk(incoming []Message) bool {
	changed := false
	for _, m := range incoming {
		if pos, ok := l.index[m.ID]; ok {
			if l.entries[pos] != m {
				l.entries[pos] = m
				changed = true
			}
			continue
		}
		l.index[m.ID] = len(l.entries)
		l.entries = append(l.entries, m)
		changed = true
	}
	return changed
}

// Messages returns a copy of the log sorted ascending by timestamp.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.entries))
	copy(out, l.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
