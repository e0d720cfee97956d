// Package chat contains the client-side message reconciliation engine: the
// per-conversation message log, debounced snapshot persistence, the inbound
// event reconciler, the outbound composer, and the alert notifier.
package chat

import (
	"fmt"
	"strings"
	"time"
)

// Sender identifies which side of the conversation authored a message.
// It is immutable after a message is created.
type Sender string

const (
	SenderSelf Sender = "self"
	SenderPeer Sender = "peer"
)

// Status is the delivery lifecycle of a message.
// Transitions are last-write-wins; the model does not enforce forward-only.
type Status string

const (
	StatusSending   Status = "sending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
)

// Message is one entry in a conversation log. The struct is also the
// persisted projection: every field is stable enough to write to disk.
type Message struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Sender      Sender    `json:"sender"`
	Timestamp   time.Time `json:"timestamp"`
	Status      Status    `json:"status"`
	DisplayTime string    `json:"displayTime"`
}

// senderFromRole normalizes a raw wire role onto the Sender enum.
// The backend has used several spellings for the user's own role; anything
// that is not recognizably "self" is treated as the peer.
func senderFromRole(role string) Sender {
	if strings.EqualFold(strings.TrimSpace(role), string(SenderSelf)) {
		return SenderSelf
	}
	return SenderPeer
}

// statusFromWire maps a raw wire status value onto the Status enum.
// Unknown values are reported as not-ok so callers can log and skip.
func statusFromWire(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusSending:
		return StatusSending, true
	case StatusSent:
		return StatusSent, true
	case StatusDelivered:
		return StatusDelivered, true
	case StatusRead:
		return StatusRead, true
	case StatusFailed:
		return StatusFailed, true
	default:
		return "", false
	}
}

// formatDisplayTime renders the H:MM clock string shown next to a bubble.
// Recomputed from the timestamp; never authoritative.
func formatDisplayTime(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}

// parseWireTimestamp parses an ISO-8601 server timestamp, falling back to
// the local receipt time when the field is missing or malformed.
func parseWireTimestamp(raw string, receipt time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return receipt
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts
	}
	return receipt
}
