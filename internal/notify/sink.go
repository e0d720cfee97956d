// Package notify defines the out-of-band alert sink used when a peer message
// arrives: an audible cue plus a local push-style notification.
package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Sink delivers best-effort alerts. Failures are reported to the caller,
// which logs and moves on; a broken sink must never block reconciliation.
type Sink interface {
	PlayAlertSound() error
	RaiseLocalNotification(title, body string) error
}

// NopSink discards all alerts.
type NopSink struct{}

func (NopSink) PlayAlertSound() error                    { return nil }
func (NopSink) RaiseLocalNotification(_, _ string) error { return nil }

// TerminalSink rings the terminal bell for the audible cue and prints a
// banner line for the local notification.
type TerminalSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminalSink constructs a TerminalSink writing to w.
func NewTerminalSink(w io.Writer) (*TerminalSink, error) {
	if w == nil {
		return nil, errors.New("notify: nil writer")
	}
	return &TerminalSink{w: w}, nil
}

// PlayAlertSound writes the BEL control character.
func (s *TerminalSink) PlayAlertSound() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := io.WriteString(s.w, "\a")
	return err
}

// RaiseLocalNotification prints a one-line banner.
func (s *TerminalSink) RaiseLocalNotification(title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintf(s.w, "*** %s: %s\n", title, body)
	return err
}
