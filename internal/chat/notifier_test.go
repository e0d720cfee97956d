package chat

import (
	"errors"
	"testing"
)

func TestNotifierForegroundSuppressesPush(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		foreground bool
		wantPushes int
	}{
		{name: "foreground", foreground: true, wantPushes: 0},
		{name: "background", foreground: false, wantPushes: 1},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sink := &recordSink{}
			n := NewNotifier(testLogger(), sink, func() bool { return tc.foreground }, "Driver")

			n.PeerMessage(msg("a", "hello", "2025-03-01T10:00:00Z"))

			sounds, pushes := sink.counts()
			if sounds != 1 {
				t.Fatalf("sounds = %d, want 1 (always plays)", sounds)
			}
			if pushes != tc.wantPushes {
				t.Fatalf("pushes = %d, want %d", pushes, tc.wantPushes)
			}
		})
	}
}

func TestNotifierIdempotentPerMessage(t *testing.T) {
	t.Parallel()

	sink := &recordSink{}
	n := NewNotifier(testLogger(), sink, func() bool { return false }, "Driver")

	m := msg("a", "hello", "2025-03-01T10:00:00Z")
	n.PeerMessage(m)
	n.PeerMessage(m) // e.g. reconciled again via a history merge

	sounds, pushes := sink.counts()
	if sounds != 1 || pushes != 1 {
		t.Fatalf("sounds=%d pushes=%d, want 1 and 1", sounds, pushes)
	}
}

func TestNotifierSinkFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	sink := &recordSink{
		soundErr: errors.New("sound not loaded"),
		pushErr:  errors.New("notification center down"),
	}
	n := NewNotifier(testLogger(), sink, func() bool { return false }, "Driver")

	// Must not panic or propagate.
	n.PeerMessage(msg("a", "hello", "2025-03-01T10:00:00Z"))
}
