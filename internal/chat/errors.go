package chat

import "errors"

// User-visible errors. Storage and notification failures are deliberately
// absent: those degrade silently and are only logged.
var (
	// ErrEmptyMessage rejects composition of empty-after-trim text.
	ErrEmptyMessage = errors.New("chat: empty message text")

	// ErrNotConnected rejects a send while the transport reports disconnected.
	// The caller must preserve the user's input.
	ErrNotConnected = errors.New("chat: transport not connected")

	// ErrMissingConversationID is fatal for session creation: no partial
	// session is ever constructed without a conversation id.
	ErrMissingConversationID = errors.New("chat: missing conversation id")
)
