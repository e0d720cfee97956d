package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	v1 "github.com/eltonjung81/atualizarfront/contracts/chat/v1"
	"github.com/eltonjung81/atualizarfront/internal/transport"
)

const sendTimeout = 5 * time.Second

// Composer turns user-authored text into an optimistic local message plus an
// outbound command carrying the same provisional id, so later echoes and
// status updates correlate back to the optimistic entry.
//
// There is no offline outbox: a send while disconnected fails fast with
// ErrNotConnected and mutates nothing, so the caller keeps the input.
type Composer struct {
	log            *slog.Logger
	store          *Store
	transport      transport.Transport
	conversationID string
	senderKey      string
	track          func(clientMessageID, localID string)
	now            func() time.Time

	mu        sync.Mutex
	lastStamp int64
}

// NewComposer constructs a Composer for one conversation. track feeds the
// reconciler's correlation table.
func NewComposer(log *slog.Logger, store *Store, tr transport.Transport, conversationID, senderKey string, track func(clientMessageID, localID string)) *Composer {
	return &Composer{
		log:            log,
		store:          store,
		transport:      tr,
		conversationID: conversationID,
		senderKey:      senderKey,
		track:          track,
		now:            time.Now,
	}
}

// Send validates text, optimistically inserts a sending-status message, and
// issues the outbound command. The returned message is the optimistic entry.
//
// A transport write failure marks the entry failed and returns the error:
// visible to the user, never retried here.
func (c *Composer) Send(ctx context.Context, text string) (Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Message{}, ErrEmptyMessage
	}
	if !c.transport.IsConnected() {
		return Message{}, ErrNotConnected
	}

	now := c.now()
	id := c.provisionalID(now)

	m := Message{
		ID:          id,
		Text:        trimmed,
		Sender:      SenderSelf,
		Timestamp:   now,
		Status:      StatusSending,
		DisplayTime: formatDisplayTime(now),
	}

	c.store.Upsert(m)
	c.track(id, id)

	cmd := v1.Command{
		CommandType:     v1.CommandChatMessage,
		ConversationID:  c.conversationID,
		SenderRole:      v1.RoleSelf,
		Content:         trimmed,
		ClientMessageID: id,
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := c.transport.SendCommand(sendCtx, cmd); err != nil {
		c.store.UpdateStatus(id, StatusFailed)
		c.log.Warn("composer.send.fail", "message_id", id, "err", err)
		return m, fmt.Errorf("chat: send: %w", err)
	}

	c.log.Debug("composer.send", "message_id", id)
	return m, nil
}

// provisionalID synthesizes the local message id. The millisecond stamp is
// kept strictly monotonic per composer so two sends in the same millisecond
// cannot collide in the log.
func (c *Composer) provisionalID(now time.Time) string {
	stamp := now.UnixMilli()

	c.mu.Lock()
	if stamp <= c.lastStamp {
		stamp = c.lastStamp + 1
	}
	c.lastStamp = stamp
	c.mu.Unlock()

	return fmt.Sprintf("local_%d_%s", stamp, c.senderKey)
}
