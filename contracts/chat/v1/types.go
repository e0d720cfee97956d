// Package v1 defines the chat wire contract v1.
//
// This package is intentionally stable and dependency-light. It is the
// authoritative shape of what the backend pushes over the realtime channel
// and what the client sends back, normalized from the raw aliases the
// backend historically used.
package v1

import (
	"errors"
	"fmt"
	"strings"
)

// Version is the contract version identifier.
const Version = "v1"

// Event type constants (wire-stable).
const (
	// TypeChatMessage carries one new message, authored by either role.
	TypeChatMessage = "chat_message"
	// TypeChatHistory carries a bulk history replay for a conversation.
	TypeChatHistory = "chat_history"
	// TypeStatusUpdate reports a delivery-status change for one message.
	TypeStatusUpdate = "status_update"
)

// Sender roles (wire-stable).
const (
	RoleSelf = "self"
	RolePeer = "peer"
)

// CommandChatMessage is the only outbound command type of this contract.
const CommandChatMessage = "chat_message"

// Event is the canonical inbound wire shape.
//
// ServerTimestamp is kept as the raw ISO-8601 string: the backend is not
// consistent about it, so parsing and fallback live on the consumer side.
type Event struct {
	EventType       string         `json:"eventType"`
	EventID         string         `json:"eventId,omitempty"`
	ConversationID  string         `json:"conversationId"`
	SenderRole      string         `json:"senderRole,omitempty"`
	Content         string         `json:"content,omitempty"`
	ServerTimestamp string         `json:"serverTimestamp,omitempty"`
	ClientMessageID string         `json:"clientMessageId,omitempty"`
	StatusTarget    string         `json:"statusTarget,omitempty"`
	StatusValue     string         `json:"statusValue,omitempty"`
	Messages        []HistoryEntry `json:"messages,omitempty"`
}

// HistoryEntry is one message inside a TypeChatHistory event.
type HistoryEntry struct {
	MessageID       string `json:"messageId"`
	SenderRole      string `json:"senderRole"`
	Content         string `json:"content"`
	ServerTimestamp string `json:"serverTimestamp,omitempty"`
	Status          string `json:"status,omitempty"`
}

// Command is the outbound wire shape produced by the client.
type Command struct {
	CommandType     string `json:"commandType"`
	ConversationID  string `json:"conversationId"`
	SenderRole      string `json:"senderRole"`
	Content         string `json:"content"`
	ClientMessageID string `json:"clientMessageId"`
}

// Validate performs strict structural validation for an inbound Event.
// It checks shape only; conversation scoping is a consumer concern.
func (e Event) Validate() error {
	if strings.TrimSpace(e.EventType) == "" {
		return errors.New("missing field: eventType")
	}
	if strings.TrimSpace(e.ConversationID) == "" {
		return errors.New("missing field: conversationId")
	}

	switch e.EventType {
	case TypeChatMessage:
		if strings.TrimSpace(e.Content) == "" {
			return errors.New("chat_message: missing content")
		}
		return nil
	case TypeChatHistory:
		return nil
	case TypeStatusUpdate:
		if strings.TrimSpace(e.StatusTarget) == "" {
			return errors.New("status_update: missing statusTarget")
		}
		if strings.TrimSpace(e.StatusValue) == "" {
			return errors.New("status_update: missing statusValue")
		}
		return nil
	default:
		return fmt.Errorf("unknown eventType: %q", e.EventType)
	}
}

// Validate performs strict structural validation for an outbound Command.
func (c Command) Validate() error {
	if c.CommandType != CommandChatMessage {
		return fmt.Errorf("unknown commandType: %q", c.CommandType)
	}
	if strings.TrimSpace(c.ConversationID) == "" {
		return errors.New("missing field: conversationId")
	}
	if strings.TrimSpace(c.Content) == "" {
		return errors.New("missing field: content")
	}
	if strings.TrimSpace(c.ClientMessageID) == "" {
		return errors.New("missing field: clientMessageId")
	}
	return nil
}
