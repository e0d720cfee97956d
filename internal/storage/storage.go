// Package storage provides the durable key-value snapshot store behind chat
// persistence. One key holds the serialized message log of one conversation.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no snapshot exists for the key.
var ErrNotFound = errors.New("storage: snapshot not found")

// SnapshotStore is the minimal persistence contract consumed by the chat
// engine. Implementations must treat values as opaque bytes.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
