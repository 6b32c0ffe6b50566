// Package storage defines the named-slot persistence used by the journal.
// A slot holds one opaque blob; backends are in-memory, sqlite (gorm) and bolt.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage: backend closed")

// SlotStore reads and writes named blobs.
type SlotStore interface {
	// Load returns the blob stored under name, or nil when the slot is empty.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save replaces the blob stored under name.
	Save(ctx context.Context, name string, data []byte) error

	// Close releases the backend.
	Close() error
}
