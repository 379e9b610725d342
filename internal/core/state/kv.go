// Package state defines persisted session state: the key-value substrate
// and the session snapshot used to restore a session on startup.
package state

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Entry represents a KV store entry with metadata.
type Entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KV defines persistence operations for keyed state data.
type KV interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Entry, error)
	// Purge deletes every entry whose key matches one of the glob
	// patterns and returns how many were removed.
	Purge(ctx context.Context, globs []string) (int, error)
}
