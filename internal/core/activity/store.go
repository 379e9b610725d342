package activity

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an activity does not exist.
var ErrNotFound = errors.New("activity not found")

// Store defines persistence operations for activity definitions.
type Store interface {
	// List returns all activity definitions.
	List(ctx context.Context) ([]Definition, error)
	// Get returns a definition by ID. Returns ErrNotFound if not found.
	Get(ctx context.Context, id string) (Definition, error)
	// Save creates or updates a definition.
	Save(ctx context.Context, def Definition) error
	// Delete removes a definition by ID. Returns ErrNotFound if not found.
	Delete(ctx context.Context, id string) error
}
