package state

import (
	"context"
	"errors"
	"time"

	"github.com/timebox-sh/timebox/internal/core/timeline"
	"github.com/timebox-sh/timebox/internal/core/tracker"
)

// ErrNoSnapshot is returned when no session snapshot has been saved.
var ErrNoSnapshot = errors.New("no session snapshot")

// Snapshot captures a session so it can be restored after a restart.
// The timer is restored paused; elapsed time only advances while the
// program is running.
type Snapshot struct {
	Target    time.Duration            `json:"target"`
	Elapsed   time.Duration            `json:"elapsed"`
	Entries   []timeline.Entry         `json:"entries"`
	States    map[string]tracker.State `json:"states"`
	CurrentID string                   `json:"current_id,omitempty"`
	SavedAt   time.Time                `json:"saved_at"`
}

// SnapshotStore persists at most one session snapshot.
type SnapshotStore interface {
	// Load returns the saved snapshot. Returns ErrNoSnapshot if none exists.
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
}
