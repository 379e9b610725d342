package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/timebox-sh/timebox/internal/core/state"
)

// SnapshotStore implements state.SnapshotStore using a JSON file.
type SnapshotStore struct {
	path string
	mu   sync.RWMutex
}

// NewSnapshotStore creates a new JSON file snapshot store at the given path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Load returns the saved snapshot. Returns ErrNoSnapshot if none exists.
func (s *SnapshotStore) Load(ctx context.Context) (state.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state.Snapshot{}, state.ErrNoSnapshot
		}
		return state.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}

	if len(data) == 0 {
		return state.Snapshot{}, state.ErrNoSnapshot
	}

	var snap state.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return state.Snapshot{}, fmt.Errorf("parse snapshot file: %w", err)
	}

	return snap, nil
}

// Save writes the snapshot to disk atomically.
func (s *SnapshotStore) Save(ctx context.Context, snap state.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Clear removes the saved snapshot. Clearing when none exists is a no-op.
func (s *SnapshotStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot file: %w", err)
	}
	return nil
}
