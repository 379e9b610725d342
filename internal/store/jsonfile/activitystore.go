package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/timebox-sh/timebox/internal/core/activity"
)

// ActivityFile is the root JSON structure stored on disk for activity
// definitions.
type ActivityFile struct {
	Activities []activity.Definition `json:"activities"`
}

// ActivityStore implements activity.Store using a JSON file for
// persistence.
type ActivityStore struct {
	path string
	mu   sync.RWMutex
}

// NewActivityStore creates a new JSON file activity store at the given path.
func NewActivityStore(path string) *ActivityStore {
	return &ActivityStore{path: path}
}

// List returns all activity definitions.
func (s *ActivityStore) List(ctx context.Context) ([]activity.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}

	return file.Activities, nil
}

// Get returns a definition by ID. Returns ErrNotFound if not found.
func (s *ActivityStore) Get(ctx context.Context, id string) (activity.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return activity.Definition{}, err
	}

	for _, def := range file.Activities {
		if def.ID == id {
			return def, nil
		}
	}

	return activity.Definition{}, activity.ErrNotFound
}

// Save creates or updates a definition.
func (s *ActivityStore) Save(ctx context.Context, def activity.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	// Update existing or append new
	found := false
	for i, existing := range file.Activities {
		if existing.ID == def.ID {
			file.Activities[i] = def
			found = true
			break
		}
	}
	if !found {
		file.Activities = append(file.Activities, def)
	}

	return s.save(file)
}

// Delete removes a definition by ID. Returns ErrNotFound if not found.
func (s *ActivityStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	for i, def := range file.Activities {
		if def.ID == id {
			file.Activities = append(file.Activities[:i], file.Activities[i+1:]...)
			return s.save(file)
		}
	}

	return activity.ErrNotFound
}

// load reads the activity file from disk.
// Returns empty ActivityFile if file doesn't exist.
func (s *ActivityStore) load() (ActivityFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ActivityFile{}, nil
		}
		return ActivityFile{}, fmt.Errorf("read activities file: %w", err)
	}

	if len(data) == 0 {
		return ActivityFile{}, nil
	}

	var file ActivityFile
	if err := json.Unmarshal(data, &file); err != nil {
		return ActivityFile{}, fmt.Errorf("parse activities file: %w", err)
	}

	return file, nil
}

// save writes the activity file to disk atomically.
// Uses write-to-temp-then-rename to prevent corruption from interrupted writes.
func (s *ActivityStore) save(file ActivityFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create activities directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal activities: %w", err)
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
