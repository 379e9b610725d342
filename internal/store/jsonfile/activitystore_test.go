package jsonfile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/timebox-sh/timebox/internal/core/activity"
)

func testDefinition(id, name string) activity.Definition {
	return activity.Definition{
		ID:        id,
		Name:      name,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

func TestActivityStore_SaveAndGet(t *testing.T) {
	store := NewActivityStore(filepath.Join(t.TempDir(), "activities.json"))
	ctx := context.Background()

	def := testDefinition("abc123", "Deep Work")
	if err := store.Save(ctx, def); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Deep Work" {
		t.Errorf("Name = %q, want %q", got.Name, "Deep Work")
	}
}

func TestActivityStore_GetNotFound(t *testing.T) {
	store := NewActivityStore(filepath.Join(t.TempDir(), "activities.json"))

	_, err := store.Get(context.Background(), "nonexistent")
	if !errors.Is(err, activity.ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestActivityStore_SaveUpdatesExisting(t *testing.T) {
	store := NewActivityStore(filepath.Join(t.TempDir(), "activities.json"))
	ctx := context.Background()

	def := testDefinition("abc123", "Deep Work")
	if err := store.Save(ctx, def); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	def.Name = "Focused Work"
	if err := store.Save(ctx, def); err != nil {
		t.Fatalf("Save update failed: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("List returned %d definitions, want 1", len(all))
	}
	if all[0].Name != "Focused Work" {
		t.Errorf("Name = %q, want %q", all[0].Name, "Focused Work")
	}
}

func TestActivityStore_Delete(t *testing.T) {
	store := NewActivityStore(filepath.Join(t.TempDir(), "activities.json"))
	ctx := context.Background()

	if err := store.Save(ctx, testDefinition("abc123", "Deep Work")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Delete(ctx, "abc123"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := store.Get(ctx, "abc123")
	if !errors.Is(err, activity.ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
}

func TestActivityStore_DeleteNotFound(t *testing.T) {
	store := NewActivityStore(filepath.Join(t.TempDir(), "activities.json"))

	err := store.Delete(context.Background(), "nonexistent")
	if !errors.Is(err, activity.ErrNotFound) {
		t.Errorf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestActivityStore_ListEmpty(t *testing.T) {
	store := NewActivityStore(filepath.Join(t.TempDir(), "activities.json"))

	all, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("List returned %d definitions, want 0", len(all))
	}
}

func TestActivityStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	ctx := context.Background()

	first := NewActivityStore(path)
	if err := first.Save(ctx, testDefinition("abc123", "Deep Work")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := NewActivityStore(path)
	got, err := second.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get from new instance failed: %v", err)
	}
	if got.Name != "Deep Work" {
		t.Errorf("Name = %q, want %q", got.Name, "Deep Work")
	}
}
