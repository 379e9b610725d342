package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/timebox-sh/timebox/internal/core/activity"
	"github.com/timebox-sh/timebox/internal/core/state"
	"github.com/timebox-sh/timebox/internal/core/validate"
)

// OrderKey is the KV key the custom activity order is stored under.
const OrderKey = "activity_order"

// orderRecordVersion guards against reading records written by a newer
// schema. Anything else is treated as corrupt.
const orderRecordVersion = "1"

// orderRecord is the JSON value stored under OrderKey.
type orderRecord struct {
	Version     string    `json:"version"`
	Order       []string  `json:"order"`
	LastUpdated time.Time `json:"last_updated"`
}

// OrderStore persists the user's custom activity ordering in the KV
// store. A corrupt record is discarded and treated as "no custom
// order". When a write fails, disposable keys matching the cleanup
// globs are purged and the write retried once.
type OrderStore struct {
	kv           state.KV
	cleanupGlobs []string
	logger       zerolog.Logger
}

// NewOrderStore creates an OrderStore on top of the given KV store.
func NewOrderStore(kv state.KV, cleanupGlobs []string, logger zerolog.Logger) *OrderStore {
	return &OrderStore{
		kv:           kv,
		cleanupGlobs: cleanupGlobs,
		logger:       logger.With().Str("component", "orderstore").Logger(),
	}
}

// Get returns the stored order, or an empty slice when none is stored.
// A record that cannot be parsed is deleted so the next read starts
// clean.
func (s *OrderStore) Get(ctx context.Context) ([]string, error) {
	entry, err := s.kv.Get(ctx, OrderKey)
	if errors.Is(err, state.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read order: %w", err)
	}

	var record orderRecord
	if err := json.Unmarshal([]byte(entry.Value), &record); err != nil || record.Version != orderRecordVersion {
		s.logger.Warn().
			Err(err).
			Str("version", record.Version).
			Msg("discarding unreadable activity order record")

		if delErr := s.kv.Delete(ctx, OrderKey); delErr != nil && !errors.Is(delErr, state.ErrKeyNotFound) {
			return nil, fmt.Errorf("discard corrupt order: %w", delErr)
		}
		return nil, nil
	}

	return record.Order, nil
}

// Set replaces the stored order. Duplicate ids keep their first
// occurrence; empty or padded ids are rejected as field errors.
func (s *OrderStore) Set(ctx context.Context, ids []string) error {
	var errs criterio.FieldErrorsBuilder
	for i, id := range ids {
		if err := validate.ActivityID(id); err != nil {
			errs = errs.Append(fmt.Sprintf("order[%d]", i), err)
		}
	}
	if err := errs.ToError(); err != nil {
		return err
	}

	deduped := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(deduped, id) {
			deduped = append(deduped, id)
		}
	}

	return s.persist(ctx, deduped)
}

// Add appends an id to the order. Adding an id already present is a
// no-op and does not touch the store.
func (s *OrderStore) Add(ctx context.Context, id string) error {
	if err := validate.ActivityID(id); err != nil {
		return err
	}

	order, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(order, id) {
		return nil
	}

	return s.persist(ctx, append(order, id))
}

// Remove drops an id from the order. Removing an absent id is a no-op.
func (s *OrderStore) Remove(ctx context.Context, id string) error {
	order, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(order, id) {
		return nil
	}

	return s.persist(ctx, slices.DeleteFunc(order, func(v string) bool { return v == id }))
}

// Cleanup drops ids that no longer name an existing activity. When
// nothing changes, nothing is written.
func (s *OrderStore) Cleanup(ctx context.Context, existing []string) error {
	order, err := s.Get(ctx)
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(order))
	for _, id := range order {
		if slices.Contains(existing, id) {
			kept = append(kept, id)
		}
	}

	if len(kept) == len(order) {
		return nil
	}

	s.logger.Debug().
		Int("removed", len(order)-len(kept)).
		Msg("pruned stale ids from activity order")

	return s.persist(ctx, kept)
}

// Clear removes the stored order entirely.
func (s *OrderStore) Clear(ctx context.Context) error {
	err := s.kv.Delete(ctx, OrderKey)
	if errors.Is(err, state.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Sort returns the definitions arranged by the stored order: custom
// ordered activities first in their stored positions, everything else
// after by ascending creation time.
func (s *OrderStore) Sort(ctx context.Context, defs []activity.Definition) ([]activity.Definition, error) {
	order, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return SortByOrder(defs, order), nil
}

// SortByOrder arranges definitions by a custom id order, falling back
// to ascending CreatedAt for ids the order does not mention.
func SortByOrder(defs []activity.Definition, order []string) []activity.Definition {
	position := make(map[string]int, len(order))
	for i, id := range order {
		position[id] = i
	}

	out := make([]activity.Definition, len(defs))
	copy(out, defs)

	sort.SliceStable(out, func(i, j int) bool {
		pi, iOK := position[out[i].ID]
		pj, jOK := position[out[j].ID]

		switch {
		case iOK && jOK:
			return pi < pj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
	})

	return out
}

// persist writes the order record. On a write failure it purges
// disposable keys and retries once before giving up.
func (s *OrderStore) persist(ctx context.Context, order []string) error {
	record := orderRecord{
		Version:     orderRecordVersion,
		Order:       order,
		LastUpdated: time.Now().UTC(),
	}

	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	err = s.kv.Set(ctx, OrderKey, string(value))
	if err == nil {
		return nil
	}

	purged, purgeErr := s.kv.Purge(ctx, s.cleanupGlobs)
	if purgeErr != nil {
		return fmt.Errorf("write order: %w (cleanup also failed: %v)", err, purgeErr)
	}

	s.logger.Warn().
		Err(err).
		Int("purged", purged).
		Msg("order write failed, purged disposable keys and retrying")

	if retryErr := s.kv.Set(ctx, OrderKey, string(value)); retryErr != nil {
		return fmt.Errorf("write order after cleanup: %w", retryErr)
	}
	return nil
}
