package jsonfile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timebox-sh/timebox/internal/core/activity"
	"github.com/timebox-sh/timebox/internal/core/state"
)

func newOrderStore(t *testing.T) (*OrderStore, *KVStore) {
	t.Helper()
	kv := NewKVStore(filepath.Join(t.TempDir(), "state.json"))
	return NewOrderStore(kv, []string{"cache/**", "tmp/**"}, zerolog.Nop()), kv
}

func TestOrderStore_EmptyByDefault(t *testing.T) {
	store, _ := newOrderStore(t)

	order, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestOrderStore_SetAndGet(t *testing.T) {
	store, _ := newOrderStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []string{"a", "b", "c"}))

	order, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestOrderStore_SetDedupesKeepingFirst(t *testing.T) {
	store, _ := newOrderStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []string{"a", "b", "a", "c", "b"}))

	order, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestOrderStore_SetRejectsBadIDs(t *testing.T) {
	store, _ := newOrderStore(t)

	err := store.Set(context.Background(), []string{"a", "", " b "})
	require.Error(t, err)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "order[1]")
	assert.Contains(t, fields, "order[2]")
}

func TestOrderStore_AddIdempotent(t *testing.T) {
	store, kv := newOrderStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "a"))
	require.NoError(t, store.Add(ctx, "b"))

	before, err := kv.Get(ctx, OrderKey)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	// Adding an existing id must not rewrite the record
	require.NoError(t, store.Add(ctx, "a"))

	after, err := kv.Get(ctx, OrderKey)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt), "record was rewritten")

	order, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestOrderStore_Remove(t *testing.T) {
	store, _ := newOrderStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []string{"a", "b", "c"}))
	require.NoError(t, store.Remove(ctx, "b"))

	order, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, order)

	// Removing an absent id is a no-op
	require.NoError(t, store.Remove(ctx, "zzz"))
}

func TestOrderStore_CleanupDropsStaleIDs(t *testing.T) {
	store, _ := newOrderStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []string{"a", "gone", "b"}))
	require.NoError(t, store.Cleanup(ctx, []string{"a", "b", "c"}))

	order, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestOrderStore_CleanupZeroWriteWhenUnchanged(t *testing.T) {
	store, kv := newOrderStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []string{"a", "b"}))

	before, err := kv.Get(ctx, OrderKey)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, store.Cleanup(ctx, []string{"a", "b", "c"}))

	after, err := kv.Get(ctx, OrderKey)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt), "record was rewritten")
}

func TestOrderStore_Clear(t *testing.T) {
	store, kv := newOrderStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []string{"a"}))
	require.NoError(t, store.Clear(ctx))

	_, err := kv.Get(ctx, OrderKey)
	assert.ErrorIs(t, err, state.ErrKeyNotFound)

	// Clearing an already-empty store is a no-op
	require.NoError(t, store.Clear(ctx))
}

func TestOrderStore_CorruptRecordSelfHeals(t *testing.T) {
	store, kv := newOrderStore(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, OrderKey, "{not json"))

	order, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, order)

	// The unreadable record is gone; the store starts clean
	_, err = kv.Get(ctx, OrderKey)
	assert.ErrorIs(t, err, state.ErrKeyNotFound)

	require.NoError(t, store.Add(ctx, "a"))
	order, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, order)
}

func TestOrderStore_UnknownVersionSelfHeals(t *testing.T) {
	store, kv := newOrderStore(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, OrderKey, `{"version":"99","order":["a"]}`))

	order, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestOrderStore_Sort(t *testing.T) {
	store, _ := newOrderStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	defs := []activity.Definition{
		{ID: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "ordered-2", CreatedAt: base.Add(time.Hour)},
		{ID: "oldest", CreatedAt: base},
		{ID: "ordered-1", CreatedAt: base.Add(3 * time.Hour)},
	}

	require.NoError(t, store.Set(ctx, []string{"ordered-1", "ordered-2"}))

	sorted, err := store.Sort(ctx, defs)
	require.NoError(t, err)

	ids := make([]string, 0, len(sorted))
	for _, def := range sorted {
		ids = append(ids, def.ID)
	}
	assert.Equal(t, []string{"ordered-1", "ordered-2", "oldest", "newest"}, ids)
}

func TestSortByOrder_NoCustomOrder(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	defs := []activity.Definition{
		{ID: "b", CreatedAt: base.Add(time.Hour)},
		{ID: "a", CreatedAt: base},
	}

	sorted := SortByOrder(defs, nil)
	assert.Equal(t, "a", sorted[0].ID)
	assert.Equal(t, "b", sorted[1].ID)
}

// flakyKV wraps a real KV store and fails a configured number of Sets,
// recording Purge calls.
type flakyKV struct {
	inner      state.KV
	failSets   int
	purgeCalls int
}

func (f *flakyKV) Get(ctx context.Context, key string) (state.Entry, error) {
	return f.inner.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if f.failSets > 0 {
		f.failSets--
		return errors.New("no space left on device")
	}
	return f.inner.Set(ctx, key, value)
}

func (f *flakyKV) Delete(ctx context.Context, key string) error {
	return f.inner.Delete(ctx, key)
}

func (f *flakyKV) List(ctx context.Context, prefix string) ([]state.Entry, error) {
	return f.inner.List(ctx, prefix)
}

func (f *flakyKV) Purge(ctx context.Context, globs []string) (int, error) {
	f.purgeCalls++
	return f.inner.Purge(ctx, globs)
}

func TestOrderStore_WriteFailurePurgesAndRetries(t *testing.T) {
	kv := &flakyKV{
		inner:    NewKVStore(filepath.Join(t.TempDir(), "state.json")),
		failSets: 1,
	}
	store := NewOrderStore(kv, []string{"cache/**"}, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, kv.inner.Set(ctx, "cache/summary", "v"))

	require.NoError(t, store.Set(ctx, []string{"a"}))
	assert.Equal(t, 1, kv.purgeCalls)

	// Disposable key was sacrificed, the order landed
	_, err := kv.Get(ctx, "cache/summary")
	assert.ErrorIs(t, err, state.ErrKeyNotFound)

	order, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, order)
}

func TestOrderStore_WriteFailureTwiceReports(t *testing.T) {
	kv := &flakyKV{
		inner:    NewKVStore(filepath.Join(t.TempDir(), "state.json")),
		failSets: 2,
	}
	store := NewOrderStore(kv, nil, zerolog.Nop())

	err := store.Set(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Equal(t, 1, kv.purgeCalls, "only one cleanup attempt allowed")
}
