package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_jobboard/internal/engine/kv"
)

// newTestSearchStore returns a store with a deterministic clock and ids.
func newTestSearchStore(t *testing.T, store kv.Store) *SearchStore {
	t.Helper()
	s := NewSearchStore(store)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time { return base.Add(time.Duration(n) * time.Minute) }
	s.newID = func() string { n++; return fmt.Sprintf("id-%d", n) }
	return s
}

func keywords(list []SavedSearch) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Keyword)
	}
	return out
}

func TestSearchStore_SaveNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestSearchStore(t, kv.NewMemory())

	first, err := s.Save(ctx, "go", "Berlin", "")
	require.NoError(t, err)
	assert.Equal(t, "id-1", first.ID)
	_, err = s.Save(ctx, "rust", "", "Contract")
	require.NoError(t, err)

	list, err := s.Saved(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"rust", "go"}, keywords(list))
	assert.Equal(t, "Contract", list[0].JobType)
	assert.Equal(t, "/search?q=go&location=Berlin", list[1].Path())
	assert.Equal(t, Criteria{Keyword: "rust", JobType: "Contract"}, list[0].Criteria())
}

func TestSearchStore_Dedup(t *testing.T) {
	ctx := context.Background()
	s := newTestSearchStore(t, kv.NewMemory())

	_, _ = s.Save(ctx, "go", "Berlin", "")
	_, _ = s.Save(ctx, "python", "", "")
	again, err := s.Save(ctx, " Go ", "berlin", "")
	require.NoError(t, err)

	list, err := s.Saved(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, again.ID, list[0].ID)
	assert.Equal(t, "python", list[1].Keyword)

	// A different job type is a different search.
	_, _ = s.Save(ctx, "go", "Berlin", "Full-time")
	list, _ = s.Saved(ctx)
	assert.Len(t, list, 3)
}

func TestSearchStore_Caps(t *testing.T) {
	ctx := context.Background()
	s := newTestSearchStore(t, kv.NewMemory())

	for i := 0; i < 15; i++ {
		_, err := s.Save(ctx, fmt.Sprintf("kw%d", i), "", "")
		require.NoError(t, err)
		_, err = s.Record(ctx, fmt.Sprintf("kw%d", i), "", "")
		require.NoError(t, err)
	}

	saved, err := s.Saved(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 10)
	assert.Equal(t, "kw14", saved[0].Keyword)
	assert.Equal(t, "kw5", saved[9].Keyword)

	history, err := s.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kw14", "kw13", "kw12", "kw11", "kw10"}, keywords(history))
}

func TestSearchStore_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	s := newTestSearchStore(t, kv.NewMemory())

	a, _ := s.Save(ctx, "go", "", "")
	_, _ = s.Save(ctx, "rust", "", "")
	_, _ = s.Record(ctx, "java", "", "")

	removed, err := s.RemoveSaved(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.RemoveSaved(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, removed)

	list, _ := s.Saved(ctx)
	assert.Equal(t, []string{"rust"}, keywords(list))

	require.NoError(t, s.ClearHistory(ctx))
	history, err := s.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSearchStore_EmptyRejected(t *testing.T) {
	s := newTestSearchStore(t, kv.NewMemory())
	_, err := s.Save(context.Background(), "  ", "", "Full-time")
	assert.ErrorIs(t, err, ErrEmptySearch)
}

func TestSearchStore_CorruptDataResets(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, KeySavedSearches, []byte("{not json")))
	s := newTestSearchStore(t, mem)

	list, err := s.Saved(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.Save(ctx, "go", "", "")
	require.NoError(t, err)
	list, _ = s.Saved(ctx)
	assert.Len(t, list, 1)
}

func TestSearchStore_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := kv.OpenSQLite(t.TempDir() + "/state.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := newTestSearchStore(t, db)
	saved, err := s.Save(ctx, "go", "Remote", "")
	require.NoError(t, err)

	list, err := s.Saved(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)
	assert.True(t, saved.CreatedAt.Equal(list[0].CreatedAt))
}
