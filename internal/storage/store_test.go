package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/hotelkeys/internal/registry"
)

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("SQLite")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, b)

	_, err = ParseBackend("redis")
	assert.Error(t, err)
	assert.Equal(t, []string{"json", "sqlite"}, Backends())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	jsonStore, err := Open(BackendJSON, filepath.Join(dir, "hotel_data.json"))
	require.NoError(t, err)
	assert.IsType(t, &JSONFileStore{}, jsonStore)

	sqliteStore, err := Open(BackendSQLite, filepath.Join(dir, "hotel.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, sqliteStore)
	require.NoError(t, sqliteStore.Close())

	_, err = Open(Backend("csv"), "x")
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := t.Context()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, registry.ErrNoSnapshot)

	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)

	// Returned snapshots are copies.
	got.Rooms[0].Guest = "mutated"
	stored, ok := store.Stored()
	require.True(t, ok)
	assert.Empty(t, stored.Rooms[0].Guest)

	store.SaveErr = errors.New("disk full")
	assert.Error(t, store.Save(ctx, registry.NewSnapshot(1)))
	stored, _ = store.Stored()
	assert.Len(t, stored.Rooms, 3, "failed save keeps previous snapshot")

	store.LoadErr = errors.New("unreadable")
	_, err = store.Load(ctx)
	assert.EqualError(t, err, "unreadable")

	assert.Equal(t, MemoryCalls{Load: 3, Save: 2}, store.Calls())
	assert.Equal(t, "memory", store.Location())
}
