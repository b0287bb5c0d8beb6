package notes

import (
	"encoding/json"
	"testing"

	"github.com/hawk-journal/hawk/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIndex(t *testing.T) (*Index, kv.Store) {
	t.Helper()
	store := kv.NewMemory()
	return NewIndex(store), store
}

func putNote(t *testing.T, store kv.Store, rec NoteRecord) {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, store.Set(noteKey(rec.ID), data))
}

func putLegacyIndex(t *testing.T, store kv.Store, cid string, ids []string) {
	t.Helper()
	data, err := json.Marshal(ids)
	require.NoError(t, err)
	require.NoError(t, store.Set(collectionKey(cid), data))
}

func TestReadEmptyIndex(t *testing.T) {
	ix, _ := setupIndex(t)

	entries, err := ix.Read("c1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMigrationProjectsRecords(t *testing.T) {
	ix, store := setupIndex(t)

	putNote(t, store, NoteRecord{ID: "n1", CID: "c1", Title: "First", Content: "body", CreatedAt: 100, UpdatedAt: 200})
	putNote(t, store, NoteRecord{ID: "n2", CID: "c1", Title: "Second", CreatedAt: 150, UpdatedAt: 300, DeletedAt: 400})
	// n3 has no record anymore and must be dropped
	putLegacyIndex(t, store, "c1", []string{"n1", "n2", "n3"})

	entries, err := ix.Read("c1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, NoteMetadata{ID: "n1", CID: "c1", Title: "First", CreatedAt: 100, UpdatedAt: 200}, entries[0])
	assert.Equal(t, int64(400), entries[1].DeletedAt)
}

func TestMigrationIsIdempotent(t *testing.T) {
	ix, store := setupIndex(t)

	putNote(t, store, NoteRecord{ID: "n1", CID: "c1", Title: "First", CreatedAt: 1, UpdatedAt: 2})
	putLegacyIndex(t, store, "c1", []string{"n1"})

	first, err := ix.Read("c1")
	require.NoError(t, err)
	storedAfterFirst, err := store.Get(collectionKey("c1"))
	require.NoError(t, err)

	second, err := ix.Read("c1")
	require.NoError(t, err)
	storedAfterSecond, err := store.Get(collectionKey("c1"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, storedAfterFirst, storedAfterSecond)

	// The stored value is metadata objects now, never a string array again.
	var check []NoteMetadata
	require.NoError(t, json.Unmarshal(storedAfterFirst, &check))
}

func TestUpsertInsertsNewAtFront(t *testing.T) {
	ix, _ := setupIndex(t)

	require.NoError(t, ix.Upsert("c1", NoteMetadata{ID: "n1", CID: "c1", Title: "old", UpdatedAt: 1}))
	require.NoError(t, ix.Upsert("c1", NoteMetadata{ID: "n2", CID: "c1", Title: "new", UpdatedAt: 2}))

	entries, err := ix.Read("c1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "n2", entries[0].ID)
	assert.Equal(t, "n1", entries[1].ID)
}

func TestUpsertReplacesInPlace(t *testing.T) {
	ix, _ := setupIndex(t)

	require.NoError(t, ix.Upsert("c1", NoteMetadata{ID: "n1", CID: "c1", Title: "a"}))
	require.NoError(t, ix.Upsert("c1", NoteMetadata{ID: "n2", CID: "c1", Title: "b"}))
	require.NoError(t, ix.Upsert("c1", NoteMetadata{ID: "n1", CID: "c1", Title: "edited"}))

	entries, err := ix.Read("c1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "n2", entries[0].ID)
	assert.Equal(t, "edited", entries[1].Title)
}

func TestUpsertMigratesFirst(t *testing.T) {
	ix, store := setupIndex(t)

	putNote(t, store, NoteRecord{ID: "n1", CID: "c1", Title: "legacy", CreatedAt: 1, UpdatedAt: 1})
	putLegacyIndex(t, store, "c1", []string{"n1"})

	require.NoError(t, ix.Upsert("c1", NoteMetadata{ID: "n2", CID: "c1", Title: "fresh"}))

	raw, err := store.Get(collectionKey("c1"))
	require.NoError(t, err)
	var entries []NoteMetadata
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "n2", entries[0].ID)
	assert.Equal(t, "legacy", entries[1].Title)
}

func TestMarkDeletedInsertsTombstoneEntry(t *testing.T) {
	ix, _ := setupIndex(t)

	require.NoError(t, ix.MarkDeleted("c1", "ghost", 500))

	entries, err := ix.Read("c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ghost", entries[0].ID)
	assert.Equal(t, untitledTitle, entries[0].Title)
	assert.Equal(t, int64(500), entries[0].DeletedAt)
}

func TestMarkAndClearDeleted(t *testing.T) {
	ix, _ := setupIndex(t)

	require.NoError(t, ix.Upsert("c1", NoteMetadata{ID: "n1", CID: "c1", Title: "x"}))
	require.NoError(t, ix.MarkDeleted("c1", "n1", 42))

	entries, err := ix.Read("c1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), entries[0].DeletedAt)

	require.NoError(t, ix.ClearDeleted("c1", "n1"))
	entries, err = ix.Read("c1")
	require.NoError(t, err)
	assert.Zero(t, entries[0].DeletedAt)
}

func TestRemovePermanently(t *testing.T) {
	ix, _ := setupIndex(t)

	require.NoError(t, ix.Upsert("c1", NoteMetadata{ID: "n1", CID: "c1"}))
	require.NoError(t, ix.Upsert("c1", NoteMetadata{ID: "n2", CID: "c1"}))
	require.NoError(t, ix.Upsert("c1", NoteMetadata{ID: "n3", CID: "c1"}))

	require.NoError(t, ix.RemovePermanently("c1", []string{"n1", "n3"}))

	entries, err := ix.Read("c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "n2", entries[0].ID)
}
