package notes

import (
	"errors"
	"testing"
	"time"

	"github.com/hawk-journal/hawk/internal/domain"
	"github.com/hawk-journal/hawk/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *Index, kv.Store) {
	t.Helper()
	mem := kv.NewMemory()
	index := NewIndex(mem)
	return NewStore(mem, index), index, mem
}

func fixedClock(t *testing.T, ms int64) {
	t.Helper()
	old := timeNow
	timeNow = func() time.Time { return time.UnixMilli(ms) }
	t.Cleanup(func() { timeNow = old })
}

func TestSaveRequiresIDAndCID(t *testing.T) {
	store, _, _ := setupStore(t)

	err := store.Save(NoteRecord{ID: "n1"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	err = store.Save(NoteRecord{CID: "c1"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestSaveStampsTimestampsAndIndexes(t *testing.T) {
	store, index, _ := setupStore(t)
	fixedClock(t, 1000)

	require.NoError(t, store.Save(NoteRecord{ID: "n1", CID: "c1", Title: "Plan"}))

	rec, err := store.Get("n1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rec.CreatedAt)
	assert.Equal(t, int64(1000), rec.UpdatedAt)

	entries, err := index.Read("c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Plan", entries[0].Title)
}

func TestSaveKeepsCreatedAtAndRefreshesUpdatedAt(t *testing.T) {
	store, _, _ := setupStore(t)

	fixedClock(t, 1000)
	require.NoError(t, store.Save(NoteRecord{ID: "n1", CID: "c1", Title: "v1"}))

	fixedClock(t, 2000)
	require.NoError(t, store.Save(NoteRecord{ID: "n1", CID: "c1", Title: "v2"}))

	rec, err := store.Get("n1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rec.CreatedAt)
	assert.Equal(t, int64(2000), rec.UpdatedAt)
	assert.Equal(t, "v2", rec.Title)
}

func TestSavePreservesDeletedAt(t *testing.T) {
	store, _, _ := setupStore(t)

	fixedClock(t, 1000)
	require.NoError(t, store.Save(NoteRecord{ID: "n1", CID: "c1", Title: "x"}))
	require.NoError(t, store.Trash("n1", ""))

	// A save that omits deletedAt must not undelete the note.
	fixedClock(t, 2000)
	require.NoError(t, store.Save(NoteRecord{ID: "n1", CID: "c1", Title: "still trashed"}))

	rec, err := store.Get("n1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rec.DeletedAt)
}

func TestTrashWithoutRecordAndWithoutCIDFails(t *testing.T) {
	store, _, _ := setupStore(t)

	err := store.Trash("missing", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrashSynthesizesTombstone(t *testing.T) {
	store, index, _ := setupStore(t)
	fixedClock(t, 5000)

	require.NoError(t, store.Trash("n1", "c1"))

	rec, err := store.Get("n1")
	require.NoError(t, err)
	assert.Equal(t, untitledTitle, rec.Title)
	assert.Empty(t, rec.Content)
	assert.Equal(t, int64(5000), rec.CreatedAt)
	assert.Equal(t, int64(5000), rec.UpdatedAt)
	assert.Equal(t, int64(5000), rec.DeletedAt)

	entries, err := index.Read("c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(5000), entries[0].DeletedAt)
}

func TestTrashRestoreRoundTrip(t *testing.T) {
	store, index, _ := setupStore(t)

	fixedClock(t, 1000)
	require.NoError(t, store.Save(NoteRecord{ID: "n1", CID: "c1", Title: "keep me", Content: "body"}))
	require.NoError(t, store.Trash("n1", ""))
	require.NoError(t, store.Restore("n1"))

	rec, err := store.Get("n1")
	require.NoError(t, err)
	assert.Zero(t, rec.DeletedAt)
	assert.Equal(t, "keep me", rec.Title)
	assert.Equal(t, "body", rec.Content)

	entries, err := index.Read("c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Zero(t, entries[0].DeletedAt)
}

func TestRestoreMissingIsNoop(t *testing.T) {
	store, _, _ := setupStore(t)

	assert.NoError(t, store.Restore("missing"))
}

func TestPermanentlyDeleteRemovesRecordAndIndexEntry(t *testing.T) {
	store, index, _ := setupStore(t)
	fixedClock(t, 1000)

	require.NoError(t, store.Save(NoteRecord{ID: "n1", CID: "c1", Title: "x"}))
	require.NoError(t, store.PermanentlyDelete("n1"))

	_, err := store.Get("n1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := index.Read("c1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEmptyTrashKeepsActiveNotes(t *testing.T) {
	store, index, mem := setupStore(t)
	fixedClock(t, 1000)

	require.NoError(t, store.Save(NoteRecord{ID: "a", CID: "c1", Title: "active"}))
	require.NoError(t, store.Save(NoteRecord{ID: "t1", CID: "c1", Title: "gone1"}))
	require.NoError(t, store.Save(NoteRecord{ID: "t2", CID: "c1", Title: "gone2"}))
	require.NoError(t, store.Trash("t1", ""))
	require.NoError(t, store.Trash("t2", ""))

	require.NoError(t, store.EmptyTrash("c1"))

	entries, err := index.Read("c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ID)

	for _, id := range []string{"t1", "t2"} {
		data, err := mem.Get(noteKey(id))
		require.NoError(t, err)
		assert.Nil(t, data)
	}
	_, err = store.Get("a")
	assert.NoError(t, err)
}

func TestGetPublic(t *testing.T) {
	store, _, _ := setupStore(t)
	fixedClock(t, 1000)

	require.NoError(t, store.Save(NoteRecord{ID: "private", CID: "c1", Title: "p"}))
	require.NoError(t, store.Save(NoteRecord{ID: "shared", CID: "c1", Title: "s", IsPublic: true}))

	_, err := store.GetPublic("private")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	rec, err := store.GetPublic("shared")
	require.NoError(t, err)
	assert.Equal(t, "s", rec.Title)

	_, err = store.GetPublic("missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
