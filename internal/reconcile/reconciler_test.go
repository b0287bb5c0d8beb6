package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/hawk-journal/hawk/internal/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	index []notes.NoteMetadata

	failTrash   bool
	failRestore bool
	failDelete  bool
	failEmpty   bool

	trashed  []string
	restored []string
	deleted  []string
	emptied  []string
	saved    []notes.NoteRecord
}

var errServer = errors.New("server says no")

func (f *fakeBackend) NotesIndex() ([]notes.NoteMetadata, error) { return f.index, nil }

func (f *fakeBackend) SaveNote(rec notes.NoteRecord) error {
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeBackend) TrashNote(id, cid string) error {
	if f.failTrash {
		return errServer
	}
	f.trashed = append(f.trashed, id)
	return nil
}

func (f *fakeBackend) RestoreNote(id string) error {
	if f.failRestore {
		return errServer
	}
	f.restored = append(f.restored, id)
	return nil
}

func (f *fakeBackend) DeleteNote(id string) error {
	if f.failDelete {
		return errServer
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) EmptyTrash(cid string) error {
	if f.failEmpty {
		return errServer
	}
	f.emptied = append(f.emptied, cid)
	return nil
}

func fixedClock(t *testing.T, ms int64) {
	t.Helper()
	old := timeNow
	timeNow = func() time.Time { return time.UnixMilli(ms) }
	t.Cleanup(func() { timeNow = old })
}

func setup(t *testing.T, backend *fakeBackend) (*Reconciler, *Cache, *int) {
	t.Helper()
	cache := NewCache()
	alerts := 0
	rec := NewReconciler(backend, cache, func(string) { alerts++ })
	return rec, cache, &alerts
}

func TestCreateNoteAppearsFirst(t *testing.T) {
	rec, cache, _ := setup(t, &fakeBackend{})

	fixedClock(t, 100)
	cache.Put(notes.NoteMetadata{ID: "old", CID: "c1", UpdatedAt: 50})

	created := rec.CreateNote("c1")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "c1", created.CID)

	active := cache.Active("c1")
	require.Len(t, active, 2)
	assert.Equal(t, created.ID, active[0].ID)
}

func TestTrashNoteSuccess(t *testing.T) {
	backend := &fakeBackend{}
	rec, cache, alerts := setup(t, backend)
	fixedClock(t, 100)

	cache.Put(notes.NoteMetadata{ID: "n1", CID: "c1", Title: "x", UpdatedAt: 50})

	commit := rec.TrashNote("n1")

	// Optimistic effect is visible before the commit runs.
	assert.Empty(t, cache.Active("c1"))
	require.Len(t, cache.Trashed("c1"), 1)
	assert.True(t, cache.InFlight("n1"))

	require.NoError(t, commit())
	assert.Equal(t, []string{"n1"}, backend.trashed)
	assert.False(t, cache.InFlight("n1"))
	assert.Zero(t, *alerts)
}

func TestTrashNoteRollbackOnFailure(t *testing.T) {
	backend := &fakeBackend{failTrash: true}
	rec, cache, alerts := setup(t, backend)
	fixedClock(t, 100)

	cache.Put(notes.NoteMetadata{ID: "n1", CID: "c1", Title: "x", UpdatedAt: 50})
	before := cache.All()

	commit := rec.TrashNote("n1")
	err := commit()

	require.Error(t, err)
	assert.Equal(t, before, cache.All())
	assert.Equal(t, 1, *alerts)
	assert.False(t, cache.InFlight("n1"))
}

func TestRestoreNoteRollbackOnFailure(t *testing.T) {
	backend := &fakeBackend{failRestore: true}
	rec, cache, alerts := setup(t, backend)

	cache.Put(notes.NoteMetadata{ID: "n1", CID: "c1", UpdatedAt: 50, DeletedAt: 60})
	before := cache.All()

	require.Error(t, rec.RestoreNote("n1")())
	assert.Equal(t, before, cache.All())
	assert.Equal(t, 1, *alerts)
}

func TestDeleteForever(t *testing.T) {
	backend := &fakeBackend{}
	rec, cache, _ := setup(t, backend)

	cache.Put(notes.NoteMetadata{ID: "n1", CID: "c1", UpdatedAt: 50, DeletedAt: 60})

	commit := rec.DeleteForever("n1")
	_, ok := cache.Get("n1")
	assert.False(t, ok)

	require.NoError(t, commit())
	assert.Equal(t, []string{"n1"}, backend.deleted)
}

func TestEmptyTrashRemovesOnlyTrashed(t *testing.T) {
	backend := &fakeBackend{}
	rec, cache, _ := setup(t, backend)

	cache.Put(notes.NoteMetadata{ID: "a", CID: "c1", UpdatedAt: 1})
	cache.Put(notes.NoteMetadata{ID: "t1", CID: "c1", UpdatedAt: 2, DeletedAt: 3})
	cache.Put(notes.NoteMetadata{ID: "t2", CID: "c1", UpdatedAt: 2, DeletedAt: 3})

	commit := rec.EmptyTrash("c1")
	assert.Empty(t, cache.Trashed("c1"))
	require.Len(t, cache.Active("c1"), 1)

	require.NoError(t, commit())
	assert.Equal(t, []string{"c1"}, backend.emptied)
}

func TestEmptyTrashRollback(t *testing.T) {
	backend := &fakeBackend{failEmpty: true}
	rec, cache, alerts := setup(t, backend)

	cache.Put(notes.NoteMetadata{ID: "t1", CID: "c1", UpdatedAt: 2, DeletedAt: 3})
	before := cache.All()

	require.Error(t, rec.EmptyTrash("c1")())
	assert.Equal(t, before, cache.All())
	assert.Equal(t, 1, *alerts)
}

func TestRefreshMergesLastWriteWins(t *testing.T) {
	backend := &fakeBackend{index: []notes.NoteMetadata{
		{ID: "newer", CID: "c1", Title: "server", UpdatedAt: 200},
		{ID: "older", CID: "c1", Title: "server", UpdatedAt: 100},
		{ID: "fresh", CID: "c1", Title: "server", UpdatedAt: 300},
	}}
	rec, cache, _ := setup(t, backend)

	cache.Put(notes.NoteMetadata{ID: "newer", CID: "c1", Title: "local", UpdatedAt: 150})
	cache.Put(notes.NoteMetadata{ID: "older", CID: "c1", Title: "local", UpdatedAt: 150})

	require.NoError(t, rec.Refresh())

	got := cache.All()
	assert.Equal(t, "server", got["newer"].Title)
	assert.Equal(t, "local", got["older"].Title)
	assert.Equal(t, "server", got["fresh"].Title)
}

func TestRefreshServerWinsTies(t *testing.T) {
	backend := &fakeBackend{index: []notes.NoteMetadata{
		{ID: "n1", CID: "c1", Title: "server", UpdatedAt: 100},
	}}
	rec, cache, _ := setup(t, backend)

	cache.Put(notes.NoteMetadata{ID: "n1", CID: "c1", Title: "local", UpdatedAt: 100})
	require.NoError(t, rec.Refresh())

	got, _ := cache.Get("n1")
	assert.Equal(t, "server", got.Title)
}

func TestRefreshSuppressesInFlightIDs(t *testing.T) {
	// Server still thinks the note is active while our trash call is in
	// flight; refresh must not resurrect it.
	backend := &fakeBackend{index: []notes.NoteMetadata{
		{ID: "n1", CID: "c1", Title: "x", UpdatedAt: 999},
	}}
	rec, cache, _ := setup(t, backend)
	fixedClock(t, 100)

	cache.Put(notes.NoteMetadata{ID: "n1", CID: "c1", Title: "x", UpdatedAt: 50})
	commit := rec.TrashNote("n1")

	require.NoError(t, rec.Refresh())

	got, _ := cache.Get("n1")
	assert.NotZero(t, got.DeletedAt)

	require.NoError(t, commit())
}
