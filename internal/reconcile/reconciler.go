package reconcile

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hawk-journal/hawk/internal/notes"
)

// timeNow is stubbed in tests.
var timeNow = time.Now

// Backend is the slice of the server API the reconciler drives.
type Backend interface {
	NotesIndex() ([]notes.NoteMetadata, error)
	SaveNote(rec notes.NoteRecord) error
	TrashNote(id, cid string) error
	RestoreNote(id string) error
	DeleteNote(id string) error
	EmptyTrash(cid string) error
}

// Reconciler keeps the local cache consistent with the server using
// optimistic mutation plus rollback. Destructive operations mutate the
// cache immediately and return a commit closure; the caller runs the
// closure in the background (a bubbletea command) and the closure rolls
// the cache back and raises the alert if the server call fails.
type Reconciler struct {
	backend Backend
	cache   *Cache
	onAlert func(message string)
}

// NewReconciler wires a backend to a cache. onAlert receives a short
// human-readable message when a user-initiated destructive operation
// fails; it may be nil.
func NewReconciler(backend Backend, cache *Cache, onAlert func(string)) *Reconciler {
	if onAlert == nil {
		onAlert = func(string) {}
	}
	return &Reconciler{backend: backend, cache: cache, onAlert: onAlert}
}

func (r *Reconciler) Cache() *Cache {
	return r.cache
}

// optimistic captures a snapshot, applies the local mutation, marks the
// ids in flight, and returns the background commit. On failure the
// snapshot is restored and the alert raised exactly once; the in-flight
// marks are dropped either way.
func (r *Reconciler) optimistic(ids []string, mutate func(), call func() error, alert string) func() error {
	snap := r.cache.Snapshot()
	mutate()
	r.cache.AddInFlight(ids...)

	return func() error {
		err := call()
		if err != nil {
			r.cache.Restore(snap)
			log.Printf("sync: %s: %v", alert, err)
			r.onAlert(alert)
		}
		r.cache.RemoveInFlight(ids...)
		return err
	}
}

// CreateNote inserts a minimal new note into the local cache and returns
// the record for the editor. Nothing is sent to the server here; the
// first debounced save persists it.
func (r *Reconciler) CreateNote(cid string) notes.NoteRecord {
	now := timeNow().UnixMilli()
	rec := notes.NoteRecord{
		ID:        uuid.New().String(),
		CID:       cid,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.cache.Put(rec.Metadata())
	return rec
}

// TrashNote soft-deletes locally and returns the background commit.
func (r *Reconciler) TrashNote(id string) func() error {
	meta, _ := r.cache.Get(id)
	now := timeNow().UnixMilli()
	return r.optimistic(
		[]string{id},
		func() { r.cache.MarkDeleted(id, now) },
		func() error { return r.backend.TrashNote(id, meta.CID) },
		"Failed to delete note. Please try again.",
	)
}

// RestoreNote clears the local soft delete and returns the background commit.
func (r *Reconciler) RestoreNote(id string) func() error {
	return r.optimistic(
		[]string{id},
		func() { r.cache.ClearDeleted(id) },
		func() error { return r.backend.RestoreNote(id) },
		"Failed to restore note. Please try again.",
	)
}

// DeleteForever removes the note locally and returns the background commit.
func (r *Reconciler) DeleteForever(id string) func() error {
	return r.optimistic(
		[]string{id},
		func() { r.cache.Remove(id) },
		func() error { return r.backend.DeleteNote(id) },
		"Failed to delete note. Please try again.",
	)
}

// EmptyTrash removes every trashed note of the collection locally and
// returns the background commit.
func (r *Reconciler) EmptyTrash(cid string) func() error {
	trashed := r.cache.Trashed(cid)
	ids := make([]string, len(trashed))
	for i, meta := range trashed {
		ids[i] = meta.ID
	}
	return r.optimistic(
		ids,
		func() {
			for _, id := range ids {
				r.cache.Remove(id)
			}
		},
		func() error { return r.backend.EmptyTrash(cid) },
		"Failed to empty trash. Please try again.",
	)
}

// Refresh pulls the server aggregate and merges it into the cache,
// leaving in-flight ids untouched.
func (r *Reconciler) Refresh() error {
	server, err := r.backend.NotesIndex()
	if err != nil {
		return err
	}
	r.cache.Merge(server)
	return nil
}
