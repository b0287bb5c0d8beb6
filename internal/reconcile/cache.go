package reconcile

import (
	"sort"
	"sync"

	"github.com/hawk-journal/hawk/internal/notes"
)

// Cache is the client's in-memory aggregate of note metadata across all
// collections, plus the set of note ids with a background server
// operation still in flight. The in-flight set suppresses refresh-induced
// overwrites so a trash or restore never flickers back while its server
// call is pending.
type Cache struct {
	mu       sync.Mutex
	notes    map[string]notes.NoteMetadata
	inFlight map[string]bool
}

func NewCache() *Cache {
	return &Cache{
		notes:    make(map[string]notes.NoteMetadata),
		inFlight: make(map[string]bool),
	}
}

// Snapshot deep-copies the note map so a later Restore cannot alias the
// live structure being mutated.
func (c *Cache) Snapshot() map[string]notes.NoteMetadata {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := make(map[string]notes.NoteMetadata, len(c.notes))
	for id, meta := range c.notes {
		snap[id] = meta
	}
	return snap
}

// Restore replaces the note map with a previously taken snapshot.
func (c *Cache) Restore(snap map[string]notes.NoteMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notes = make(map[string]notes.NoteMetadata, len(snap))
	for id, meta := range snap {
		c.notes[id] = meta
	}
}

func (c *Cache) Get(id string) (notes.NoteMetadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	meta, ok := c.notes[id]
	return meta, ok
}

func (c *Cache) Put(meta notes.NoteMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notes[meta.ID] = meta
}

func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.notes, id)
}

// MarkDeleted / ClearDeleted mutate the local view of one note.

func (c *Cache) MarkDeleted(id string, deletedAt int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if meta, ok := c.notes[id]; ok {
		meta.DeletedAt = deletedAt
		c.notes[id] = meta
	}
}

func (c *Cache) ClearDeleted(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if meta, ok := c.notes[id]; ok {
		meta.DeletedAt = 0
		c.notes[id] = meta
	}
}

// In-flight set

func (c *Cache) AddInFlight(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		c.inFlight[id] = true
	}
}

func (c *Cache) RemoveInFlight(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		delete(c.inFlight, id)
	}
}

func (c *Cache) InFlight(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.inFlight[id]
}

// Merge reconciles the server aggregate into the local cache. For every
// server note not in the in-flight set, the server version wins when its
// updatedAt is at least the local one; otherwise local state is kept,
// which covers the just-typed-but-not-yet-flushed window without needing
// a synchronized clock.
func (c *Cache) Merge(server []notes.NoteMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sm := range server {
		if c.inFlight[sm.ID] {
			continue
		}
		local, ok := c.notes[sm.ID]
		if !ok || sm.UpdatedAt >= local.UpdatedAt {
			c.notes[sm.ID] = sm
		}
	}
}

// Active returns the collection's live notes, most recently updated first.
func (c *Cache) Active(cid string) []notes.NoteMetadata {
	return c.list(cid, false)
}

// Trashed returns the collection's trashed notes, most recently updated first.
func (c *Cache) Trashed(cid string) []notes.NoteMetadata {
	return c.list(cid, true)
}

func (c *Cache) list(cid string, trashed bool) []notes.NoteMetadata {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []notes.NoteMetadata
	for _, meta := range c.notes {
		if meta.CID == cid && (meta.DeletedAt != 0) == trashed {
			out = append(out, meta)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt != out[j].UpdatedAt {
			return out[i].UpdatedAt > out[j].UpdatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// All returns every cached note keyed by id.
func (c *Cache) All() map[string]notes.NoteMetadata {
	return c.Snapshot()
}
