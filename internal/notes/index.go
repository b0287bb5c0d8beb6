package notes

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hawk-journal/hawk/internal/kv"
)

// Index maintains the per-collection metadata index stored under
// notes.collection.<cid>. Older installations stored a bare []string of
// note ids there; Read upgrades that format in place the first time it is
// observed, and every mutation goes through Read, so a write never
// reintroduces the legacy shape.
type Index struct {
	store kv.Store
}

func NewIndex(store kv.Store) *Index {
	return &Index{store: store}
}

// Read returns the collection's metadata entries, migrating a legacy
// id-only index first if needed. Running it twice is a no-op: the second
// read already sees metadata-typed entries.
func (ix *Index) Read(cid string) ([]NoteMetadata, error) {
	raw, err := ix.store.Get(collectionKey(cid))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []NoteMetadata{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("failed to decode index for %s: %w", cid, err)
	}
	if len(elems) == 0 {
		return []NoteMetadata{}, nil
	}

	// A string-typed first element marks the whole index as legacy.
	if bytes.HasPrefix(bytes.TrimSpace(elems[0]), []byte(`"`)) {
		return ix.migrate(cid, raw)
	}

	var entries []NoteMetadata
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode index for %s: %w", cid, err)
	}
	return entries, nil
}

// migrate projects every surviving note record to metadata and rewrites
// the index under the same key. Ids whose record no longer exists are
// dropped.
func (ix *Index) migrate(cid string, raw []byte) ([]NoteMetadata, error) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode legacy index for %s: %w", cid, err)
	}

	entries := make([]NoteMetadata, 0, len(ids))
	for _, id := range ids {
		data, err := ix.store.Get(noteKey(id))
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}
		var rec NoteRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode note %s: %w", id, err)
		}
		entries = append(entries, rec.Metadata())
	}

	if err := ix.write(cid, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (ix *Index) write(cid string, entries []NoteMetadata) error {
	if entries == nil {
		entries = []NoteMetadata{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode index for %s: %w", cid, err)
	}
	return ix.store.Set(collectionKey(cid), data)
}

// Upsert replaces the entry matching meta.ID, or inserts it at the front
// so new notes appear first.
func (ix *Index) Upsert(cid string, meta NoteMetadata) error {
	entries, err := ix.Read(cid)
	if err != nil {
		return err
	}

	for i := range entries {
		if entries[i].ID == meta.ID {
			entries[i] = meta
			return ix.write(cid, entries)
		}
	}

	entries = append([]NoteMetadata{meta}, entries...)
	return ix.write(cid, entries)
}

// MarkDeleted stamps deletedAt on the matching entry. If the id is absent
// (a note trashed before its first save) a minimal tombstone entry is
// inserted so index and record stay consistent.
func (ix *Index) MarkDeleted(cid, id string, deletedAt int64) error {
	entries, err := ix.Read(cid)
	if err != nil {
		return err
	}

	found := false
	for i := range entries {
		if entries[i].ID == id {
			entries[i].DeletedAt = deletedAt
			found = true
		}
	}
	if !found {
		entries = append(entries, NoteMetadata{
			ID:        id,
			CID:       cid,
			Title:     untitledTitle,
			CreatedAt: deletedAt,
			UpdatedAt: deletedAt,
			DeletedAt: deletedAt,
		})
	}
	return ix.write(cid, entries)
}

// ClearDeleted removes the deletedAt stamp from the matching entry.
func (ix *Index) ClearDeleted(cid, id string) error {
	entries, err := ix.Read(cid)
	if err != nil {
		return err
	}

	for i := range entries {
		if entries[i].ID == id {
			entries[i].DeletedAt = 0
		}
	}
	return ix.write(cid, entries)
}

// RemovePermanently filters out the given ids. The caller is responsible
// for deleting the corresponding note records.
func (ix *Index) RemovePermanently(cid string, ids []string) error {
	entries, err := ix.Read(cid)
	if err != nil {
		return err
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := entries[:0]
	for _, e := range entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	return ix.write(cid, kept)
}
