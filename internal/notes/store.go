package notes

import (
	"encoding/json"
	"fmt"

	"github.com/hawk-journal/hawk/internal/domain"
	"github.com/hawk-journal/hawk/internal/kv"
)

const untitledTitle = "Untitled Note"

// Store handles CRUD on individual note records and keeps the owning
// collection index in step with every mutation.
type Store struct {
	store kv.Store
	index *Index
}

func NewStore(store kv.Store, index *Index) *Store {
	return &Store{store: store, index: index}
}

func (s *Store) load(id string) (*NoteRecord, error) {
	data, err := s.store.Get(noteKey(id))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var rec NoteRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode note %s: %w", id, err)
	}
	return &rec, nil
}

func (s *Store) write(rec NoteRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode note %s: %w", rec.ID, err)
	}
	return s.store.Set(noteKey(rec.ID), data)
}

// Save writes the full record and updates the owning collection index.
// The first save stamps createdAt; every save refreshes updatedAt. An
// existing deletedAt is preserved when the payload omits it, so a save
// never accidentally undeletes a trashed note.
func (s *Store) Save(rec NoteRecord) error {
	if rec.ID == "" || rec.CID == "" {
		return fmt.Errorf("%w: note id and cid are required", domain.ErrBadRequest)
	}

	existing, err := s.load(rec.ID)
	if err != nil {
		return err
	}

	if rec.CreatedAt == 0 {
		if existing != nil && existing.CreatedAt != 0 {
			rec.CreatedAt = existing.CreatedAt
		} else {
			rec.CreatedAt = nowMillis()
		}
	}
	rec.UpdatedAt = nowMillis()
	if rec.DeletedAt == 0 && existing != nil {
		rec.DeletedAt = existing.DeletedAt
	}

	if err := s.write(rec); err != nil {
		return err
	}
	return s.index.Upsert(rec.CID, rec.Metadata())
}

// Trash soft-deletes a note. When the record was never persisted (a note
// created optimistically on the client and trashed before its first save)
// the caller passes the cid it already knows and a tombstone record is
// synthesized, so record and index stay consistent.
func (s *Store) Trash(id, fallbackCID string) error {
	rec, err := s.load(id)
	if err != nil {
		return err
	}

	now := nowMillis()
	if rec == nil {
		if fallbackCID == "" {
			return fmt.Errorf("%w: note %s", domain.ErrNotFound, id)
		}
		rec = &NoteRecord{
			ID:        id,
			CID:       fallbackCID,
			Title:     untitledTitle,
			Content:   "",
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	rec.DeletedAt = now

	if err := s.write(*rec); err != nil {
		return err
	}
	return s.index.MarkDeleted(rec.CID, id, now)
}

// Restore clears deletedAt on the record and in the index. Restoring a
// note that no longer exists is a no-op.
func (s *Store) Restore(id string) error {
	rec, err := s.load(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	rec.DeletedAt = 0
	if err := s.write(*rec); err != nil {
		return err
	}
	return s.index.ClearDeleted(rec.CID, id)
}

// PermanentlyDelete removes the record. The collection-level caller is
// responsible for removing the id from the index.
func (s *Store) PermanentlyDelete(id string) error {
	rec, err := s.load(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(noteKey(id)); err != nil {
		return err
	}
	if rec != nil {
		return s.index.RemovePermanently(rec.CID, []string{id})
	}
	return nil
}

// EmptyTrash deletes every trashed record in the collection and rewrites
// the index with only the active entries. The record-deletion loop and
// the final index write are not atomic: a crash in between leaves the two
// out of step until the next mutation.
func (s *Store) EmptyTrash(cid string) error {
	entries, err := s.index.Read(cid)
	if err != nil {
		return err
	}

	active := make([]NoteMetadata, 0, len(entries))
	for _, e := range entries {
		if e.DeletedAt == 0 {
			active = append(active, e)
			continue
		}
		if err := s.store.Delete(noteKey(e.ID)); err != nil {
			return err
		}
	}
	return s.index.write(cid, active)
}

// Get returns the full record or domain.ErrNotFound.
func (s *Store) Get(id string) (*NoteRecord, error) {
	rec, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: note %s", domain.ErrNotFound, id)
	}
	return rec, nil
}

// GetPublic returns the record only when it has been shared publicly.
func (s *Store) GetPublic(id string) (*NoteRecord, error) {
	rec, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: note %s", domain.ErrNotFound, id)
	}
	if !rec.IsPublic {
		return nil, fmt.Errorf("%w: note %s is not public", domain.ErrUnauthorized, id)
	}
	return rec, nil
}
