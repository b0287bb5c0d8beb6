package notes

import (
	"encoding/json"
	"fmt"

	"github.com/hawk-journal/hawk/internal/domain"
	"github.com/hawk-journal/hawk/internal/kv"
)

// Registry owns the list of named collections stored under
// notes.collections, and the collection-level cascade operations.
type Registry struct {
	store kv.Store
	index *Index
}

func NewRegistry(store kv.Store, index *Index) *Registry {
	return &Registry{store: store, index: index}
}

// List returns every collection in registry order.
func (r *Registry) List() ([]Collection, error) {
	data, err := r.store.Get(collectionsKey)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []Collection{}, nil
	}

	var collections []Collection
	if err := json.Unmarshal(data, &collections); err != nil {
		return nil, fmt.Errorf("failed to decode collections: %w", err)
	}
	return collections, nil
}

// Replace stores the full collection list as sent by the client. Ids are
// client-assigned uuids.
func (r *Registry) Replace(collections []Collection) error {
	for _, c := range collections {
		if c.ID == "" {
			return fmt.Errorf("%w: collection id is required", domain.ErrBadRequest)
		}
	}
	if collections == nil {
		collections = []Collection{}
	}
	data, err := json.Marshal(collections)
	if err != nil {
		return fmt.Errorf("failed to encode collections: %w", err)
	}
	return r.store.Set(collectionsKey, data)
}

// Delete removes a collection from the registry and cascades: every note
// record in the collection is deleted along with the collection's index.
func (r *Registry) Delete(cid string) error {
	entries, err := r.index.Read(cid)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := r.store.Delete(noteKey(e.ID)); err != nil {
			return err
		}
	}
	if err := r.store.Delete(collectionKey(cid)); err != nil {
		return err
	}

	collections, err := r.List()
	if err != nil {
		return err
	}
	kept := collections[:0]
	for _, c := range collections {
		if c.ID != cid {
			kept = append(kept, c)
		}
	}
	return r.Replace(kept)
}

// Aggregate concatenates every collection's metadata index into the flat
// list the client caches locally. Reading each index migrates any legacy
// format as a side effect. Ordering is registry order then index order;
// the client re-sorts by recency when rendering.
func (r *Registry) Aggregate() ([]NoteMetadata, error) {
	collections, err := r.List()
	if err != nil {
		return nil, err
	}

	all := []NoteMetadata{}
	for _, c := range collections {
		entries, err := r.index.Read(c.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}
