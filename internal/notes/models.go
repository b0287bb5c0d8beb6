package notes

import "time"

// timeNow is stubbed in tests.
var timeNow = time.Now

func nowMillis() int64 {
	return timeNow().UnixMilli()
}

// Collection is a user-named grouping of notes.
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NoteRecord is the full note document stored under notes.note.<id>.
// Timestamps are epoch milliseconds; a zero DeletedAt means the note is
// active.
type NoteRecord struct {
	ID        string `json:"id"`
	CID       string `json:"cid"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	DeletedAt int64  `json:"deletedAt,omitempty"`
	IsPublic  bool   `json:"isPublic,omitempty"`
}

// NoteMetadata is the index projection of a note. Content is deliberately
// omitted so collection indices stay cheap to list.
type NoteMetadata struct {
	ID        string `json:"id"`
	CID       string `json:"cid"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	DeletedAt int64  `json:"deletedAt,omitempty"`
}

func (n NoteRecord) Metadata() NoteMetadata {
	return NoteMetadata{
		ID:        n.ID,
		CID:       n.CID,
		Title:     n.Title,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		DeletedAt: n.DeletedAt,
	}
}

// Key layout

const (
	collectionsKey   = "notes.collections"
	collectionPrefix = "notes.collection."
	notePrefix       = "notes.note."
)

func collectionKey(cid string) string {
	return collectionPrefix + cid
}

func noteKey(nid string) string {
	return notePrefix + nid
}
