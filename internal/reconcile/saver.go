package reconcile

import (
	"log"
	"sync"
	"time"

	"github.com/hawk-journal/hawk/internal/notes"
)

// DefaultSaveDelay is the quiet period before an edited note is flushed.
const DefaultSaveDelay = 500 * time.Millisecond

// Saver coalesces rapid edits into one server save per note. Each Queue
// call replaces the note's pending state and restarts its timer, so the
// flush always sends the full latest record after a quiet period.
// Transient save failures are logged, never surfaced, so typing flow is
// not interrupted.
type Saver struct {
	mu      sync.Mutex
	backend Backend
	cache   *Cache
	delay   time.Duration
	pending map[string]*pendingSave
	stopped bool
}

type pendingSave struct {
	rec   notes.NoteRecord
	timer *time.Timer
}

func NewSaver(backend Backend, cache *Cache, delay time.Duration) *Saver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Saver{
		backend: backend,
		cache:   cache,
		delay:   delay,
		pending: make(map[string]*pendingSave),
	}
}

// Queue records the note's current full state, updates the local cache
// so list views reflect the edit immediately, and restarts the debounce
// timer.
func (s *Saver) Queue(rec notes.NoteRecord) {
	rec.UpdatedAt = timeNow().UnixMilli()
	s.cache.Put(rec.Metadata())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if p, exists := s.pending[rec.ID]; exists {
		p.timer.Stop()
		p.rec = rec
		p.timer = time.AfterFunc(s.delay, func() { s.flush(rec.ID) })
		return
	}

	s.pending[rec.ID] = &pendingSave{
		rec:   rec,
		timer: time.AfterFunc(s.delay, func() { s.flush(rec.ID) }),
	}
}

func (s *Saver) flush(id string) {
	s.mu.Lock()
	p, exists := s.pending[id]
	if exists {
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if !exists {
		return
	}
	if err := s.backend.SaveNote(p.rec); err != nil {
		log.Printf("save: note %s: %v", id, err)
	}
}

// Flush sends every pending note immediately.
func (s *Saver) Flush() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.pending))
	for id, p := range s.pending {
		p.timer.Stop()
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.flush(id)
	}
}

// Stop flushes and rejects further queues.
func (s *Saver) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.Flush()
}

// PendingCount reports how many notes await a flush.
func (s *Saver) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}
