package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hawk-journal/hawk/internal/journal"
	"github.com/hawk-journal/hawk/internal/notes"
	"golang.org/x/crypto/bcrypt"
)

// Health check

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Auth handlers

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Password == "" {
		jsonError(w, "password required", http.StatusBadRequest)
		return
	}

	if err := bcrypt.CompareHashAndPassword(s.password, []byte(req.Password)); err != nil {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, expiresAt, err := s.jwt.Generate()
	if err != nil {
		jsonError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, http.StatusOK)
}

// Collection handlers

func (s *Server) listCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	collections, err := s.registry.List()
	if err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, collections, http.StatusOK)
}

func (s *Server) replaceCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	var collections []notes.Collection
	if err := json.NewDecoder(r.Body).Decode(&collections); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.registry.Replace(collections); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, map[string]bool{"success": true}, http.StatusOK)
}

func (s *Server) deleteCollectionHandler(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")

	if err := s.registry.Delete(cid); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, map[string]bool{"success": true}, http.StatusOK)
}

// Notes index handlers

func (s *Server) notesIndexHandler(w http.ResponseWriter, r *http.Request) {
	all, err := s.registry.Aggregate()
	if err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, all, http.StatusOK)
}

func (s *Server) activeNotesHandler(w http.ResponseWriter, r *http.Request) {
	s.collectionNotes(w, r, false)
}

func (s *Server) trashedNotesHandler(w http.ResponseWriter, r *http.Request) {
	s.collectionNotes(w, r, true)
}

func (s *Server) collectionNotes(w http.ResponseWriter, r *http.Request, trashed bool) {
	cid := chi.URLParam(r, "cid")

	entries, err := s.index.Read(cid)
	if err != nil {
		domainError(w, err)
		return
	}

	filtered := make([]notes.NoteMetadata, 0, len(entries))
	for _, e := range entries {
		if (e.DeletedAt != 0) == trashed {
			filtered = append(filtered, e)
		}
	}
	jsonResponse(w, filtered, http.StatusOK)
}

// Note handlers

func (s *Server) saveNoteHandler(w http.ResponseWriter, r *http.Request) {
	var rec notes.NoteRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.notes.Save(rec); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, map[string]bool{"success": true}, http.StatusOK)
}

func (s *Server) getNoteHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := s.notes.Get(chi.URLParam(r, "nid"))
	if err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, rec, http.StatusOK)
}

func (s *Server) getPublicNoteHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := s.notes.GetPublic(chi.URLParam(r, "nid"))
	if err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, rec, http.StatusOK)
}

type TrashRequest struct {
	CID string `json:"cid,omitempty"`
}

func (s *Server) trashNoteHandler(w http.ResponseWriter, r *http.Request) {
	nid := chi.URLParam(r, "nid")

	// Body is optional: the cid is only needed for notes that never
	// reached their first save.
	var req TrashRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	if err := s.notes.Trash(nid, req.CID); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, map[string]bool{"success": true}, http.StatusOK)
}

func (s *Server) restoreNoteHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.Restore(chi.URLParam(r, "nid")); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, map[string]bool{"success": true}, http.StatusOK)
}

func (s *Server) deleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.PermanentlyDelete(chi.URLParam(r, "nid")); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, map[string]bool{"success": true}, http.StatusOK)
}

func (s *Server) emptyTrashHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.EmptyTrash(chi.URLParam(r, "cid")); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, map[string]bool{"success": true}, http.StatusOK)
}

// Journal handlers

func (s *Server) getJournalDayHandler(w http.ResponseWriter, r *http.Request) {
	day, err := s.journal.Get(chi.URLParam(r, "date"))
	if err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, day, http.StatusOK)
}

func (s *Server) putJournalDayHandler(w http.ResponseWriter, r *http.Request) {
	var day journal.Day
	if err := json.NewDecoder(r.Body).Decode(&day); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	day.Date = chi.URLParam(r, "date")

	if err := s.journal.Put(day); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, map[string]bool{"success": true}, http.StatusOK)
}

func (s *Server) journalMonthHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.journal.Month(chi.URLParam(r, "month"))
	if err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, summaries, http.StatusOK)
}
