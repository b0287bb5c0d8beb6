package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBackupBytes caps an imported backup body.
const maxBackupBytes = 1 << 20

// Backup is the full dataset as a key -> raw JSON value map. Every value
// in the store is JSON already, so the export stays human-readable.
type Backup struct {
	Entries map[string]json.RawMessage `json:"entries"`
}

func (s *Server) exportBackupHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List("")
	if err != nil {
		domainError(w, err)
		return
	}

	backup := Backup{Entries: make(map[string]json.RawMessage, len(entries))}
	for _, e := range entries {
		backup.Entries[e.Key] = json.RawMessage(e.Value)
	}
	jsonResponse(w, backup, http.StatusOK)
}

func (s *Server) importBackupHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBackupBytes)

	var backup Backup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "backup too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	for key, value := range backup.Entries {
		if err := s.store.Set(key, value); err != nil {
			domainError(w, err)
			return
		}
	}
	jsonResponse(w, map[string]bool{"success": true}, http.StatusOK)
}
