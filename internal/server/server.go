package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hawk-journal/hawk/internal/auth"
	"github.com/hawk-journal/hawk/internal/domain"
	"github.com/hawk-journal/hawk/internal/journal"
	"github.com/hawk-journal/hawk/internal/kv"
	"github.com/hawk-journal/hawk/internal/notes"
)

type Server struct {
	store    kv.Store
	notes    *notes.Store
	index    *notes.Index
	registry *notes.Registry
	journal  *journal.Store
	jwt      *auth.JWTManager
	password []byte // bcrypt hash of the owner's password
	router   *chi.Mux
}

func New(store kv.Store, jwtManager *auth.JWTManager, passwordHash []byte) *Server {
	index := notes.NewIndex(store)
	s := &Server{
		store:    store,
		notes:    notes.NewStore(store, index),
		index:    index,
		registry: notes.NewRegistry(store, index),
		journal:  journal.NewStore(store),
		jwt:      jwtManager,
		password: passwordHash,
		router:   chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(corsMiddleware)

	authLimiter := NewAuthRateLimiter()
	apiLimiter := NewAPIRateLimiter()

	// Health check
	s.router.Get("/health", s.healthHandler)

	// Auth (public)
	s.router.Route("/api/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/login", s.loginHandler)
	})

	// Public share pages (no auth)
	s.router.With(apiLimiter.Middleware).
		Get("/api/public/notes/{nid}", s.getPublicNoteHandler)

	// Protected API
	s.router.Route("/api", func(r chi.Router) {
		r.Use(apiLimiter.Middleware)
		r.Use(s.authMiddleware)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/collections", s.listCollectionsHandler)
			r.Post("/collections", s.replaceCollectionsHandler)
			r.Delete("/collections/{cid}", s.deleteCollectionHandler)

			r.Get("/index", s.notesIndexHandler)
			r.Get("/collection/{cid}", s.activeNotesHandler)
			r.Get("/collection/{cid}/trash", s.trashedNotesHandler)
			r.Post("/collection/{cid}/empty-trash", s.emptyTrashHandler)

			r.Post("/", s.saveNoteHandler)
			r.Get("/{nid}", s.getNoteHandler)
			r.Delete("/{nid}", s.deleteNoteHandler)
			r.Post("/{nid}/trash", s.trashNoteHandler)
			r.Post("/{nid}/restore", s.restoreNoteHandler)
		})

		r.Route("/journal", func(r chi.Router) {
			r.Get("/calendar/{month}", s.journalMonthHandler)
			r.Get("/{date}", s.getJournalDayHandler)
			r.Put("/{date}", s.putJournalDayHandler)
		})

		r.Get("/backup", s.exportBackupHandler)
		r.Post("/backup", s.importBackupHandler)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			jsonError(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			jsonError(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		if err := s.jwt.Validate(parts[1]); err != nil {
			jsonError(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}

// domainError maps a domain error to an HTTP response. Validation errors
// go back verbatim; storage failures become a generic server error.
func domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrUnauthorized):
		jsonError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, domain.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		log.Printf("storage error: %v", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
