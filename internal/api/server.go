package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/scamnet-io/decoy/internal/archive"
	"github.com/scamnet-io/decoy/internal/engine"
	"github.com/scamnet-io/decoy/internal/session"
)

type Server struct {
	router  *chi.Mux
	srv     *http.Server
	engine  *engine.Engine
	store   *session.Store
	archive *archive.Archive
	logger  *slog.Logger
}

// NewServer wires all routes. archive may be nil; the reports route then
// answers 503. An empty apiToken leaves the admin routes unregistered.
func NewServer(port int, apiToken string, eng *engine.Engine, store *session.Store, arc *archive.Archive, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:  router,
		srv:     &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: router},
		engine:  eng,
		store:   store,
		archive: arc,
		logger:  logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/decoy/status", s.status)
	router.Post("/honey-pot", s.handleTurn)

	if apiToken != "" {
		router.Route("/api/v1/sessions", func(r chi.Router) {
			r.Use(BearerAuthMiddleware(apiToken))
			r.Get("/", s.listSessions)
			r.Get("/{id}", s.getSession)
			r.Post("/{id}/finalize", s.finalizeSession)
		})
		router.With(BearerAuthMiddleware(apiToken)).Get("/api/v1/reports", s.listReports)
	}

	return s
}

// Start serves until Shutdown is called. A shutdown-triggered exit is not an
// error.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting new connections and drains in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("API server shutting down")
	return s.srv.Shutdown(ctx)
}

// BearerAuthMiddleware rejects requests whose Authorization header does not
// carry the expected bearer token.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":          "decoy",
		"status":         "engaged",
		"activeSessions": s.store.Len(),
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
