package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/archive"
	"github.com/brandmonitor/brandmonitor/internal/auth"
	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/brandmonitor/brandmonitor/internal/store"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// PlatformSearcher is the ingestion pipeline dependency of the search
// endpoints.
type PlatformSearcher interface {
	SearchPlatform(ctx context.Context, keyword string, platform models.Platform, timeRange string) ([]models.Mention, error)
}

// Server carries the HTTP handlers and their dependencies.
type Server struct {
	store    store.Store
	searcher PlatformSearcher
	auth     *auth.Manager
	archive  archive.Archiver
	metrics  *Metrics
}

// NewServer creates the API server. The archiver is optional; without one the
// digest listing endpoint reports the archive as unavailable.
func NewServer(st store.Store, searcher PlatformSearcher, authManager *auth.Manager, archiver archive.Archiver) *Server {
	return &Server{
		store:    st,
		searcher: searcher,
		auth:     authManager,
		archive:  archiver,
		metrics:  NewMetrics(),
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	// Ops endpoints
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/metrics", s.handleMetrics).Methods("GET")

	// Account endpoints
	router.HandleFunc("/api/register", s.handleRegister).Methods("POST")
	router.HandleFunc("/api/auth", s.handleLogin).Methods("POST")
	router.HandleFunc("/api/auth/signout", s.handleSignout).Methods("POST")
	router.HandleFunc("/api/user", s.requireAuth(s.handleGetUser)).Methods("GET")

	// Mentions
	router.HandleFunc("/api/mentions", s.requireAuth(s.handleListMentions)).Methods("GET")
	router.HandleFunc("/api/mentions", s.requireAuth(s.handleCreateMention)).Methods("POST")
	router.HandleFunc("/api/mentions", s.requireAuth(s.handleDeleteMentions)).Methods("DELETE")

	// Ingestion
	router.HandleFunc("/api/search", s.requireAuth(s.handleSearch)).Methods("GET")
	router.HandleFunc("/api/twitter/search", s.requireAuth(s.handleTwitterSearch)).Methods("GET")

	// Competitors, reports, monitoring setup
	router.HandleFunc("/api/competitors", s.requireAuth(s.handleListCompetitors)).Methods("GET")
	router.HandleFunc("/api/competitors", s.requireAuth(s.handleCreateCompetitor)).Methods("POST")
	router.HandleFunc("/api/reports", s.requireAuth(s.handleListReports)).Methods("GET")
	router.HandleFunc("/api/reports", s.requireAuth(s.handleCreateReport)).Methods("POST")
	router.HandleFunc("/api/setup", s.requireAuth(s.handleGetSetup)).Methods("GET")
	router.HandleFunc("/api/setup", s.requireAuth(s.handleSaveSetup)).Methods("POST")
	router.HandleFunc("/api/digests", s.requireAuth(s.handleListDigests)).Methods("GET")

	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
