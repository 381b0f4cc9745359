package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/brandmonitor/brandmonitor/internal/store"
	"github.com/sirupsen/logrus"
)

// Competitors

func (s *Server) handleListCompetitors(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	competitors, err := s.store.ListCompetitors(r.Context(), user.ID)
	if err != nil {
		logrus.Errorf("Failed to list competitors: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if competitors == nil {
		competitors = []models.Competitor{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    competitors,
	})
}

type createCompetitorRequest struct {
	Name     string   `json:"name"`
	Website  string   `json:"website"`
	Keywords []string `json:"keywords"`
}

func (s *Server) handleCreateCompetitor(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req createCompetitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	competitor := &models.Competitor{
		UserID:   user.ID,
		Name:     req.Name,
		Website:  req.Website,
		Keywords: req.Keywords,
	}

	if err := s.store.CreateCompetitor(r.Context(), competitor); err != nil {
		logrus.Errorf("Failed to create competitor: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    competitor,
	})
}

// Reports

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	reports, err := s.store.ListReports(r.Context(), user.ID)
	if err != nil {
		logrus.Errorf("Failed to list reports: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if reports == nil {
		reports = []models.Report{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    reports,
	})
}

type createReportRequest struct {
	Title  string          `json:"title"`
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
	Period string          `json:"period"`
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.Type == "" || len(req.Data) == 0 || req.Period == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	report := &models.Report{
		UserID: user.ID,
		Title:  req.Title,
		Type:   req.Type,
		Data:   req.Data,
		Period: req.Period,
	}

	if err := s.store.CreateReport(r.Context(), report); err != nil {
		logrus.Errorf("Failed to create report: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    report,
	})
}

// Monitoring setup

func (s *Server) handleGetSetup(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	items, err := s.store.GetMonitoringItems(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"data":    models.MonitoringItems{UserID: user.ID},
			})
			return
		}
		logrus.Errorf("Failed to load monitoring items: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    items,
	})
}

type setupRequest struct {
	Domains    []string `json:"domains"`
	BrandNames []string `json:"brandNames"`
	Keywords   []string `json:"keywords"`
}

func (s *Server) handleSaveSetup(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Keywords == nil {
		respondError(w, http.StatusBadRequest, "Invalid data format")
		return
	}

	items := &models.MonitoringItems{
		UserID:     user.ID,
		Domains:    dropEmpty(req.Domains),
		BrandNames: dropEmpty(req.BrandNames),
		Keywords:   dropEmpty(req.Keywords),
	}

	if err := s.store.UpsertMonitoringItems(r.Context(), items); err != nil {
		logrus.Errorf("Failed to save monitoring items: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    items,
	})
}

// Digest archive

// handleListDigests returns the archived digest blob names for the
// authenticated user, newest last in storage order.
func (s *Server) handleListDigests(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "Digest archive is not configured")
		return
	}

	user := currentUser(r)

	names, err := s.archive.ListDigests(r.Context(), "digest-"+user.Email+"-")
	if err != nil {
		logrus.Errorf("Failed to list archived digests: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if names == nil {
		names = []string{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    names,
	})
}

func dropEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
