package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (s *Server) handleListMentions(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	mentions, err := s.store.ListMentions(r.Context(), user.ID)
	if err != nil {
		logrus.Errorf("Failed to list mentions for user %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if mentions == nil {
		mentions = []models.Mention{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    mentions,
	})
}

type createMentionRequest struct {
	Content    string             `json:"content"`
	Platform   models.Platform    `json:"platform"`
	Author     string             `json:"author"`
	Sentiment  models.Sentiment   `json:"sentiment"`
	URL        string             `json:"url"`
	Engagement *models.Engagement `json:"engagement"`
}

func (s *Server) handleCreateMention(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req createMentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Content == "" || req.Platform == "" || req.Author == "" || req.Sentiment == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	mention := &models.Mention{
		ID:         "manual-" + uuid.NewString(),
		UserID:     user.ID,
		Content:    req.Content,
		Platform:   req.Platform,
		Author:     req.Author,
		Sentiment:  req.Sentiment,
		URL:        req.URL,
		Engagement: req.Engagement,
	}

	if err := s.store.CreateMention(r.Context(), mention); err != nil {
		logrus.Errorf("Failed to create mention: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    mention,
	})
}

type deleteMentionsRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleDeleteMentions(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req deleteMentionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "Missing or invalid mention IDs")
		return
	}

	count, err := s.store.DeleteMentions(r.Context(), user.ID, req.IDs)
	if err != nil {
		logrus.Errorf("Failed to delete mentions: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Successfully deleted %d mentions", count),
		"count":   count,
	})
}
