package api

import (
	"net/http"
	"sync"

	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/sirupsen/logrus"
)

type searchStats struct {
	Total      int                     `json:"total"`
	ByPlatform map[models.Platform]int `json:"byPlatform"`
}

type searchResponse struct {
	Success bool             `json:"success"`
	Data    []models.Mention `json:"data"`
	Stats   searchStats      `json:"stats"`
}

// handleSearch is the ingestion entry point: it fans the orchestrator out
// across the requested platforms, persists every normalized mention keyed by
// (id, owner) and answers with the saved set plus per-platform counts.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		respondError(w, http.StatusBadRequest, "Keyword is required")
		return
	}

	timeRange := r.URL.Query().Get("timeRange")
	if timeRange == "" {
		timeRange = "w"
	}

	platforms := models.AllPlatforms
	if p := r.URL.Query().Get("platform"); p != "" {
		platform := models.Platform(p)
		if !platform.Valid() {
			respondError(w, http.StatusBadRequest, "Unsupported platform: "+p)
			return
		}
		platforms = []models.Platform{platform}
	}

	logrus.Infof("Searching for keyword %q across platforms %v", keyword, platforms)

	mentions, errorCount := s.fanOut(r, keyword, platforms, timeRange)

	saved := make([]models.Mention, 0, len(mentions))
	for i := range mentions {
		mentions[i].UserID = user.ID
		m, err := s.store.UpsertMention(r.Context(), &mentions[i])
		if err != nil {
			// Rows already written stay written; there is no transaction
			// across the batch.
			logrus.Errorf("Failed to save mention %s: %v", mentions[i].ID, err)
			respondError(w, http.StatusInternalServerError, "Failed to search for mentions")
			return
		}
		saved = append(saved, *m)
	}

	s.metrics.RecordSearch(saved, errorCount)

	stats := searchStats{Total: len(saved), ByPlatform: make(map[models.Platform]int, len(platforms))}
	for _, platform := range platforms {
		stats.ByPlatform[platform] = 0
	}
	for _, mention := range saved {
		stats.ByPlatform[mention.Platform]++
	}

	respondJSON(w, http.StatusOK, searchResponse{Success: true, Data: saved, Stats: stats})
}

// fanOut runs one orchestrator search per platform concurrently. Every branch
// carries its own failure boundary: an error or panic in one platform's
// search is counted and logged, never allowed to abort the siblings.
func (s *Server) fanOut(r *http.Request, keyword string, platforms []models.Platform, timeRange string) ([]models.Mention, int) {
	type branchResult struct {
		mentions []models.Mention
		failed   bool
	}

	results := make(chan branchResult, len(platforms))
	var wg sync.WaitGroup

	for _, platform := range platforms {
		wg.Add(1)
		go func(platform models.Platform) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					logrus.Errorf("Search for platform %s panicked: %v", platform, rec)
					results <- branchResult{failed: true}
				}
			}()

			mentions, err := s.searcher.SearchPlatform(r.Context(), keyword, platform, timeRange)
			if err != nil {
				logrus.Errorf("Search for platform %s failed: %v", platform, err)
				results <- branchResult{failed: true}
				return
			}
			results <- branchResult{mentions: mentions}
		}(platform)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []models.Mention
	errorCount := 0
	for result := range results {
		if result.failed {
			errorCount++
			continue
		}
		all = append(all, result.mentions...)
	}
	return all, errorCount
}

// handleTwitterSearch is the platform-specific ingestion endpoint kept for
// the dashboard's Twitter widget; same pipeline, fixed platform.
func (s *Server) handleTwitterSearch(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		respondError(w, http.StatusBadRequest, "Keyword is required")
		return
	}

	timeRange := r.URL.Query().Get("timeRange")
	if timeRange == "" {
		timeRange = "w"
	}

	mentions, err := s.searcher.SearchPlatform(r.Context(), keyword, models.PlatformTwitter, timeRange)
	if err != nil {
		logrus.Errorf("Twitter search failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to search Twitter")
		return
	}

	saved := make([]models.Mention, 0, len(mentions))
	for i := range mentions {
		mentions[i].UserID = user.ID
		m, err := s.store.UpsertMention(r.Context(), &mentions[i])
		if err != nil {
			logrus.Errorf("Failed to save mention %s: %v", mentions[i].ID, err)
			respondError(w, http.StatusInternalServerError, "Failed to search Twitter")
			return
		}
		saved = append(saved, *m)
	}

	s.metrics.RecordSearch(saved, 0)

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": saved})
}
