package api

import (
	"sync"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/models"
)

// Metrics tracks ingestion counters exposed on /metrics.
type Metrics struct {
	mu sync.RWMutex

	totalIngested int
	lastSearch    time.Time
	byPlatform    map[models.Platform]int
	bySentiment   map[models.Sentiment]int
	errorCount    int
}

// MetricsSnapshot is the JSON shape served on /metrics.
type MetricsSnapshot struct {
	TotalIngested      int                      `json:"total_ingested"`
	LastSearch         time.Time                `json:"last_search"`
	PlatformBreakdown  map[models.Platform]int  `json:"platform_breakdown"`
	SentimentBreakdown map[models.Sentiment]int `json:"sentiment_breakdown"`
	ErrorCount         int                      `json:"error_count"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		byPlatform:  make(map[models.Platform]int),
		bySentiment: make(map[models.Sentiment]int),
	}
}

// RecordSearch accumulates one search request's saved mentions.
func (m *Metrics) RecordSearch(mentions []models.Mention, errorCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalIngested += len(mentions)
	m.lastSearch = time.Now()
	m.errorCount += errorCount

	for _, mention := range mentions {
		m.byPlatform[mention.Platform]++
		m.bySentiment[mention.Sentiment]++
	}
}

// Snapshot copies the counters for serving.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TotalIngested:      m.totalIngested,
		LastSearch:         m.lastSearch,
		PlatformBreakdown:  make(map[models.Platform]int, len(m.byPlatform)),
		SentimentBreakdown: make(map[models.Sentiment]int, len(m.bySentiment)),
		ErrorCount:         m.errorCount,
	}
	for platform, count := range m.byPlatform {
		snapshot.PlatformBreakdown[platform] = count
	}
	for sentiment, count := range m.bySentiment {
		snapshot.SentimentBreakdown[sentiment] = count
	}
	return snapshot
}
