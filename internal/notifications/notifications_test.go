package notifications

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/config"
	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDigest() *models.Digest {
	return &models.Digest{
		GeneratedAt:   time.Date(2025, 7, 7, 9, 0, 0, 0, time.UTC),
		Period:        "weekly",
		UserEmail:     "user@example.com",
		Keywords:      []string{"acme"},
		TotalMentions: 2,
		ByPlatform:    map[models.Platform]int{models.PlatformTwitter: 2},
		BySentiment:   map[models.Sentiment]int{models.SentimentPositive: 2},
		Mentions: []models.Mention{
			{ID: "twitter-1", Content: "love acme", Platform: models.PlatformTwitter, Author: "Jane", Sentiment: models.SentimentPositive},
			{ID: "twitter-2", Content: "acme is great", Platform: models.PlatformTwitter, Author: "Joe", Sentiment: models.SentimentPositive},
		},
	}
}

func TestSendDigestNoChannelsConfigured(t *testing.T) {
	service := NewService(&config.Config{})
	assert.NoError(t, service.SendDigest(testDigest()))
}

func TestSendDigestWebhook(t *testing.T) {
	var received *models.Digest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received = &models.Digest{}
		require.NoError(t, json.Unmarshal(body, received))

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := NewService(&config.Config{WebhookURL: server.URL})

	require.NoError(t, service.SendDigest(testDigest()))
	require.NotNil(t, received)
	assert.Equal(t, "user@example.com", received.UserEmail)
	assert.Equal(t, 2, received.TotalMentions)
	assert.Len(t, received.Mentions, 2)
}

func TestSendDigestWebhookErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	service := NewService(&config.Config{WebhookURL: server.URL})

	err := service.SendDigest(testDigest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook")
}

func TestDigestEmailTemplateRenders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, emailTemplate.Execute(&buf, testDigest()))

	body := buf.String()
	assert.Contains(t, body, "weekly")
	assert.Contains(t, body, "user@example.com")
	assert.Contains(t, body, "acme")
	assert.Contains(t, body, "Jane")
}
