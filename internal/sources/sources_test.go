package sources

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/brandmonitor/brandmonitor/internal/extract"
	"github.com/brandmonitor/brandmonitor/internal/ids"
	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/brandmonitor/brandmonitor/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededMock() *search.MockGenerator {
	return search.NewMockGenerator(rand.New(rand.NewSource(1)))
}

func TestTwitterSource_Name(t *testing.T) {
	source := NewTwitterSource("bearer_token", nil, nil)
	assert.Equal(t, models.PlatformTwitter, source.Name())
}

func TestTwitterSource_Enabled(t *testing.T) {
	assert.True(t, NewTwitterSource("bearer_token", nil, nil).Enabled())
	assert.False(t, NewTwitterSource("", nil, nil).Enabled())
}

func TestRedditSource_Name(t *testing.T) {
	source := NewRedditSource("client_id", "client_secret", nil, nil)
	assert.Equal(t, models.PlatformReddit, source.Name())
}

func TestRedditSource_Enabled(t *testing.T) {
	tests := []struct {
		name         string
		clientID     string
		clientSecret string
		expected     bool
	}{
		{
			name:         "Both credentials provided",
			clientID:     "client_id",
			clientSecret: "client_secret",
			expected:     true,
		},
		{
			name:         "Missing client ID",
			clientID:     "",
			clientSecret: "client_secret",
			expected:     false,
		},
		{
			name:         "Missing client secret",
			clientID:     "client_id",
			clientSecret: "",
			expected:     false,
		},
		{
			name:         "Both missing",
			clientID:     "",
			clientSecret: "",
			expected:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewRedditSource(tt.clientID, tt.clientSecret, nil, nil)
			assert.Equal(t, tt.expected, source.Enabled())
		})
	}
}

// Scheduled monitoring searches one source from several goroutines at once,
// one per tracked keyword. Every search authenticates on its own; tokens must
// never bleed between in-flight calls.
func TestRedditSource_ConcurrentSearches(t *testing.T) {
	var tokensIssued int32
	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&tokensIssued, 1)
		fmt.Fprintf(w, `{"access_token": "token-%d"}`, n)
	}))
	defer authServer.Close()

	searchServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer token-") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"data":{"children":[{"data":{
			"id": "abc123",
			"title": "Acme is great",
			"author": "gopher",
			"subreddit": "golang",
			"permalink": "/r/golang/comments/abc123/acme/",
			"created_utc": 1700000000,
			"score": 42,
			"num_comments": 7
		}}]}}`)
	}))
	defer searchServer.Close()

	source := NewRedditSource("client_id", "client_secret", ids.NewGenerator(nil), seededMock())
	source.authURL = authServer.URL
	source.searchURL = searchServer.URL

	keywords := []string{"Acme", "Acme Cloud", "Acme Labs", "AcmeDB"}
	results := make([][]models.Mention, len(keywords))

	var wg sync.WaitGroup
	for i, keyword := range keywords {
		wg.Add(1)
		go func(i int, keyword string) {
			defer wg.Done()
			results[i] = source.Search(context.Background(), keyword)
		}(i, keyword)
	}
	wg.Wait()

	// A failed live search falls back to the synthetic batch of five, so a
	// single mention per call proves every goroutine took the live path.
	for _, mentions := range results {
		require.Len(t, mentions, 1)
		m := mentions[0]
		assert.Equal(t, models.PlatformReddit, m.Platform)
		assert.Equal(t, "Acme is great", m.Content)
		assert.Equal(t, "u/gopher", m.Author)
		assert.Equal(t, "https://reddit.com/r/golang/comments/abc123/acme/", m.URL)
		assert.Equal(t, 42, m.Engagement.Likes)
		assert.Equal(t, 7, m.Engagement.Comments)
	}
	assert.EqualValues(t, len(keywords), atomic.LoadInt32(&tokensIssued))
}

func TestFacebookSource_Name(t *testing.T) {
	source := NewFacebookSource("access_token", nil, nil)
	assert.Equal(t, models.PlatformFacebook, source.Name())
}

func TestFacebookSource_Enabled(t *testing.T) {
	assert.True(t, NewFacebookSource("access_token", nil, nil).Enabled())
	assert.False(t, NewFacebookSource("", nil, nil).Enabled())
}

func TestNewsSource_NameAndEnabled(t *testing.T) {
	source := NewNewsSource(search.NewSearcher(nil, nil, nil, nil))
	assert.Equal(t, models.PlatformNews, source.Name())
	assert.True(t, source.Enabled())
}

func TestDisabledSourcesServeMockMentions(t *testing.T) {
	tests := []struct {
		name     string
		source   Source
		platform models.Platform
	}{
		{
			name:     "Twitter without credentials",
			source:   NewTwitterSource("", ids.NewGenerator(nil), seededMock()),
			platform: models.PlatformTwitter,
		},
		{
			name:     "Reddit without credentials",
			source:   NewRedditSource("", "", ids.NewGenerator(nil), seededMock()),
			platform: models.PlatformReddit,
		},
		{
			name:     "Facebook without credentials",
			source:   NewFacebookSource("", ids.NewGenerator(nil), seededMock()),
			platform: models.PlatformFacebook,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions := tt.source.Search(context.Background(), "Acme")

			require.NotEmpty(t, mentions)
			for _, m := range mentions {
				assert.Equal(t, tt.platform, m.Platform)
				assert.Contains(t, m.Content, "Acme")
				assert.NotEmpty(t, m.ID)
				assert.NotNil(t, m.Engagement)
			}
		})
	}
}

func TestNewsSourceServesSyntheticWithoutProvider(t *testing.T) {
	searcher := search.NewSearcher(
		nil,
		ids.NewGenerator(rand.New(rand.NewSource(1))),
		extract.NewExtractor(rand.New(rand.NewSource(2))),
		seededMock(),
	)
	source := NewNewsSource(searcher)

	mentions := source.Search(context.Background(), "Acme")

	require.NotEmpty(t, mentions)
	for _, m := range mentions {
		assert.Equal(t, models.PlatformNews, m.Platform)
		assert.Contains(t, m.Content, "Acme")
	}
}
