package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Result is one raw hit from the external search index.
type Result struct {
	Title       string
	Link        string
	Snippet     string
	PublishedAt time.Time // zero when the index exposed no publish date
}

// Provider is the external search dependency of the orchestrator.
type Provider interface {
	Enabled() bool
	Search(ctx context.Context, query, site, timeRange string) ([]Result, error)
}

const defaultGoogleBaseURL = "https://www.googleapis.com/customsearch/v1"

// GoogleClient queries the Google Programmable Search JSON API with a
// site-scoped dork query. Responses are cached in memory for an hour per
// (query, site, range) tuple; the quota is small and dashboard reloads
// re-issue identical searches constantly.
type GoogleClient struct {
	apiKey   string
	engineID string
	baseURL  string
	client   *resty.Client
	cacheTTL time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	results []Result
	expires time.Time
}

type googleSearchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Pagemap struct {
			Metatags []map[string]string `json:"metatags"`
		} `json:"pagemap"`
	} `json:"items"`
}

// NewGoogleClient creates a search client. Credentials may be empty; Enabled
// gates live requests and the caller falls back to synthetic data.
func NewGoogleClient(apiKey, engineID string) *GoogleClient {
	return &GoogleClient{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  defaultGoogleBaseURL,
		cacheTTL: time.Hour,
		cache:    make(map[string]cacheEntry),
		client: resty.New().
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", "BrandMonitor/1.0"),
	}
}

func (c *GoogleClient) Enabled() bool {
	return c.apiKey != "" && c.engineID != ""
}

// Search issues one scoped search for `"query" site:<site>` restricted to the
// given range code (w/m/y).
func (c *GoogleClient) Search(ctx context.Context, query, site, timeRange string) ([]Result, error) {
	cacheKey := query + "|" + site + "|" + timeRange

	c.mu.Lock()
	if entry, ok := c.cache[cacheKey]; ok && time.Now().Before(entry.expires) {
		c.mu.Unlock()
		logrus.Debugf("Search cache hit for %q on %s", query, site)
		return entry.results, nil
	}
	c.mu.Unlock()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key": c.apiKey,
			"cx":  c.engineID,
			"q":   fmt.Sprintf("%q site:%s", query, site),
			"tbs": "qdr:" + timeRange,
		}).
		Get(c.baseURL)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var searchResp googleSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	results := make([]Result, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		result := Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		}
		for _, tags := range item.Pagemap.Metatags {
			if published, ok := tags["article:published_time"]; ok {
				if ts, err := time.Parse(time.RFC3339, published); err == nil {
					result.PublishedAt = ts
				}
				break
			}
		}
		results = append(results, result)
	}

	c.mu.Lock()
	c.cache[cacheKey] = cacheEntry{results: results, expires: time.Now().Add(c.cacheTTL)}
	c.mu.Unlock()

	return results, nil
}
