package search

import (
	"context"
	"fmt"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/extract"
	"github.com/brandmonitor/brandmonitor/internal/ids"
	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/brandmonitor/brandmonitor/internal/sentiment"
	"github.com/sirupsen/logrus"
)

// siteScopes maps each platform to the site: scope used in dork queries.
var siteScopes = map[models.Platform]string{
	models.PlatformTwitter:  "x.com",
	models.PlatformReddit:   "reddit.com",
	models.PlatformFacebook: "facebook.com",
	models.PlatformNews:     "news.google.com",
}

// Searcher turns raw site-scoped search hits into normalized mentions by
// composing the ID generator, the field extractor and the sentiment
// classifier. It degrades instead of failing: without a live provider it
// serves synthetic mentions, and provider errors become empty result sets.
type Searcher struct {
	provider  Provider
	ids       *ids.Generator
	extractor *extract.Extractor
	mock      *MockGenerator
	now       func() time.Time
}

// NewSearcher wires the orchestrator. provider may be nil (mock-only mode).
func NewSearcher(provider Provider, idGen *ids.Generator, extractor *extract.Extractor, mock *MockGenerator) *Searcher {
	if idGen == nil {
		idGen = ids.NewGenerator(nil)
	}
	if extractor == nil {
		extractor = extract.NewExtractor(nil)
	}
	if mock == nil {
		mock = NewMockGenerator(nil)
	}
	return &Searcher{
		provider:  provider,
		ids:       idGen,
		extractor: extractor,
		mock:      mock,
		now:       time.Now,
	}
}

// SearchPlatform runs one scoped search for the keyword on a platform and
// normalizes every hit. An unsupported platform errors before any network
// call; a provider failure is logged and answered with an empty slice, which
// callers must read as "no results or transient failure".
func (s *Searcher) SearchPlatform(ctx context.Context, keyword string, platform models.Platform, timeRange string) ([]models.Mention, error) {
	site, ok := siteScopes[platform]
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %s", platform)
	}

	timeRange = normalizeTimeRange(timeRange)

	if s.provider == nil || !s.provider.Enabled() {
		logrus.Debugf("Search provider not configured, generating mock mentions for %q on %s", keyword, platform)
		return s.mock.Generate(keyword, platform), nil
	}

	results, err := s.provider.Search(ctx, keyword, site, timeRange)
	if err != nil {
		logrus.Errorf("Search failed for %q on %s: %v", keyword, platform, err)
		return []models.Mention{}, nil
	}

	now := s.now()
	mentions := make([]models.Mention, 0, len(results))
	for _, result := range results {
		createdAt := result.PublishedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		mentions = append(mentions, models.Mention{
			ID:         s.ids.FromURL(result.Link),
			Content:    result.Snippet,
			Platform:   platform,
			Author:     extract.Author(result.Title, result.Snippet, platform),
			Sentiment:  sentiment.Classify(result.Snippet, sentiment.DefaultLexicon),
			URL:        result.Link,
			Engagement: s.extractor.Engagement(result.Title, result.Snippet, platform),
			CreatedAt:  createdAt,
			UpdatedAt:  now,
		})
	}

	logrus.Infof("Normalized %d mentions for %q on %s", len(mentions), keyword, platform)
	return mentions, nil
}

// normalizeTimeRange clamps the range code to week/month/year, defaulting to
// a week.
func normalizeTimeRange(timeRange string) string {
	switch timeRange {
	case "w", "m", "y":
		return timeRange
	default:
		return "w"
	}
}
