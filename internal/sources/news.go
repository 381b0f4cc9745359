package sources

import (
	"context"

	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/brandmonitor/brandmonitor/internal/search"
	"github.com/sirupsen/logrus"
)

// NewsSource has no direct API; it rides the site-scoped search orchestrator,
// which already falls back to synthetic mentions on its own.
type NewsSource struct {
	searcher *search.Searcher
}

func NewNewsSource(searcher *search.Searcher) *NewsSource {
	return &NewsSource{searcher: searcher}
}

func (n *NewsSource) Name() models.Platform {
	return models.PlatformNews
}

func (n *NewsSource) Enabled() bool {
	return true
}

func (n *NewsSource) Search(ctx context.Context, keyword string) []models.Mention {
	mentions, err := n.searcher.SearchPlatform(ctx, keyword, models.PlatformNews, "w")
	if err != nil {
		logrus.Errorf("News search failed for %q: %v", keyword, err)
		return nil
	}
	return mentions
}
