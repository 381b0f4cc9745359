package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/archive"
	"github.com/brandmonitor/brandmonitor/internal/config"
	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/brandmonitor/brandmonitor/internal/notifications"
	"github.com/brandmonitor/brandmonitor/internal/sources"
	"github.com/brandmonitor/brandmonitor/internal/store"
	"github.com/sirupsen/logrus"
)

// Service runs scheduled monitoring: for every user with saved monitoring
// items it searches the platform sources for each tracked keyword, persists
// the results and delivers a digest.
type Service struct {
	config   *config.Config
	store    store.Store
	notifier notifications.Notifier
	archiver archive.Archiver
	sources  []sources.Source
	now      func() time.Time
}

// NewService creates a new monitoring service. The archiver is optional.
func NewService(cfg *config.Config, st store.Store, notifier notifications.Notifier, archiver archive.Archiver, srcs []sources.Source) *Service {
	return &Service{
		config:   cfg,
		store:    st,
		notifier: notifier,
		archiver: archiver,
		sources:  filterSources(srcs, cfg.MonitorPlatforms),
		now:      time.Now,
	}
}

// filterSources keeps the sources whose platform is listed in MONITOR_PLATFORMS.
func filterSources(srcs []sources.Source, platforms []string) []sources.Source {
	allowed := make(map[string]bool, len(platforms))
	for _, p := range platforms {
		allowed[p] = true
	}

	var kept []sources.Source
	for _, src := range srcs {
		if allowed[string(src.Name())] {
			kept = append(kept, src)
		}
	}
	return kept
}

// RunMonitoring performs one full monitoring pass over every user. A failure
// for one user is logged and counted but never stops the remaining users.
func (s *Service) RunMonitoring() error {
	start := s.now()
	logrus.Info("Starting monitoring run")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	items, err := s.store.ListAllMonitoringItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load monitoring items: %w", err)
	}

	failures := 0
	for i := range items {
		if err := s.runUser(ctx, &items[i]); err != nil {
			logrus.Errorf("Monitoring run failed for user %s: %v", items[i].UserID, err)
			failures++
		}
	}

	logrus.Infof("Monitoring run completed in %v (%d users, %d failures)", s.now().Sub(start), len(items), failures)

	if failures > 0 {
		return fmt.Errorf("monitoring run had %d user failures", failures)
	}
	return nil
}

func (s *Service) runUser(ctx context.Context, items *models.MonitoringItems) error {
	user, err := s.store.GetUserByID(ctx, items.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	keywords := trackedKeywords(items)
	if len(keywords) == 0 {
		logrus.Debugf("User %s has no keywords to monitor, skipping", user.Email)
		return nil
	}

	logrus.Infof("Monitoring %d keywords for %s across %d sources", len(keywords), user.Email, len(s.sources))

	mentions := s.collectMentions(ctx, keywords)

	saved := make([]models.Mention, 0, len(mentions))
	for i := range mentions {
		mentions[i].UserID = user.ID
		m, err := s.store.UpsertMention(ctx, &mentions[i])
		if err != nil {
			return fmt.Errorf("failed to save mention %s: %w", mentions[i].ID, err)
		}
		saved = append(saved, *m)
	}

	digest := s.buildDigest(user.Email, keywords, saved)

	if err := s.notifier.SendDigest(digest); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	if s.archiver != nil {
		if err := s.archiver.StoreDigest(ctx, digest); err != nil {
			// The digest was already delivered; losing the archived copy is
			// not worth failing the whole user run.
			logrus.Errorf("Failed to archive digest for %s: %v", user.Email, err)
		}
	}

	return nil
}

// trackedKeywords merges brand names and keywords into one search list,
// dropping duplicates while preserving order.
func trackedKeywords(items *models.MonitoringItems) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, list := range [][]string{items.BrandNames, items.Keywords} {
		for _, keyword := range list {
			if keyword == "" || seen[keyword] {
				continue
			}
			seen[keyword] = true
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}

// collectMentions fans out one source search per (source, keyword) pair and
// gathers everything. Sources degrade to synthetic data internally, so there
// is no per-branch error to collect.
func (s *Service) collectMentions(ctx context.Context, keywords []string) []models.Mention {
	var wg sync.WaitGroup
	results := make(chan []models.Mention, len(s.sources)*len(keywords))

	for _, src := range s.sources {
		for _, keyword := range keywords {
			wg.Add(1)
			go func(src sources.Source, keyword string) {
				defer wg.Done()
				mentions := src.Search(ctx, keyword)
				logrus.Debugf("Found %d mentions for %q on %s", len(mentions), keyword, src.Name())
				results <- mentions
			}(src, keyword)
		}
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []models.Mention
	for mentions := range results {
		all = append(all, mentions...)
	}
	return all
}

func (s *Service) buildDigest(email string, keywords []string, mentions []models.Mention) *models.Digest {
	digest := &models.Digest{
		GeneratedAt:   s.now(),
		Period:        s.config.MonitorSchedule,
		UserEmail:     email,
		Keywords:      keywords,
		TotalMentions: len(mentions),
		ByPlatform:    make(map[models.Platform]int),
		BySentiment:   make(map[models.Sentiment]int),
		Mentions:      mentions,
	}

	for _, mention := range mentions {
		digest.ByPlatform[mention.Platform]++
		digest.BySentiment[mention.Sentiment]++
	}

	return digest
}
