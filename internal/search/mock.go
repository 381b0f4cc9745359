package search

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/models"
)

// mockBatchSize is how many synthetic mentions one call produces.
const mockBatchSize = 5

// MockGenerator produces plausible synthetic mentions when no live search is
// available, so dashboards render representative data instead of a blank
// screen during development and demos. Output is random; tests should seed
// the RNG and assert structure, not exact values.
type MockGenerator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewMockGenerator creates a mock generator. A nil rng gets a time-seeded one.
func NewMockGenerator(rng *rand.Rand) *MockGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MockGenerator{rng: rng, now: time.Now}
}

var sentimentOrder = []models.Sentiment{models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative}

var mockAuthors = map[models.Platform][]string{
	models.PlatformTwitter: {
		"John Doe (@user1)", "Jane Smith (@user2)", "Bob Johnson (@user3)",
		"Alice Williams (@user4)", "Charlie Brown (@user5)",
	},
	models.PlatformReddit: {
		"u/redditor1", "u/redditor2", "u/redditor3", "u/redditor4", "u/redditor5",
	},
	models.PlatformFacebook: {
		"John Smith (Tech News)", "Sarah Johnson (Business Insider)", "Michael Brown (Marketing Weekly)",
		"Emily Davis (Startup Hub)", "David Wilson (Entrepreneur Daily)",
	},
	models.PlatformNews: {
		"Tech Daily", "Market Watch", "The Morning Post", "Business Review", "Industry Times",
	},
}

var mockSubreddits = []string{"technology", "business", "marketing", "startups", "entrepreneur"}

// mockTemplates carries the per-platform content per sentiment bucket. The
// phrasing is part of the demo experience and snapshot expectations; keep it
// stable.
var mockTemplates = map[models.Platform]map[models.Sentiment]string{
	models.PlatformTwitter: {
		models.SentimentPositive: "I love %s! It's amazing and has really improved my workflow. Highly recommend!",
		models.SentimentNegative: "I'm disappointed with %s. It doesn't work as advertised and was a waste of money.",
		models.SentimentNeutral:  "Just tried %s for the first time. Not sure what to think yet, will update later.",
	},
	models.PlatformReddit: {
		models.SentimentPositive: "I've been using %s for a while now and it's been a game-changer for my workflow. Highly recommend!",
		models.SentimentNegative: "I'm having issues with %s. The interface is confusing and support hasn't been helpful.",
		models.SentimentNeutral:  "Just discovered %s. Anyone have experience with it? Looking for honest reviews.",
	},
	models.PlatformFacebook: {
		models.SentimentPositive: "Just discovered %s and I'm absolutely loving it! The features are exactly what I needed. Highly recommend checking it out!",
		models.SentimentNegative: "Disappointed with my experience using %s. The interface is confusing and customer support hasn't been helpful. Hoping for improvements soon.",
		models.SentimentNeutral:  "Has anyone tried %s? Looking for honest reviews before making a decision. Let me know your thoughts!",
	},
	models.PlatformNews: {
		models.SentimentPositive: "%s announces breakthrough results as adoption keeps climbing this quarter.",
		models.SentimentNegative: "Analysts raise concerns after %s stumbles on a string of product problems.",
		models.SentimentNeutral:  "What the latest %s announcement means for the market, according to analysts.",
	},
}

// Generate returns a fixed-size synthetic batch for the keyword on a
// platform, cycling the author list, drawing sentiment uniformly and
// back-dating timestamps within the last week.
func (m *MockGenerator) Generate(keyword string, platform models.Platform) []models.Mention {
	authors := mockAuthors[platform]
	templates := mockTemplates[platform]
	if len(authors) == 0 || templates == nil {
		return nil
	}

	now := m.now()
	mentions := make([]models.Mention, 0, mockBatchSize)

	for i := 0; i < mockBatchSize; i++ {
		s := sentimentOrder[m.rng.Intn(len(sentimentOrder))]
		id := fmt.Sprintf("mock-%s-%d-%d", platform, i, now.UnixMilli())
		createdAt := now.Add(-time.Duration(m.rng.Int63n(int64(7 * 24 * time.Hour))))

		mentions = append(mentions, models.Mention{
			ID:         id,
			Content:    fmt.Sprintf(templates[s], keyword),
			Platform:   platform,
			Author:     authors[i%len(authors)],
			Sentiment:  s,
			URL:        m.mockURL(platform, id, i),
			Engagement: m.mockEngagement(platform),
			CreatedAt:  createdAt,
			UpdatedAt:  now,
		})
	}

	return mentions
}

func (m *MockGenerator) mockURL(platform models.Platform, id string, i int) string {
	switch platform {
	case models.PlatformTwitter:
		return fmt.Sprintf("https://twitter.com/user%d/status/%s", i+1, id)
	case models.PlatformReddit:
		return fmt.Sprintf("https://reddit.com/r/%s/comments/%s", mockSubreddits[i%len(mockSubreddits)], id)
	case models.PlatformFacebook:
		return fmt.Sprintf("https://facebook.com/page%d/posts/%s", i+1, id)
	case models.PlatformNews:
		return fmt.Sprintf("https://news.example.com/articles/%s", id)
	}
	return ""
}

// mockEngagement mirrors the extractor's fallback ranges so synthetic and
// degraded-live mentions look alike.
func (m *MockGenerator) mockEngagement(platform models.Platform) *models.Engagement {
	switch platform {
	case models.PlatformTwitter:
		return &models.Engagement{
			Likes:    m.rng.Intn(100),
			Retweets: m.rng.Intn(50),
			Replies:  m.rng.Intn(20),
		}
	case models.PlatformReddit:
		return &models.Engagement{
			Likes:    m.rng.Intn(100),
			Comments: m.rng.Intn(20),
		}
	case models.PlatformFacebook:
		return &models.Engagement{
			Likes:    m.rng.Intn(200),
			Shares:   m.rng.Intn(50),
			Comments: m.rng.Intn(30),
		}
	case models.PlatformNews:
		return &models.Engagement{
			Shares: m.rng.Intn(100),
		}
	}
	return nil
}
