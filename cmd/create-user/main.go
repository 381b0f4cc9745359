package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/auth"
	"github.com/brandmonitor/brandmonitor/internal/config"
	"github.com/brandmonitor/brandmonitor/internal/ids"
	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/brandmonitor/brandmonitor/internal/store"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Creates a user for local testing. With -demo it also seeds monitoring
// items, mentions, competitors and reports so the dashboard has data.
func main() {
	email := flag.String("email", "test@example.com", "email for the new user")
	name := flag.String("name", "Test User", "display name for the new user")
	password := flag.String("password", "password123", "password for the new user")
	demo := flag.Bool("demo", false, "seed demo data for the user")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := store.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.MigrationsDir); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	user, err := db.GetUserByEmail(ctx, *email)
	switch {
	case err == nil:
		logrus.Infof("User %s already exists", *email)
	case errors.Is(err, store.ErrNotFound):
		hash, err := auth.HashPassword(*password)
		if err != nil {
			logrus.Fatalf("Failed to hash password: %v", err)
		}
		user = &models.User{Name: *name, Email: *email, PasswordHash: hash}
		if err := db.CreateUser(ctx, user); err != nil {
			logrus.Fatalf("Failed to create user: %v", err)
		}
		logrus.Infof("Created user: %s (%s)", user.Email, user.Name)
	default:
		logrus.Fatalf("Failed to look up user: %v", err)
	}

	items := &models.MonitoringItems{UserID: user.ID}
	if *demo {
		items.Domains = []string{"example.com", "competitor1.com", "competitor2.com"}
		items.BrandNames = []string{"Demo Brand", "Demo Company"}
		items.Keywords = []string{"demo", "brand monitoring", "social media", "marketing"}
	}

	if err := db.UpsertMonitoringItems(ctx, items); err != nil {
		logrus.Fatalf("Failed to save monitoring items: %v", err)
	}
	logrus.Info("Created monitoring items for the user")

	if *demo {
		seedDemoData(ctx, db, user.ID)
	}
}

func seedDemoData(ctx context.Context, db *store.Postgres, userID string) {
	idGen := ids.NewGenerator(nil)

	mentions := []models.Mention{
		{
			Content:    "Just tried @DemoBrand and it's amazing! Really impressed with the features.",
			Platform:   models.PlatformTwitter,
			Author:     "John Doe (@johndoe)",
			Sentiment:  models.SentimentPositive,
			URL:        "https://twitter.com/johndoe/status/123456789",
			Engagement: &models.Engagement{Likes: 42, Retweets: 12, Replies: 5},
		},
		{
			Content:    "Not sure about @DemoBrand, seems overpriced for what it offers.",
			Platform:   models.PlatformTwitter,
			Author:     "Jane Smith (@janesmith)",
			Sentiment:  models.SentimentNegative,
			URL:        "https://twitter.com/janesmith/status/987654321",
			Engagement: &models.Engagement{Likes: 15, Retweets: 3, Replies: 8},
		},
		{
			Content:    "Just a neutral comment about @DemoBrand, nothing special.",
			Platform:   models.PlatformTwitter,
			Author:     "Bob Johnson (@bobjohnson)",
			Sentiment:  models.SentimentNeutral,
			URL:        "https://twitter.com/bobjohnson/status/456789123",
			Engagement: &models.Engagement{Likes: 7, Retweets: 1, Replies: 2},
		},
		{
			Content:    "I love using Demo Brand for my business! It has helped me grow my company by 25%.",
			Platform:   models.PlatformReddit,
			Author:     "Alice Williams (u/alicewilliams)",
			Sentiment:  models.SentimentPositive,
			URL:        "https://reddit.com/r/business/comments/123456",
			Engagement: &models.Engagement{Likes: 78, Comments: 23},
		},
		{
			Content:    "Demo Brand is releasing a new feature next week. Looking forward to trying it out!",
			Platform:   models.PlatformNews,
			Author:     "Tech News Daily",
			Sentiment:  models.SentimentNeutral,
			URL:        "https://technewsdaily.com/article/12345",
			Engagement: &models.Engagement{Shares: 45, Comments: 12},
		},
	}

	now := time.Now()
	for i := range mentions {
		mentions[i].ID = idGen.FromURL(mentions[i].URL)
		mentions[i].UserID = userID
		mentions[i].CreatedAt = now
		mentions[i].UpdatedAt = now
		if _, err := db.UpsertMention(ctx, &mentions[i]); err != nil {
			logrus.Fatalf("Failed to seed mention: %v", err)
		}
	}
	logrus.Infof("Added %d brand mentions", len(mentions))

	competitors := []models.Competitor{
		{
			UserID:      userID,
			Name:        "Competitor One",
			Website:     "https://competitor1.com",
			Keywords:    []string{"competitor", "alternative", "similar product"},
			Mentions:    mustJSON(map[string]int{"total": 1250, "positive": 650, "neutral": 400, "negative": 200}),
			Sentiment:   mustJSON(map[string]interface{}{"overall": 0.72, "trend": "increasing"}),
			MarketShare: 35.5,
		},
		{
			UserID:      userID,
			Name:        "Competitor Two",
			Website:     "https://competitor2.com",
			Keywords:    []string{"competitor", "alternative", "similar product"},
			Mentions:    mustJSON(map[string]int{"total": 980, "positive": 420, "neutral": 380, "negative": 180}),
			Sentiment:   mustJSON(map[string]interface{}{"overall": 0.65, "trend": "stable"}),
			MarketShare: 28.3,
		},
	}

	for i := range competitors {
		if err := db.CreateCompetitor(ctx, &competitors[i]); err != nil {
			logrus.Fatalf("Failed to seed competitor: %v", err)
		}
	}
	logrus.Infof("Added %d competitors", len(competitors))

	reports := []models.Report{
		{
			UserID: userID,
			Title:  "Weekly Sentiment Analysis",
			Type:   "sentiment",
			Data: mustJSON(map[string]interface{}{
				"positive":    65,
				"neutral":     25,
				"negative":    10,
				"trend":       "improving",
				"topKeywords": []string{"great", "love", "recommend", "disappointed", "expensive"},
			}),
			Period: "weekly",
		},
		{
			UserID: userID,
			Title:  "Monthly Competitor Analysis",
			Type:   "competitor",
			Data: mustJSON(map[string]interface{}{
				"marketShare":         map[string]float64{"Demo Brand": 36.2, "Competitor One": 35.5, "Competitor Two": 28.3},
				"sentimentComparison": map[string]float64{"Demo Brand": 0.78, "Competitor One": 0.72, "Competitor Two": 0.65},
			}),
			Period: "monthly",
		},
		{
			UserID: userID,
			Title:  "Quarterly Trend Report",
			Type:   "trend",
			Data: mustJSON(map[string]interface{}{
				"platformDistribution": map[string]int{"twitter": 45, "reddit": 30, "news": 25},
				"recommendations": []string{
					"Increase focus on Twitter engagement",
					"Develop more content around brand monitoring",
				},
			}),
			Period: "quarterly",
		},
	}

	for i := range reports {
		if err := db.CreateReport(ctx, &reports[i]); err != nil {
			logrus.Fatalf("Failed to seed report: %v", err)
		}
	}
	logrus.Infof("Added %d reports", len(reports))

	logrus.Info("Demo data created successfully")
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		logrus.Fatalf("Failed to marshal demo data: %v", err)
	}
	return data
}
