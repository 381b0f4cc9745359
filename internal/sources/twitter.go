package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/ids"
	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/brandmonitor/brandmonitor/internal/search"
	"github.com/brandmonitor/brandmonitor/internal/sentiment"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// TwitterSource searches the Twitter/X recent search API directly.
type TwitterSource struct {
	bearerToken string
	client      *resty.Client
	idGen       *ids.Generator
	mock        *search.MockGenerator
}

type twitterSearchResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			RetweetCount int `json:"retweet_count"`
			LikeCount    int `json:"like_count"`
			ReplyCount   int `json:"reply_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

// NewTwitterSource creates a new Twitter source
func NewTwitterSource(bearerToken string, idGen *ids.Generator, mock *search.MockGenerator) *TwitterSource {
	if idGen == nil {
		idGen = ids.NewGenerator(nil)
	}
	if mock == nil {
		mock = search.NewMockGenerator(nil)
	}
	return &TwitterSource{
		bearerToken: bearerToken,
		idGen:       idGen,
		mock:        mock,
		client: resty.New().
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", "BrandMonitor/1.0"),
	}
}

func (t *TwitterSource) Name() models.Platform {
	return models.PlatformTwitter
}

func (t *TwitterSource) Enabled() bool {
	return t.bearerToken != ""
}

func (t *TwitterSource) Search(ctx context.Context, keyword string) []models.Mention {
	if !t.Enabled() {
		logrus.Debug("Twitter credentials not found, returning mock mentions")
		return t.mock.Generate(keyword, models.PlatformTwitter)
	}

	mentions, err := t.search(ctx, keyword)
	if err != nil {
		logrus.Errorf("Twitter search failed for %q: %v", keyword, err)
		return t.mock.Generate(keyword, models.PlatformTwitter)
	}

	return mentions
}

func (t *TwitterSource) search(ctx context.Context, keyword string) ([]models.Mention, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+t.bearerToken).
		SetQueryParams(map[string]string{
			"query":        keyword,
			"max_results":  "10",
			"tweet.fields": "created_at,public_metrics,author_id",
			"expansions":   "author_id",
			"user.fields":  "name,username",
		}).
		Get("https://api.twitter.com/2/tweets/search/recent")

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("twitter API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var searchResp twitterSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse Twitter response: %w", err)
	}

	users := make(map[string]struct{ name, username string }, len(searchResp.Includes.Users))
	for _, u := range searchResp.Includes.Users {
		users[u.ID] = struct{ name, username string }{u.Name, u.Username}
	}

	now := time.Now()
	var mentions []models.Mention

	for _, tweet := range searchResp.Data {
		author := "Unknown"
		username := "i"
		if u, ok := users[tweet.AuthorID]; ok {
			author = fmt.Sprintf("%s (@%s)", u.name, u.username)
			username = u.username
		}

		createdAt := now
		if ts, err := time.Parse(time.RFC3339, tweet.CreatedAt); err == nil {
			createdAt = ts
		}

		url := fmt.Sprintf("https://twitter.com/%s/status/%s", username, tweet.ID)

		mentions = append(mentions, models.Mention{
			ID:        t.idGen.FromURL(url),
			Content:   tweet.Text,
			Platform:  models.PlatformTwitter,
			Author:    author,
			Sentiment: sentiment.Classify(tweet.Text, sentiment.SourceLexicon),
			URL:       url,
			Engagement: &models.Engagement{
				Likes:    tweet.PublicMetrics.LikeCount,
				Retweets: tweet.PublicMetrics.RetweetCount,
				Replies:  tweet.PublicMetrics.ReplyCount,
			},
			CreatedAt: createdAt,
			UpdatedAt: now,
		})
	}

	return mentions, nil
}
