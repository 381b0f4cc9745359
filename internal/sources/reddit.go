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

const (
	defaultRedditAuthURL   = "https://www.reddit.com/api/v1/access_token"
	defaultRedditSearchURL = "https://oauth.reddit.com/search"
)

// RedditSource searches Reddit posts through the OAuth API. Search may be
// called from multiple goroutines; each call fetches its own app token.
type RedditSource struct {
	clientID     string
	clientSecret string
	client       *resty.Client
	idGen        *ids.Generator
	mock         *search.MockGenerator
	authURL      string
	searchURL    string
}

type redditAuthResponse struct {
	AccessToken string `json:"access_token"`
}

type redditSearchResponse struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Permalink   string  `json:"permalink"`
	Created     float64 `json:"created_utc"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
}

// NewRedditSource creates a new Reddit source
func NewRedditSource(clientID, clientSecret string, idGen *ids.Generator, mock *search.MockGenerator) *RedditSource {
	if idGen == nil {
		idGen = ids.NewGenerator(nil)
	}
	if mock == nil {
		mock = search.NewMockGenerator(nil)
	}
	return &RedditSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		idGen:        idGen,
		mock:         mock,
		client:       resty.New().SetTimeout(30 * time.Second),
		authURL:      defaultRedditAuthURL,
		searchURL:    defaultRedditSearchURL,
	}
}

func (r *RedditSource) Name() models.Platform {
	return models.PlatformReddit
}

func (r *RedditSource) Enabled() bool {
	return r.clientID != "" && r.clientSecret != ""
}

func (r *RedditSource) Search(ctx context.Context, keyword string) []models.Mention {
	if !r.Enabled() {
		logrus.Debug("Reddit credentials not found, returning mock mentions")
		return r.mock.Generate(keyword, models.PlatformReddit)
	}

	mentions, err := r.search(ctx, keyword)
	if err != nil {
		logrus.Errorf("Reddit search failed for %q: %v", keyword, err)
		return r.mock.Generate(keyword, models.PlatformReddit)
	}

	return mentions
}

func (r *RedditSource) authenticate(ctx context.Context) (string, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", "BrandMonitor/1.0").
		SetBasicAuth(r.clientID, r.clientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
		}).
		Post(r.authURL)

	if err != nil {
		return "", err
	}

	var authResp redditAuthResponse
	if err := json.Unmarshal(resp.Body(), &authResp); err != nil {
		return "", err
	}

	if authResp.AccessToken == "" {
		return "", fmt.Errorf("reddit auth returned no token (status %d)", resp.StatusCode())
	}

	return authResp.AccessToken, nil
}

func (r *RedditSource) search(ctx context.Context, keyword string) ([]models.Mention, error) {
	token, err := r.authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("reddit authentication failed: %w", err)
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("User-Agent", "BrandMonitor/1.0").
		SetQueryParams(map[string]string{
			"q":     keyword,
			"sort":  "new",
			"limit": "10",
		}).
		Get(r.searchURL)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("reddit API returned status %d", resp.StatusCode())
	}

	var searchResp redditSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, err
	}

	now := time.Now()
	var mentions []models.Mention

	for _, child := range searchResp.Data.Children {
		post := child.Data

		content := post.Title
		if post.Selftext != "" {
			content = post.Selftext
		}

		url := "https://reddit.com" + post.Permalink

		// Downvoted posts can go negative; engagement counters may not.
		score := post.Score
		if score < 0 {
			score = 0
		}

		mentions = append(mentions, models.Mention{
			ID:        r.idGen.FromURL(url),
			Content:   content,
			Platform:  models.PlatformReddit,
			Author:    "u/" + post.Author,
			Sentiment: sentiment.Classify(content, sentiment.SourceLexicon),
			URL:       url,
			Engagement: &models.Engagement{
				Likes:    score,
				Comments: post.NumComments,
			},
			CreatedAt: time.Unix(int64(post.Created), 0),
			UpdatedAt: now,
		})
	}

	return mentions, nil
}
