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

// FacebookSource searches public posts through the Graph API.
type FacebookSource struct {
	accessToken string
	client      *resty.Client
	idGen       *ids.Generator
	mock        *search.MockGenerator
}

type facebookSearchResponse struct {
	Data []struct {
		ID          string `json:"id"`
		Message     string `json:"message"`
		CreatedTime string `json:"created_time"`
		From        struct {
			Name string `json:"name"`
		} `json:"from"`
		Shares struct {
			Count int `json:"count"`
		} `json:"shares"`
		Reactions struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"reactions"`
		Comments struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"comments"`
	} `json:"data"`
}

// NewFacebookSource creates a new Facebook source
func NewFacebookSource(accessToken string, idGen *ids.Generator, mock *search.MockGenerator) *FacebookSource {
	if idGen == nil {
		idGen = ids.NewGenerator(nil)
	}
	if mock == nil {
		mock = search.NewMockGenerator(nil)
	}
	return &FacebookSource{
		accessToken: accessToken,
		idGen:       idGen,
		mock:        mock,
		client: resty.New().
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", "BrandMonitor/1.0"),
	}
}

func (f *FacebookSource) Name() models.Platform {
	return models.PlatformFacebook
}

func (f *FacebookSource) Enabled() bool {
	return f.accessToken != ""
}

func (f *FacebookSource) Search(ctx context.Context, keyword string) []models.Mention {
	if !f.Enabled() {
		logrus.Debug("Facebook credentials not found, returning mock mentions")
		return f.mock.Generate(keyword, models.PlatformFacebook)
	}

	mentions, err := f.search(ctx, keyword)
	if err != nil {
		logrus.Errorf("Facebook search failed for %q: %v", keyword, err)
		return f.mock.Generate(keyword, models.PlatformFacebook)
	}

	return mentions
}

func (f *FacebookSource) search(ctx context.Context, keyword string) ([]models.Mention, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":            keyword,
			"type":         "post",
			"access_token": f.accessToken,
			"fields":       "id,message,created_time,from,shares,reactions.summary(true),comments.summary(true)",
		}).
		Get("https://graph.facebook.com/v18.0/search")

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("facebook API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var searchResp facebookSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse Facebook response: %w", err)
	}

	now := time.Now()
	var mentions []models.Mention

	for _, post := range searchResp.Data {
		author := post.From.Name
		if author == "" {
			author = "Unknown"
		}

		createdAt := now
		if ts, err := time.Parse("2006-01-02T15:04:05-0700", post.CreatedTime); err == nil {
			createdAt = ts
		}

		url := "https://facebook.com/" + post.ID

		mentions = append(mentions, models.Mention{
			ID:        f.idGen.FromURL(url),
			Content:   post.Message,
			Platform:  models.PlatformFacebook,
			Author:    author,
			Sentiment: sentiment.Classify(post.Message, sentiment.SourceLexicon),
			URL:       url,
			Engagement: &models.Engagement{
				Likes:    post.Reactions.Summary.TotalCount,
				Shares:   post.Shares.Count,
				Comments: post.Comments.Summary.TotalCount,
			},
			CreatedAt: createdAt,
			UpdatedAt: now,
		})
	}

	return mentions, nil
}
