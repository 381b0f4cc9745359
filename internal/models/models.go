package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Platform identifies a content source we can track mentions on.
type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformReddit   Platform = "reddit"
	PlatformFacebook Platform = "facebook"
	PlatformNews     Platform = "news"
)

// AllPlatforms is the default search fan-out when no platform is requested.
var AllPlatforms = []Platform{PlatformTwitter, PlatformReddit, PlatformFacebook, PlatformNews}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformReddit, PlatformFacebook, PlatformNews:
		return true
	}
	return false
}

// Sentiment is the coarse three-way classification derived at ingestion time.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Engagement holds the sparse per-platform interaction counters that could be
// parsed for a mention. Which fields are set depends on the platform; zero
// values are omitted on the wire.
type Engagement struct {
	Likes    int `json:"likes,omitempty"`
	Retweets int `json:"retweets,omitempty"`
	Replies  int `json:"replies,omitempty"`
	Shares   int `json:"shares,omitempty"`
	Comments int `json:"comments,omitempty"`
}

// Value implements driver.Valuer so Engagement persists as JSONB.
func (e *Engagement) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner for the JSONB engagement column.
func (e *Engagement) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("engagement: cannot scan %T", src)
	}
	return json.Unmarshal(b, e)
}

// Mention is one observed occurrence of a tracked term on a platform. Mentions
// are owned by exactly one user; the (ID, UserID) pair is the upsert key, so
// re-ingesting the same source URL overwrites rather than duplicates.
type Mention struct {
	ID         string      `json:"id" db:"id"`
	UserID     string      `json:"userId" db:"user_id"`
	Content    string      `json:"content" db:"content"`
	Platform   Platform    `json:"platform" db:"platform"`
	Author     string      `json:"author" db:"author"`
	Sentiment  Sentiment   `json:"sentiment" db:"sentiment"`
	URL        string      `json:"url,omitempty" db:"url"`
	Engagement *Engagement `json:"engagement,omitempty" db:"engagement"`
	CreatedAt  time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time   `json:"updatedAt" db:"updated_at"`
}

// User is an account that owns mentions, competitors, reports and monitoring items.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Competitor is a tracked rival brand with its own keyword list and rolled-up
// mention/sentiment summaries.
type Competitor struct {
	ID          string          `json:"id" db:"id"`
	UserID      string          `json:"userId" db:"user_id"`
	Name        string          `json:"name" db:"name"`
	Website     string          `json:"website,omitempty" db:"website"`
	Keywords    pq.StringArray  `json:"keywords" db:"keywords"`
	Mentions    json.RawMessage `json:"mentions,omitempty" db:"mentions"`
	Sentiment   json.RawMessage `json:"sentiment,omitempty" db:"sentiment"`
	MarketShare float64         `json:"marketShare" db:"market_share"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// Report is a persisted dashboard export (data is an opaque JSON blob).
type Report struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"userId" db:"user_id"`
	Title     string          `json:"title" db:"title"`
	Type      string          `json:"type" db:"type"`
	Data      json.RawMessage `json:"data" db:"data"`
	Period    string          `json:"period" db:"period"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// MonitoringItems holds the per-user lists driving scheduled monitoring runs.
type MonitoringItems struct {
	UserID     string         `json:"userId" db:"user_id"`
	Domains    pq.StringArray `json:"domains" db:"domains"`
	BrandNames pq.StringArray `json:"brandNames" db:"brand_names"`
	Keywords   pq.StringArray `json:"keywords" db:"keywords"`
	UpdatedAt  time.Time      `json:"updatedAt" db:"updated_at"`
}

// Digest summarizes one scheduled monitoring run for a user.
type Digest struct {
	GeneratedAt   time.Time         `json:"generated_at"`
	Period        string            `json:"period"`
	UserEmail     string            `json:"user_email"`
	Keywords      []string          `json:"keywords"`
	TotalMentions int               `json:"total_mentions"`
	ByPlatform    map[Platform]int  `json:"by_platform"`
	BySentiment   map[Sentiment]int `json:"by_sentiment"`
	Mentions      []Mention         `json:"mentions"`
}
