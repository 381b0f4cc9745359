package search

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGenerate(t *testing.T) {
	for _, platform := range models.AllPlatforms {
		t.Run(string(platform), func(t *testing.T) {
			m := NewMockGenerator(rand.New(rand.NewSource(1)))
			now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
			m.now = func() time.Time { return now }

			mentions := m.Generate("Acme", platform)
			require.Len(t, mentions, mockBatchSize)

			for _, mention := range mentions {
				assert.NotEmpty(t, mention.ID)
				assert.Equal(t, platform, mention.Platform)
				assert.NotEmpty(t, mention.Author)
				assert.NotEmpty(t, mention.URL)
				assert.Contains(t, mention.Content, "Acme")
				assert.Contains(t, sentimentOrder, mention.Sentiment)
				require.NotNil(t, mention.Engagement)

				// Backdated within the last week, never in the future.
				assert.False(t, mention.CreatedAt.After(now))
				assert.False(t, mention.CreatedAt.Before(now.Add(-7*24*time.Hour)))
				assert.Equal(t, now, mention.UpdatedAt)
			}
		})
	}
}

func TestMockGenerateContentMatchesSentimentTemplate(t *testing.T) {
	m := NewMockGenerator(rand.New(rand.NewSource(2)))

	for _, platform := range models.AllPlatforms {
		for _, mention := range m.Generate("Acme", platform) {
			expected := fmt.Sprintf(mockTemplates[platform][mention.Sentiment], "Acme")
			assert.Equal(t, expected, mention.Content)
		}
	}
}

func TestMockGenerateCyclesAuthors(t *testing.T) {
	m := NewMockGenerator(rand.New(rand.NewSource(3)))

	mentions := m.Generate("Acme", models.PlatformTwitter)
	authors := mockAuthors[models.PlatformTwitter]
	for i, mention := range mentions {
		assert.Equal(t, authors[i%len(authors)], mention.Author)
	}
}

func TestMockGenerateUnknownPlatform(t *testing.T) {
	m := NewMockGenerator(rand.New(rand.NewSource(4)))
	assert.Nil(t, m.Generate("Acme", models.Platform("myspace")))
}

func TestMockGenerateSeededIsReproducible(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	a := NewMockGenerator(rand.New(rand.NewSource(9)))
	a.now = func() time.Time { return now }
	b := NewMockGenerator(rand.New(rand.NewSource(9)))
	b.now = func() time.Time { return now }

	assert.Equal(t, a.Generate("Acme", models.PlatformReddit), b.Generate("Acme", models.PlatformReddit))
}
