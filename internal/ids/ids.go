package ids

import (
	"fmt"
	"math/rand"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator derives deterministic mention identifiers from source URLs.
// Mentions are upserted by (id, owner), so the same canonical URL must always
// map to the same ID; randomness only enters when no stable pattern applies.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates an ID generator. A nil rng gets a time-seeded one.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

var (
	twitterStatusPattern = regexp.MustCompile(`/status(?:es)?/(\d+)`)
	redditThreadPattern  = regexp.MustCompile(`/comments/([a-z0-9]+)`)
	facebookIDPattern    = regexp.MustCompile(`/(?:posts|photos|videos|permalink)/.*?(\d{6,})|[?&](?:fbid|story_fbid)=(\d+)|/(\d{8,})`)
)

// FromURL maps a source URL to a stable identifier. Recognized platform URLs
// yield the same ID on every call; unrecognized ones get a news-style ID with
// a random suffix, and an empty URL gets a purely random token.
func (g *Generator) FromURL(rawURL string) string {
	if rawURL == "" {
		return g.randomToken()
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return g.randomToken()
	}

	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))

	switch {
	case host == "x.com" || host == "twitter.com" || strings.HasSuffix(host, ".twitter.com"):
		if m := twitterStatusPattern.FindStringSubmatch(u.Path); m != nil {
			return "twitter-" + m[1]
		}
	case host == "reddit.com" || strings.HasSuffix(host, ".reddit.com"):
		if m := redditThreadPattern.FindStringSubmatch(strings.ToLower(u.Path)); m != nil {
			return "reddit-" + m[1]
		}
	case host == "facebook.com" || strings.HasSuffix(host, ".facebook.com"):
		if m := facebookIDPattern.FindStringSubmatch(u.Path + "?" + u.RawQuery); m != nil {
			for _, sub := range m[1:] {
				if sub != "" {
					return "facebook-" + sub
				}
			}
		}
	}

	return g.newsID(u)
}

// newsID builds an identifier from the first three path segments, suffixed
// with a short random token since article paths are not guaranteed unique.
func (g *Generator) newsID(u *url.URL) string {
	var segments []string
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if seg == "" {
			continue
		}
		segments = append(segments, seg)
		if len(segments) == 3 {
			break
		}
	}

	if len(segments) == 0 {
		segments = []string{strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))}
	}

	return fmt.Sprintf("news-%s-%s", strings.Join(segments, "-"), g.shortSuffix())
}

func (g *Generator) shortSuffix() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = alphabet[g.rng.Intn(len(alphabet))]
	}
	return string(b)
}

func (g *Generator) randomToken() string {
	return "mention-" + uuid.NewString()
}
