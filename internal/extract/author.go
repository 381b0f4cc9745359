package extract

import (
	"regexp"
	"strings"

	"github.com/brandmonitor/brandmonitor/internal/models"
)

// authorRule is one pattern in a platform's ordered rule chain. Rules are
// tried against the title first; rules with snippet=true run against the
// snippet after every title rule has missed. First match wins.
type authorRule struct {
	pattern *regexp.Regexp
	snippet bool
	build   func(m []string) string
}

func group(i int) func([]string) string {
	return func(m []string) string { return strings.TrimSpace(m[i]) }
}

func prefixed(prefix string, i int) func([]string) string {
	return func(m []string) string { return prefix + strings.TrimSpace(m[i]) }
}

// Title conventions of the external search index, per platform. These encode
// observed formats like "Jane Doe on X" or "Post title : r/golang" and are
// expected to drift as the index changes; add rules, do not reorder them.
var authorRules = map[models.Platform][]authorRule{
	models.PlatformTwitter: {
		{pattern: regexp.MustCompile(`^(.+?)\s+on X`), build: group(1)},
		{pattern: regexp.MustCompile(`^(.+?)\s+on Twitter`), build: group(1)},
		{pattern: regexp.MustCompile(`@([A-Za-z0-9_]{2,15})`), snippet: true, build: prefixed("@", 1)},
	},
	models.PlatformReddit: {
		{pattern: regexp.MustCompile(`: r/([^:\s]+)`), build: prefixed("r/", 1)},
		{pattern: regexp.MustCompile(`^r/([^\s:]+)`), build: prefixed("r/", 1)},
		{pattern: regexp.MustCompile(`\bu/([A-Za-z0-9_-]+)`), snippet: true, build: prefixed("u/", 1)},
	},
	models.PlatformFacebook: {
		{pattern: regexp.MustCompile(`^(.+?)\s+-\s+Facebook`), build: group(1)},
		{pattern: regexp.MustCompile(`^(.+?)\s+\|\s+Facebook`), build: group(1)},
	},
	models.PlatformNews: {
		{pattern: regexp.MustCompile(`\s+-\s+([^-]+)$`), build: group(1)},
		{pattern: regexp.MustCompile(`\s+\|\s+([^|]+)$`), build: group(1)},
	},
}

// authorDefaults are the mandatory terminal placeholders; Author never
// returns an empty string.
var authorDefaults = map[models.Platform]string{
	models.PlatformTwitter:  "Unknown User",
	models.PlatformReddit:   "Unknown Subreddit",
	models.PlatformFacebook: "Facebook Page",
	models.PlatformNews:     "Unknown Source",
}

// Author derives a display name for a search hit from its title, falling back
// to the snippet where the platform defines snippet rules, then to the
// platform's placeholder.
func Author(title, snippet string, platform models.Platform) string {
	rules := authorRules[platform]

	for _, rule := range rules {
		if rule.snippet {
			continue
		}
		if m := rule.pattern.FindStringSubmatch(title); m != nil {
			if name := rule.build(m); name != "" {
				return name
			}
		}
	}

	for _, rule := range rules {
		if !rule.snippet {
			continue
		}
		if m := rule.pattern.FindStringSubmatch(snippet); m != nil {
			if name := rule.build(m); name != "" {
				return name
			}
		}
	}

	if def, ok := authorDefaults[platform]; ok {
		return def
	}
	return "Unknown Author"
}
