package sentiment

import (
	"strings"

	"github.com/brandmonitor/brandmonitor/internal/models"
)

// Lexicon is a pair of fixed word sets used for keyword-count classification.
//
// Two lexicons are maintained on purpose: the direct platform searchers were
// tuned with a short list while the generic search path grew a larger one.
// Product has not decided whether to merge them, so both are preserved as-is.
type Lexicon struct {
	Positive map[string]struct{}
	Negative map[string]struct{}
}

func newLexicon(positive, negative []string) Lexicon {
	lex := Lexicon{
		Positive: make(map[string]struct{}, len(positive)),
		Negative: make(map[string]struct{}, len(negative)),
	}
	for _, w := range positive {
		lex.Positive[w] = struct{}{}
	}
	for _, w := range negative {
		lex.Negative[w] = struct{}{}
	}
	return lex
}

// DefaultLexicon is the larger word list used by the generic search pipeline.
var DefaultLexicon = newLexicon(
	[]string{
		"great", "excellent", "amazing", "wonderful", "fantastic", "perfect",
		"love", "like", "good", "best", "awesome", "brilliant", "outstanding",
		"positive", "happy", "pleased", "satisfied", "impressive", "innovative",
		"success", "win", "winning", "winner", "achievement", "breakthrough",
	},
	[]string{
		"bad", "terrible", "awful", "horrible", "worst", "poor", "disappointing",
		"hate", "dislike", "negative", "unhappy", "angry", "frustrated", "upset",
		"fail", "failure", "failing", "problem", "issue", "bug", "crash", "error",
		"broken", "wrong", "incorrect", "inferior", "subpar", "mediocre",
	},
)

// SourceLexicon is the shorter word list used by the direct platform searchers.
var SourceLexicon = newLexicon(
	[]string{"good", "great", "excellent", "amazing", "love", "best", "awesome", "perfect", "happy", "wonderful"},
	[]string{"bad", "terrible", "awful", "horrible", "worst", "hate", "disappointed", "poor", "sad", "angry"},
)

// Classify scores text against a lexicon. It case-folds, splits on whitespace
// and counts token hits in each set; the larger count wins and ties (including
// empty input) are neutral. No stemming, no negation handling: the heuristic
// is deliberately coarse and stored sentiments depend on it staying that way.
func Classify(text string, lex Lexicon) models.Sentiment {
	positiveCount := 0
	negativeCount := 0

	// Bare whitespace tokens, no punctuation stripping: "best!" does not
	// count as "best". Matches the behavior stored sentiments were derived
	// with.
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, ok := lex.Positive[word]; ok {
			positiveCount++
		}
		if _, ok := lex.Negative[word]; ok {
			negativeCount++
		}
	}

	if positiveCount > negativeCount {
		return models.SentimentPositive
	}
	if negativeCount > positiveCount {
		return models.SentimentNegative
	}
	return models.SentimentNeutral
}
