package sentiment

import (
	"strings"

	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// Fixed keyword sets. The scorer is a deliberately naive bag-of-words
// heuristic: raw substring occurrence counts, no stemming, no negation
// handling. Consumers depend on this exact arithmetic, so keep it as-is.
var (
	positiveWords = []string{"bullish", "growth", "strong", "rise", "up", "gain", "boost", "recovery"}
	negativeWords = []string{"bearish", "fall", "down", "decline", "drop", "weak", "concern", "crisis"}
)

// Scorer computes a scalar news sentiment in [-1, 1].
type Scorer struct{}

// NewScorer returns a keyword sentiment scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score lowercases each item's title+content, counts positive minus negative
// keyword occurrences, averages the per-item net counts over the item count
// and clamps to [-1, 1]. An empty input scores 0.
func (s *Scorer) Score(items []types.NewsItem) float64 {
	if len(items) == 0 {
		return 0
	}

	total := 0
	for _, item := range items {
		content := strings.ToLower(item.Title + " " + item.Content)
		net := 0
		for _, w := range positiveWords {
			net += strings.Count(content, w)
		}
		for _, w := range negativeWords {
			net -= strings.Count(content, w)
		}
		total += net
	}

	score := float64(total) / float64(len(items))
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
