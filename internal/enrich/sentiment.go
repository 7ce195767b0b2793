package enrich

import (
	"context"
	"strings"

	"CryptoAnalyst/internal/domain/models"
	domsvc "CryptoAnalyst/internal/domain/service"
)

var positiveTerms = []string{
	"gains", "surge", "bullish", "growth", "adoption", "upgrade",
	"improves", "positive", "welcomed", "breakout",
}

var negativeTerms = []string{
	"decline", "concerns", "uncertainty", "downside", "bearish",
	"risk", "sell-off", "drop", "regulation",
}

// LexiconSentiment scores articles by counting tone terms. Crude but
// deterministic; confidence scales with how much signal the article set
// actually carried.
type LexiconSentiment struct{}

func NewLexiconSentiment() *LexiconSentiment { return &LexiconSentiment{} }

func (l *LexiconSentiment) Analyze(ctx context.Context, ticker string, articles []models.NewsArticle) (models.SentimentScore, error) {
	if err := ctx.Err(); err != nil {
		return models.SentimentScore{}, err
	}
	if len(articles) == 0 {
		return models.SentimentScore{NeutralRatio: 1, Confidence: 0.2}, nil
	}

	var pos, neg, neu int
	for _, a := range articles {
		text := strings.ToLower(a.Title + " " + a.Content)
		p := countTerms(text, positiveTerms)
		n := countTerms(text, negativeTerms)
		switch {
		case p > n:
			pos++
		case n > p:
			neg++
		default:
			neu++
		}
	}

	total := float64(len(articles))
	score := models.SentimentScore{
		PositiveRatio: float64(pos) / total,
		NegativeRatio: float64(neg) / total,
		NeutralRatio:  float64(neu) / total,
	}
	// Overall in [-1, 1]; confidence drops when most articles are neutral.
	score.Overall = score.PositiveRatio - score.NegativeRatio
	score.Confidence = 0.5 + 0.5*(1-score.NeutralRatio)
	return score, nil
}

func countTerms(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		n += strings.Count(text, t)
	}
	return n
}

var _ domsvc.SentimentAnalyzer = (*LexiconSentiment)(nil)
