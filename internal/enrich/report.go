package enrich

import (
	"context"
	"fmt"
	"math"
	"strings"

	"CryptoAnalyst/internal/domain/models"
	domsvc "CryptoAnalyst/internal/domain/service"
)

// Reporter synthesizes the risk profile and the final markdown report from
// the accumulated pipeline state. It only reads state.
type Reporter struct{}

func NewReporter() *Reporter { return &Reporter{} }

func (r *Reporter) Write(ctx context.Context, st *models.PipelineState) (models.RiskProfile, string, error) {
	if err := ctx.Err(); err != nil {
		return models.RiskProfile{}, "", err
	}
	if len(st.Resolution.Assets) == 0 {
		return models.RiskProfile{}, "", fmt.Errorf("no resolved assets to report on")
	}

	risk := r.riskProfile(st)
	report := r.render(st, risk)
	return risk, report, nil
}

// riskProfile aggregates volatility across assets and derives level,
// recommendation and price bands from the primary (first resolved) asset.
func (r *Reporter) riskProfile(st *models.PipelineState) models.RiskProfile {
	var volSum float64
	var volN int
	for _, ra := range st.Resolution.Assets {
		if v, ok := annualizedVolatility(st.PriceHistory[ra.Ticker]); ok {
			volSum += v
			volN++
		}
	}
	vol := 0.5
	if volN > 0 {
		// Map annualized volatility onto [0, 1]; 150%+ saturates as maximal.
		vol = math.Min(volSum/float64(volN)/1.5, 1)
	}

	level := "moderate"
	switch {
	case vol < 0.3:
		level = "low"
	case vol > 0.7:
		level = "high"
	}

	primary := st.Resolution.Assets[0].Ticker
	lastPrice := 0.0
	if hist := st.PriceHistory[primary]; len(hist) > 0 {
		lastPrice = hist[len(hist)-1].Price
	}

	rec := recommendation(st, primary)
	conf := 0.8
	if avg := averageSentimentConfidence(st); avg > 0 {
		conf = 0.5 + 0.4*avg
	}

	return models.RiskProfile{
		VolatilityScore: round4(vol),
		RiskLevel:       level,
		Recommendation:  rec,
		StopLoss:        round8(lastPrice * (1 - 0.05 - 0.05*vol)),
		TakeProfit:      round8(lastPrice * (1 + 0.08 + 0.07*vol)),
		Confidence:      round4(conf),
	}
}

// recommendation combines the primary asset's RSI with its sentiment.
func recommendation(st *models.PipelineState, ticker string) string {
	rsiVal := 50.0
	if ind, ok := st.Technical[ticker]; ok {
		if v, ok := ind["rsi"]; ok {
			rsiVal = v
		}
	}
	sent := st.Sentiment[ticker].Overall
	switch {
	case rsiVal < 30 && sent >= 0:
		return "buy"
	case rsiVal > 70 && sent <= 0:
		return "sell"
	case sent > 0.4 && rsiVal < 60:
		return "buy"
	case sent < -0.4 && rsiVal > 40:
		return "sell"
	default:
		return "hold"
	}
}

func (r *Reporter) render(st *models.PipelineState, risk models.RiskProfile) string {
	var b strings.Builder

	title := strings.Join(st.Resolution.Tickers(), ", ")
	fmt.Fprintf(&b, "# %s Comprehensive Analysis Report\n\n", title)

	if st.Resolution.Mode == models.ModeSector && st.Resolution.Sector != "" {
		fmt.Fprintf(&b, "Sector analysis: %s\n\n", st.Resolution.Sector)
	}

	if len(st.Warnings) > 0 {
		b.WriteString("## Validation Warnings\n")
		for _, w := range st.Warnings {
			fmt.Fprintf(&b, "- %s\n", w.Message)
		}
		b.WriteString("\n")
	}
	if st.Hitl.RequiresReview {
		fmt.Fprintf(&b, "## Review Advisory\n%s\n\n", st.Hitl.Advisory)
	}

	for _, ra := range st.Resolution.Assets {
		fmt.Fprintf(&b, "## %s (%s)\n", ra.Name, ra.Ticker)
		fmt.Fprintf(&b, "Resolved via %s with confidence %.2f.\n\n", ra.Origin, ra.Confidence)

		if ind, ok := st.Technical[ra.Ticker]; ok {
			b.WriteString("### Technical Analysis\n")
			fmt.Fprintf(&b, "- RSI: %.2f\n", ind["rsi"])
			fmt.Fprintf(&b, "- MACD: %.4f\n", ind["macd"])
			fmt.Fprintf(&b, "- Bollinger Bands: %.4f - %.4f\n", ind["bollinger_lower"], ind["bollinger_upper"])
			fmt.Fprintf(&b, "- SMA(20): %.4f\n", ind["sma_20"])
			fmt.Fprintf(&b, "- EMA(12): %.4f\n\n", ind["ema_12"])
		}

		if score, ok := st.Sentiment[ra.Ticker]; ok {
			b.WriteString("### Sentiment Analysis\n")
			fmt.Fprintf(&b, "- Overall Sentiment: %.2f\n", score.Overall)
			fmt.Fprintf(&b, "- Confidence: %.2f\n", score.Confidence)
			fmt.Fprintf(&b, "- Articles reviewed: %d\n\n", len(st.News[ra.Ticker]))
		}
	}

	b.WriteString("## Risk Assessment\n")
	fmt.Fprintf(&b, "- Risk Level: %s\n", risk.RiskLevel)
	fmt.Fprintf(&b, "- Volatility Score: %.2f\n", risk.VolatilityScore)
	fmt.Fprintf(&b, "- Recommendation: %s\n", risk.Recommendation)
	fmt.Fprintf(&b, "- Stop Loss: $%.4f\n", risk.StopLoss)
	fmt.Fprintf(&b, "- Take Profit: $%.4f\n\n", risk.TakeProfit)

	fmt.Fprintf(&b, "## Final Recommendation\nBased on technical indicators, sentiment analysis, and market conditions, the recommendation is to %s %s.\n",
		risk.Recommendation, title)

	return strings.TrimSpace(b.String())
}

// annualizedVolatility is the stddev of daily log returns scaled by sqrt(365).
func annualizedVolatility(history []models.PricePoint) (float64, bool) {
	if len(history) < 2 {
		return 0, false
	}
	returns := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		if history[i-1].Price <= 0 || history[i].Price <= 0 {
			continue
		}
		returns = append(returns, math.Log(history[i].Price/history[i-1].Price))
	}
	if len(returns) < 2 {
		return 0, false
	}
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)
	return math.Sqrt(variance) * math.Sqrt(365), true
}

func averageSentimentConfidence(st *models.PipelineState) float64 {
	if len(st.Sentiment) == 0 {
		return 0
	}
	var sum float64
	for _, s := range st.Sentiment {
		sum += s.Confidence
	}
	return sum / float64(len(st.Sentiment))
}

var _ domsvc.ReportWriter = (*Reporter)(nil)
