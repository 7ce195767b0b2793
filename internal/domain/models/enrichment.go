package models

import "time"

// PricePoint is one record of a price history series.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
}

// Indicators maps indicator name to value (rsi, macd, bollinger_upper,
// bollinger_lower, sma_20, ema_12).
type Indicators map[string]float64

// NewsArticle is one retrieved news record.
type NewsArticle struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// SentimentScore summarizes sentiment over a ticker's news set.
type SentimentScore struct {
	Overall       float64 `json:"overall"`
	PositiveRatio float64 `json:"positive_ratio"`
	NegativeRatio float64 `json:"negative_ratio"`
	NeutralRatio  float64 `json:"neutral_ratio"`
	Confidence    float64 `json:"confidence"`
}

// RiskProfile is the reporter's risk assessment over the accumulated data.
type RiskProfile struct {
	VolatilityScore float64 `json:"volatility_score"`
	RiskLevel       string  `json:"risk_level"` // "low", "moderate", "high"
	Recommendation  string  `json:"recommendation"`
	StopLoss        float64 `json:"stop_loss"`
	TakeProfit      float64 `json:"take_profit"`
	Confidence      float64 `json:"confidence"`
}
