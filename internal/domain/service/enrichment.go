package service

import (
	"context"

	"CryptoAnalyst/internal/domain/models"
)

// PriceSource retrieves an ordered price history for a ticker.
type PriceSource interface {
	Fetch(ctx context.Context, ticker string) ([]models.PricePoint, error)
}

// TechnicalAnalyzer computes named indicators over a price history.
type TechnicalAnalyzer interface {
	Compute(ctx context.Context, ticker string, history []models.PricePoint) (models.Indicators, error)
}

// NewsSource retrieves ordered news records for a ticker.
type NewsSource interface {
	Fetch(ctx context.Context, ticker string) ([]models.NewsArticle, error)
}

// SentimentAnalyzer scores sentiment over a ticker's news set.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, ticker string, articles []models.NewsArticle) (models.SentimentScore, error)
}

// ReportWriter synthesizes the final report and risk profile from the
// accumulated state. It reads every enrichment field but mutates none.
type ReportWriter interface {
	Write(ctx context.Context, state *models.PipelineState) (models.RiskProfile, string, error)
}

// Extractor is the optional language-model extraction service. Implementations
// must return a shape the resolver can validate against the catalog; any
// failure is recovered by the resolver's fallback-default path, never surfaced.
type Extractor interface {
	Extract(ctx context.Context, text string, snapshot models.CatalogSnapshot) (ExtractionResult, error)
}

// ExtractionResult is the extractor wire contract.
type ExtractionResult struct {
	Assets       []models.ResolvedAsset `json:"assets"`
	Mode         string                 `json:"mode"`
	Notes        string                 `json:"notes"`
	HitlRequired bool                   `json:"hitl_required"`
	HitlReason   string                 `json:"hitl_reason"`
}
