package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"CryptoAnalyst/internal/catalog"
	"CryptoAnalyst/internal/domain/models"
	domrepo "CryptoAnalyst/internal/domain/repository"
	domsvc "CryptoAnalyst/internal/domain/service"
	"CryptoAnalyst/internal/pipeline"
	"CryptoAnalyst/internal/resolver"
	"CryptoAnalyst/pkg/logger"
)

// Stage names, in execution order.
const (
	StageAssetExtraction   = "asset_extraction"
	StageAssetValidation   = "asset_validation"
	StageHumanInTheLoop    = "human_in_the_loop"
	StagePriceRetrieval    = "price_retrieval"
	StageTechnicalAnalysis = "technical_analysis"
	StageNewsRetrieval     = "news_retrieval"
	StageSentimentAnalysis = "sentiment_analysis"
	StageReporter          = "comprehensive_reporter"
)

// Analyzer wires the resolver, validation, gate and enrichment collaborators
// into the fixed analysis pipeline and runs it per request.
type Analyzer struct {
	catalog   *catalog.Catalog
	resolver  *resolver.Resolver
	executor  *pipeline.Executor
	publisher domrepo.AuditPublisher
	metrics   domrepo.Metrics
	logger    *logger.Logger
}

func NewAnalyzer(
	cat *catalog.Catalog,
	rsv *resolver.Resolver,
	prices domsvc.PriceSource,
	technical domsvc.TechnicalAnalyzer,
	news domsvc.NewsSource,
	sentiment domsvc.SentimentAnalyzer,
	reporter domsvc.ReportWriter,
	publisher domrepo.AuditPublisher,
	metrics domrepo.Metrics,
	lgr *logger.Logger,
) *Analyzer {
	a := &Analyzer{
		catalog:   cat,
		resolver:  rsv,
		publisher: publisher,
		metrics:   metrics,
		logger:    lgr,
	}
	a.executor = pipeline.NewExecutor(metrics, lgr,
		pipeline.NewStage(StageAssetExtraction, a.extractStage),
		pipeline.NewStage(StageAssetValidation, a.validateStage),
		pipeline.NewStage(StageHumanInTheLoop, a.hitlStage),
		pipeline.NewStage(StagePriceRetrieval, priceStage(prices)),
		pipeline.NewStage(StageTechnicalAnalysis, technicalStage(technical)),
		pipeline.NewStage(StageNewsRetrieval, newsStage(news)),
		pipeline.NewStage(StageSentimentAnalysis, sentimentStage(sentiment)),
		pipeline.NewStage(StageReporter, reportStage(reporter)),
	)
	return a
}

// Analyze runs the full pipeline for one request. A stage failure is returned
// with the partially populated state; resolution-related issues never fail
// the run.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*models.PipelineState, error) {
	return a.analyze(ctx, text, nil)
}

// AnalyzeWithObserver additionally invokes observe after every stage, in
// stage order. Used by the streaming endpoint.
func (a *Analyzer) AnalyzeWithObserver(ctx context.Context, text string, observe func(models.StageMessage)) (*models.PipelineState, error) {
	return a.analyze(ctx, text, observe)
}

func (a *Analyzer) analyze(ctx context.Context, text string, observe func(models.StageMessage)) (*models.PipelineState, error) {
	start := time.Now()
	st := models.NewPipelineState(text)

	err := a.executor.RunWithObserver(ctx, st, observe)
	if err == nil {
		a.publishAudit(ctx, st, time.Since(start))
	}
	return st, err
}

// Resolve runs resolution, validation and the gate without enrichment.
func (a *Analyzer) Resolve(ctx context.Context, text string) models.ResolveResponse {
	res := a.resolver.Resolve(ctx, text)
	warnings := ValidateAssets(res, a.catalog)
	decision := DecideHitl(res, a.catalog)
	a.recordSignals(warnings, decision)
	return models.ResolveResponse{Resolution: res, Warnings: warnings, Hitl: decision}
}

// StageNames returns the pipeline's stage names in order.
func (a *Analyzer) StageNames() []string { return a.executor.StageNames() }

func (a *Analyzer) extractStage(ctx context.Context, st *models.PipelineState) (string, error) {
	st.Resolution = a.resolver.Resolve(ctx, st.RequestText)
	return fmt.Sprintf("Extracted %d assets: %v (mode=%s)",
		len(st.Resolution.Assets), st.Resolution.Tickers(), st.Resolution.Mode), nil
}

func (a *Analyzer) validateStage(_ context.Context, st *models.PipelineState) (string, error) {
	st.Warnings = ValidateAssets(st.Resolution, a.catalog)
	for _, w := range st.Warnings {
		a.metrics.RecordWarning(string(w.Kind))
	}
	return fmt.Sprintf("Asset validation complete. Warnings: %d", len(st.Warnings)), nil
}

func (a *Analyzer) hitlStage(_ context.Context, st *models.PipelineState) (string, error) {
	st.Hitl = DecideHitl(st.Resolution, a.catalog)
	a.metrics.RecordHitl(string(st.Hitl.Reason))
	if !st.Hitl.RequiresReview {
		return "No human intervention required, proceeding with analysis", nil
	}
	return st.Hitl.Advisory, nil
}

func priceStage(src domsvc.PriceSource) func(context.Context, *models.PipelineState) (string, error) {
	return func(ctx context.Context, st *models.PipelineState) (string, error) {
		for _, ra := range st.Resolution.Assets {
			points, err := src.Fetch(ctx, ra.Ticker)
			if err != nil {
				return "", fmt.Errorf("fetch prices for %s: %w", ra.Ticker, err)
			}
			st.PriceHistory[ra.Ticker] = points
		}
		return fmt.Sprintf("Retrieved price data for %d assets", len(st.Resolution.Assets)), nil
	}
}

func technicalStage(ta domsvc.TechnicalAnalyzer) func(context.Context, *models.PipelineState) (string, error) {
	return func(ctx context.Context, st *models.PipelineState) (string, error) {
		for _, ra := range st.Resolution.Assets {
			ind, err := ta.Compute(ctx, ra.Ticker, st.PriceHistory[ra.Ticker])
			if err != nil {
				return "", fmt.Errorf("compute indicators for %s: %w", ra.Ticker, err)
			}
			st.Technical[ra.Ticker] = ind
		}
		return fmt.Sprintf("Calculated technical indicators for %d assets", len(st.Resolution.Assets)), nil
	}
}

func newsStage(src domsvc.NewsSource) func(context.Context, *models.PipelineState) (string, error) {
	return func(ctx context.Context, st *models.PipelineState) (string, error) {
		for _, ra := range st.Resolution.Assets {
			articles, err := src.Fetch(ctx, ra.Ticker)
			if err != nil {
				return "", fmt.Errorf("fetch news for %s: %w", ra.Ticker, err)
			}
			st.News[ra.Ticker] = articles
		}
		return fmt.Sprintf("Retrieved news for %d assets", len(st.Resolution.Assets)), nil
	}
}

func sentimentStage(sa domsvc.SentimentAnalyzer) func(context.Context, *models.PipelineState) (string, error) {
	return func(ctx context.Context, st *models.PipelineState) (string, error) {
		for _, ra := range st.Resolution.Assets {
			score, err := sa.Analyze(ctx, ra.Ticker, st.News[ra.Ticker])
			if err != nil {
				return "", fmt.Errorf("analyze sentiment for %s: %w", ra.Ticker, err)
			}
			st.Sentiment[ra.Ticker] = score
		}
		return fmt.Sprintf("Analyzed sentiment for %d assets", len(st.Resolution.Assets)), nil
	}
}

func reportStage(rw domsvc.ReportWriter) func(context.Context, *models.PipelineState) (string, error) {
	return func(ctx context.Context, st *models.PipelineState) (string, error) {
		risk, report, err := rw.Write(ctx, st)
		if err != nil {
			return "", fmt.Errorf("write report: %w", err)
		}
		st.Risk = &risk
		st.Report = report
		return fmt.Sprintf("Report generated covering %d assets", len(st.Resolution.Assets)), nil
	}
}

func (a *Analyzer) recordSignals(warnings []models.Warning, decision models.HitlDecision) {
	for _, w := range warnings {
		a.metrics.RecordWarning(string(w.Kind))
	}
	a.metrics.RecordHitl(string(decision.Reason))
}

// publishAudit emits one best-effort audit event per completed analysis.
// Publish failures are logged and never fail the request.
func (a *Analyzer) publishAudit(ctx context.Context, st *models.PipelineState, took time.Duration) {
	if a.publisher == nil {
		return
	}
	ev := models.AuditEvent{
		RequestHash: hashText(st.RequestText),
		Mode:        st.Resolution.Mode,
		Tickers:     st.Resolution.Tickers(),
		HitlReason:  st.Hitl.Reason,
		Warnings:    len(st.Warnings),
		DurationMS:  took.Milliseconds(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := a.publisher.Publish(pubCtx, ev); err != nil {
		a.logger.Warn("audit publish failed", logger.Error(err))
		a.metrics.RecordError("audit_publish")
	}
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
