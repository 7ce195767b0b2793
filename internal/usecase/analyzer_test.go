package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"

	"CryptoAnalyst/internal/catalog"
	"CryptoAnalyst/internal/domain/models"
	"CryptoAnalyst/internal/enrich"
	"CryptoAnalyst/internal/resolver"
	"CryptoAnalyst/pkg/logger"
)

type stubMetrics struct {
	mu          sync.Mutex
	resolutions map[string]int
	hitl        map[string]int
	warnings    map[string]int
	stages      []string
	errs        map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{
		resolutions: map[string]int{},
		hitl:        map[string]int{},
		warnings:    map[string]int{},
		errs:        map[string]int{},
	}
}

func (m *stubMetrics) RecordResolution(origin string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions[origin]++
}

func (m *stubMetrics) RecordHitl(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hitl[reason]++
}

func (m *stubMetrics) RecordWarning(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings[kind]++
}

func (m *stubMetrics) RecordStageDuration(stage string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages = append(m.stages, stage)
}

func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[kind]++
}

type stubPublisher struct {
	mu     sync.Mutex
	events []models.AuditEvent
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, ev models.AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

type failingPrices struct{}

func (failingPrices) Fetch(context.Context, string) ([]models.PricePoint, error) {
	return nil, errors.New("price source down")
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return lgr
}

func newTestAnalyzer(t *testing.T, metrics *stubMetrics, pub *stubPublisher) *Analyzer {
	t.Helper()
	cat := catalog.New()
	lgr := testLogger(t)
	rsv := resolver.New(cat, metrics, lgr)
	return NewAnalyzer(cat, rsv,
		enrich.NewSimulatedPriceSource(nil),
		enrich.NewIndicatorEngine(),
		enrich.NewSimulatedNewsSource(nil),
		enrich.NewLexiconSentiment(),
		enrich.NewReporter(),
		pub, metrics, lgr)
}

func TestAnalyzeFullPipeline(t *testing.T) {
	metrics := newStubMetrics()
	pub := &stubPublisher{}
	a := newTestAnalyzer(t, metrics, pub)

	st, err := a.Analyze(context.Background(), "Should I buy bitcoin?")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got := st.Resolution.Tickers(); len(got) != 1 || got[0] != "BTC" {
		t.Fatalf("resolved %v, want [BTC]", got)
	}

	wantStages := []string{
		StageAssetExtraction, StageAssetValidation, StageHumanInTheLoop,
		StagePriceRetrieval, StageTechnicalAnalysis, StageNewsRetrieval,
		StageSentimentAnalysis, StageReporter,
	}
	if len(st.Log) != len(wantStages) {
		t.Fatalf("log has %d entries, want %d", len(st.Log), len(wantStages))
	}
	for i, name := range wantStages {
		if st.Log[i].Stage != name {
			t.Fatalf("log[%d].Stage = %s, want %s", i, st.Log[i].Stage, name)
		}
	}

	if len(st.PriceHistory["BTC"]) == 0 {
		t.Fatal("price history not populated")
	}
	if _, ok := st.Technical["BTC"]; !ok {
		t.Fatal("technical indicators not populated")
	}
	if len(st.News["BTC"]) == 0 {
		t.Fatal("news not populated")
	}
	if _, ok := st.Sentiment["BTC"]; !ok {
		t.Fatal("sentiment not populated")
	}
	if st.Risk == nil || st.Report == "" {
		t.Fatal("report stage did not populate risk profile and report")
	}
}

func TestAnalyzePublishesAuditEvent(t *testing.T) {
	metrics := newStubMetrics()
	pub := &stubPublisher{}
	a := newTestAnalyzer(t, metrics, pub)

	if _, err := a.Analyze(context.Background(), "analyze ETH"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	wantHash := sha256.Sum256([]byte("analyze ETH"))
	if ev.RequestHash != hex.EncodeToString(wantHash[:]) {
		t.Fatalf("event hash = %q", ev.RequestHash)
	}
	if len(ev.Tickers) != 1 || ev.Tickers[0] != "ETH" {
		t.Fatalf("event tickers = %v", ev.Tickers)
	}
}

func TestAnalyzePublishFailureDoesNotFailRequest(t *testing.T) {
	metrics := newStubMetrics()
	pub := &stubPublisher{err: errors.New("broker down")}
	a := newTestAnalyzer(t, metrics, pub)

	if _, err := a.Analyze(context.Background(), "analyze BTC"); err != nil {
		t.Fatalf("Analyze should not fail on publish error: %v", err)
	}
	if metrics.errs["audit_publish"] != 1 {
		t.Fatal("expected audit_publish error to be recorded")
	}
}

func TestAnalyzeStageFailureLeavesPartialState(t *testing.T) {
	metrics := newStubMetrics()
	cat := catalog.New()
	lgr := testLogger(t)
	rsv := resolver.New(cat, metrics, lgr)
	a := NewAnalyzer(cat, rsv,
		failingPrices{},
		enrich.NewIndicatorEngine(),
		enrich.NewSimulatedNewsSource(nil),
		enrich.NewLexiconSentiment(),
		enrich.NewReporter(),
		&stubPublisher{}, metrics, lgr)

	st, err := a.Analyze(context.Background(), "analyze BTC")
	if err == nil {
		t.Fatal("expected error from failing price stage")
	}
	if !strings.Contains(err.Error(), StagePriceRetrieval) {
		t.Fatalf("error should name the stage: %v", err)
	}
	// Stages before the failure completed and logged.
	if len(st.Log) != 3 {
		t.Fatalf("log has %d entries, want 3", len(st.Log))
	}
	if len(st.Resolution.Assets) == 0 {
		t.Fatal("resolution from completed stage must survive")
	}
	if st.Report != "" {
		t.Fatal("report must not be set after mid-pipeline failure")
	}
}

func TestAnalyzeWithObserverSeesEveryStage(t *testing.T) {
	metrics := newStubMetrics()
	a := newTestAnalyzer(t, metrics, &stubPublisher{})

	var seen []string
	_, err := a.AnalyzeWithObserver(context.Background(), "analyze SOL", func(msg models.StageMessage) {
		seen = append(seen, msg.Stage)
	})
	if err != nil {
		t.Fatalf("AnalyzeWithObserver: %v", err)
	}
	if len(seen) != len(a.StageNames()) {
		t.Fatalf("observer saw %d stages, want %d", len(seen), len(a.StageNames()))
	}
	for i, name := range a.StageNames() {
		if seen[i] != name {
			t.Fatalf("observer order: seen[%d] = %s, want %s", i, seen[i], name)
		}
	}
}

func TestResolveOnly(t *testing.T) {
	metrics := newStubMetrics()
	a := newTestAnalyzer(t, metrics, &stubPublisher{})

	out := a.Resolve(context.Background(), "is dogecoin a good investment")
	if got := out.Resolution.Tickers(); len(got) != 1 || got[0] != "DOGE" {
		t.Fatalf("resolved %v, want [DOGE]", got)
	}
	if len(out.Warnings) == 0 {
		t.Fatal("expected meme warning for DOGE")
	}
	if metrics.warnings[string(models.WarningMemeRisk)] == 0 {
		t.Fatal("expected warning metric recorded")
	}
}

func TestAnalyzeMemeWarningMetrics(t *testing.T) {
	metrics := newStubMetrics()
	a := newTestAnalyzer(t, metrics, &stubPublisher{})

	if _, err := a.Analyze(context.Background(), "what about shiba inu"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if metrics.warnings[string(models.WarningMemeRisk)] == 0 {
		t.Fatal("expected meme-risk warning metric")
	}
	// SHIB's base confidence 0.84 sits under the 0.85 threshold, so the gate
	// flags the run rather than waving it through.
	if metrics.hitl[string(models.HitlConfidenceLow)] == 0 {
		t.Fatal("expected confidence_low hitl metric")
	}
}
