package resolver

import (
	"context"
	"errors"
	"testing"

	"CryptoAnalyst/internal/catalog"
	"CryptoAnalyst/internal/domain/models"
	domsvc "CryptoAnalyst/internal/domain/service"
	"CryptoAnalyst/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordResolution(string)             {}
func (nopMetrics) RecordHitl(string)                   {}
func (nopMetrics) RecordWarning(string)                {}
func (nopMetrics) RecordStageDuration(string, float64) {}
func (nopMetrics) RecordError(string)                  {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return lgr
}

func newResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	return New(catalog.New(), nopMetrics{}, testLogger(t), opts...)
}

func TestResolveExactAlias(t *testing.T) {
	r := newResolver(t)
	res := r.Resolve(context.Background(), "Should I buy bitcoin?")

	if len(res.Assets) != 1 {
		t.Fatalf("got %d assets, want 1", len(res.Assets))
	}
	a := res.Assets[0]
	if a.Ticker != "BTC" || a.Origin != models.OriginExactAlias || a.Confidence != 0.99 {
		t.Fatalf("unexpected asset: %+v", a)
	}
	if res.Mode != models.ModeAssetSpecific {
		t.Fatalf("mode = %s", res.Mode)
	}
}

func TestResolveMisspellingCorrection(t *testing.T) {
	r := newResolver(t)
	res := r.Resolve(context.Background(), "analyze etherium")

	if len(res.Assets) != 1 {
		t.Fatalf("got %d assets, want 1: %+v", len(res.Assets), res.Assets)
	}
	a := res.Assets[0]
	if a.Ticker != "ETH" || a.Origin != models.OriginMisspelling {
		t.Fatalf("unexpected asset: %+v", a)
	}
	// ETH base confidence 0.98 minus the correction penalty.
	if a.Confidence < 0.92 || a.Confidence > 0.94 {
		t.Fatalf("confidence = %v, want ~0.93", a.Confidence)
	}
}

func TestResolveSectorExpansion(t *testing.T) {
	r := newResolver(t)
	res := r.Resolve(context.Background(), "what are the best AI coins right now")

	if res.Mode != models.ModeSector {
		t.Fatalf("mode = %s, want sector", res.Mode)
	}
	// Sector carries the canonical catalog name regardless of request casing.
	if res.Sector != models.SectorAI {
		t.Fatalf("sector = %s, want %s", res.Sector, models.SectorAI)
	}
	want := []string{"FET", "NEAR", "RNDR", "OCEAN", "AGIX"}
	got := res.Tickers()
	if len(got) != len(want) {
		t.Fatalf("tickers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tickers = %v, want %v (sector order)", got, want)
		}
	}
	for _, a := range res.Assets {
		if a.Origin != models.OriginSectorExpansion {
			t.Fatalf("origin = %s for %s", a.Origin, a.Ticker)
		}
	}
}

func TestResolveFallbackDefault(t *testing.T) {
	r := newResolver(t)
	res := r.Resolve(context.Background(), "tell me about the weather")

	if !res.Fallback() {
		t.Fatalf("expected fallback resolution, got %+v", res)
	}
	a := res.Assets[0]
	if a.Ticker != "BTC" || a.Confidence != 0.5 {
		t.Fatalf("fallback asset = %+v", a)
	}
}

func TestResolveEmptyText(t *testing.T) {
	r := newResolver(t)
	res := r.Resolve(context.Background(), "   ")
	if !res.Fallback() {
		t.Fatalf("expected fallback for blank input, got %+v", res)
	}
}

func TestResolveDeduplicatesAliases(t *testing.T) {
	r := newResolver(t)
	res := r.Resolve(context.Background(), "compare bitcoin with btc")

	if len(res.Assets) != 1 || res.Assets[0].Ticker != "BTC" {
		t.Fatalf("expected single BTC, got %v", res.Tickers())
	}
	if res.Assets[0].Origin != models.OriginExactAlias {
		t.Fatalf("dedupe should keep the exact-alias entry, got %s", res.Assets[0].Origin)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	r := newResolver(t)
	upper := r.Resolve(context.Background(), "ANALYZE SOLANA")
	lower := r.Resolve(context.Background(), "analyze solana")
	if len(upper.Assets) != 1 || upper.Assets[0].Ticker != "SOL" {
		t.Fatalf("upper = %v", upper.Tickers())
	}
	if upper.Assets[0] != lower.Assets[0] {
		t.Fatalf("case should not change the result: %+v vs %+v", upper.Assets[0], lower.Assets[0])
	}
}

func TestResolveMultipleAssetsPreservesOrder(t *testing.T) {
	r := newResolver(t)
	res := r.Resolve(context.Background(), "bitcoin versus ethereum")

	got := res.Tickers()
	if len(got) != 2 {
		t.Fatalf("tickers = %v, want 2", got)
	}
	// Catalog order: BTC before ETH.
	if got[0] != "BTC" || got[1] != "ETH" {
		t.Fatalf("tickers = %v, want [BTC ETH]", got)
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := newResolver(t)
	first := r.Resolve(context.Background(), "doge and pepe coins")
	for i := 0; i < 5; i++ {
		again := r.Resolve(context.Background(), "doge and pepe coins")
		if len(again.Assets) != len(first.Assets) {
			t.Fatalf("run %d: %v vs %v", i, again.Tickers(), first.Tickers())
		}
		for j := range first.Assets {
			if again.Assets[j] != first.Assets[j] {
				t.Fatalf("run %d differs at %d: %+v vs %+v", i, j, again.Assets[j], first.Assets[j])
			}
		}
	}
}

// --- extractor path ---

type stubExtractor struct {
	out domsvc.ExtractionResult
	err error
}

func (s stubExtractor) Extract(context.Context, string, models.CatalogSnapshot) (domsvc.ExtractionResult, error) {
	return s.out, s.err
}

func TestResolveExtractorSuccess(t *testing.T) {
	ex := stubExtractor{out: domsvc.ExtractionResult{
		Assets: []models.ResolvedAsset{
			{Ticker: "SOL", Confidence: 0.91, Origin: models.OriginExactAlias},
		},
		Mode: models.ModeAssetSpecific,
	}}
	r := newResolver(t, WithExtractor(ex))

	res := r.Resolve(context.Background(), "solana please")
	if len(res.Assets) != 1 || res.Assets[0].Ticker != "SOL" {
		t.Fatalf("assets = %v", res.Tickers())
	}
	// Name is filled from the catalog, not trusted from the extractor.
	if res.Assets[0].Name != "Solana" {
		t.Fatalf("name = %q, want Solana", res.Assets[0].Name)
	}
}

func TestResolveExtractorErrorFallsBack(t *testing.T) {
	r := newResolver(t, WithExtractor(stubExtractor{err: errors.New("timeout")}))

	res := r.Resolve(context.Background(), "solana please")
	if !res.Fallback() {
		t.Fatalf("expected fallback, got %+v", res)
	}
}

func TestResolveExtractorUnknownTickersDropped(t *testing.T) {
	ex := stubExtractor{out: domsvc.ExtractionResult{
		Assets: []models.ResolvedAsset{
			{Ticker: "NOPE", Confidence: 0.9},
			{Ticker: "ETH", Confidence: 0.95},
		},
		Mode: models.ModeAssetSpecific,
	}}
	r := newResolver(t, WithExtractor(ex))

	res := r.Resolve(context.Background(), "whatever")
	if len(res.Assets) != 1 || res.Assets[0].Ticker != "ETH" {
		t.Fatalf("assets = %v, want [ETH]", res.Tickers())
	}
}

func TestResolveExtractorAllUnknownFallsBack(t *testing.T) {
	ex := stubExtractor{out: domsvc.ExtractionResult{
		Assets: []models.ResolvedAsset{{Ticker: "NOPE", Confidence: 0.9}},
		Mode:   models.ModeAssetSpecific,
	}}
	r := newResolver(t, WithExtractor(ex))

	res := r.Resolve(context.Background(), "whatever")
	if !res.Fallback() {
		t.Fatalf("expected fallback, got %+v", res)
	}
}

func TestResolveExtractorConfidenceClamped(t *testing.T) {
	ex := stubExtractor{out: domsvc.ExtractionResult{
		Assets: []models.ResolvedAsset{{Ticker: "BTC", Confidence: 1.7}},
		Mode:   models.ModeAssetSpecific,
	}}
	r := newResolver(t, WithExtractor(ex))

	res := r.Resolve(context.Background(), "whatever")
	if res.Assets[0].Confidence != 1 {
		t.Fatalf("confidence = %v, want clamped to 1", res.Assets[0].Confidence)
	}
}
