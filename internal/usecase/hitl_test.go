package usecase

import (
	"strings"
	"testing"

	"CryptoAnalyst/internal/catalog"
	"CryptoAnalyst/internal/domain/models"
)

func TestHitlNoneForConfidentSingleAsset(t *testing.T) {
	cat := catalog.New()
	d := DecideHitl(assetSpecific(resolved("BTC", 0.99)), cat)
	if d.RequiresReview || d.Reason != models.HitlNone {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestHitlExtractionErrorOnFallback(t *testing.T) {
	cat := catalog.New()
	res := models.Resolution{
		Assets: []models.ResolvedAsset{{Ticker: "BTC", Confidence: 0.5, Origin: models.OriginFallbackDefault}},
		Mode:   models.ModeAssetSpecific,
	}
	d := DecideHitl(res, cat)
	if d.Reason != models.HitlExtractionError {
		t.Fatalf("reason = %s, want extraction_error", d.Reason)
	}
	if !strings.Contains(d.Advisory, "fallback") {
		t.Fatalf("advisory should mention fallback: %q", d.Advisory)
	}
}

func TestHitlConfidenceLow(t *testing.T) {
	cat := catalog.New()
	d := DecideHitl(assetSpecific(resolved("ETH", 0.80)), cat)
	if d.Reason != models.HitlConfidenceLow {
		t.Fatalf("reason = %s, want confidence_low", d.Reason)
	}
	if !d.RequiresReview {
		t.Fatal("low confidence must require review")
	}
	if !strings.Contains(d.Advisory, "Proceeding with analysis") {
		t.Fatalf("advisory must state continuation: %q", d.Advisory)
	}
}

func TestHitlConfidenceLowBeatsAmbiguity(t *testing.T) {
	cat := catalog.New()
	// Both close and below threshold: rule order makes this confidence_low.
	d := DecideHitl(assetSpecific(resolved("ETH", 0.80), resolved("SOL", 0.81)), cat)
	if d.Reason != models.HitlConfidenceLow {
		t.Fatalf("reason = %s, want confidence_low", d.Reason)
	}
}

func TestHitlAmbiguousWhenNoDominantCandidate(t *testing.T) {
	cat := catalog.New()
	d := DecideHitl(assetSpecific(resolved("SOL", 0.95), resolved("ADA", 0.93)), cat)
	if d.Reason != models.HitlAmbiguousAsset {
		t.Fatalf("reason = %s, want ambiguous_asset", d.Reason)
	}
}

func TestHitlDominantCandidateNotAmbiguous(t *testing.T) {
	cat := catalog.New()
	d := DecideHitl(assetSpecific(resolved("BTC", 0.99), resolved("SOL", 0.90)), cat)
	if d.Reason != models.HitlNone {
		t.Fatalf("reason = %s, want none", d.Reason)
	}
}

func TestHitlSectorRequest(t *testing.T) {
	cat := catalog.New()
	members := cat.AssetsInSector("ai")
	assets := make([]models.ResolvedAsset, 0, len(members))
	for _, a := range members {
		assets = append(assets, models.ResolvedAsset{
			Ticker: a.Ticker, Name: a.Name, Confidence: a.Confidence, Origin: models.OriginSectorExpansion,
		})
	}
	res := models.Resolution{Assets: assets, Mode: models.ModeSector, Sector: "ai"}
	d := DecideHitl(res, cat)
	if d.Reason != models.HitlSectorRequest {
		t.Fatalf("reason = %s, want sector_request", d.Reason)
	}
	// Sector expansions carry low-confidence members without tripping the
	// confidence rule.
	for _, a := range assets {
		if a.Confidence < cat.ConfidenceThreshold() {
			return
		}
	}
	t.Fatal("expected at least one sub-threshold sector member in fixture")
}

func TestHitlAdvisoryNamesTickers(t *testing.T) {
	cat := catalog.New()
	d := DecideHitl(assetSpecific(resolved("ETH", 0.70)), cat)
	if !strings.Contains(d.Advisory, "ETH") {
		t.Fatalf("advisory should name tickers: %q", d.Advisory)
	}
}
