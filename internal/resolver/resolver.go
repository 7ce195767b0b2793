// Package resolver turns free text into an ordered, de-duplicated list of
// resolved assets. Dictionary matching is the default path; an external
// extractor service, when configured, replaces it with the same output shape.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"CryptoAnalyst/internal/catalog"
	"CryptoAnalyst/internal/domain/models"
	domrepo "CryptoAnalyst/internal/domain/repository"
	domsvc "CryptoAnalyst/internal/domain/service"
	"CryptoAnalyst/pkg/logger"
	"CryptoAnalyst/pkg/util"
)

const (
	// misspellingPenalty is subtracted from base confidence for corrections.
	misspellingPenalty = 0.05
	// fallbackTicker and fallbackConfidence define the always-answer default.
	fallbackTicker     = "BTC"
	fallbackConfidence = 0.5
)

type Resolver struct {
	catalog   *catalog.Catalog
	extractor domsvc.Extractor // nil when no extractor service is configured
	metrics   domrepo.Metrics
	logger    *logger.Logger
}

type Option func(*Resolver)

// WithExtractor enables language-model delegation via the given extractor.
func WithExtractor(ex domsvc.Extractor) Option {
	return func(r *Resolver) { r.extractor = ex }
}

func New(cat *catalog.Catalog, metrics domrepo.Metrics, lgr *logger.Logger, opts ...Option) *Resolver {
	r := &Resolver{catalog: cat, metrics: metrics, logger: lgr}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps free text to assets. The result is never empty: unrecognized
// input falls back to the default asset so the pipeline always has a valid
// ticker to work with.
func (r *Resolver) Resolve(ctx context.Context, text string) models.Resolution {
	if r.extractor != nil {
		if res, ok := r.resolveViaExtractor(ctx, text); ok {
			r.record(res)
			return res
		}
		// Extraction failures are recovered locally: same fallback path as
		// unrecognized input, never a surfaced error.
		res := r.fallback("extractor unavailable or returned unusable output")
		r.record(res)
		return res
	}

	res := r.resolveViaDictionary(text)
	r.record(res)
	return res
}

// resolveViaDictionary applies alias, misspelling and sector matching in order.
func (r *Resolver) resolveViaDictionary(text string) models.Resolution {
	norm := util.NormalizeText(text)

	var candidates []models.ResolvedAsset
	r.catalog.EachAlias(func(alias, ticker string) {
		if util.ContainsPhrase(norm, alias) {
			if a, ok := r.catalog.Lookup(ticker); ok {
				candidates = append(candidates, models.ResolvedAsset{
					Ticker:     a.Ticker,
					Name:       a.Name,
					Confidence: a.Confidence,
					Origin:     models.OriginExactAlias,
				})
			}
		}
	})
	r.catalog.EachMisspelling(func(key, ticker string) {
		if util.ContainsPhrase(norm, key) {
			if a, ok := r.catalog.Lookup(ticker); ok {
				candidates = append(candidates, models.ResolvedAsset{
					Ticker:     a.Ticker,
					Name:       a.Name,
					Confidence: clamp01(a.Confidence - misspellingPenalty),
					Origin:     models.OriginMisspelling,
				})
			}
		}
	})
	if len(candidates) > 0 {
		return models.Resolution{
			Assets: dedupe(candidates),
			Mode:   models.ModeAssetSpecific,
		}
	}

	if sector, ok := r.catalog.MatchSector(norm); ok {
		members := r.catalog.AssetsInSector(sector)
		assets := make([]models.ResolvedAsset, 0, len(members))
		for _, a := range members {
			assets = append(assets, models.ResolvedAsset{
				Ticker:     a.Ticker,
				Name:       a.Name,
				Confidence: a.Confidence,
				Origin:     models.OriginSectorExpansion,
			})
		}
		return models.Resolution{
			Assets: assets,
			Mode:   models.ModeSector,
			Sector: sector,
			Notes:  fmt.Sprintf("expanded sector %s to %d assets", sector, len(assets)),
		}
	}

	return r.fallback("no alias, misspelling or sector matched")
}

// resolveViaExtractor delegates to the external extractor and validates the
// response against the catalog. Returns ok=false when the response is
// unusable and the caller must fall back.
func (r *Resolver) resolveViaExtractor(ctx context.Context, text string) (models.Resolution, bool) {
	out, err := r.extractor.Extract(ctx, text, r.catalog.Snapshot())
	if err != nil {
		r.logger.Warn("extractor call failed", logger.Error(err))
		r.metrics.RecordError("extractor_call")
		return models.Resolution{}, false
	}

	mode := out.Mode
	if mode != models.ModeAssetSpecific && mode != models.ModeSector {
		mode = models.ModeAssetSpecific
	}

	valid := make([]models.ResolvedAsset, 0, len(out.Assets))
	for _, ra := range out.Assets {
		a, ok := r.catalog.Lookup(ra.Ticker)
		if !ok {
			r.logger.Warn("extractor returned unknown ticker",
				logger.String("ticker", ra.Ticker),
				logger.Float64("confidence", ra.Confidence))
			r.metrics.RecordError("extractor_unknown_ticker")
			continue
		}
		origin := ra.Origin
		if origin == "" {
			origin = models.OriginExactAlias
			if mode == models.ModeSector {
				origin = models.OriginSectorExpansion
			}
		}
		valid = append(valid, models.ResolvedAsset{
			Ticker:     a.Ticker,
			Name:       a.Name,
			Confidence: clamp01(ra.Confidence),
			Origin:     origin,
		})
	}
	if len(valid) == 0 {
		return models.Resolution{}, false
	}
	return models.Resolution{
		Assets: dedupe(valid),
		Mode:   mode,
		Notes:  strings.TrimSpace(out.Notes),
	}, true
}

func (r *Resolver) fallback(reason string) models.Resolution {
	a, _ := r.catalog.Lookup(fallbackTicker)
	return models.Resolution{
		Assets: []models.ResolvedAsset{{
			Ticker:     a.Ticker,
			Name:       a.Name,
			Confidence: fallbackConfidence,
			Origin:     models.OriginFallbackDefault,
		}},
		Mode:  models.ModeAssetSpecific,
		Notes: reason,
	}
}

func (r *Resolver) record(res models.Resolution) {
	for _, a := range res.Assets {
		r.metrics.RecordResolution(string(a.Origin))
	}
}

// dedupe collapses duplicate tickers, keeping the highest-confidence entry;
// equal confidences break ties by origin priority. First-seen order of the
// surviving tickers is preserved.
func dedupe(in []models.ResolvedAsset) []models.ResolvedAsset {
	best := make(map[string]models.ResolvedAsset, len(in))
	order := make([]string, 0, len(in))
	for _, ra := range in {
		cur, seen := best[ra.Ticker]
		if !seen {
			best[ra.Ticker] = ra
			order = append(order, ra.Ticker)
			continue
		}
		if ra.Confidence > cur.Confidence ||
			(ra.Confidence == cur.Confidence && ra.Origin.Priority() > cur.Origin.Priority()) {
			best[ra.Ticker] = ra
		}
	}
	out := make([]models.ResolvedAsset, 0, len(order))
	for _, t := range order {
		out = append(out, best[t])
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
