package usecase

import (
	"fmt"
	"strings"

	"CryptoAnalyst/internal/catalog"
	"CryptoAnalyst/internal/domain/models"
)

// dominanceMargin is the confidence lead the top candidate needs over the
// runner-up before a multi-asset resolution is considered unambiguous.
const dominanceMargin = 0.05

// DecideHitl classifies whether a resolution warrants human review. First
// matching rule wins:
//
//  1. fallback-default resolution (extraction failed)
//  2. asset-specific with any confidence below the threshold
//  3. asset-specific with several close-confidence candidates
//  4. sector-wide request
//
// Confidence and ambiguity checks are scoped to asset-specific resolutions:
// a sector expansion legitimately carries many members of varying confidence
// and classifies as sector_request, not as low confidence or ambiguity.
//
// The decision is advisory. When review is required the gate synthesizes an
// advisory message naming the reason and tickers, but execution continues;
// there is no suspend/resume point.
func DecideHitl(res models.Resolution, cat *catalog.Catalog) models.HitlDecision {
	reason := classify(res, cat)
	if reason == models.HitlNone {
		return models.HitlDecision{RequiresReview: false, Reason: models.HitlNone}
	}
	return models.HitlDecision{
		RequiresReview: true,
		Reason:         reason,
		Advisory:       advisory(reason, res),
	}
}

func classify(res models.Resolution, cat *catalog.Catalog) models.HitlReason {
	if res.Fallback() {
		return models.HitlExtractionError
	}

	if res.Mode != models.ModeSector {
		for _, ra := range res.Assets {
			if ra.Confidence < cat.ConfidenceThreshold() {
				return models.HitlConfidenceLow
			}
		}
		if len(res.Assets) > 1 && !dominant(res.Assets) {
			return models.HitlAmbiguousAsset
		}
		return models.HitlNone
	}

	return models.HitlSectorRequest
}

// dominant reports whether the top candidate leads the runner-up by at least
// the dominance margin.
func dominant(assets []models.ResolvedAsset) bool {
	top, second := 0.0, 0.0
	for _, ra := range assets {
		switch {
		case ra.Confidence > top:
			second = top
			top = ra.Confidence
		case ra.Confidence > second:
			second = ra.Confidence
		}
	}
	return top-second >= dominanceMargin
}

func advisory(reason models.HitlReason, res models.Resolution) string {
	tickers := strings.Join(res.Tickers(), ", ")
	switch reason {
	case models.HitlExtractionError:
		return fmt.Sprintf("Asset extraction failed, using fallback: %s. Proceeding with analysis.", tickers)
	case models.HitlConfidenceLow:
		return fmt.Sprintf("Low confidence in asset extraction. Extracted: %s. Proceeding with analysis.", tickers)
	case models.HitlAmbiguousAsset:
		return fmt.Sprintf("Ambiguous asset detected. Extracted: %s. Proceeding with analysis.", tickers)
	case models.HitlSectorRequest:
		return fmt.Sprintf("Sector request detected. Representative assets: %s. Proceeding with analysis.", tickers)
	default:
		return fmt.Sprintf("Human review suggested for: %s. Proceeding with analysis.", tickers)
	}
}
