package models

// MatchOrigin records how free text mapped to a ticker.
type MatchOrigin string

const (
	OriginExactAlias      MatchOrigin = "exact-alias"
	OriginMisspelling     MatchOrigin = "misspelling-correction"
	OriginSectorExpansion MatchOrigin = "sector-expansion"
	OriginFallbackDefault MatchOrigin = "fallback-default"
)

// Priority orders origins for de-duplication tie-breaks: exact beats
// misspelling beats sector expansion beats fallback.
func (o MatchOrigin) Priority() int {
	switch o {
	case OriginExactAlias:
		return 3
	case OriginMisspelling:
		return 2
	case OriginSectorExpansion:
		return 1
	default:
		return 0
	}
}

// Analysis modes.
const (
	ModeAssetSpecific = "asset_specific"
	ModeSector        = "sector"
)

// ResolvedAsset is one resolution result, transient per request.
type ResolvedAsset struct {
	Ticker     string      `json:"ticker"`
	Name       string      `json:"name"`
	Confidence float64     `json:"confidence"`
	Origin     MatchOrigin `json:"origin"`
}

// Resolution is the full resolver output for one request.
type Resolution struct {
	Assets []ResolvedAsset `json:"assets"`
	Mode   string          `json:"mode"`
	Sector string          `json:"sector,omitempty"`
	Notes  string          `json:"notes,omitempty"`
}

// Fallback reports whether the resolver took the fallback-default path.
func (r Resolution) Fallback() bool {
	return len(r.Assets) == 1 && r.Assets[0].Origin == OriginFallbackDefault
}

// Tickers returns resolved tickers in order.
func (r Resolution) Tickers() []string {
	out := make([]string, 0, len(r.Assets))
	for _, a := range r.Assets {
		out = append(out, a.Ticker)
	}
	return out
}

// WarningKind classifies a validation warning.
type WarningKind string

const (
	WarningStablecoin    WarningKind = "stablecoin"
	WarningMemeRisk      WarningKind = "meme-risk"
	WarningLowConfidence WarningKind = "low-confidence"
)

// Warning is a human-readable validation warning derived from a resolved
// asset and its catalog entry.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Ticker  string      `json:"ticker"`
	Message string      `json:"message"`
}

// HitlReason enumerates why a resolution may need human review.
type HitlReason string

const (
	HitlNone            HitlReason = "none"
	HitlConfidenceLow   HitlReason = "confidence_low"
	HitlAmbiguousAsset  HitlReason = "ambiguous_asset"
	HitlSectorRequest   HitlReason = "sector_request"
	HitlExtractionError HitlReason = "extraction_error"
)

// HitlDecision is the gate output. RequiresReview is true iff Reason is not
// HitlNone; the gate is advisory and never blocks the pipeline.
type HitlDecision struct {
	RequiresReview bool       `json:"requires_review"`
	Reason         HitlReason `json:"reason"`
	Advisory       string     `json:"advisory,omitempty"`
}
