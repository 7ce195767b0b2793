// Package prompt holds the versioned extraction prompt templates. Variants
// are declared explicitly and validated at startup; an unknown or empty
// variant is a configuration error, not something discovered at request time.
package prompt

import (
	"fmt"
	"sort"
	"strings"
)

// Variant names accepted by the extractor configuration.
const (
	AssetExtraction         = "asset_extraction"
	AssetExtractionFast     = "asset_extraction_fast"
	AssetExtractionDetailed = "asset_extraction_detailed"
	TickerExtraction        = "ticker_extraction"
	TickerExtractionShort   = "ticker_extraction_short"
)

// Registry is an immutable variant-name to template mapping.
type Registry struct {
	templates map[string]string
}

// Load builds the registry and fails fast if any declared variant is missing
// or blank.
func Load() (*Registry, error) {
	r := &Registry{templates: templates}
	for _, name := range []string{
		AssetExtraction,
		AssetExtractionFast,
		AssetExtractionDetailed,
		TickerExtraction,
		TickerExtractionShort,
	} {
		t, ok := r.templates[name]
		if !ok || strings.TrimSpace(t) == "" {
			return nil, fmt.Errorf("prompt variant %q missing or empty", name)
		}
	}
	return r, nil
}

// Get returns the template for a variant name.
func (r *Registry) Get(name string) (string, error) {
	t, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt variant %q", name)
	}
	return t, nil
}

// Variants returns the known variant names, sorted.
func (r *Registry) Variants() []string {
	out := make([]string, 0, len(r.templates))
	for name := range r.templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var templates = map[string]string{
	AssetExtraction: `You are a cryptocurrency asset extraction specialist.
Given a user request and the asset catalog, identify every asset the user is
asking about. Handle aliases, nicknames and misspellings; expand sector-wide
requests ("AI coins", "gaming tokens") to the sector's members.
Respond with JSON only:
{"assets":[{"ticker":"...","name":"...","confidence":0.0}],
 "mode":"asset_specific"|"sector","notes":"...",
 "hitl_required":false,"hitl_reason":""}
Every ticker must come from the provided catalog.`,

	AssetExtractionFast: `Extract cryptocurrency tickers from the user request
using the provided catalog. Respond with JSON only:
{"assets":[{"ticker":"...","name":"...","confidence":0.0}],
 "mode":"asset_specific"|"sector","notes":"","hitl_required":false,"hitl_reason":""}`,

	AssetExtractionDetailed: `You are a cryptocurrency asset extraction
specialist. Work through the user request step by step: identify explicit
tickers, resolve aliases and common misspellings against the catalog, detect
sector-wide requests and expand them to members, and assign a confidence in
[0,1] per asset reflecting match certainty. Flag review when confidence is
low, when a mention is ambiguous between assets, or when the request is
sector-wide. Respond with JSON only:
{"assets":[{"ticker":"...","name":"...","confidence":0.0}],
 "mode":"asset_specific"|"sector","notes":"reasoning summary",
 "hitl_required":false,"hitl_reason":"confidence_low|ambiguous_asset|sector_request|"}
Every ticker must come from the provided catalog; never invent tickers.`,

	TickerExtraction: `Identify the single cryptocurrency ticker the user is
asking about. Choose from the catalog tickers only. Respond with the ticker
symbol and nothing else.`,

	TickerExtractionShort: `Reply with one catalog ticker symbol for the
user request. No other text.`,
}
