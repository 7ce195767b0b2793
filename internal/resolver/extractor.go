package resolver

import (
	"context"
	"fmt"
	"time"

	"CryptoAnalyst/internal/domain/models"
	domsvc "CryptoAnalyst/internal/domain/service"
	"CryptoAnalyst/internal/prompt"
	"CryptoAnalyst/pkg/config"
	xhttp "CryptoAnalyst/pkg/http"
)

// HTTPExtractor calls the external language-model extraction service. It is
// a thin JSON client; all recovery (fallback-default) lives in the Resolver.
type HTTPExtractor struct {
	baseURL string
	timeout time.Duration
	variant string
	prompts *prompt.Registry
	client  *xhttp.Client
}

func NewHTTPExtractor(cfg *config.Config, prompts *prompt.Registry) *HTTPExtractor {
	timeout := cfg.Extractor.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPExtractor{
		baseURL: cfg.Extractor.URL,
		timeout: timeout,
		variant: cfg.Extractor.Variant,
		prompts: prompts,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type extractRequest struct {
	Text    string                 `json:"text"`
	Prompt  string                 `json:"prompt"`
	Catalog models.CatalogSnapshot `json:"catalog"`
}

type extractResponse struct {
	Assets []struct {
		Ticker     string  `json:"ticker"`
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence"`
	} `json:"assets"`
	Mode         string `json:"mode"`
	Notes        string `json:"notes"`
	HitlRequired bool   `json:"hitl_required"`
	HitlReason   string `json:"hitl_reason"`
}

// Extract posts the request and decodes the structured extraction result.
// The context carries the configured timeout so a hung service degrades into
// the resolver's fallback path instead of stalling the pipeline.
func (e *HTTPExtractor) Extract(ctx context.Context, text string, snapshot models.CatalogSnapshot) (domsvc.ExtractionResult, error) {
	var out domsvc.ExtractionResult
	if e.baseURL == "" {
		return out, fmt.Errorf("extractor url not configured")
	}

	tmpl, err := e.prompts.Get(e.variant)
	if err != nil {
		return out, fmt.Errorf("prompt variant: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var resp extractResponse
	err = e.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     e.baseURL + "/extract",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    extractRequest{Text: text, Prompt: tmpl, Catalog: snapshot},
	}, &resp)
	if err != nil {
		return out, fmt.Errorf("post extract: %w", err)
	}

	out.Mode = resp.Mode
	out.Notes = resp.Notes
	out.HitlRequired = resp.HitlRequired
	out.HitlReason = resp.HitlReason
	for _, a := range resp.Assets {
		out.Assets = append(out.Assets, models.ResolvedAsset{
			Ticker:     a.Ticker,
			Name:       a.Name,
			Confidence: a.Confidence,
		})
	}
	return out, nil
}

var _ domsvc.Extractor = (*HTTPExtractor)(nil)
