package usecase

import (
	"fmt"

	"CryptoAnalyst/internal/catalog"
	"CryptoAnalyst/internal/domain/models"
)

// ValidateAssets derives warnings from resolved assets and their catalog
// entries. Pure and deterministic: assets are visited in resolution order and
// warnings accumulate, so the same input always yields the same warning list.
func ValidateAssets(res models.Resolution, cat *catalog.Catalog) []models.Warning {
	var warnings []models.Warning
	for _, ra := range res.Assets {
		entry, known := cat.Lookup(ra.Ticker)

		if known && entry.HasSector(models.SectorStablecoin) {
			warnings = append(warnings, models.Warning{
				Kind:    models.WarningStablecoin,
				Ticker:  ra.Ticker,
				Message: fmt.Sprintf("Stablecoin detected: %s - technical analysis may not be meaningful", ra.Ticker),
			})
		}
		if known && entry.HasSector(models.SectorMeme) {
			warnings = append(warnings, models.Warning{
				Kind:    models.WarningMemeRisk,
				Ticker:  ra.Ticker,
				Message: fmt.Sprintf("Meme coin detected: %s - high volatility expected", ra.Ticker),
			})
		}
		if ra.Confidence < cat.ConfidenceThreshold() {
			warnings = append(warnings, models.Warning{
				Kind:    models.WarningLowConfidence,
				Ticker:  ra.Ticker,
				Message: fmt.Sprintf("Low confidence in %s: %.2f", ra.Ticker, ra.Confidence),
			})
		}
	}
	return warnings
}
