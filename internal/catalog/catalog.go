// Package catalog holds the static crypto asset reference data: canonical
// tickers, aliases, misspelling corrections and sector memberships. The
// catalog is built once at startup and is read-only afterwards, so it may be
// shared across concurrent requests without synchronization.
package catalog

import (
	"sort"
	"strings"

	"CryptoAnalyst/internal/domain/models"
)

// confidenceThreshold is the fixed cutoff below which a resolution is
// considered low-confidence.
const confidenceThreshold = 0.85

type Catalog struct {
	assets       map[string]models.Asset
	tickers      []string            // insertion order
	sectors      map[string][]string // sector -> member tickers, ordered
	sectorNames  []string
	misspellings map[string]string // lowercase text -> ticker
	aliasIndex   map[string]string // lowercase alias -> ticker
}

// New builds the catalog from the embedded reference data.
func New() *Catalog {
	c := &Catalog{
		assets:       make(map[string]models.Asset, len(assetTable)),
		sectors:      make(map[string][]string, len(sectorTable)),
		misspellings: make(map[string]string, len(misspellingTable)),
		aliasIndex:   make(map[string]string),
	}
	for _, a := range assetTable {
		c.assets[a.Ticker] = a
		c.tickers = append(c.tickers, a.Ticker)
		for _, al := range a.Aliases {
			key := strings.ToLower(al)
			// Misspelling keys shadow the alias index so corrections keep
			// their confidence penalty ("etherium" resolves as a correction,
			// not as an exact alias).
			if _, shadowed := misspellingTable[key]; shadowed {
				continue
			}
			c.aliasIndex[key] = a.Ticker
		}
	}
	for _, s := range sectorTable {
		c.sectors[s.name] = s.members
		c.sectorNames = append(c.sectorNames, s.name)
	}
	for k, v := range misspellingTable {
		c.misspellings[k] = v
	}
	return c
}

// Lookup returns the asset for a ticker. The miss case is a zero value and
// false, never an error.
func (c *Catalog) Lookup(ticker string) (models.Asset, bool) {
	a, ok := c.assets[strings.ToUpper(strings.TrimSpace(ticker))]
	return a, ok
}

// ResolveAlias returns the ticker owning an exact (case-insensitive) alias.
func (c *Catalog) ResolveAlias(text string) (string, bool) {
	t, ok := c.aliasIndex[strings.ToLower(strings.TrimSpace(text))]
	return t, ok
}

// CorrectMisspelling maps a known misspelling to its canonical ticker.
func (c *Catalog) CorrectMisspelling(text string) (string, bool) {
	t, ok := c.misspellings[strings.ToLower(strings.TrimSpace(text))]
	return t, ok
}

// AssetsInSector returns the sector's members in mapping order. Unknown
// sectors yield an empty slice.
func (c *Catalog) AssetsInSector(sector string) []models.Asset {
	name, ok := c.canonicalSector(sector)
	if !ok {
		return nil
	}
	members := c.sectors[name]
	out := make([]models.Asset, 0, len(members))
	for _, t := range members {
		if a, ok := c.assets[t]; ok {
			out = append(out, a)
		}
	}
	return out
}

// canonicalSector matches a sector name case-insensitively.
func (c *Catalog) canonicalSector(sector string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(sector))
	for _, name := range c.sectorNames {
		if strings.ToLower(name) == s {
			return name, true
		}
	}
	return "", false
}

// MatchSector reports whether the text names a sector, e.g. "AI coins" or
// "gaming tokens". The sector word must appear as a standalone token.
func (c *Catalog) MatchSector(text string) (string, bool) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	for _, name := range c.sectorNames {
		target := strings.ToLower(name)
		for _, w := range words {
			if w == target {
				return name, true
			}
		}
	}
	return "", false
}

// EachAlias visits every indexed alias in deterministic order: assets in
// catalog order, aliases in declared order, shadowed entries skipped.
func (c *Catalog) EachAlias(fn func(alias, ticker string)) {
	for _, t := range c.tickers {
		for _, al := range c.assets[t].Aliases {
			key := strings.ToLower(al)
			if owner, ok := c.aliasIndex[key]; ok && owner == t {
				fn(key, t)
			}
		}
	}
}

// EachMisspelling visits every misspelling key in sorted order.
func (c *Catalog) EachMisspelling(fn func(text, ticker string)) {
	keys := make([]string, 0, len(c.misspellings))
	for k := range c.misspellings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(k, c.misspellings[k])
	}
}

// ConfidenceThreshold returns the fixed low-confidence cutoff.
func (c *Catalog) ConfidenceThreshold() float64 { return confidenceThreshold }

// IsStablecoin reports whether the ticker carries the Stablecoin tag.
func (c *Catalog) IsStablecoin(ticker string) bool {
	a, ok := c.Lookup(ticker)
	return ok && a.HasSector(models.SectorStablecoin)
}

// Tickers returns all tickers in catalog order.
func (c *Catalog) Tickers() []string {
	out := make([]string, len(c.tickers))
	copy(out, c.tickers)
	return out
}

// Sectors returns the sector names that have mappings, sorted.
func (c *Catalog) Sectors() []string {
	out := make([]string, len(c.sectorNames))
	copy(out, c.sectorNames)
	sort.Strings(out)
	return out
}

// Assets returns every asset in catalog order.
func (c *Catalog) Assets() []models.Asset {
	out := make([]models.Asset, 0, len(c.tickers))
	for _, t := range c.tickers {
		out = append(out, c.assets[t])
	}
	return out
}

// Snapshot builds the read-only view handed to the external extractor.
func (c *Catalog) Snapshot() models.CatalogSnapshot {
	snap := models.CatalogSnapshot{
		Assets:  c.Assets(),
		Sectors: make(map[string][]string, len(c.sectors)),
	}
	for name, members := range c.sectors {
		ms := make([]string, len(members))
		copy(ms, members)
		snap.Sectors[name] = ms
	}
	return snap
}
