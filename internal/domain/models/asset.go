package models

// Sector tags used across the catalog. A sector may appear as an asset tag
// without having a sector mapping of its own (Metaverse, Compute, Data).
const (
	SectorAI         = "AI"
	SectorDeFi       = "DeFi"
	SectorGaming     = "Gaming"
	SectorLayer1     = "Layer1"
	SectorLayer2     = "Layer2"
	SectorMeme       = "Meme"
	SectorStablecoin = "Stablecoin"
	SectorMetaverse  = "Metaverse"
	SectorCompute    = "Compute"
	SectorData       = "Data"
)

// Asset is one catalog entry. Ticker is the unique identity; the struct is
// read-only after catalog construction and safe to share across requests.
type Asset struct {
	Ticker     string   `json:"ticker"`
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases"`
	Confidence float64  `json:"confidence"`
	Sectors    []string `json:"sectors,omitempty"`
}

// HasSector reports whether the asset carries the given sector tag.
func (a Asset) HasSector(sector string) bool {
	for _, s := range a.Sectors {
		if s == sector {
			return true
		}
	}
	return false
}

// CatalogSnapshot is the read-only view handed to the external extractor.
type CatalogSnapshot struct {
	Assets  []Asset             `json:"assets"`
	Sectors map[string][]string `json:"sectors"`
}
