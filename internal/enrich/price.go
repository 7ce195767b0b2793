package enrich

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"CryptoAnalyst/internal/domain/models"
	domsvc "CryptoAnalyst/internal/domain/service"
	"CryptoAnalyst/internal/service/cache"
)

const (
	historyDays   = 30
	priceCacheTTL = 5 * time.Minute
)

// basePrices anchor the simulated series to plausible magnitudes per ticker.
// Unknown tickers get a generic anchor.
var basePrices = map[string]float64{
	"BTC": 45000, "ETH": 2500, "SOL": 110, "BNB": 320, "ADA": 0.55,
	"USDT": 1.0, "USDC": 1.0, "DAI": 1.0,
	"DOGE": 0.12, "SHIB": 0.000018, "PEPE": 0.0000085,
}

// SimulatedPriceSource generates a deterministic daily price history per
// ticker. The series is seeded by the ticker so repeated requests agree,
// and cached to keep the pipeline cheap under load.
type SimulatedPriceSource struct {
	cache cache.BytesCache
	now   func() time.Time
}

func NewSimulatedPriceSource(c cache.BytesCache) *SimulatedPriceSource {
	return &SimulatedPriceSource{cache: c, now: time.Now}
}

func (s *SimulatedPriceSource) Fetch(ctx context.Context, ticker string) ([]models.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := "prices:" + ticker
	if s.cache != nil {
		if b, ok, _ := s.cache.GetBytes(key); ok {
			var points []models.PricePoint
			if err := json.Unmarshal(b, &points); err == nil {
				return points, nil
			}
		}
	}

	points := s.generate(ticker)
	if s.cache != nil {
		if b, err := json.Marshal(points); err == nil {
			_ = s.cache.SetBytes(key, b, priceCacheTTL)
		}
	}
	return points, nil
}

func (s *SimulatedPriceSource) generate(ticker string) []models.PricePoint {
	base, ok := basePrices[ticker]
	if !ok {
		base = 10 + float64(seed(ticker)%9000)/100
	}

	rng := rand.New(rand.NewSource(int64(seed(ticker))))
	day := s.now().UTC().Truncate(24 * time.Hour)
	start := day.AddDate(0, 0, -historyDays+1)

	// Random walk with mild drift; stablecoins stay pinned near the peg.
	vol := 0.03
	if base == 1.0 {
		vol = 0.0005
	}

	points := make([]models.PricePoint, 0, historyDays)
	price := base
	for i := 0; i < historyDays; i++ {
		change := rng.NormFloat64() * vol
		price = math.Max(price*(1+change), base*0.5)
		volume := base * 1e4 * (0.8 + rng.Float64()*0.4)
		points = append(points, models.PricePoint{
			Timestamp: start.AddDate(0, 0, i),
			Price:     round8(price),
			Volume:    math.Round(volume),
		})
	}
	return points
}

func seed(ticker string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(ticker))
	return h.Sum32()
}

func round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}

var _ domsvc.PriceSource = (*SimulatedPriceSource)(nil)
