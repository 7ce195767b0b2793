package enrich

import (
	"context"
	"fmt"
	"math"

	"CryptoAnalyst/internal/domain/models"
	domsvc "CryptoAnalyst/internal/domain/service"
)

const (
	rsiPeriod       = 14
	smaPeriod       = 20
	emaPeriod       = 12
	bollingerPeriod = 20
	bollingerWidth  = 2.0
	macdFast        = 12
	macdSlow        = 26
)

// IndicatorEngine computes standard technical indicators over a daily
// price history.
type IndicatorEngine struct{}

func NewIndicatorEngine() *IndicatorEngine { return &IndicatorEngine{} }

func (e *IndicatorEngine) Compute(ctx context.Context, ticker string, history []models.PricePoint) (models.Indicators, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(history) < macdSlow {
		return nil, fmt.Errorf("insufficient price history for %s: %d points", ticker, len(history))
	}

	prices := make([]float64, len(history))
	for i, p := range history {
		prices[i] = p.Price
	}

	upper, lower := bollinger(prices, bollingerPeriod, bollingerWidth)
	return models.Indicators{
		"rsi":             round4(rsi(prices, rsiPeriod)),
		"macd":            round8(macd(prices)),
		"bollinger_upper": round8(upper),
		"bollinger_lower": round8(lower),
		"sma_20":          round8(sma(prices, smaPeriod)),
		"ema_12":          round8(ema(prices, emaPeriod)),
	}, nil
}

// rsi is Wilder's relative strength index over the trailing period.
func rsi(prices []float64, period int) float64 {
	if len(prices) <= period {
		return 50
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		diff := prices[i] - prices[i-1]
		if diff > 0 {
			avgGain += diff
		} else {
			avgLoss -= diff
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	for i := period + 1; i < len(prices); i++ {
		diff := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if diff > 0 {
			gain = diff
		} else {
			loss = -diff
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// sma is the simple moving average of the last period prices.
func sma(prices []float64, period int) float64 {
	if len(prices) < period {
		period = len(prices)
	}
	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period)
}

// ema seeds with an SMA of the first period values, then smooths forward.
func ema(prices []float64, period int) float64 {
	if len(prices) < period {
		return sma(prices, len(prices))
	}
	k := 2.0 / float64(period+1)
	v := sma(prices[:period], period)
	for _, p := range prices[period:] {
		v = p*k + v*(1-k)
	}
	return v
}

func bollinger(prices []float64, period int, width float64) (upper, lower float64) {
	mid := sma(prices, period)
	n := period
	if len(prices) < n {
		n = len(prices)
	}
	variance := 0.0
	for _, p := range prices[len(prices)-n:] {
		d := p - mid
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(n))
	return mid + width*sd, mid - width*sd
}

func macd(prices []float64) float64 {
	return ema(prices, macdFast) - ema(prices, macdSlow)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

var _ domsvc.TechnicalAnalyzer = (*IndicatorEngine)(nil)
