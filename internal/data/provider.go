// Package data provides the market data providers used to calibrate
// simulation parameters (spot from the latest close, volatility from
// historical log returns).
package data

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Provider supplies market data. Implementations may chain to a secondary
// provider as a fallback when they cannot serve a request themselves.
type Provider interface {
	Secondary() Provider
	GetDailyBars(underlying string, fromDate, toDate time.Time) ([]Bar, error)
	GetSpot(underlying string) (float64, error)
}

// Bar simplified OHLC
type Bar struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
	Vol   float64
}

const tradingDaysPerYear = 252

// ExtractCloses pulls the close column out of a bar series.
func ExtractCloses(bars []Bar) []float64 {
	out := make([]float64, 0, len(bars))
	for _, b := range bars {
		out = append(out, b.Close)
	}
	return out
}

// AnnualizedVolatility estimates annualized volatility as the sample
// standard deviation of daily log returns scaled by sqrt(252). Non-positive
// closes are skipped; fewer than two usable returns yields 0.
func AnnualizedVolatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		rets = append(rets, math.Log(closes[i]/closes[i-1]))
	}
	if len(rets) < 2 {
		return 0
	}
	return stat.StdDev(rets, nil) * math.Sqrt(tradingDaysPerYear)
}
