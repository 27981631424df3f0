package data

import (
	"math"
	"time"

	"github.com/contactkeval/option-mc/internal/pricing"
)

// Daily GBM parameters for generated bars.
const (
	synthStartPrice = 100.0
	synthAnnualVol  = 0.20
	synthDrift      = 0.05
)

// synthDataProvider implements Provider generating synthetic GBM daily
// bars. Used when no API key is configured, and in tests; the same seed
// reproduces the same series.
type synthDataProvider struct {
	src       pricing.NormalSource
	secondary Provider
}

func NewSyntheticProvider(seed uint64) Provider {
	return &synthDataProvider{src: pricing.NewSeededSource(seed)}
}

func (synthDataProv *synthDataProvider) Secondary() Provider {
	return synthDataProv.secondary
}

func (synthDataProv *synthDataProvider) GetDailyBars(underlying string, fromDate, toDate time.Time) ([]Bar, error) {
	dt := 1.0 / tradingDaysPerYear
	drift := (synthDrift - 0.5*synthAnnualVol*synthAnnualVol) * dt
	diffusion := synthAnnualVol * math.Sqrt(dt)

	price := synthStartPrice
	cur := fromDate
	var out []Bar
	for !cur.After(toDate) {
		if cur.Weekday() != time.Saturday && cur.Weekday() != time.Sunday {
			z := synthDataProv.src.Draw(3)
			open := price
			close := price * math.Exp(drift+diffusion*z[0])
			high := math.Max(open, close) * (1 + 0.003*math.Abs(z[1]))
			low := math.Min(open, close) * (1 - 0.003*math.Abs(z[2]))
			out = append(out, Bar{Date: cur, Open: open, High: high, Low: low, Close: close, Vol: 1000})
			price = close
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return out, nil
}

func (synthDataProv *synthDataProvider) GetSpot(underlying string) (float64, error) {
	if synthDataProv.secondary != nil {
		return synthDataProv.secondary.GetSpot(underlying)
	}
	return synthStartPrice, nil
}
