package pricing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a simulated terminal-price distribution. It is what a
// histogram renderer or results table reads; building it never mutates the
// input slice.
type Summary struct {
	N         int                `json:"n"`
	Mean      float64            `json:"mean"`
	StdDev    float64            `json:"std_dev"`
	Min       float64            `json:"min"`
	Max       float64            `json:"max"`
	Quantiles map[string]float64 `json:"quantiles"`
	Histogram []Bin              `json:"histogram"`
}

// Bin is one fixed-width histogram bucket over [Low, High).
// The last bin is closed on the right.
type Bin struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
}

var summaryCuts = map[string]float64{
	"p05": 0.05,
	"p25": 0.25,
	"p50": 0.50,
	"p75": 0.75,
	"p95": 0.95,
}

// Summarize computes distribution statistics and fixed-width histogram
// counts for a terminal-price batch. The batch must be non-empty; bins
// must be at least 1.
func Summarize(terminal []float64, bins int) (Summary, error) {
	if len(terminal) == 0 {
		return Summary{}, fmt.Errorf("%w: nothing to summarize", ErrEmptyInput)
	}
	if bins < 1 {
		return Summary{}, fmt.Errorf("%w: bins must be >= 1, got %d", ErrInvalidParameter, bins)
	}

	sorted := append([]float64(nil), terminal...)
	sort.Float64s(sorted)

	s := Summary{
		N:         len(terminal),
		Mean:      stat.Mean(terminal, nil),
		Min:       floats.Min(sorted),
		Max:       floats.Max(sorted),
		Quantiles: make(map[string]float64, len(summaryCuts)),
	}
	if s.N > 1 {
		s.StdDev = stat.StdDev(terminal, nil)
	}
	for name, q := range summaryCuts {
		s.Quantiles[name] = stat.Quantile(q, stat.Empirical, sorted, nil)
	}

	// Degenerate distribution (e.g. sigma = 0): one bin holds everything.
	if s.Max == s.Min {
		s.Histogram = []Bin{{Low: s.Min, High: s.Max, Count: s.N, Fraction: 1}}
		return s, nil
	}

	width := (s.Max - s.Min) / float64(bins)
	hist := make([]Bin, bins)
	for i := range hist {
		hist[i].Low = s.Min + float64(i)*width
		hist[i].High = s.Min + float64(i+1)*width
	}
	hist[bins-1].High = s.Max
	for _, v := range terminal {
		i := int((v - s.Min) / width)
		if i >= bins {
			i = bins - 1 // v == max lands in the last bin
		}
		hist[i].Count++
	}
	for i := range hist {
		hist[i].Fraction = float64(hist[i].Count) / float64(s.N)
	}
	s.Histogram = hist

	return s, nil
}
