package pricing

import (
	"errors"
	"math"
	"testing"
)

func TestSummarizeBasics(t *testing.T) {
	terminal := []float64{90, 95, 100, 105, 110}

	s, err := Summarize(terminal, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.N != 5 {
		t.Fatalf("expected N=5, got %d", s.N)
	}
	if s.Mean != 100 {
		t.Fatalf("expected mean 100, got %f", s.Mean)
	}
	if s.Min != 90 || s.Max != 110 {
		t.Fatalf("expected range [90,110], got [%f,%f]", s.Min, s.Max)
	}
	if len(s.Histogram) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(s.Histogram))
	}

	total := 0
	frac := 0.0
	for _, b := range s.Histogram {
		total += b.Count
		frac += b.Fraction
	}
	if total != 5 {
		t.Fatalf("histogram counts sum to %d, expected 5", total)
	}
	if math.Abs(frac-1) > 1e-12 {
		t.Fatalf("histogram fractions sum to %f, expected 1", frac)
	}
	if s.Quantiles["p50"] != 100 {
		t.Fatalf("expected median 100, got %f", s.Quantiles["p50"])
	}
}

// A degenerate (zero-vol) distribution collapses into a single bin.
func TestSummarizeDegenerate(t *testing.T) {
	s, err := Summarize([]float64{100.753, 100.753, 100.753}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Histogram) != 1 {
		t.Fatalf("expected a single bin, got %d", len(s.Histogram))
	}
	if s.Histogram[0].Count != 3 || s.Histogram[0].Fraction != 1 {
		t.Fatalf("unexpected bin %+v", s.Histogram[0])
	}
	if s.StdDev != 0 {
		t.Fatalf("expected zero stddev, got %f", s.StdDev)
	}
}

func TestSummarizeRejectsBadInput(t *testing.T) {
	if _, err := Summarize(nil, 10); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := Summarize([]float64{1, 2}, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for bins=0, got %v", err)
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	terminal := []float64{110, 90, 100}
	if _, err := Summarize(terminal, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if terminal[0] != 110 || terminal[1] != 90 || terminal[2] != 100 {
		t.Fatalf("input reordered: %v", terminal)
	}
}
