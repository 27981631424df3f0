package simulate

import (
	"errors"
	"testing"

	"github.com/contactkeval/option-mc/internal/data"
	"github.com/contactkeval/option-mc/internal/pricing"
)

func baseConfig() Config {
	return Config{
		Spot:    100,
		Strike:  105,
		Rate:    0.03,
		Vol:     0.4,
		Expiry:  0.25,
		Samples: 20000,
		Seed:    77,
	}
}

func TestEngineRun(t *testing.T) {
	cfg := baseConfig()
	res, err := NewEngine(&cfg, nil).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Samples != 20000 {
		t.Fatalf("expected 20000 samples, got %d", res.Samples)
	}
	if res.Summary.N != 20000 {
		t.Fatalf("summary covers %d prices, expected 20000", res.Summary.N)
	}
	est := res.Estimate.InexactFloat64()
	if est < 0 {
		t.Fatalf("negative price estimate %f", est)
	}
	lo, hi := res.CILow.InexactFloat64(), res.CIHigh.InexactFloat64()
	if lo > est || hi < est {
		t.Fatalf("estimate %f outside its own CI [%f, %f]", est, lo, hi)
	}
	// With 20k samples the analytic price should sit inside a few standard
	// errors of the estimate.
	se := res.StdError.InexactFloat64()
	if res.Gap.InexactFloat64() > 6*se {
		t.Fatalf("analytic gap %v exceeds 6 standard errors (%f)", res.Gap, se)
	}
}

// Same seed, same result; the pipeline has no hidden state.
func TestEngineRunReproducible(t *testing.T) {
	cfgA := baseConfig()
	cfgB := baseConfig()

	a, err := NewEngine(&cfgA, nil).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewEngine(&cfgB, nil).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Estimate.Equal(b.Estimate) {
		t.Fatalf("estimates differ under same seed: %v vs %v", a.Estimate, b.Estimate)
	}
	if a.Summary.Mean != b.Summary.Mean {
		t.Fatalf("summary means differ under same seed: %v vs %v", a.Summary.Mean, b.Summary.Mean)
	}
}

func TestEngineFillsDefaults(t *testing.T) {
	cfg := Config{Spot: 100, Strike: 100, Rate: 0.01, Vol: 0.2, Expiry: 1}
	res, err := NewEngine(&cfg, nil).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Samples != 100_000 {
		t.Fatalf("expected default 100000 samples, got %d", res.Samples)
	}
	if len(res.Summary.Histogram) != 40 {
		t.Fatalf("expected default 40 bins, got %d", len(res.Summary.Histogram))
	}
	if res.Seed == 0 {
		t.Fatal("expected a clock-derived seed, got 0")
	}
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.Spot = -1
	if _, err := NewEngine(&cfg, nil).Run(); !errors.Is(err, pricing.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}

	cfg = baseConfig()
	cfg.Strike = 0
	if _, err := NewEngine(&cfg, nil).Run(); !errors.Is(err, pricing.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for zero strike, got %v", err)
	}
}

func TestEngineCalibrates(t *testing.T) {
	cfg := baseConfig()
	cfg.Underlying = "TEST"
	cfg.Calibrate = true
	cfg.LookbackDays = 120

	res, err := NewEngine(&cfg, data.NewSyntheticProvider(5)).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Params.Spot == 100 && res.Params.Vol == 0.4 {
		t.Fatal("calibration left both spot and vol untouched")
	}
	if res.Params.Spot <= 0 || res.Params.Vol <= 0 {
		t.Fatalf("calibrated params out of range: %+v", res.Params)
	}
}

// Zero-vol degenerates cleanly: every terminal price is the forward and the
// estimate matches the analytic value exactly up to rounding.
func TestEngineZeroVol(t *testing.T) {
	cfg := baseConfig()
	cfg.Vol = 0
	cfg.Strike = 95
	cfg.Samples = 100

	res, err := NewEngine(&cfg, nil).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Summary.StdDev != 0 {
		t.Fatalf("expected degenerate distribution, stddev %f", res.Summary.StdDev)
	}
	if res.Gap.InexactFloat64() > 1e-3 {
		t.Fatalf("zero-vol gap should vanish, got %v", res.Gap)
	}
}
