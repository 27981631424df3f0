// Package simulate wires configuration, market data calibration and the
// pricing pipeline into one runnable engine.
package simulate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/option-mc/internal/data"
	"github.com/contactkeval/option-mc/internal/logger"
	"github.com/contactkeval/option-mc/internal/pricing"
)

type Engine struct {
	cfg  *Config
	prov data.Provider
}

// Config struct
type Config struct {
	Underlying   string  `json:"underlying,omitempty"`    // e.g. "AAPL", only used when calibrating
	Spot         float64 `json:"spot"`                    // current underlying price
	Strike       float64 `json:"strike"`                  // option strike
	Rate         float64 `json:"rate"`                    // annual risk-free rate
	Vol          float64 `json:"vol"`                     // annualized volatility
	Expiry       float64 `json:"expiry_years"`            // time to expiry in years
	Samples      int     `json:"samples,omitempty"`       // Monte Carlo draws, default 100000
	Bins         int     `json:"bins,omitempty"`          // histogram bins, default 40
	Seed         uint64  `json:"seed,omitempty"`          // random seed, 0 = from clock
	Calibrate    bool    `json:"calibrate,omitempty"`     // pull spot/vol from the data provider
	LookbackDays int     `json:"lookback_days,omitempty"` // calibration window, default 252
	OutputDir    string  `json:"output_dir,omitempty"`    // report directory
	Verbosity    int     `json:"verbosity,omitempty"`     // 0=errors,1=info,2=debug,3=trace
}

// Result is the output of one simulation run. Monetary fields are rounded
// decimals for the report form; Summary keeps raw floats.
type Result struct {
	Params    pricing.MarketParams `json:"params"`
	Strike    float64              `json:"strike"`
	Samples   int                  `json:"samples"`
	Seed      uint64               `json:"seed"`
	Estimate  decimal.Decimal      `json:"estimate"`     // Monte Carlo price
	StdError  decimal.Decimal      `json:"std_error"`    // standard error of the estimate
	CILow     decimal.Decimal      `json:"ci95_low"`     // 95% confidence interval
	CIHigh    decimal.Decimal      `json:"ci95_high"`    //
	Analytic  decimal.Decimal      `json:"analytic"`     // closed-form Black-Scholes price
	Gap       decimal.Decimal      `json:"analytic_gap"` // |estimate - analytic|
	Summary   pricing.Summary      `json:"summary"`      // terminal-price distribution
	ElapsedMs int64                `json:"elapsed_ms"`
}

func NewEngine(cfg *Config, prov data.Provider) *Engine {
	return &Engine{cfg: cfg, prov: prov}
}

// Run executes one simulation: fill config defaults, optionally calibrate
// spot/vol from market data, draw, price, cross-check against the analytic
// formula and assemble the result.
func (e *Engine) Run() (*Result, error) {
	cfg := e.cfg
	// fill defaults
	if cfg.Samples == 0 {
		cfg.Samples = 100_000
	}
	if cfg.Bins == 0 {
		cfg.Bins = 40
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if cfg.LookbackDays == 0 {
		cfg.LookbackDays = 252
	}
	if cfg.Verbosity < 0 || cfg.Verbosity > 3 {
		cfg.Verbosity = 1
	}
	logger.SetVerbosity(cfg.Verbosity)

	params := pricing.MarketParams{Spot: cfg.Spot, Rate: cfg.Rate, Vol: cfg.Vol, Expiry: cfg.Expiry}
	if cfg.Calibrate && e.prov != nil {
		calibrated, err := e.calibrate(params)
		if err != nil {
			logger.Errorf("calibration failed, keeping configured params: %v", err)
		} else {
			params = calibrated
		}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	src := pricing.NewSeededSource(cfg.Seed)
	est, terminal, err := pricing.Price(params, cfg.Strike, cfg.Samples, src)
	if err != nil {
		return nil, err
	}
	summary, err := pricing.Summarize(terminal, cfg.Bins)
	if err != nil {
		return nil, err
	}

	analytic := pricing.BlackScholesPrice(true, params.Spot, cfg.Strike, params.Expiry, params.Rate, params.Vol)
	z := pricing.NormQuantile(0.975)

	logger.Infof("mc=%.4f se=%.4f analytic=%.4f n=%d seed=%d",
		est.Value, est.StdError, analytic, est.Samples, cfg.Seed)

	gap := est.Value - analytic
	if gap < 0 {
		gap = -gap
	}
	return &Result{
		Params:    params,
		Strike:    cfg.Strike,
		Samples:   est.Samples,
		Seed:      cfg.Seed,
		Estimate:  money(est.Value),
		StdError:  money(est.StdError),
		CILow:     money(est.Value - z*est.StdError),
		CIHigh:    money(est.Value + z*est.StdError),
		Analytic:  money(analytic),
		Gap:       money(gap),
		Summary:   summary,
		ElapsedMs: time.Since(start).Milliseconds(),
	}, nil
}

// calibrate replaces spot with the latest close and vol with annualized
// historical volatility over the lookback window.
func (e *Engine) calibrate(params pricing.MarketParams) (pricing.MarketParams, error) {
	cfg := e.cfg
	to := time.Now()
	from := to.AddDate(0, 0, -cfg.LookbackDays)
	bars, err := e.prov.GetDailyBars(cfg.Underlying, from, to)
	if err != nil {
		return params, err
	}
	closes := data.ExtractCloses(bars)
	if len(closes) > 0 {
		params.Spot = closes[len(closes)-1]
	}
	if hv := data.AnnualizedVolatility(closes); hv > 0 {
		params.Vol = hv
	}
	logger.Infof("calibrated %s: spot=%.2f vol=%.2f%% (%d bars)",
		cfg.Underlying, params.Spot, params.Vol*100, len(bars))
	return params, nil
}

// money rounds a monetary float for the report form.
func money(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x).Round(4)
}
