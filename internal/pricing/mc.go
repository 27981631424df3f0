// Package pricing implements European call option valuation: a Monte Carlo
// pipeline over geometric Brownian motion plus the closed-form Black-Scholes
// reference used to cross-check it.
//
// The Monte Carlo path is three pure stages composed in order:
//
//	TerminalPrices -> CallPayoffs -> PresentValue
//
// Each stage validates its own inputs eagerly and has no hidden state; the
// only entropy consumed is whatever NormalSource the caller injects, so a
// seeded source replays a simulation draw-for-draw.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrInvalidParameter marks configuration errors: non-positive spot,
	// strike or expiry, negative volatility, sample count below one.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptyInput marks a zero-length payoff sequence handed to the
	// estimator stage.
	ErrEmptyInput = errors.New("empty input")
)

// MarketParams are the GBM model inputs shared by the sampler and the
// discounting stage. Callers must pass the same values to both.
type MarketParams struct {
	Spot   float64 `json:"spot"`         // current underlying price, > 0
	Rate   float64 `json:"rate"`         // continuously compounded annual risk-free rate
	Vol    float64 `json:"vol"`          // annualized volatility, >= 0
	Expiry float64 `json:"expiry_years"` // time to expiry in years, > 0
}

// Validate rejects parameter sets the model is undefined for.
func (p MarketParams) Validate() error {
	switch {
	case p.Spot <= 0:
		return fmt.Errorf("%w: spot must be > 0, got %g", ErrInvalidParameter, p.Spot)
	case p.Expiry <= 0:
		return fmt.Errorf("%w: expiry must be > 0, got %g", ErrInvalidParameter, p.Expiry)
	case p.Vol < 0:
		return fmt.Errorf("%w: vol must be >= 0, got %g", ErrInvalidParameter, p.Vol)
	}
	return nil
}

// TerminalPrices maps a batch of standard-normal draws to simulated prices
// at expiry in a single elementwise pass:
//
//	S_i = S0 * exp((r - sigma^2/2)*T + sigma*sqrt(T)*Z_i)
//
// With sigma = 0 every output collapses to the deterministic forward
// S0*exp(r*T) regardless of the draws. An empty draw slice yields an empty
// result; only the estimator stage insists on a non-empty batch.
func TerminalPrices(p MarketParams, draws []float64) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	drift := (p.Rate - 0.5*p.Vol*p.Vol) * p.Expiry
	diffusion := p.Vol * math.Sqrt(p.Expiry)
	out := make([]float64, len(draws))
	for i, z := range draws {
		out[i] = p.Spot * math.Exp(drift+diffusion*z)
	}
	return out, nil
}

// CallPayoffs converts terminal prices into call payoffs max(S-K, 0).
// Output length equals input length and every element is >= 0.
func CallPayoffs(terminal []float64, strike float64) ([]float64, error) {
	if strike <= 0 {
		return nil, fmt.Errorf("%w: strike must be > 0, got %g", ErrInvalidParameter, strike)
	}
	out := make([]float64, len(terminal))
	for i, s := range terminal {
		out[i] = math.Max(s-strike, 0)
	}
	return out, nil
}

// PresentValue reduces a payoff batch to the discounted mean
// exp(-r*T) * mean(payoffs). The rate and expiry must be the same values
// the terminal prices were sampled with; that consistency is the caller's
// invariant, not checked here.
func PresentValue(payoffs []float64, rate, expiry float64) (float64, error) {
	if len(payoffs) == 0 {
		return 0, fmt.Errorf("%w: no payoffs to average", ErrEmptyInput)
	}
	return math.Exp(-rate*expiry) * stat.Mean(payoffs, nil), nil
}

// Estimate is the output of a full Monte Carlo run.
type Estimate struct {
	Value    float64 // discounted mean payoff
	StdError float64 // discounted standard error of the mean, 0 when n < 2
	Samples  int
}

// Price runs the whole pipeline: draw n variates from src, sample terminal
// prices, evaluate call payoffs, discount the average. The terminal prices
// are returned alongside the estimate so callers can summarize or plot the
// simulated distribution without re-drawing.
func Price(p MarketParams, strike float64, n int, src NormalSource) (Estimate, []float64, error) {
	if n < 1 {
		return Estimate{}, nil, fmt.Errorf("%w: need at least one sample, got %d", ErrInvalidParameter, n)
	}
	terminal, err := TerminalPrices(p, src.Draw(n))
	if err != nil {
		return Estimate{}, nil, err
	}
	payoffs, err := CallPayoffs(terminal, strike)
	if err != nil {
		return Estimate{}, nil, err
	}
	pv, err := PresentValue(payoffs, p.Rate, p.Expiry)
	if err != nil {
		return Estimate{}, nil, err
	}
	se := 0.0
	if n > 1 {
		se = math.Exp(-p.Rate*p.Expiry) * stat.StdDev(payoffs, nil) / math.Sqrt(float64(n))
	}
	return Estimate{Value: pv, StdError: se, Samples: n}, terminal, nil
}
