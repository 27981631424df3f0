package pricing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// stdNormal evaluates the unit normal CDF/PDF/quantile. No Src is set:
// analytic lookups never consume entropy.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// BlackScholesPrice calculates the closed-form price of a European option
// under the Black-Scholes model. It is the analytic cross-check for the
// Monte Carlo estimate produced by Price.
//
// Parameters:
//   - isCall: true for call option, false for put option
//   - S: spot price of the underlying asset
//   - K: strike price of the option
//   - T: time to expiry in years
//   - r: risk-free interest rate (annual, continuously compounded)
//   - sigma: volatility of the underlying asset (annual, as a decimal)
//
// Degenerate inputs do not error: at T <= 0 the option is worth its
// intrinsic value, and at sigma = 0 the underlying is a deterministic
// forward, so the price is the intrinsic value against the discounted
// strike. Neither case divides by zero.
func BlackScholesPrice(
	isCall bool,
	S float64, // spot
	K float64, // strike
	T float64, // time to expiry in years
	r float64, // risk-free rate
	sigma float64, // volatility
) float64 {

	if T <= 0 {
		if isCall {
			return math.Max(0, S-K)
		}
		return math.Max(0, K-S)
	}
	if sigma <= 0 {
		if isCall {
			return math.Max(0, S-K*math.Exp(-r*T))
		}
		return math.Max(0, K*math.Exp(-r*T)-S)
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)

	if isCall {
		return S*stdNormal.CDF(d1) - K*math.Exp(-r*T)*stdNormal.CDF(d2)
	}
	return K*math.Exp(-r*T)*stdNormal.CDF(-d2) - S*stdNormal.CDF(-d1)
}

// BlackScholesVega calculates the sensitivity of the option price to a
// change in volatility. Identical for calls and puts. Returns 0 if T or
// sigma is non-positive.
func BlackScholesVega(
	S float64,
	K float64,
	T float64,
	r float64,
	sigma float64,
) float64 {

	if T <= 0 || sigma <= 0 {
		return 0
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	return S * stdNormal.Prob(d1) * math.Sqrt(T)
}

// ImpliedVolATM solves for the volatility that makes the Black-Scholes
// call price match the observed market price (average of call and put
// quotes at the strike), using Newton-Raphson with guardrails on the
// iterate. Returns an error if the expiry is invalid or the solver fails
// to converge.
func ImpliedVolATM(
	S, K, T, r float64,
	callPrice, putPrice float64,
) (float64, error) {

	if T <= 0 {
		return 0, fmt.Errorf("invalid expiry")
	}

	marketPrice := (callPrice + putPrice) / 2

	// Initial guess: 20%
	sigma := 0.20

	const (
		maxIter = 100
		tol     = 1e-6
	)

	for i := 0; i < maxIter; i++ {
		price := BlackScholesPrice(true, S, K, T, r, sigma)
		diff := price - marketPrice

		if math.Abs(diff) < tol {
			return sigma, nil
		}

		vega := BlackScholesVega(S, K, T, r, sigma)
		if vega < 1e-8 {
			break
		}

		sigma -= diff / vega

		// Guardrails
		if sigma <= 0 {
			sigma = 1e-4
		}
		if sigma > 5 {
			sigma = 5
		}
	}

	return 0, fmt.Errorf("implied vol did not converge")
}

// NormQuantile returns the standard-normal quantile for probability p,
// e.g. NormQuantile(0.975) ~= 1.96 for a 95% confidence interval.
// Panics if p is not strictly between 0 and 1.
func NormQuantile(p float64) float64 {
	if p <= 0 || p >= 1 {
		panic("NormQuantile: p must be in (0,1)")
	}
	return stdNormal.Quantile(p)
}
