// Package pricing implements closed-form Black-Scholes pricing for
// European options, plus the normal-distribution helpers it needs.
//
// All prices are per share. Callers multiply by the contract share
// count to get a total premium.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

const sqrt2Pi = 2.5066282746310002

// ErrDegenerateInput marks pricing calls with a non-positive spot,
// strike, expiry, or volatility. Such inputs would otherwise produce
// NaN premiums that silently corrupt downstream cash balances, so the
// guard fails fast instead.
var ErrDegenerateInput = errors.New("degenerate pricing input")

// Call returns the Black-Scholes price of a European call.
//
// Parameters:
//   - S: spot price of the underlying
//   - K: strike price
//   - T: time to expiry in years
//   - r: risk-free rate (annual)
//   - sigma: volatility (annual, as a decimal)
func Call(S, K, T, r, sigma float64) (float64, error) {
	if err := checkInputs(S, K, T, sigma); err != nil {
		return 0, err
	}

	d1, d2 := dValues(S, K, T, r, sigma)
	return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2), nil
}

// Put returns the Black-Scholes price of a European put.
// Same domain constraints as Call.
func Put(S, K, T, r, sigma float64) (float64, error) {
	if err := checkInputs(S, K, T, sigma); err != nil {
		return 0, err
	}

	d1, d2 := dValues(S, K, T, r, sigma)
	return K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1), nil
}

// Vega measures the sensitivity of the option price to changes in
// volatility. Identical for calls and puts. Returns 0 for degenerate
// inputs since vega is only used as a Newton-Raphson denominator.
func Vega(S, K, T, r, sigma float64) float64 {
	if S <= 0 || K <= 0 || T <= 0 || sigma <= 0 {
		return 0
	}

	d1, _ := dValues(S, K, T, r, sigma)
	return S * normPDF(d1) * math.Sqrt(T)
}

// ImpliedVolATM solves for the volatility that makes the Black-Scholes
// call price match the market price (average of call and put prices at
// the strike) using Newton-Raphson iteration.
func ImpliedVolATM(S, K, T, r, callPrice, putPrice float64) (float64, error) {
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
		price, err := Call(S, K, T, r, sigma)
		if err != nil {
			return 0, err
		}
		diff := price - marketPrice

		if math.Abs(diff) < tol {
			return sigma, nil
		}

		vega := Vega(S, K, T, r, sigma)
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

func checkInputs(S, K, T, sigma float64) error {
	if S <= 0 || K <= 0 || T <= 0 || sigma <= 0 {
		return fmt.Errorf("%w: S=%g K=%g T=%g sigma=%g", ErrDegenerateInput, S, K, T, sigma)
	}
	return nil
}

func dValues(S, K, T, r, sigma float64) (d1, d2 float64) {
	d1 = (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 = d1 - sigma*math.Sqrt(T)
	return d1, d2
}

// normPDF is the standard normal probability density at x.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// normCDF is the standard normal cumulative distribution at x, via the
// error function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// NormInv computes the inverse of the standard normal cumulative
// distribution function (quantile function) for p in (0, 1), using a
// rational approximation based on Wichura's method.
//
// Panics if p is not strictly between 0 and 1.
//
// Example:
//
//	NormInv(0.975) // ≈ 1.96
func NormInv(p float64) float64 {
	if p <= 0 || p >= 1 {
		panic("NormInv: p must be in (0,1)")
	}

	// Coefficients
	a := []float64{
		-3.969683028665376e+01,
		2.209460984245205e+02,
		-2.759285104469687e+02,
		1.383577518672690e+02,
		-3.066479806614716e+01,
		2.506628277459239e+00,
	}

	b := []float64{
		-5.447609879822406e+01,
		1.615858368580409e+02,
		-1.556989798598866e+02,
		6.680131188771972e+01,
		-1.328068155288572e+01,
	}

	c := []float64{
		-7.784894002430293e-03,
		-3.223964580411365e-01,
		-2.400758277161838e+00,
		-2.549732539343734e+00,
		4.374664141464968e+00,
		2.938163982698783e+00,
	}

	d := []float64{
		7.784695709041462e-03,
		3.224671290700398e-01,
		2.445134137142996e+00,
		3.754408661907416e+00,
	}

	plow := 0.02425
	phigh := 1 - plow

	var q, r float64

	if p < plow {
		q = math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}

	if p > phigh {
		q = math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}

	q = p - 0.5
	r = q * q
	return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
		(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
}
