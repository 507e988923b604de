package backtest

import (
	"math"

	"github.com/montanaflynn/stats"
)

// tradingDaysPerYear is the annualization base for daily return
// statistics and option tenors.
const tradingDaysPerYear = 252.0

// RollingVolatility derives an annualized volatility series from a
// closing price series.
//
// The return between consecutive closes is r_t = ln(P_t / P_{t-1}).
// Each output entry is the sample standard deviation (ddof=1) of the
// trailing window returns, annualized by sqrt(252). The result is
// aligned 1:1 with closes; the first window entries are NaN since the
// trailing window is not yet full. Callers must drop NaN entries
// before simulating.
//
// With fewer than window+1 closes every entry is NaN. That is a valid
// degenerate state (insufficient data), not a fault.
func RollingVolatility(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 1 || len(closes) <= window {
		return out
	}

	rets := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		rets[i-1] = math.Log(closes[i] / closes[i-1])
	}

	for i := window; i < len(closes); i++ {
		// returns for closes[i-window+1 .. i]
		sd, err := stats.StandardDeviationSample(rets[i-window : i])
		if err != nil {
			continue
		}
		out[i] = sd * math.Sqrt(tradingDaysPerYear)
	}
	return out
}
