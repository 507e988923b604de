package backtest

import (
	"encoding/json"
	"math"
	"time"
)

// daysPerYear uses the Julian year so annualization matches the
// 365.25-day convention of the calendar-day elapsed period.
const daysPerYear = 365.25

// TotalReturn computes (last - first) / first over a value series.
// Returns NaN for an empty series or a zero first value instead of
// dividing by zero.
func TotalReturn(series []ValueSample) float64 {
	if len(series) == 0 || series[0].Value == 0 {
		return math.NaN()
	}
	first := series[0].Value
	last := series[len(series)-1].Value
	return (last - first) / first
}

// AnnualizedReturn converts a total return over the calendar period
// [start, end] into an annual rate: (1+total)^(365.25/days) - 1.
// Returns NaN when the elapsed period is zero or negative, or when the
// total return is itself undefined.
func AnnualizedReturn(totalReturn float64, start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24
	if days <= 0 || math.IsNaN(totalReturn) {
		return math.NaN()
	}
	return math.Pow(1+totalReturn, daysPerYear/days) - 1
}

// MarshalJSON encodes undefined (NaN or infinite) metrics as null,
// since encoding/json rejects NaN outright.
func (m Metrics) MarshalJSON() ([]byte, error) {
	type jsonMetrics struct {
		StrategyTotalReturn      *float64 `json:"strategy_total_return"`
		StrategyAnnualizedReturn *float64 `json:"strategy_annualized_return"`
		BuyHoldTotalReturn       *float64 `json:"buy_hold_total_return"`
		BuyHoldAnnualizedReturn  *float64 `json:"buy_hold_annualized_return"`
	}
	return json.Marshal(jsonMetrics{
		StrategyTotalReturn:      nullable(m.StrategyTotalReturn),
		StrategyAnnualizedReturn: nullable(m.StrategyAnnualizedReturn),
		BuyHoldTotalReturn:       nullable(m.BuyHoldTotalReturn),
		BuyHoldAnnualizedReturn:  nullable(m.BuyHoldAnnualizedReturn),
	})
}

func nullable(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// seriesMetrics computes both return metrics for one value series.
func seriesMetrics(series []ValueSample) (total, annualized float64) {
	total = TotalReturn(series)
	if len(series) == 0 {
		return total, math.NaN()
	}
	annualized = AnnualizedReturn(total, series[0].Date, series[len(series)-1].Date)
	return total, annualized
}
