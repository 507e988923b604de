package backtest

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalReturn(t *testing.T) {
	series := []ValueSample{
		{Date: td(2023, 1, 2), Value: 10000},
		{Date: td(2023, 6, 1), Value: 10500},
		{Date: td(2023, 12, 29), Value: 12000},
	}
	assert.InDelta(t, 0.20, TotalReturn(series), 1e-12)
}

func TestTotalReturnUndefined(t *testing.T) {
	assert.True(t, math.IsNaN(TotalReturn(nil)))
	assert.True(t, math.IsNaN(TotalReturn([]ValueSample{})))

	zeroFirst := []ValueSample{
		{Date: td(2023, 1, 2), Value: 0},
		{Date: td(2023, 1, 3), Value: 100},
	}
	assert.True(t, math.IsNaN(TotalReturn(zeroFirst)))
}

func TestAnnualizedReturnOneYear(t *testing.T) {
	start := td(2023, 1, 2)
	// exactly one Julian year, so the annualized return equals the
	// total return
	end := start.Add(time.Duration(365.25 * 24 * float64(time.Hour)))

	ann := AnnualizedReturn(0.21, start, end)
	assert.InDelta(t, 0.21, ann, 1e-12)
}

func TestAnnualizedReturnTwoYears(t *testing.T) {
	start := td(2023, 1, 2)
	end := start.Add(time.Duration(2 * 365.25 * 24 * float64(time.Hour)))

	// 21% over two years compounds from ~10.0% annually
	ann := AnnualizedReturn(0.21, start, end)
	assert.InDelta(t, math.Sqrt(1.21)-1, ann, 1e-12)
}

func TestAnnualizedReturnUndefined(t *testing.T) {
	start := td(2023, 1, 2)

	assert.True(t, math.IsNaN(AnnualizedReturn(0.10, start, start)), "zero elapsed period")
	assert.True(t, math.IsNaN(AnnualizedReturn(0.10, start, start.AddDate(0, 0, -5))), "negative period")
	assert.True(t, math.IsNaN(AnnualizedReturn(math.NaN(), start, start.AddDate(1, 0, 0))))
}

func TestMetricsMarshalNaNAsNull(t *testing.T) {
	m := Metrics{
		StrategyTotalReturn:      math.NaN(),
		StrategyAnnualizedReturn: math.NaN(),
		BuyHoldTotalReturn:       0.25,
		BuyHoldAnnualizedReturn:  0.12,
	}

	b, err := json.Marshal(m)
	require.NoError(t, err)

	var got map[string]*float64
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Nil(t, got["strategy_total_return"])
	require.NotNil(t, got["buy_hold_total_return"])
	assert.InDelta(t, 0.25, *got["buy_hold_total_return"], 1e-12)
}

func TestBuyHoldReturnTwoWaysAgree(t *testing.T) {
	series := []ValueSample{
		{Date: td(2023, 1, 2), Value: 10050},
		{Date: td(2023, 3, 1), Value: 9800},
		{Date: td(2023, 6, 1), Value: 11300},
	}

	direct := (series[len(series)-1].Value - series[0].Value) / series[0].Value
	viaAnalyzer := TotalReturn(series)
	require.InDelta(t, direct, viaAnalyzer, 1e-12)
}
