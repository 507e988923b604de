package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateBars(t *testing.T) {
	good := []Bar{
		{Date: day(2023, 1, 2), Close: 100},
		{Date: day(2023, 1, 3), Close: 101},
	}
	require.NoError(t, ValidateBars(good))

	nonPositive := []Bar{{Date: day(2023, 1, 2), Close: 0}}
	require.Error(t, ValidateBars(nonPositive))

	outOfOrder := []Bar{
		{Date: day(2023, 1, 3), Close: 100},
		{Date: day(2023, 1, 2), Close: 101},
	}
	require.Error(t, ValidateBars(outOfOrder))

	duplicate := []Bar{
		{Date: day(2023, 1, 2), Close: 100},
		{Date: day(2023, 1, 2), Close: 101},
	}
	require.Error(t, ValidateBars(duplicate))
}

func TestCSVProviderReadsBars(t *testing.T) {
	dir := t.TempDir()
	csvBody := "date,close\n" +
		"2023-01-02,100.5\n" +
		"2023-01-03,101.25\n" +
		"2023-01-04,99.75\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SPY.csv"), []byte(csvBody), 0644))

	prov := NewCSVDataProvider(dir)
	bars, err := prov.GetDailyBars("spy", day(2023, 1, 1), day(2023, 12, 31))
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, day(2023, 1, 2), bars[0].Date)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 99.75, bars[2].Close)
}

func TestCSVProviderDateRangeFilter(t *testing.T) {
	dir := t.TempDir()
	csvBody := "2023-01-02,100\n2023-02-01,110\n2023-03-01,120\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL.csv"), []byte(csvBody), 0644))

	prov := NewCSVDataProvider(dir)
	bars, err := prov.GetDailyBars("AAPL", day(2023, 1, 15), day(2023, 2, 15))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 110.0, bars[0].Close)
}

func TestCSVProviderOHLCRows(t *testing.T) {
	dir := t.TempDir()
	csvBody := "date,open,high,low,close,volume\n" +
		"2023-01-02,100,102,99,101,5000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SPY.csv"), []byte(csvBody), 0644))

	prov := NewCSVDataProvider(dir)
	bars, err := prov.GetDailyBars("SPY", day(2023, 1, 1), day(2023, 1, 31))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 102.0, bars[0].High)
	assert.Equal(t, 5000.0, bars[0].Vol)
}

func TestCSVProviderMissingFile(t *testing.T) {
	prov := NewCSVDataProvider(t.TempDir())
	_, err := prov.GetDailyBars("MSFT", day(2023, 1, 1), day(2023, 12, 31))
	require.Error(t, err)
}

func TestSyntheticProviderDeterministic(t *testing.T) {
	from, to := day(2023, 1, 2), day(2023, 3, 31)

	a, err := NewSyntheticProvider(42).GetDailyBars("SPY", from, to)
	require.NoError(t, err)
	b, err := NewSyntheticProvider(42).GetDailyBars("SPY", from, to)
	require.NoError(t, err)

	require.Equal(t, a, b, "same seed must reproduce the same series")
	require.NotEmpty(t, a)
	for _, bar := range a {
		assert.NotEqual(t, time.Saturday, bar.Date.Weekday())
		assert.NotEqual(t, time.Sunday, bar.Date.Weekday())
	}
	require.NoError(t, ValidateBars(a))
}
