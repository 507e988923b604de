// Package data provides market data provider implementations.
//
// A Provider supplies an ordered daily price history for one ticker.
// The simulation core only requires that bars be sorted ascending by
// date, free of duplicate dates, and free of non-positive closes; it
// does not enforce any trading-calendar validation, so gaps are fine.
package data

import (
	"fmt"
	"sort"
	"time"
)

// Provider supplies market data.
type Provider interface {
	GetDailyBars(ticker string, fromDate, toDate time.Time) ([]Bar, error)
}

// Bar simplified daily OHLC
type Bar struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
	Vol   float64
}

// ValidateBars checks the ordering and price contract the simulation
// core relies on: strictly increasing dates and positive closes.
func ValidateBars(bars []Bar) error {
	for i, b := range bars {
		if b.Close <= 0 {
			return fmt.Errorf("bar %s: non-positive close %g", b.Date.Format("2006-01-02"), b.Close)
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("bar %s: dates not strictly increasing", b.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// SortBars orders bars ascending by date in place.
func SortBars(bars []Bar) {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
}

// Closes extracts the closing price series from bars.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
