// Package report writes backtest results for external consumers: a CSV
// of both value series for charting, and a JSON summary of the metrics.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/contactkeval/covered-call/internal/backtest"
)

type summary struct {
	Ticker     string              `json:"ticker"`
	StrikeRule string              `json:"strike_rule"`
	Days       int                 `json:"days"`
	Metrics    map[string]*float64 `json:"metrics"`
}

// WriteJSON writes summary.json to outdir. Undefined metrics (NaN)
// are encoded as null since JSON has no NaN literal.
func WriteJSON(res *backtest.Result, cfg *backtest.Config, outdir string) error {
	s := summary{
		Ticker:     cfg.Ticker,
		StrikeRule: cfg.StrikeRule,
		Days:       len(res.Strategy),
		Metrics: map[string]*float64{
			"strategy_total_return":      jsonNumber(res.Metrics.StrategyTotalReturn),
			"strategy_annualized_return": jsonNumber(res.Metrics.StrategyAnnualizedReturn),
			"buy_hold_total_return":      jsonNumber(res.Metrics.BuyHoldTotalReturn),
			"buy_hold_annualized_return": jsonNumber(res.Metrics.BuyHoldAnnualizedReturn),
		},
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "summary.json"), b, 0644)
}

// WriteCSV writes portfolio_values.csv to outdir: one row per simulated
// day with the strategy and buy-and-hold marks.
func WriteCSV(res *backtest.Result, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "portfolio_values.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"date", "strategy_value", "buy_and_hold_value"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for i, s := range res.Strategy {
		row := []string{
			s.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", s.Value),
			fmt.Sprintf("%.2f", res.BuyAndHold[i].Value),
		}
		_ = w.Write(row)
	}
	return nil
}

func jsonNumber(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
