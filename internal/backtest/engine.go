// Package backtest simulates a covered-call options-selling strategy
// against a buy-and-hold baseline over a historical daily price series.
//
// The simulation is single-threaded and deterministic: all inputs are
// materialized before the day loop runs, and identical inputs and
// parameters reproduce identical results.
package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/contactkeval/covered-call/internal/data"
	"github.com/contactkeval/covered-call/internal/logger"
	"github.com/contactkeval/covered-call/internal/pricing"
)

type Engine struct {
	cfg  *Config
	prov data.Provider
}

// Config struct
type Config struct {
	Ticker            string    `json:"ticker"`                        // e.g. "SPY"
	Start             time.Time `json:"start,omitempty"`               // inclusive, default: one year before now
	End               time.Time `json:"end,omitempty"`                 // inclusive, default: now
	Window            int       `json:"window,omitempty"`              // rolling volatility window in trading days, default 30
	RiskFreeRate      float64   `json:"risk_free_rate,omitempty"`      // annual, default 0.01
	SharesPerContract int       `json:"shares_per_contract,omitempty"` // default 100
	StrikeRule        string    `json:"strike_rule,omitempty"`         // strike expression over S, default "S * 1.05"
	TenorDays         int       `json:"tenor_days,omitempty"`          // option tenor in calendar days, default 30
	ReportDir         string    `json:"report_dir,omitempty"`          // report directory
	Seed              int64     `json:"seed,omitempty"`                // seed for the synthetic provider
	Verbosity         int       `json:"verbosity,omitempty"`           // 0=errors,1=info,2=debug,3=trace
}

const (
	VerbosityError = iota // 0
	VerbosityInfo         // 1
	VerbosityDebug        // 2
	VerbosityTrace        // 3
)

// TenorYears is the option tenor used for pricing, in years of trading
// time: TenorDays/252.
func (cfg *Config) TenorYears() float64 {
	return float64(cfg.TenorDays) / tradingDaysPerYear
}

func (cfg *Config) fillDefaults() {
	now := time.Now().UTC()
	if cfg.Ticker == "" {
		cfg.Ticker = "SPY"
	}
	if cfg.Start.IsZero() {
		cfg.Start = now.AddDate(-1, 0, 0)
	}
	if cfg.End.IsZero() {
		cfg.End = now
	}
	if cfg.Start.After(cfg.End) {
		cfg.Start, cfg.End = cfg.End, cfg.Start
	}
	if cfg.Window == 0 {
		cfg.Window = 30
	}
	if cfg.RiskFreeRate == 0 {
		cfg.RiskFreeRate = 0.01
	}
	if cfg.SharesPerContract == 0 {
		cfg.SharesPerContract = 100
	}
	if cfg.StrikeRule == "" {
		cfg.StrikeRule = "S * 1.05"
	}
	if cfg.TenorDays == 0 {
		cfg.TenorDays = 30
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "./out"
	}
	if cfg.Verbosity < VerbosityError || cfg.Verbosity > VerbosityTrace {
		cfg.Verbosity = VerbosityInfo
	}
}

// TradingDay is one simulated day: a close price and the annualized
// volatility estimate for that date. Days preceding the volatility
// warm-up never become TradingDays.
type TradingDay struct {
	Date  time.Time
	Close float64
	Vol   float64
}

// ValueSample is one point of a marked portfolio-value series.
type ValueSample struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Metrics holds the total and annualized returns of both strategies.
// Undefined metrics (empty range, zero baseline) are NaN.
type Metrics struct {
	StrategyTotalReturn      float64 `json:"strategy_total_return"`
	StrategyAnnualizedReturn float64 `json:"strategy_annualized_return"`
	BuyHoldTotalReturn       float64 `json:"buy_hold_total_return"`
	BuyHoldAnnualizedReturn  float64 `json:"buy_hold_annualized_return"`
}

// Result holds the simulated portfolio-value series, the buy-and-hold
// reference series, and the summary metrics.
type Result struct {
	Strategy   []ValueSample `json:"strategy"`
	BuyAndHold []ValueSample `json:"buy_and_hold"`
	Metrics    Metrics       `json:"metrics"`
}

func NewEngine(cfg *Config, prov data.Provider) *Engine {
	return &Engine{cfg: cfg, prov: prov}
}

// Run executes the backtest: fetch bars, derive the volatility series,
// and simulate the covered-call strategy over the post-warm-up range.
//
// Data-sourcing faults are returned immediately. Insufficient data for
// the volatility window is not a fault: the result simply carries empty
// series and NaN metrics.
func (e *Engine) Run() (*Result, error) {
	cfg := e.cfg
	cfg.fillDefaults()
	logger.SetVerbosity(cfg.Verbosity)

	bars, err := e.prov.GetDailyBars(cfg.Ticker, cfg.Start, cfg.End)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars for %s: %w", cfg.Ticker, err)
	}
	logger.Infof("%s: %d daily bars %s..%s", cfg.Ticker, len(bars),
		cfg.Start.Format(dateKeyFormat), cfg.End.Format(dateKeyFormat))

	days := SimulatedDays(bars, cfg.Window)
	return Simulate(days, cfg)
}

// SimulatedDays pairs each bar with its rolling volatility estimate and
// drops the warm-up prefix where the estimate is undefined.
func SimulatedDays(bars []data.Bar, window int) []TradingDay {
	vols := RollingVolatility(data.Closes(bars), window)
	days := make([]TradingDay, 0, len(bars))
	for i, b := range bars {
		if math.IsNaN(vols[i]) {
			continue
		}
		days = append(days, TradingDay{Date: b.Date, Close: b.Close, Vol: vols[i]})
	}
	return days
}

// Simulate drives the day-by-day state machine over an already
// materialized trading-day sequence.
//
// Order within a day is fixed: mark-to-market first, using the book
// state carried over from the previous close at today's price; then
// resolve any obligation expiring on or before today; then, on a roll
// date, acquire shares if flat and write a new call. Reordering these
// steps changes every downstream value.
func Simulate(days []TradingDay, cfg *Config) (*Result, error) {
	cfg.fillDefaults()

	if len(days) == 0 {
		logger.Infof("insufficient data: no simulated range")
		return &Result{Metrics: emptyMetrics()}, nil
	}

	rule, err := NewStrikeRule(cfg.StrikeRule)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, len(days))
	for i, d := range days {
		dates[i] = d.Date
	}
	rolls := MonthlyRollDates(dates)
	logger.Infof("simulating %d trading days, %d roll dates", len(days), len(rolls))

	book := NewBook()
	strategy := make([]ValueSample, 0, len(days))
	buyHold := make([]ValueSample, 0, len(days))

	for _, d := range days {
		// mark first: start-of-day book state at today's price
		strategy = append(strategy, ValueSample{Date: d.Date, Value: book.MarkValue(d.Close)})
		buyHold = append(buyHold, ValueSample{Date: d.Date, Value: float64(cfg.SharesPerContract) * d.Close})

		book.ResolveExpirations(d.Date, d.Close)

		if !rolls[d.Date.Format(dateKeyFormat)] {
			continue
		}

		// A 30-day tenor can outlive the next monthly roll by a day or
		// two. The shares already cover the open call, so no new call
		// can be written until it resolves.
		if obl, open := book.OpenObligation(); open {
			logger.Debugf("roll %s skipped: obligation open until %s",
				d.Date.Format(dateKeyFormat), obl.Expiry.Format(dateKeyFormat))
			continue
		}

		book.AcquireShares(cfg.SharesPerContract, d.Close)

		strike, err := rule.Strike(d.Close)
		if err != nil {
			return nil, fmt.Errorf("roll %s: %w", d.Date.Format(dateKeyFormat), err)
		}
		premium, err := pricing.Call(d.Close, strike, cfg.TenorYears(), cfg.RiskFreeRate, d.Vol)
		if err != nil {
			// vol and tenor are positive by construction, so this
			// indicates corrupt input rather than a normal path
			return nil, fmt.Errorf("roll %s: %w", d.Date.Format(dateKeyFormat), err)
		}
		expiry := d.Date.AddDate(0, 0, cfg.TenorDays)
		book.WriteCall(strike, expiry, premium*float64(cfg.SharesPerContract))
		logger.Debugf("roll %s: spot=%.2f strike=%.2f vol=%.4f premium=%.2f expiry=%s",
			d.Date.Format(dateKeyFormat), d.Close, strike, d.Vol,
			premium*float64(cfg.SharesPerContract), expiry.Format(dateKeyFormat))
	}

	res := &Result{Strategy: strategy, BuyAndHold: buyHold}
	res.Metrics.StrategyTotalReturn, res.Metrics.StrategyAnnualizedReturn = seriesMetrics(strategy)
	res.Metrics.BuyHoldTotalReturn, res.Metrics.BuyHoldAnnualizedReturn = seriesMetrics(buyHold)

	logger.Infof("strategy total=%.2f%% annualized=%.2f%%",
		res.Metrics.StrategyTotalReturn*100, res.Metrics.StrategyAnnualizedReturn*100)
	logger.Infof("buy-and-hold total=%.2f%% annualized=%.2f%%",
		res.Metrics.BuyHoldTotalReturn*100, res.Metrics.BuyHoldAnnualizedReturn*100)

	return res, nil
}

func emptyMetrics() Metrics {
	nan := math.NaN()
	return Metrics{
		StrategyTotalReturn:      nan,
		StrategyAnnualizedReturn: nan,
		BuyHoldTotalReturn:       nan,
		BuyHoldAnnualizedReturn:  nan,
	}
}
