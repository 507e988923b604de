package backtest

import (
	"time"

	"github.com/contactkeval/covered-call/internal/logger"
)

// Obligation is an open short call: the holder may call away the
// covering shares at Strike once Expiry is reached.
type Obligation struct {
	Strike float64   `json:"strike"`
	Expiry time.Time `json:"expiry"`
}

// Book tracks the cash balance, share position, and the open short-call
// obligation of the strategy.
//
// At most one obligation is open at any time: a new call is written
// only on a roll date, and only after any obligation expiring on or
// before that date has been resolved the same day. Shares are acquired
// only when flat, so a written call is always fully covered.
//
// A Book is exclusively owned by its Engine; it is not safe for
// concurrent use.
type Book struct {
	cash   float64
	shares int
	open   *Obligation
}

func NewBook() *Book { return &Book{} }

func (b *Book) Cash() float64 { return b.cash }
func (b *Book) Shares() int   { return b.shares }

// OpenObligation returns the currently open obligation, if any.
func (b *Book) OpenObligation() (Obligation, bool) {
	if b.open == nil {
		return Obligation{}, false
	}
	return *b.open, true
}

// MarkValue marks the book to market: cash plus shares at price.
// An open obligation carries no mark-to-market liability; its economics
// enter only through premium already received and eventual exercise.
func (b *Book) MarkValue(price float64) float64 {
	return b.cash + float64(b.shares)*price
}

// ResolveExpirations settles the open obligation if its expiry is on or
// before date. If price exceeds the strike the call is exercised: the
// shares are called away at the strike and the proceeds land in cash.
// Otherwise the call lapses and the shares stay. Either way the
// obligation is removed. A no-op when nothing is due, so calling it
// again on the same date changes nothing.
func (b *Book) ResolveExpirations(date time.Time, price float64) {
	if b.open == nil || b.open.Expiry.After(date) {
		return
	}
	if price > b.open.Strike {
		b.cash += float64(b.shares) * b.open.Strike
		b.shares = 0
		logger.Debugf("exercised: %s strike=%.2f price=%.2f", date.Format("2006-01-02"), b.open.Strike, price)
	} else {
		logger.Tracef("lapsed: %s strike=%.2f price=%.2f", date.Format("2006-01-02"), b.open.Strike, price)
	}
	b.open = nil
}

// WriteCall records a newly written short call and credits the premium
// received. The caller guarantees the single-obligation invariant by
// resolving expirations before writing on the same date.
func (b *Book) WriteCall(strike float64, expiry time.Time, premium float64) {
	b.open = &Obligation{Strike: strike, Expiry: expiry}
	b.cash += premium
}

// AcquireShares buys count shares at pricePerShare, but only when flat.
// While a covering position is held it is a no-op: the design never
// adds to an existing position.
func (b *Book) AcquireShares(count int, pricePerShare float64) {
	if b.shares != 0 {
		return
	}
	b.shares = count
	b.cash -= float64(count) * pricePerShare
}
