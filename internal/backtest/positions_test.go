package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func td(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAcquireSharesOnlyWhenFlat(t *testing.T) {
	b := NewBook()

	b.AcquireShares(100, 50)
	assert.Equal(t, 100, b.Shares())
	assert.Equal(t, -5000.0, b.Cash())

	// already holding: no-op
	b.AcquireShares(100, 60)
	assert.Equal(t, 100, b.Shares())
	assert.Equal(t, -5000.0, b.Cash())
}

func TestWriteCallCreditsPremium(t *testing.T) {
	b := NewBook()
	b.WriteCall(105, td(2023, 2, 1), 150)

	assert.Equal(t, 150.0, b.Cash())
	obl, ok := b.OpenObligation()
	require.True(t, ok)
	assert.Equal(t, 105.0, obl.Strike)
	assert.Equal(t, td(2023, 2, 1), obl.Expiry)
}

func TestResolveExpirationsExercise(t *testing.T) {
	b := NewBook()
	b.AcquireShares(100, 100)
	b.WriteCall(105, td(2023, 2, 1), 150)

	// price above strike on expiry: shares called away at the strike
	b.ResolveExpirations(td(2023, 2, 1), 120)

	assert.Equal(t, 0, b.Shares())
	assert.Equal(t, -10000.0+150+100*105, b.Cash())
	_, ok := b.OpenObligation()
	assert.False(t, ok)
}

func TestResolveExpirationsLapse(t *testing.T) {
	b := NewBook()
	b.AcquireShares(100, 100)
	b.WriteCall(105, td(2023, 2, 1), 150)

	// price at or below strike: obligation removed, shares stay
	b.ResolveExpirations(td(2023, 2, 1), 104)

	assert.Equal(t, 100, b.Shares())
	assert.Equal(t, -10000.0+150, b.Cash())
	_, ok := b.OpenObligation()
	assert.False(t, ok)
}

func TestResolveExpirationsNotDue(t *testing.T) {
	b := NewBook()
	b.AcquireShares(100, 100)
	b.WriteCall(105, td(2023, 2, 1), 150)

	b.ResolveExpirations(td(2023, 1, 15), 200)

	assert.Equal(t, 100, b.Shares())
	_, ok := b.OpenObligation()
	assert.True(t, ok, "obligation not yet due must survive")
}

func TestResolveExpirationsIdempotent(t *testing.T) {
	b := NewBook()
	b.AcquireShares(100, 100)
	b.WriteCall(105, td(2023, 2, 1), 150)

	b.ResolveExpirations(td(2023, 2, 1), 120)
	cash, shares := b.Cash(), b.Shares()

	// second call on the same date with nothing written in between
	b.ResolveExpirations(td(2023, 2, 1), 120)
	assert.Equal(t, cash, b.Cash())
	assert.Equal(t, shares, b.Shares())
}

func TestMarkValue(t *testing.T) {
	b := NewBook()
	assert.Equal(t, 0.0, b.MarkValue(100))

	b.AcquireShares(100, 100)
	b.WriteCall(105, td(2023, 2, 1), 150)
	// cash = -10000 + 150, shares marked at 102
	assert.Equal(t, -10000.0+150+100*102, b.MarkValue(102))
}
