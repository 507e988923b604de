package data

import (
	"math"
	"math/rand"
	"time"
)

// synthDataProvider implements Provider generating a synthetic
// geometric-random-walk price series. Weekends are skipped so the
// output resembles a trading calendar. Seeded, so runs are
// reproducible for a fixed seed.
type synthDataProvider struct {
	rng *rand.Rand
}

func NewSyntheticProvider(seed int64) Provider {
	return &synthDataProvider{rng: rand.New(rand.NewSource(seed))}
}

func (synthDataProv *synthDataProvider) GetDailyBars(ticker string, fromDate, toDate time.Time) ([]Bar, error) {
	cur := fromDate
	price := 100.0 + float64(synthDataProv.rng.Intn(200))
	var out []Bar
	for !cur.After(toDate) {
		if cur.Weekday() != time.Saturday && cur.Weekday() != time.Sunday {
			delta := synthDataProv.rng.NormFloat64() * 0.01 * price
			open := price
			close := price + delta
			high := math.Max(open, close) + math.Abs(synthDataProv.rng.NormFloat64()*0.3)
			low := math.Min(open, close) - math.Abs(synthDataProv.rng.NormFloat64()*0.3)
			out = append(out, Bar{Date: cur, Open: open, High: high, Low: low, Close: close, Vol: float64(1000 + synthDataProv.rng.Intn(5000))})
			price = close
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return out, nil
}
