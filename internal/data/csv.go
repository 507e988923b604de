package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/contactkeval/covered-call/internal/logger"
)

// csvDataProvider implements Provider from local CSV files, one file
// per ticker named <TICKER>.csv under dir.
//
// Expected columns: date,close or date,open,high,low,close[,volume].
// A header row is detected and skipped. Dates are YYYY-MM-DD.
type csvDataProvider struct {
	dir string
}

func NewCSVDataProvider(dir string) Provider {
	return &csvDataProvider{dir: dir}
}

func (csvDataProv *csvDataProvider) GetDailyBars(ticker string, fromDate, toDate time.Time) ([]Bar, error) {
	path := filepath.Join(csvDataProv.dir, strings.ToUpper(ticker)+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var out []Bar
	for i, row := range records {
		if len(row) < 2 {
			continue
		}
		dt, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: bad date %q", i+1, row[0])
		}
		if dt.Before(fromDate) || dt.After(toDate) {
			continue
		}
		b := Bar{Date: dt}
		switch {
		case len(row) >= 5:
			open, err1 := parseField(row[1])
			high, err2 := parseField(row[2])
			low, err3 := parseField(row[3])
			cls, err4 := parseField(row[4])
			if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
				return nil, fmt.Errorf("row %d: bad OHLC values", i+1)
			}
			b.Open, b.High, b.Low, b.Close = open, high, low, cls
			if len(row) >= 6 {
				b.Vol, _ = parseField(row[5])
			}
		default:
			cls, err := parseField(row[1])
			if err != nil {
				return nil, fmt.Errorf("row %d: bad close %q", i+1, row[1])
			}
			b.Close = cls
		}
		out = append(out, b)
	}

	SortBars(out)
	if err := ValidateBars(out); err != nil {
		return nil, fmt.Errorf("csv bars %s: %w", path, err)
	}
	logger.Debugf("csv: %d daily bars for %s from %s", len(out), ticker, path)
	return out, nil
}

func parseField(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
