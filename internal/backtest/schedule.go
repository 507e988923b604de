package backtest

import "time"

const dateKeyFormat = "2006-01-02"

// MonthlyRollDates returns the set of roll dates for an ascending
// trading-day sequence: the first trading day of each calendar month
// present in days. Keys use the YYYY-MM-DD format so the day loop can
// test membership in O(1).
//
// The sequence is the simulated range, not the calendar, so a month
// whose early sessions fall outside the range rolls on its first day
// inside the range.
func MonthlyRollDates(days []time.Time) map[string]bool {
	rolls := make(map[string]bool)
	seen := make(map[string]bool)
	for _, d := range days {
		month := d.Format("2006-01")
		if seen[month] {
			continue
		}
		seen[month] = true
		rolls[d.Format(dateKeyFormat)] = true
	}
	return rolls
}
