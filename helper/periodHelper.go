package helper

import "time"

// PeriodRange converts a reporting period name into a [start, end] window.
// Unknown periods fall back to today, matching the stats endpoint contract.
func PeriodRange(period string, now time.Time) (time.Time, time.Time) {
	end := now
	var start time.Time

	switch period {
	case "week":
		start = now.AddDate(0, 0, -7)
	case "month":
		start = now.AddDate(0, -1, 0)
	case "today":
		fallthrough
	default:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	return start, end
}
