package lifecycle

import "time"

// All derivation runs on whole calendar days: a timestamp anywhere inside a
// day counts as that day, so two reads hours apart derive the same state.

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween floors to whole days; negative when `to` precedes `from`.
func daysBetween(from, to time.Time) int {
	return int(civilDate(to).Sub(civilDate(from)) / (24 * time.Hour))
}

func addDays(t time.Time, days int) time.Time {
	return civilDate(t).AddDate(0, 0, days)
}
