package lifecycle

import "time"

func isBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// SubtractBusinessDays steps back n weekdays from t, keeping the time of day.
func SubtractBusinessDays(t time.Time, n int) time.Time {
	for n > 0 {
		t = t.AddDate(0, 0, -1)
		if isBusinessDay(t) {
			n--
		}
	}
	return t
}

// BusinessDaysBetween counts the weekdays after from's date up to and
// including to's date, in to's location.
func BusinessDaysBetween(from, to time.Time) int {
	loc := to.Location()
	start := dateOf(from.In(loc))
	end := dateOf(to)

	days := 0
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if isBusinessDay(d) {
			days++
		}
	}
	return days
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
