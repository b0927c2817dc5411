package calendar

import "time"

// AddMonths shifts from by the given number of calendar months (negative
// shifts go backward). If the target month has fewer days than from's
// day-of-month, the result clamps to the last day of that month (Jan 31
// + 1 month = Feb 28/29, never Mar 2/3). The result is normalized to a
// day boundary in from's location.
func AddMonths(months int, from time.Time) time.Time {
	year, month, day := from.Date()

	total := int(month) - 1 + months
	yearShift := total / 12
	rem := total % 12
	if rem < 0 {
		rem += 12
		yearShift--
	}
	targetYear := year + yearShift
	targetMonth := time.Month(rem + 1)

	if last := DaysInMonth(targetYear, targetMonth); day > last {
		day = last
	}

	return time.Date(targetYear, targetMonth, day, 0, 0, 0, 0, from.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfDay truncates t to its day boundary, keeping the location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetweenCeil returns the elapsed days from from to to, rounded up,
// floored at zero. A fraction of a day counts as a whole day.
func DaysBetweenCeil(from, to time.Time) int {
	diff := to.Sub(from)
	if diff <= 0 {
		return 0
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}
