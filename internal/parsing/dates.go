package parsing

import "time"

// expandTwoDigitYear resolves a two-digit year with the GS1 sliding window
// (General Specifications 7.12): a year more than 50 years ahead of now belongs
// to the previous century, a year 50 or more years behind belongs to the next one.
func expandTwoDigitYear(yy int, now time.Time) int {
	current := now.Year()
	century := current / 100 * 100
	diff := yy - current%100
	switch {
	case diff >= 51:
		return century - 100 + yy
	case diff <= -50:
		return century + 100 + yy
	default:
		return century + yy
	}
}

// calendarDate builds a UTC date, rejecting out-of-range months and days
// instead of letting time.Date normalise them.
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func lastDayOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}
