package dates

import (
	"errors"
	"time"
)

// PlaceholderYear anchors date arithmetic for records without a known birth
// year. It is deliberately a non-leap year, so a Feb 29 birthday requires a
// real birth year to be accepted.
const PlaceholderYear = 2001

var ErrInvalidDate = errors.New("day, month and year do not form a real calendar date")

// Make builds a UTC midnight date from user-supplied components. A nil year
// substitutes PlaceholderYear; the placeholder never leaks back to callers as
// a meaningful birth year.
func Make(day, month int, year *int) (time.Time, error) {
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, ErrInvalidDate
	}
	y := PlaceholderYear
	if year != nil {
		y = *year
	}
	d := time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes impossible combinations (Feb 30 becomes Mar 2), so
	// any changed component means the input was not a real date.
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != y {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// EffectiveLocalDay shifts date by -utcOffsetHours and truncates to midnight:
// the UTC calendar day on which the owner's local calendar flips over to date.
func EffectiveLocalDay(date time.Time, utcOffsetHours int) time.Time {
	return Today(date.Add(-time.Duration(utcOffsetHours) * time.Hour))
}

// Today returns t's calendar day as UTC midnight.
func Today(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextOccurrence returns the nearest date on or after from with the given
// month and day. Years in which the combination does not exist are skipped,
// so a Feb 29 birthday resolves to the next leap year rather than a clamped
// Feb 28 or Mar 1. A pair that exists in no year (Feb 30) is ErrInvalidDate:
// the scan is capped at eight years, which covers the longest gap between
// leap years across the century boundary.
func NextOccurrence(month, day int, from time.Time) (time.Time, error) {
	from = Today(from)
	for y := from.Year(); y <= from.Year()+8; y++ {
		candidate := time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if candidate.Day() != day || candidate.Month() != time.Month(month) {
			continue
		}
		if candidate.Before(from) {
			continue
		}
		return candidate, nil
	}
	return time.Time{}, ErrInvalidDate
}
