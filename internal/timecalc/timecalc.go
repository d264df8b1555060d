// Package timecalc provides pure helpers for work-hours arithmetic and
// calendar math used by the punch and report flows.
package timecalc

import (
	"fmt"
	"time"
)

// LunchDeduction is the fixed amount subtracted from actual hours to
// account for the lunch break.
const LunchDeduction = 1.0

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// WorkHours converts a start/end pair of "HH:MM" wall-clock strings into
// (actual, adjusted) hours. Adjusted hours subtract the lunch deduction.
// Both values are clamped at 0: an end earlier than the start yields 0,
// never a negative or wrapped value.
//
// Malformed input yields (0, 0) rather than an error. The only writer of
// these strings is the bot itself, so a parse failure means corrupted
// storage; a zeroed day is preferred over failing the interaction.
func WorkHours(startTime, endTime string) (actual, adjusted float64) {
	start, err := time.Parse(clockLayout, startTime)
	if err != nil {
		return 0, 0
	}
	end, err := time.Parse(clockLayout, endTime)
	if err != nil {
		return 0, 0
	}

	actual = end.Sub(start).Hours()
	adjusted = actual - LunchDeduction

	if actual < 0 {
		actual = 0
	}
	if adjusted < 0 {
		adjusted = 0
	}
	return actual, adjusted
}

// ValidClock reports whether s is a well-formed "HH:MM" wall-clock value.
func ValidClock(s string) bool {
	_, err := time.Parse(clockLayout, s)
	return err == nil
}

// DaysInMonth returns the number of days in the given month, accounting
// for leap years. Computed as the first day of the following month minus
// one day.
func DaysInMonth(year, month int) int {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// ISODate formats a calendar date as zero-padded ISO 8601 ("2006-01-02").
func ISODate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// FormatDate converts an ISO 8601 date into DD.MM.YYYY for display.
// A string that does not parse is returned unchanged.
func FormatDate(isoDate string) string {
	d, err := time.Parse(dateLayout, isoDate)
	if err != nil {
		return isoDate
	}
	return d.Format("02.01.2006")
}

// Today returns t's calendar date as an ISO 8601 string.
func Today(t time.Time) string {
	return t.Format(dateLayout)
}

// Clock returns t's wall-clock time as "HH:MM".
func Clock(t time.Time) string {
	return t.Format(clockLayout)
}
