// Package domain contains core domain types for the shiftbot application.
package domain

// WorkDay represents one user's recorded start/end punch for a single
// calendar date. Times are wall-clock "HH:MM" strings; an empty string
// means the punch has not been recorded yet. Date is an ISO 8601 date
// ("2006-01-02"), which sorts lexicographically in chronological order.
type WorkDay struct {
	UserID    int64
	Date      string
	StartTime string
	EndTime   string
}

// Started reports whether the start punch has been recorded.
func (d *WorkDay) Started() bool {
	return d != nil && d.StartTime != ""
}

// Ended reports whether the end punch has been recorded.
func (d *WorkDay) Ended() bool {
	return d != nil && d.EndTime != ""
}

// Complete reports whether the day qualifies for report totals: both
// punches recorded and not equal to each other.
func (d *WorkDay) Complete() bool {
	return d.Started() && d.Ended() && d.StartTime != d.EndTime
}
