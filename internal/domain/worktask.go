package domain

import "time"

// WorkTask is one free-text log entry tied to a user and date.
// Tasks are append-only: created when the user sends a plain text
// message, never mutated, and removed only by a day reset.
type WorkTask struct {
	ID          int64
	UserID      int64
	Date        string
	Description string
	CreatedAt   time.Time
}
