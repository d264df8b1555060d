// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/averin/shiftbot/internal/domain"
)

// Repository defines the interface for persisting work days and tasks.
type Repository interface {
	// GetWorkDay retrieves one user's punch record for a date.
	// Returns (nil, nil) if no record exists.
	GetWorkDay(ctx context.Context, userID int64, date string) (*domain.WorkDay, error)

	// UpsertWorkDay creates or replaces the punch record for
	// (day.UserID, day.Date).
	UpsertWorkDay(ctx context.Context, day *domain.WorkDay) error

	// AddTask appends a free-text task entry for a user and date.
	AddTask(ctx context.Context, task *domain.WorkTask) error

	// TasksForDay retrieves a user's tasks for one date, in creation order.
	TasksForDay(ctx context.Context, userID int64, date string) ([]*domain.WorkTask, error)

	// WorkPeriod retrieves all punch records and tasks for a user within
	// the inclusive [startDate, endDate] range. Days are ordered by date;
	// tasks by date, then creation time.
	WorkPeriod(ctx context.Context, userID int64, startDate, endDate string) ([]*domain.WorkDay, []*domain.WorkTask, error)

	// ResetDay deletes the punch record and all tasks for one user and date.
	ResetDay(ctx context.Context, userID int64, date string) error

	// Ping verifies database connectivity and returns an error if the
	// database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
