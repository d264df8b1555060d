// Package punch orchestrates the start-day / end-day / reset flows
// against the ledger store, including the two-step overwrite protocol.
package punch

import (
	"context"
	"errors"
	"fmt"

	"github.com/averin/shiftbot/internal/domain"
	"github.com/averin/shiftbot/internal/store"
	"github.com/averin/shiftbot/internal/timecalc"
)

// ErrNotStarted is returned when an end punch arrives before any start
// punch has been recorded for the day.
var ErrNotStarted = errors.New("work day not started")

// Result describes the outcome of a punch attempt.
//
// When NeedsConfirm is set, nothing was written: the day already holds a
// value for the target field and the caller must ask the user to confirm
// the overwrite. PendingTime carries the candidate value to embed in the
// confirmation callback; losing it simply cancels the overwrite.
type Result struct {
	NeedsConfirm bool
	ExistingTime string
	PendingTime  string

	Day           *domain.WorkDay
	ActualHours   float64
	AdjustedHours float64
}

// Service implements the day punch state transitions.
type Service struct {
	repo store.Repository
}

// NewService creates a punch service backed by repo.
func NewService(repo store.Repository) *Service {
	return &Service{repo: repo}
}

// Start records the start punch for (userID, date). If a start time is
// already set it writes nothing and returns a confirmation request.
func (s *Service) Start(ctx context.Context, userID int64, date, clock string) (*Result, error) {
	day, err := s.repo.GetWorkDay(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("get work day: %w", err)
	}

	if day.Started() {
		return &Result{
			NeedsConfirm: true,
			ExistingTime: day.StartTime,
			PendingTime:  clock,
			Day:          day,
		}, nil
	}

	return s.writeStart(ctx, userID, date, clock)
}

// ConfirmStart applies a confirmed start overwrite. The end time is wiped
// so the day never holds an end punch that predates its start.
func (s *Service) ConfirmStart(ctx context.Context, userID int64, date, clock string) (*Result, error) {
	return s.writeStart(ctx, userID, date, clock)
}

func (s *Service) writeStart(ctx context.Context, userID int64, date, clock string) (*Result, error) {
	day := &domain.WorkDay{
		UserID:    userID,
		Date:      date,
		StartTime: clock,
		EndTime:   "",
	}
	if err := s.repo.UpsertWorkDay(ctx, day); err != nil {
		return nil, fmt.Errorf("upsert work day: %w", err)
	}
	return &Result{Day: day}, nil
}

// End records the end punch for (userID, date). It fails with
// ErrNotStarted when no start punch exists, and returns a confirmation
// request when an end time is already set. On success the result carries
// the computed work-hours pair.
func (s *Service) End(ctx context.Context, userID int64, date, clock string) (*Result, error) {
	day, err := s.repo.GetWorkDay(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("get work day: %w", err)
	}

	if !day.Started() {
		return nil, ErrNotStarted
	}

	if day.Ended() {
		return &Result{
			NeedsConfirm: true,
			ExistingTime: day.EndTime,
			PendingTime:  clock,
			Day:          day,
		}, nil
	}

	return s.writeEnd(ctx, day, clock)
}

// ConfirmEnd applies a confirmed end overwrite. It still requires a
// recorded start punch: the day may have been reset while the
// confirmation prompt was pending.
func (s *Service) ConfirmEnd(ctx context.Context, userID int64, date, clock string) (*Result, error) {
	day, err := s.repo.GetWorkDay(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("get work day: %w", err)
	}
	if !day.Started() {
		return nil, ErrNotStarted
	}
	return s.writeEnd(ctx, day, clock)
}

func (s *Service) writeEnd(ctx context.Context, day *domain.WorkDay, clock string) (*Result, error) {
	updated := &domain.WorkDay{
		UserID:    day.UserID,
		Date:      day.Date,
		StartTime: day.StartTime,
		EndTime:   clock,
	}
	if err := s.repo.UpsertWorkDay(ctx, updated); err != nil {
		return nil, fmt.Errorf("upsert work day: %w", err)
	}

	actual, adjusted := timecalc.WorkHours(updated.StartTime, updated.EndTime)
	return &Result{
		Day:           updated,
		ActualHours:   actual,
		AdjustedHours: adjusted,
	}, nil
}

// Reset unconditionally deletes the punch record and all tasks for
// (userID, date). Irreversible.
func (s *Service) Reset(ctx context.Context, userID int64, date string) error {
	if err := s.repo.ResetDay(ctx, userID, date); err != nil {
		return fmt.Errorf("reset day: %w", err)
	}
	return nil
}
