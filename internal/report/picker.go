// Package report implements the report date-range picker state machine
// and the report generator.
package report

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/averin/shiftbot/internal/timecalc"
)

// ErrNoSelection is returned when a pick arrives for a user with no
// report flow in progress (flow expired, cancelled, or lost to a
// restart).
var ErrNoSelection = errors.New("no report selection in progress")

// Stage identifies how far a user has advanced through the picker.
type Stage int

const (
	StageYear Stage = iota
	StageMonth
	StageDay
)

// Range is a resolved inclusive report period of ISO 8601 dates.
type Range struct {
	StartDate string
	EndDate   string
}

// selection is one user's in-flight report flow. Not durable: a process
// restart silently drops it, which only costs the user a restarted flow.
// The chosen year/month live in the inline-button payloads, not here, so
// a back-jump simply re-issues the earlier prompt.
type selection struct {
	stage     Stage
	startedAt time.Time
}

const sweepInterval = 5 * time.Minute

// Picker tracks per-user report date selections. A user has at most one
// flow in progress; beginning a new one replaces any prior flow
// (last-write-wins).
type Picker struct {
	mu    sync.RWMutex
	flows map[int64]*selection
	ttl   time.Duration
	now   func() time.Time
}

// NewPicker creates a picker whose abandoned flows expire after ttl.
func NewPicker(ttl time.Duration) *Picker {
	return &Picker{
		flows: make(map[int64]*selection),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Begin starts (or restarts) a report flow for the user and returns the
// selectable years: previous, current, next.
func (p *Picker) Begin(userID int64) []int {
	now := p.now()

	p.mu.Lock()
	p.flows[userID] = &selection{
		stage:     StageYear,
		startedAt: now,
	}
	p.mu.Unlock()

	year := now.Year()
	return []int{year - 1, year, year + 1}
}

// ChooseYear advances the user's flow to month selection.
func (p *Picker) ChooseYear(userID int64, year int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	sel, ok := p.flows[userID]
	if !ok {
		return ErrNoSelection
	}
	sel.stage = StageMonth
	sel.startedAt = p.now()
	return nil
}

// ChooseMonth advances the user's flow to day selection and returns the
// number of selectable days in the chosen month. A month pick while the
// flow still awaits a year (a button from a superseded prompt) is
// rejected.
func (p *Picker) ChooseMonth(userID int64, year, month int) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sel, ok := p.flows[userID]
	if !ok || sel.stage < StageMonth {
		return 0, ErrNoSelection
	}
	sel.stage = StageDay
	sel.startedAt = p.now()
	return timecalc.DaysInMonth(year, month), nil
}

// ChooseDay resolves the flow into an inclusive range ending today and
// discards the selection. The end date is evaluated here, not at flow
// start: a flow left open across midnight still reports through the
// current day. Day picks from a flow not yet at the day stage are
// rejected.
func (p *Picker) ChooseDay(userID int64, year, month, day int) (Range, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sel, ok := p.flows[userID]
	if !ok || sel.stage != StageDay {
		return Range{}, ErrNoSelection
	}
	delete(p.flows, userID)

	return Range{
		StartDate: timecalc.ISODate(year, month, day),
		EndDate:   timecalc.Today(p.now()),
	}, nil
}

// Cancel discards the user's in-flight selection, if any.
func (p *Picker) Cancel(userID int64) {
	p.mu.Lock()
	delete(p.flows, userID)
	p.mu.Unlock()
}

// active reports whether the user has a flow in progress.
func (p *Picker) active(userID int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.flows[userID]
	return ok
}

// stageFor returns the user's current picker stage. The second return
// is false when no flow is in progress.
func (p *Picker) stageFor(userID int64) (Stage, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sel, ok := p.flows[userID]
	if !ok {
		return 0, false
	}
	return sel.stage, true
}

// StartSweeper runs a background goroutine that periodically drops
// abandoned flows older than the picker TTL.
func (p *Picker) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Selection sweeper started", "interval", sweepInterval, "ttl", p.ttl)

		for {
			select {
			case <-ticker.C:
				p.sweep()
			case <-ctx.Done():
				slog.Info("Selection sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func (p *Picker) sweep() {
	threshold := p.now().Add(-p.ttl)

	p.mu.Lock()
	defer p.mu.Unlock()

	for userID, sel := range p.flows {
		if sel.startedAt.Before(threshold) {
			delete(p.flows, userID)
			slog.Info("Expired abandoned report selection", "user_id", userID)
		}
	}
}
