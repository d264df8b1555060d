// Package bot provides the Telegram transport: update dispatch,
// keyboards, and the callback payload codec.
package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// CallbackKind discriminates the inline-button payloads the bot emits.
type CallbackKind int

const (
	// CallbackBackToYears restarts the report flow at year selection.
	CallbackBackToYears CallbackKind = iota
	// CallbackCancelReport aborts the report flow.
	CallbackCancelReport
	// CallbackPickYear selects a report year and prompts for a month.
	CallbackPickYear
	// CallbackPickMonth selects a report month and prompts for a day.
	CallbackPickMonth
	// CallbackPickDay selects a report day and resolves the range.
	CallbackPickDay
	// CallbackConfirmStart applies a pending start-punch overwrite.
	CallbackConfirmStart
	// CallbackConfirmEnd applies a pending end-punch overwrite.
	CallbackConfirmEnd
	// CallbackCancelOverwrite discards a pending overwrite.
	CallbackCancelOverwrite
)

// Callback is the decoded form of an inline-button payload. Handlers
// operate on this tagged value only; the wire strings never leave this
// package.
type Callback struct {
	Kind  CallbackKind
	Year  int
	Month int
	Day   int
	Clock string // pending punch time for overwrite confirmations
}

// Wire payloads. The overwrite payloads embed the pending time, which is
// the whole of the confirmation token: a restart invalidates nothing on
// disk, it just orphans the button.
const (
	payloadBackToYears     = "report_start"
	payloadCancelReport    = "report_cancel"
	payloadCancelOverwrite = "cancel_overwrite"

	prefixYear           = "year_"
	prefixMonth          = "month_"
	prefixDay            = "day_"
	prefixOverwriteStart = "overwrite_start_"
	prefixOverwriteEnd   = "overwrite_end_"
)

// Encode renders a callback as its wire payload.
func (c Callback) Encode() string {
	switch c.Kind {
	case CallbackBackToYears:
		return payloadBackToYears
	case CallbackCancelReport:
		return payloadCancelReport
	case CallbackCancelOverwrite:
		return payloadCancelOverwrite
	case CallbackPickYear:
		return fmt.Sprintf("%s%d", prefixYear, c.Year)
	case CallbackPickMonth:
		return fmt.Sprintf("%s%d_%02d", prefixMonth, c.Year, c.Month)
	case CallbackPickDay:
		return fmt.Sprintf("%s%d_%02d_%02d", prefixDay, c.Year, c.Month, c.Day)
	case CallbackConfirmStart:
		return prefixOverwriteStart + c.Clock
	case CallbackConfirmEnd:
		return prefixOverwriteEnd + c.Clock
	}
	return ""
}

// ParseCallback decodes a wire payload into a Callback.
func ParseCallback(data string) (Callback, error) {
	switch data {
	case payloadBackToYears:
		return Callback{Kind: CallbackBackToYears}, nil
	case payloadCancelReport:
		return Callback{Kind: CallbackCancelReport}, nil
	case payloadCancelOverwrite:
		return Callback{Kind: CallbackCancelOverwrite}, nil
	}

	switch {
	case strings.HasPrefix(data, prefixOverwriteStart):
		return Callback{Kind: CallbackConfirmStart, Clock: data[len(prefixOverwriteStart):]}, nil
	case strings.HasPrefix(data, prefixOverwriteEnd):
		return Callback{Kind: CallbackConfirmEnd, Clock: data[len(prefixOverwriteEnd):]}, nil
	case strings.HasPrefix(data, prefixYear):
		parts, err := intParts(data[len(prefixYear):], 1)
		if err != nil {
			return Callback{}, fmt.Errorf("parse year callback %q: %w", data, err)
		}
		return Callback{Kind: CallbackPickYear, Year: parts[0]}, nil
	case strings.HasPrefix(data, prefixMonth):
		parts, err := intParts(data[len(prefixMonth):], 2)
		if err != nil {
			return Callback{}, fmt.Errorf("parse month callback %q: %w", data, err)
		}
		if parts[1] < 1 || parts[1] > 12 {
			return Callback{}, fmt.Errorf("month out of range in callback %q", data)
		}
		return Callback{Kind: CallbackPickMonth, Year: parts[0], Month: parts[1]}, nil
	case strings.HasPrefix(data, prefixDay):
		parts, err := intParts(data[len(prefixDay):], 3)
		if err != nil {
			return Callback{}, fmt.Errorf("parse day callback %q: %w", data, err)
		}
		if parts[1] < 1 || parts[1] > 12 {
			return Callback{}, fmt.Errorf("month out of range in callback %q", data)
		}
		if parts[2] < 1 || parts[2] > 31 {
			return Callback{}, fmt.Errorf("day out of range in callback %q", data)
		}
		return Callback{Kind: CallbackPickDay, Year: parts[0], Month: parts[1], Day: parts[2]}, nil
	}

	return Callback{}, fmt.Errorf("unknown callback payload %q", data)
}

func intParts(s string, n int) ([]int, error) {
	fields := strings.Split(s, "_")
	if len(fields) != n {
		return nil, fmt.Errorf("want %d fields, got %d", n, len(fields))
	}
	parts := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		parts[i] = v
	}
	return parts, nil
}
