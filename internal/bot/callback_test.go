package bot

import "testing"

func TestCallbackRoundTrip(t *testing.T) {
	tests := []Callback{
		{Kind: CallbackBackToYears},
		{Kind: CallbackCancelReport},
		{Kind: CallbackCancelOverwrite},
		{Kind: CallbackPickYear, Year: 2024},
		{Kind: CallbackPickMonth, Year: 2024, Month: 2},
		{Kind: CallbackPickDay, Year: 2024, Month: 12, Day: 31},
		{Kind: CallbackConfirmStart, Clock: "09:05"},
		{Kind: CallbackConfirmEnd, Clock: "17:30"},
	}
	for _, want := range tests {
		data := want.Encode()
		got, err := ParseCallback(data)
		if err != nil {
			t.Errorf("ParseCallback(%q) failed: %v", data, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCallback(%q) = %+v, want %+v", data, got, want)
		}
	}
}

func TestCallbackWireFormat(t *testing.T) {
	// The wire payloads are part of the deployed button surface: old
	// messages keep their buttons across restarts, so the grammar must
	// stay stable.
	tests := []struct {
		cb   Callback
		want string
	}{
		{Callback{Kind: CallbackBackToYears}, "report_start"},
		{Callback{Kind: CallbackCancelReport}, "report_cancel"},
		{Callback{Kind: CallbackCancelOverwrite}, "cancel_overwrite"},
		{Callback{Kind: CallbackPickYear, Year: 2024}, "year_2024"},
		{Callback{Kind: CallbackPickMonth, Year: 2024, Month: 3}, "month_2024_03"},
		{Callback{Kind: CallbackPickDay, Year: 2024, Month: 3, Day: 7}, "day_2024_03_07"},
		{Callback{Kind: CallbackConfirmStart, Clock: "09:00"}, "overwrite_start_09:00"},
		{Callback{Kind: CallbackConfirmEnd, Clock: "17:30"}, "overwrite_end_17:30"},
	}
	for _, tt := range tests {
		if got := tt.cb.Encode(); got != tt.want {
			t.Errorf("Encode(%+v) = %q, want %q", tt.cb, got, tt.want)
		}
	}
}

func TestParseCallbackRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"quick_7",
		"year_",
		"year_twenty",
		"month_2024",
		"month_2024_00",
		"month_2024_13",
		"day_2024_03",
		"day_2024_03_07_extra",
		"day_2024_00_07",
		"day_2024_13_07",
		"day_2024_03_00",
		"day_2024_03_32",
	}
	for _, data := range bad {
		if _, err := ParseCallback(data); err == nil {
			t.Errorf("ParseCallback(%q) succeeded, want error", data)
		}
	}
}
