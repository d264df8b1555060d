package report

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func fixedPicker(ttl time.Duration, now time.Time) *Picker {
	p := NewPicker(ttl)
	p.now = func() time.Time { return now }
	return p
}

func TestBeginOffersAdjacentYears(t *testing.T) {
	p := fixedPicker(time.Hour, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	years := p.Begin(1)
	want := []int{2023, 2024, 2025}
	if len(years) != len(want) {
		t.Fatalf("Expected %d years, got %d", len(want), len(years))
	}
	for i := range want {
		if years[i] != want[i] {
			t.Errorf("years[%d] = %d, want %d", i, years[i], want[i])
		}
	}
}

func TestFullFlowResolvesRange(t *testing.T) {
	p := fixedPicker(time.Hour, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	p.Begin(1)

	if stage, ok := p.stageFor(1); !ok || stage != StageYear {
		t.Errorf("After Begin: stage = (%v, %v), want (StageYear, true)", stage, ok)
	}

	if err := p.ChooseYear(1, 2024); err != nil {
		t.Fatalf("ChooseYear failed: %v", err)
	}
	if stage, ok := p.stageFor(1); !ok || stage != StageMonth {
		t.Errorf("After ChooseYear: stage = (%v, %v), want (StageMonth, true)", stage, ok)
	}

	days, err := p.ChooseMonth(1, 2024, 2)
	if err != nil {
		t.Fatalf("ChooseMonth failed: %v", err)
	}
	if days != 29 {
		t.Errorf("Expected 29 selectable days for 2024-02, got %d", days)
	}
	if stage, ok := p.stageFor(1); !ok || stage != StageDay {
		t.Errorf("After ChooseMonth: stage = (%v, %v), want (StageDay, true)", stage, ok)
	}

	rng, err := p.ChooseDay(1, 2024, 2, 5)
	if err != nil {
		t.Fatalf("ChooseDay failed: %v", err)
	}
	if rng.StartDate != "2024-02-05" {
		t.Errorf("StartDate = %q, want %q", rng.StartDate, "2024-02-05")
	}
	if rng.EndDate != "2024-06-15" {
		t.Errorf("EndDate = %q, want %q", rng.EndDate, "2024-06-15")
	}

	if p.active(1) {
		t.Error("Expected selection discarded after resolution")
	}
}

func TestEndDateEvaluatedAtResolution(t *testing.T) {
	current := time.Date(2024, 6, 15, 23, 50, 0, 0, time.UTC)
	p := NewPicker(time.Hour)
	p.now = func() time.Time { return current }

	p.Begin(1)
	if err := p.ChooseYear(1, 2024); err != nil {
		t.Fatalf("ChooseYear failed: %v", err)
	}
	if _, err := p.ChooseMonth(1, 2024, 6); err != nil {
		t.Fatalf("ChooseMonth failed: %v", err)
	}

	// The flow crosses midnight before the day pick.
	current = time.Date(2024, 6, 16, 0, 5, 0, 0, time.UTC)

	rng, err := p.ChooseDay(1, 2024, 6, 1)
	if err != nil {
		t.Fatalf("ChooseDay failed: %v", err)
	}
	if rng.EndDate != "2024-06-16" {
		t.Errorf("EndDate = %q, want %q (today at resolution)", rng.EndDate, "2024-06-16")
	}
}

func TestPickWithoutFlowFails(t *testing.T) {
	p := fixedPicker(time.Hour, time.Now())

	if err := p.ChooseYear(1, 2024); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ChooseYear without flow = %v, want ErrNoSelection", err)
	}
	if _, err := p.ChooseMonth(1, 2024, 3); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ChooseMonth without flow = %v, want ErrNoSelection", err)
	}
	if _, err := p.ChooseDay(1, 2024, 3, 7); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ChooseDay without flow = %v, want ErrNoSelection", err)
	}
}

func TestPickAtEarlierStageFails(t *testing.T) {
	p := fixedPicker(time.Hour, time.Now())

	// Buttons from a superseded prompt: the flow is back at year
	// selection, but the old month and day keyboards are still on screen.
	p.Begin(1)
	if _, err := p.ChooseMonth(1, 2024, 3); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ChooseMonth at year stage = %v, want ErrNoSelection", err)
	}
	if _, err := p.ChooseDay(1, 2024, 3, 7); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ChooseDay at year stage = %v, want ErrNoSelection", err)
	}

	if err := p.ChooseYear(1, 2024); err != nil {
		t.Fatalf("ChooseYear failed: %v", err)
	}
	if _, err := p.ChooseDay(1, 2024, 3, 7); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ChooseDay at month stage = %v, want ErrNoSelection", err)
	}

	// The rejected picks must not have consumed the flow.
	if _, err := p.ChooseMonth(1, 2024, 3); err != nil {
		t.Errorf("ChooseMonth after rejected picks failed: %v", err)
	}
	if _, err := p.ChooseDay(1, 2024, 3, 7); err != nil {
		t.Errorf("ChooseDay after rejected picks failed: %v", err)
	}
}

func TestBackNavigationRestartsEarlierStage(t *testing.T) {
	p := fixedPicker(time.Hour, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	// From the day keyboard the back button re-picks the year.
	p.Begin(1)
	if err := p.ChooseYear(1, 2024); err != nil {
		t.Fatalf("ChooseYear failed: %v", err)
	}
	if _, err := p.ChooseMonth(1, 2024, 3); err != nil {
		t.Fatalf("ChooseMonth failed: %v", err)
	}
	if err := p.ChooseYear(1, 2024); err != nil {
		t.Fatalf("ChooseYear from day stage failed: %v", err)
	}
	if stage, ok := p.stageFor(1); !ok || stage != StageMonth {
		t.Fatalf("After back to months: stage = (%v, %v), want (StageMonth, true)", stage, ok)
	}

	if _, err := p.ChooseMonth(1, 2024, 4); err != nil {
		t.Fatalf("ChooseMonth after back failed: %v", err)
	}
	rng, err := p.ChooseDay(1, 2024, 4, 10)
	if err != nil {
		t.Fatalf("ChooseDay after back failed: %v", err)
	}
	if rng.StartDate != "2024-04-10" {
		t.Errorf("StartDate = %q, want %q", rng.StartDate, "2024-04-10")
	}
}

func TestCancelDiscardsFlowAtAnyStage(t *testing.T) {
	p := fixedPicker(time.Hour, time.Now())

	advance := []func(){
		func() {},
		func() { _ = p.ChooseYear(1, 2024) },
		func() { _ = p.ChooseYear(1, 2024); _, _ = p.ChooseMonth(1, 2024, 3) },
	}
	for i, adv := range advance {
		p.Begin(1)
		adv()
		p.Cancel(1)
		if p.active(1) {
			t.Errorf("Stage %d: expected selection discarded after cancel", i)
		}
		if _, err := p.ChooseDay(1, 2024, 3, 7); !errors.Is(err, ErrNoSelection) {
			t.Errorf("Stage %d: pick after cancel = %v, want ErrNoSelection", i, err)
		}
		// A fresh flow must start cleanly after the cancel.
		p.Begin(1)
		if !p.active(1) {
			t.Errorf("Stage %d: expected new flow after cancel", i)
		}
		p.Cancel(1)
	}
}

func TestBeginReplacesInFlightFlow(t *testing.T) {
	p := fixedPicker(time.Hour, time.Now())

	p.Begin(1)
	if err := p.ChooseYear(1, 2023); err != nil {
		t.Fatalf("ChooseYear failed: %v", err)
	}

	// Beginning again drops the prior progress: the flow is back at year
	// selection and resolves from whatever the user picks next.
	p.Begin(1)
	if stage, ok := p.stageFor(1); !ok || stage != StageYear {
		t.Fatalf("After restart: stage = (%v, %v), want (StageYear, true)", stage, ok)
	}
	if err := p.ChooseYear(1, 2024); err != nil {
		t.Errorf("ChooseYear after restart failed: %v", err)
	}
}

func TestFlowsAreIndependentPerUser(t *testing.T) {
	p := fixedPicker(time.Hour, time.Now())

	p.Begin(1)
	p.Begin(2)
	p.Cancel(1)

	if p.active(1) {
		t.Error("Expected user 1 flow cancelled")
	}
	if !p.active(2) {
		t.Error("Expected user 2 flow unaffected")
	}
}

func TestSweepDropsExpiredFlows(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	p := NewPicker(30 * time.Minute)
	p.now = func() time.Time { return now }

	p.Begin(1)

	now = now.Add(31 * time.Minute)
	p.Begin(2)
	p.sweep()

	if p.active(1) {
		t.Error("Expected stale flow swept")
	}
	if !p.active(2) {
		t.Error("Expected fresh flow kept")
	}
}

func TestConcurrentAccess(t *testing.T) {
	p := fixedPicker(time.Hour, time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				userID := int64(offset*250 + j)
				p.Begin(userID)
				_ = p.ChooseYear(userID, 2024)
				_, _ = p.ChooseMonth(userID, 2024, 3)
				_, _ = p.ChooseDay(userID, 2024, 3, 7)
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 1000; j++ {
			p.active(int64(j))
			if j%100 == 0 {
				p.sweep()
			}
		}
	}()
	wg.Wait()
}
