package timeutil

import (
	"testing"
	"time"
)

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return loc
}

func TestParseCivil(t *testing.T) {
	loc := seoul(t)

	got, err := ParseCivil(loc, "2026-03-10", "14:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 3, 10, 14, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseCivil_Invalid(t *testing.T) {
	loc := seoul(t)

	cases := []struct {
		name  string
		date  string
		clock string
	}{
		{"empty date", "", "14:30"},
		{"empty clock", "2026-03-10", ""},
		{"bad date format", "10/03/2026", "14:30"},
		{"bad clock format", "2026-03-10", "2pm"},
		{"out of range hour", "2026-03-10", "25:00"},
		{"nonexistent day", "2026-02-30", "10:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCivil(loc, tc.date, tc.clock); err == nil {
				t.Errorf("expected error for date=%q clock=%q", tc.date, tc.clock)
			}
		})
	}
}

func TestDayRange(t *testing.T) {
	loc := seoul(t)
	at := time.Date(2026, 3, 10, 14, 30, 0, 0, loc)

	start, end := DayRange(at, loc)

	wantStart := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	if !start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, start)
	}
	if !end.After(start) {
		t.Errorf("expected end after start")
	}
	if end.Day() != 10 {
		t.Errorf("expected end to stay within the day, got %v", end)
	}

	nextDay := time.Date(2026, 3, 11, 0, 0, 0, 0, loc)
	if !end.Before(nextDay) {
		t.Errorf("expected end before next midnight, got %v", end)
	}
}

func TestParseQueryDate(t *testing.T) {
	loc := seoul(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)

	cases := []struct {
		name       string
		input      string
		wantLabel  string
		wantWeekly bool
		wantDay    int
	}{
		{"empty means today", "", "today", false, 10},
		{"today keyword", "today", "today", false, 10},
		{"uppercase keyword", "TODAY", "today", false, 10},
		{"tomorrow keyword", "tomorrow", "tomorrow", false, 11},
		{"week keyword", "week", "the next 7 days", true, 0},
		{"explicit date", "2026-04-01", "2026-04-01", false, 1},
		{"padded input", "  tomorrow  ", "tomorrow", false, 11},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			qd, err := ParseQueryDate(tc.input, now, loc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if qd.Label != tc.wantLabel {
				t.Errorf("expected label %q, got %q", tc.wantLabel, qd.Label)
			}
			if qd.Weekly != tc.wantWeekly {
				t.Errorf("expected weekly=%v, got %v", tc.wantWeekly, qd.Weekly)
			}
			if !tc.wantWeekly && qd.Date.Day() != tc.wantDay {
				t.Errorf("expected day %d, got %d", tc.wantDay, qd.Date.Day())
			}
		})
	}
}

func TestParseQueryDate_Invalid(t *testing.T) {
	loc := seoul(t)
	now := time.Now()

	for _, input := range []string{"yesterday", "next week", "03-10", "garbage"} {
		if _, err := ParseQueryDate(input, now, loc); err == nil {
			t.Errorf("expected error for input %q", input)
		}
	}
}

func TestNextSlot(t *testing.T) {
	loc := seoul(t)
	slot := 10 * time.Minute

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"mid-slot rounds up past one boundary",
			time.Date(2026, 3, 10, 10, 3, 0, 0, loc),
			time.Date(2026, 3, 10, 10, 20, 0, 0, loc),
		},
		{
			"exact boundary advances one slot",
			time.Date(2026, 3, 10, 10, 0, 0, 0, loc),
			time.Date(2026, 3, 10, 10, 10, 0, 0, loc),
		},
		{
			"just before boundary",
			time.Date(2026, 3, 10, 10, 9, 59, 0, loc),
			time.Date(2026, 3, 10, 10, 20, 0, 0, loc),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextSlot(tc.now, slot)
			if !got.Equal(tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
			if got.Sub(tc.now) < slot {
				t.Errorf("expected result at least %v after now", slot)
			}
		})
	}
}

func TestNextSlot_NonPositiveSlot(t *testing.T) {
	now := time.Now()
	if got := NextSlot(now, 0); !got.Equal(now) {
		t.Errorf("expected now unchanged, got %v", got)
	}
}
