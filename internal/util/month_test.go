package util

import (
	"testing"
	"time"
)

func TestMonthStartAndEnd(t *testing.T) {
	tm := time.Date(2024, 2, 17, 15, 4, 5, 0, time.UTC)

	start := MonthStart(tm)
	if !start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("MonthStart = %v, want 2024-02-01", start)
	}

	end := MonthEnd(tm)
	if end.Day() != 29 || end.Hour() != 23 || end.Minute() != 59 {
		t.Errorf("MonthEnd = %v, want last instant of 2024-02-29", end)
	}
}

func TestDayEnd_InclusiveThroughMidnight(t *testing.T) {
	tm := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := DayEnd(tm)
	next := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	if !end.Before(next) {
		t.Errorf("DayEnd(%v) = %v, should be before %v", tm, end, next)
	}
	if next.Sub(end) != time.Nanosecond {
		t.Errorf("DayEnd(%v) = %v, want one nanosecond before midnight", tm, end)
	}
}

func TestKeysAndLabels(t *testing.T) {
	tm := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"month key", MonthKey(tm), "2025-01"},
		{"month label", MonthLabel(tm), "Jan 2025"},
		{"day key", DayKey(tm), "2025-01-05"},
		{"day label", DayLabel(tm), "Jan 5, 2025"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestISOWeekKey(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		wantKey   string
		wantLabel string
	}{
		{
			name:      "monday of week 1 falls in previous calendar year",
			date:      time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			wantKey:   "2025-W01",
			wantLabel: "Week 1, 2025",
		},
		{
			name:      "early january belongs to week 53 of prior year",
			date:      time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC),
			wantKey:   "2020-W53",
			wantLabel: "Week 53, 2020",
		},
		{
			name:      "mid year",
			date:      time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC),
			wantKey:   "2025-W25",
			wantLabel: "Week 25, 2025",
		},
		{
			name:      "sunday stays in the week started on monday",
			date:      time.Date(2025, 6, 22, 23, 0, 0, 0, time.UTC),
			wantKey:   "2025-W25",
			wantLabel: "Week 25, 2025",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ISOWeekKey(tt.date); got != tt.wantKey {
				t.Errorf("ISOWeekKey(%v) = %q, want %q", tt.date, got, tt.wantKey)
			}
			if got := ISOWeekLabel(tt.date); got != tt.wantLabel {
				t.Errorf("ISOWeekLabel(%v) = %q, want %q", tt.date, got, tt.wantLabel)
			}
		})
	}
}

func TestISOWeekStart(t *testing.T) {
	tests := []struct {
		date time.Time
		want time.Time
	}{
		{time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC), time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 6, 22, 23, 0, 0, 0, time.UTC), time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := ISOWeekStart(tt.date); !got.Equal(tt.want) {
			t.Errorf("ISOWeekStart(%v) = %v, want %v", tt.date, got, tt.want)
		}
	}
}
