package core

import (
	"testing"
	"time"
)

func TestPeriodStart(t *testing.T) {
	// 2024-03-15 is a Friday.
	now := time.Date(2024, 3, 15, 13, 27, 44, 0, time.UTC)

	cases := []struct {
		period BudgetPeriod
		want   time.Time
	}{
		{Weekly, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{Monthly, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Yearly, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(string(tc.period), func(t *testing.T) {
			got := PeriodStart(tc.period, now)
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPeriodStartWeeklyOnSunday(t *testing.T) {
	// Already Sunday: the boundary is that same day, zeroed.
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	got := PeriodStart(Weekly, now)
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPeriodStartMonthlyOnFirst(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 1, 0, time.UTC)
	got := PeriodStart(Monthly, now)
	want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
