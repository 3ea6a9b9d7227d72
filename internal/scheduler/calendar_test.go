package scheduler

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStudyDaysIncludesWholeRange(t *testing.T) {
	start := day(2026, time.March, 2) // Monday
	exam := day(2026, time.March, 12)

	days := StudyDays(start, exam, true)
	if len(days) != 10 {
		t.Fatalf("expected 10 days, got %d", len(days))
	}
	if !days[0].Equal(start) {
		t.Fatalf("first day = %v, want %v", days[0], start)
	}
	if last := days[len(days)-1]; !last.Equal(day(2026, time.March, 11)) {
		t.Fatalf("exam date must be excluded, last day = %v", last)
	}
}

func TestStudyDaysSkipsWeekends(t *testing.T) {
	start := day(2026, time.March, 6) // Friday
	exam := day(2026, time.March, 10) // Tuesday

	days := StudyDays(start, exam, false)
	if len(days) != 2 {
		t.Fatalf("expected Friday and Monday only, got %d days", len(days))
	}
	for _, d := range days {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("weekend day %v leaked into schedule", d)
		}
	}
}

func TestStudyDaysTruncatesToMidnight(t *testing.T) {
	start := time.Date(2026, time.March, 2, 17, 45, 3, 0, time.UTC)
	exam := time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)

	days := StudyDays(start, exam, true)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	for _, d := range days {
		if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
			t.Fatalf("day %v not truncated to midnight", d)
		}
	}
}

func TestStudyDaysEmptyRanges(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		exam  time.Time
	}{
		{name: "start_equals_exam", start: day(2026, time.March, 2), exam: day(2026, time.March, 2)},
		{name: "start_after_exam", start: day(2026, time.March, 9), exam: day(2026, time.March, 2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if days := StudyDays(tc.start, tc.exam, true); len(days) != 0 {
				t.Fatalf("expected no days, got %d", len(days))
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	a := day(2026, time.March, 2)
	if got := daysBetween(a, a.AddDate(0, 0, 7)); got != 7 {
		t.Fatalf("daysBetween one week = %d, want 7", got)
	}
	if got := daysBetween(a, a); got != 0 {
		t.Fatalf("daysBetween same day = %d, want 0", got)
	}
}
