package scheduler

import "time"

// StudyDays enumerates the eligible study days in [start, exam),
// truncated to midnight in start's location. Saturdays and Sundays are
// skipped unless includeWeekends is set.
func StudyDays(start, exam time.Time, includeWeekends bool) []time.Time {
	var days []time.Time
	day := truncateToDay(start)
	examDay := truncateToDay(exam)
	for day.Before(examDay) {
		wd := day.Weekday()
		if includeWeekends || (wd != time.Saturday && wd != time.Sunday) {
			days = append(days, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days from a to b, both midnight
// truncated. Rounded so DST transitions cannot skew the count.
func daysBetween(a, b time.Time) int {
	hours := truncateToDay(b).Sub(truncateToDay(a)).Hours()
	if hours >= 0 {
		return int(hours/24 + 0.5)
	}
	return -int(-hours/24 + 0.5)
}
