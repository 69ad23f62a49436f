package planner

import "time"

// WorkingDaysPerWeek is Monday through Saturday
const WorkingDaysPerWeek = 6

// NextWeekStart returns midnight of the Monday following now, in loc.
func NextWeekStart(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	offset := (int(time.Monday) - int(midnight.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return midnight.AddDate(0, 0, offset)
}

// StartOfWeek returns midnight of the Monday of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(midnight.Weekday()) - int(time.Monday) + 7) % 7
	return midnight.AddDate(0, 0, -offset)
}

// DateIn reads the calendar date of t and returns its midnight in loc.
func DateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// WeekDays returns the Monday–Saturday dates of the week starting at weekStart.
func WeekDays(weekStart time.Time) []time.Time {
	start := StartOfWeek(weekStart)
	days := make([]time.Time, WorkingDaysPerWeek)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
