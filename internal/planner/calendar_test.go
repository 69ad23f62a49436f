package planner

import (
	"testing"
	"time"
)

func TestNextWeekStart(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"wednesday", time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC), time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2026, 3, 22, 23, 0, 0, 0, time.UTC), time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC)},
		{"monday", time.Date(2026, 3, 23, 8, 0, 0, 0, time.UTC), time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextWeekStart(tc.now, time.UTC)
			if !got.Equal(tc.want) {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestWeekDays(t *testing.T) {
	// Thursday snaps back to its Monday
	days := WeekDays(time.Date(2026, 3, 26, 12, 0, 0, 0, time.UTC))

	if len(days) != WorkingDaysPerWeek {
		t.Fatalf("expected %d days, got %d", WorkingDaysPerWeek, len(days))
	}
	if days[0].Weekday() != time.Monday || days[5].Weekday() != time.Saturday {
		t.Errorf("expected Monday..Saturday, got %s..%s", days[0].Weekday(), days[5].Weekday())
	}
	if !days[0].Equal(time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected week start %s", days[0])
	}
}

func TestDateIn(t *testing.T) {
	west := time.FixedZone("UTC-5", -5*60*60)
	east := time.FixedZone("IST", 5*60*60+30*60)

	cases := []struct {
		name string
		in   time.Time
		loc  *time.Location
		want time.Time
	}{
		{"utc date west", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), west, time.Date(2026, 10, 19, 0, 0, 0, 0, west)},
		{"utc date east", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), east, time.Date(2026, 10, 19, 0, 0, 0, 0, east)},
		{"late evening kept", time.Date(2026, 10, 19, 23, 30, 0, 0, west), west, time.Date(2026, 10, 19, 0, 0, 0, 0, west)},
		{"nil location", time.Date(2026, 10, 19, 12, 0, 0, 0, east), nil, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DateIn(tc.in, tc.loc)
			if !got.Equal(tc.want) {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
