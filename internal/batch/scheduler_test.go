package batch

import (
	"testing"
	"time"
)

func TestWeeklyScheduleNext(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	schedule := WeeklySchedule{Weekday: time.Saturday, Hour: 20, Location: ist}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "earlier in the week",
			now:  time.Date(2026, 3, 18, 10, 0, 0, 0, ist),
			want: time.Date(2026, 3, 21, 20, 0, 0, 0, ist),
		},
		{
			name: "same day before the hour",
			now:  time.Date(2026, 3, 21, 19, 59, 0, 0, ist),
			want: time.Date(2026, 3, 21, 20, 0, 0, 0, ist),
		},
		{
			name: "exactly at the firing moves a week on",
			now:  time.Date(2026, 3, 21, 20, 0, 0, 0, ist),
			want: time.Date(2026, 3, 28, 20, 0, 0, 0, ist),
		},
		{
			name: "sunday after",
			now:  time.Date(2026, 3, 22, 9, 0, 0, 0, ist),
			want: time.Date(2026, 3, 28, 20, 0, 0, 0, ist),
		},
		{
			name: "utc input is converted",
			now:  time.Date(2026, 3, 21, 15, 0, 0, 0, time.UTC), // 20:30 IST
			want: time.Date(2026, 3, 28, 20, 0, 0, 0, ist),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.Next(tt.now)
			if !got.Equal(tt.want) {
				t.Fatalf("Next(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
