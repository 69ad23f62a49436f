package config

import (
	"testing"
	"time"
)

func TestPlannerConfigLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		want     string
	}{
		{name: "named zone", timezone: "Asia/Kolkata", want: "Asia/Kolkata"},
		{name: "empty falls back to utc", timezone: "", want: "UTC"},
		{name: "unknown falls back to utc", timezone: "Mars/Olympus", want: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlannerConfig{Timezone: tt.timezone}.Location()
			if got.String() != tt.want {
				t.Fatalf("Location() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPlannerConfigWeekday(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Weekday
	}{
		{raw: "Sunday", want: time.Sunday},
		{raw: " friday ", want: time.Friday},
		{raw: "", want: time.Saturday},
		{raw: "someday", want: time.Saturday},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := (PlannerConfig{ScheduleWeekday: tt.raw}).Weekday(); got != tt.want {
				t.Fatalf("Weekday() = %s, want %s", got, tt.want)
			}
		})
	}
}
