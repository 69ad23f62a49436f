package batch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// WeeklySchedule fires once a week at Weekday Hour:00 in Location
type WeeklySchedule struct {
	Weekday  time.Weekday
	Hour     int
	Location *time.Location
}

// Next returns the first firing strictly after now.
func (s WeeklySchedule) Next(now time.Time) time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	hour := s.Hour
	if hour < 0 || hour > 23 {
		hour = 0
	}

	local := now.In(loc)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	offset := (int(s.Weekday) - int(candidate.Weekday()) + 7) % 7
	candidate = candidate.AddDate(0, 0, offset)
	if !candidate.After(local) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// RunWeekly calls job at every firing of schedule until ctx is done.
func RunWeekly(ctx context.Context, name string, schedule WeeklySchedule, job func(ctx context.Context)) {
	for {
		next := schedule.Next(time.Now())
		log.Info().Str("job", name).Time("next_run", next).Msg("scheduler: waiting")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Str("job", name).Msg("scheduler: stopped")
			return
		case <-timer.C:
		}

		log.Info().Str("job", name).Msg("scheduler: running")
		job(ctx)
	}
}
