package planner

import (
	"sort"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
)

const (
	// MaxVisitsPerDay caps the retailers listed in a day plan
	MaxVisitsPerDay = 15

	// historyWeight is added to a beat's average score per past use of the same weekday
	historyWeight = 5
)

// BeatStats aggregates the scored retailers of one beat
type BeatStats struct {
	BeatID          string
	RetailerCount   int
	TotalScore      int
	AvgScore        float64
	TotalPending    float64
	TotalOrderValue float64
}

// AssignWeek greedily assigns one beat to each of the given days.
//
// Days are filled in order; each picks the unused beat maximising
// avgScore + 5 × (times the beat was planned on that weekday before). Ties keep
// the first beat in input order. A beat is used at most once per week and beats
// without scored retailers are never picked. A day with no eligible beat yields
// an empty DayPlan. The heuristic does not backtrack, so the week is not
// guaranteed to be the best possible day × beat matching.
func AssignWeek(beats []domain.Beat, scores []domain.RetailerScore, weekDays []time.Time, history []domain.HistoricalPlan) []domain.DayPlan {
	byBeat := GroupByBeat(scores)
	stats := make(map[string]BeatStats, len(byBeat))
	for beatID, group := range byBeat {
		stats[beatID] = computeBeatStats(beatID, group)
	}
	preferences := weekdayPreferences(history)

	used := make(map[string]bool, len(weekDays))
	plans := make([]domain.DayPlan, 0, len(weekDays))

	for _, day := range weekDays {
		dayName := day.Weekday().String()

		var (
			best      *domain.Beat
			bestValue float64
		)
		for i := range beats {
			beat := &beats[i]
			if !beat.Active || used[beat.ID] {
				continue
			}
			s, ok := stats[beat.ID]
			if !ok || s.RetailerCount == 0 {
				continue
			}

			value := s.AvgScore + historyWeight*float64(preferences[beat.ID][dayName])
			if best == nil || value > bestValue {
				best = beat
				bestValue = value
			}
		}

		if best == nil {
			plans = append(plans, domain.DayPlan{
				Day:       dayName,
				Date:      day,
				Retailers: make([]domain.RetailerScore, 0),
			})
			continue
		}

		used[best.ID] = true
		group := byBeat[best.ID]
		if len(group) > MaxVisitsPerDay {
			group = group[:MaxVisitsPerDay]
		}
		selected := make([]domain.RetailerScore, len(group))
		copy(selected, group)

		var estimated float64
		for _, r := range selected {
			estimated += r.AvgOrderValue
		}

		plans = append(plans, domain.DayPlan{
			Day:            dayName,
			Date:           day,
			BeatID:         best.ID,
			BeatName:       best.Name,
			Retailers:      selected,
			EstimatedValue: estimated,
		})
	}

	return plans
}

// GroupByBeat groups scores by beat id, each group sorted by score descending.
// Equal scores keep their input order.
func GroupByBeat(scores []domain.RetailerScore) map[string][]domain.RetailerScore {
	groups := make(map[string][]domain.RetailerScore)
	for _, s := range scores {
		groups[s.BeatID] = append(groups[s.BeatID], s)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})
	}
	return groups
}

func computeBeatStats(beatID string, group []domain.RetailerScore) BeatStats {
	s := BeatStats{BeatID: beatID, RetailerCount: len(group)}
	for _, r := range group {
		s.TotalScore += r.Score
		s.TotalPending += r.PendingAmount
		s.TotalOrderValue += r.AvgOrderValue
	}
	if s.RetailerCount > 0 {
		s.AvgScore = float64(s.TotalScore) / float64(s.RetailerCount)
	}
	return s
}

// weekdayPreferences counts, per beat, how often each weekday name was planned.
func weekdayPreferences(history []domain.HistoricalPlan) map[string]map[string]int {
	prefs := make(map[string]map[string]int)
	for _, h := range history {
		if h.BeatID == "" {
			continue
		}
		if prefs[h.BeatID] == nil {
			prefs[h.BeatID] = make(map[string]int)
		}
		prefs[h.BeatID][h.PlanDate.Weekday().String()]++
	}
	return prefs
}
