package domain

import "time"

// RetailerScore is the visit priority of a retailer. Score is always within [0, 100]
// and Reasons is never empty.
type RetailerScore struct {
	RetailerID         string        `json:"retailer_id"`
	RetailerName       string        `json:"retailer_name"`
	BeatID             string        `json:"beat_id"`
	Score              int           `json:"score"`
	Reasons            []string      `json:"reasons"`
	DaysSinceLastVisit int           `json:"days_since_last_visit"`
	PendingAmount      float64       `json:"pending_amount"`
	Potential          PotentialTier `json:"potential"`
	AvgOrderValue      float64       `json:"avg_order_value"`
}

// DayPlan is the beat assigned to one working day. An empty BeatID means no beat was eligible.
type DayPlan struct {
	Day            string          `json:"day"`
	Date           time.Time       `json:"date"`
	BeatID         string          `json:"beat_id"`
	BeatName       string          `json:"beat_name"`
	Retailers      []RetailerScore `json:"retailers"`
	EstimatedValue float64         `json:"estimated_value"`
}

// IsEmpty reports whether no beat was assigned for the day
func (p DayPlan) IsEmpty() bool {
	return p.BeatID == ""
}

// HistoricalPlan is a previously persisted beat/day assignment
type HistoricalPlan struct {
	BeatID   string    `json:"beat_id" db:"beat_id"`
	PlanDate time.Time `json:"plan_date" db:"plan_date"`
}

// StoredDayPlan is a persisted day plan row
type StoredDayPlan struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	ActionID       string    `json:"action_id" db:"action_id"`
	PlanDate       time.Time `json:"plan_date" db:"plan_date"`
	BeatID         string    `json:"beat_id" db:"beat_id"`
	BeatName       string    `json:"beat_name" db:"beat_name"`
	RetailerIDs    []string  `json:"retailer_ids" db:"-"`
	EstimatedValue float64   `json:"estimated_value" db:"-"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// AutonomousAction is the audit record of a system-generated change that a user can undo
type AutonomousAction struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"user_id" db:"user_id"`
	ActionType string     `json:"action_type" db:"action_type"`
	WeekStart  time.Time  `json:"week_start" db:"week_start"`
	PlanCount  int        `json:"plan_count" db:"plan_count"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UndoUntil  time.Time  `json:"undo_until" db:"undo_until"`
	RevertedAt *time.Time `json:"reverted_at,omitempty" db:"reverted_at"`
}

// CanUndo reports whether the action may still be reverted at now
func (a AutonomousAction) CanUndo(now time.Time) error {
	if a.RevertedAt != nil {
		return ErrActionReverted
	}
	if now.After(a.UndoUntil) {
		return ErrUndoExpired
	}
	return nil
}

// GenerationRequest is the input of a weekly plan generation run
type GenerationRequest struct {
	UserID          string     `json:"user_id,omitempty"`
	ForceRegenerate bool       `json:"force_regenerate"`
	WeekStart       *time.Time `json:"week_start,omitempty"`
}

// UserGenerationResult is the outcome of a run for one user
type UserGenerationResult struct {
	UserID         string           `json:"user_id"`
	Status         GenerationStatus `json:"status"`
	Reason         string           `json:"reason,omitempty"`
	ActionID       string           `json:"action_id,omitempty"`
	PlanCount      int              `json:"plan_count"`
	EstimatedValue float64          `json:"estimated_value"`
}

// GenerationSummary counts results by status
type GenerationSummary struct {
	Success int `json:"success"`
	Skipped int `json:"skipped"`
	Error   int `json:"error"`
}

// GenerationReport is returned for every generation run
type GenerationReport struct {
	WeekStart time.Time              `json:"week_start"`
	Results   []UserGenerationResult `json:"results"`
	Summary   GenerationSummary      `json:"summary"`
}
