package domain

import "strings"

// PotentialTier is the sales potential assigned to a retailer
type PotentialTier string

const (
	PotentialLow    PotentialTier = "low"
	PotentialMedium PotentialTier = "medium"
	PotentialHigh   PotentialTier = "high"
)

// ParsePotentialTier normalizes a stored tier, defaulting to low.
func ParsePotentialTier(raw string) PotentialTier {
	switch PotentialTier(strings.ToLower(strings.TrimSpace(raw))) {
	case PotentialHigh:
		return PotentialHigh
	case PotentialMedium:
		return PotentialMedium
	default:
		return PotentialLow
	}
}

// PriorityFlag marks retailers that sales ops want visited first
type PriorityFlag string

const (
	PriorityNormal PriorityFlag = "normal"
	PriorityHigh   PriorityFlag = "high"
)

// ParsePriorityFlag normalizes a stored flag, defaulting to normal.
func ParsePriorityFlag(raw string) PriorityFlag {
	if PriorityFlag(strings.ToLower(strings.TrimSpace(raw))) == PriorityHigh {
		return PriorityHigh
	}
	return PriorityNormal
}

const (
	OrderStatusConfirmed = "confirmed"

	VisitStatusCompleted = "completed"
	VisitStatusPlanned   = "planned"
)

// GenerationStatus is the per-user outcome of a plan generation run
type GenerationStatus string

const (
	GenerationSuccess GenerationStatus = "success"
	GenerationSkipped GenerationStatus = "skipped"
	GenerationError   GenerationStatus = "error"
)

// Machine-readable skip reasons
const (
	SkipPlanExists      = "plan_exists"
	SkipNoBeats         = "no_beats"
	SkipNoRetailers     = "no_retailers"
	SkipNoEligibleBeats = "no_eligible_beats"
)

// ActionTypeWeeklyPlan is the audit action type written for generated weekly plans
const ActionTypeWeeklyPlan = "weekly_plan_generated"
