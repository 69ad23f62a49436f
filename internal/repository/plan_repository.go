// backend-go/internal/repository/plan_repository.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
)

// SaveWeekPlansParams carries everything written for one user's generated week
type SaveWeekPlansParams struct {
	UserID    string
	WeekStart time.Time
	Plans     []domain.DayPlan
	Action    domain.AutonomousAction

	// Replace deletes the week's existing plans before inserting
	Replace bool
}

// PlanRepository persists weekly plans and their audit actions
type PlanRepository interface {
	WeekPlanExists(ctx context.Context, userID string, weekStart time.Time) (bool, error)
	ListPlanHistory(ctx context.Context, userID string, since, until time.Time) ([]domain.HistoricalPlan, error)
	ListWeekPlans(ctx context.Context, userID string, weekStart time.Time) ([]domain.StoredDayPlan, error)

	// SaveWeekPlans runs the existence check, optional delete, inserts and the
	// audit record in one transaction. It reports false when plans already exist
	// for the week and Replace is not set.
	SaveWeekPlans(ctx context.Context, params SaveWeekPlansParams) (bool, error)

	GetAction(ctx context.Context, actionID string) (*domain.AutonomousAction, error)
	RevertAction(ctx context.Context, action domain.AutonomousAction, revertedAt time.Time) error
}
