package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/andresuchdata/salesintel/backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type planRepository struct {
	db *DB
}

func NewPlanRepository(db *DB) *planRepository {
	return &planRepository{db: db}
}

type storedPlanRow struct {
	ID             string          `db:"id"`
	UserID         string          `db:"user_id"`
	ActionID       sql.NullString  `db:"action_id"`
	PlanDate       time.Time       `db:"plan_date"`
	BeatID         string          `db:"beat_id"`
	BeatName       sql.NullString  `db:"beat_name"`
	RetailerIDs    pq.StringArray  `db:"retailer_ids"`
	EstimatedValue decimal.Decimal `db:"estimated_value"`
	CreatedAt      time.Time       `db:"created_at"`
}

func weekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 7)
}

func (r *planRepository) WeekPlanExists(ctx context.Context, userID string, weekStart time.Time) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, weekExistsQuery, userID, weekStart, weekEnd(weekStart)); err != nil {
		return false, fmt.Errorf("failed to check week plans: %w", err)
	}
	return exists, nil
}

const weekExistsQuery = `
	SELECT EXISTS (
		SELECT 1 FROM weekly_plans
		WHERE user_id = $1::uuid AND plan_date >= $2 AND plan_date < $3
	)
`

func (r *planRepository) ListPlanHistory(ctx context.Context, userID string, since, until time.Time) ([]domain.HistoricalPlan, error) {
	query := `
		SELECT beat_id::text AS beat_id, plan_date
		FROM weekly_plans
		WHERE user_id = $1::uuid AND plan_date >= $2 AND plan_date < $3
		ORDER BY plan_date
	`

	var history []domain.HistoricalPlan
	if err := r.db.SelectContext(ctx, &history, query, userID, since, until); err != nil {
		return nil, fmt.Errorf("failed to list plan history: %w", err)
	}
	return history, nil
}

func (r *planRepository) ListWeekPlans(ctx context.Context, userID string, weekStart time.Time) ([]domain.StoredDayPlan, error) {
	query := `
		SELECT id::text AS id, user_id::text AS user_id, action_id::text AS action_id,
			plan_date, beat_id::text AS beat_id, beat_name,
			retailer_ids::text[] AS retailer_ids, estimated_value, created_at
		FROM weekly_plans
		WHERE user_id = $1::uuid AND plan_date >= $2 AND plan_date < $3
		ORDER BY plan_date
	`

	var rows []storedPlanRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, weekStart, weekEnd(weekStart)); err != nil {
		return nil, fmt.Errorf("failed to list week plans: %w", err)
	}

	plans := make([]domain.StoredDayPlan, 0, len(rows))
	for _, row := range rows {
		plans = append(plans, domain.StoredDayPlan{
			ID:             row.ID,
			UserID:         row.UserID,
			ActionID:       row.ActionID.String,
			PlanDate:       row.PlanDate,
			BeatID:         row.BeatID,
			BeatName:       row.BeatName.String,
			RetailerIDs:    []string(row.RetailerIDs),
			EstimatedValue: row.EstimatedValue.InexactFloat64(),
			CreatedAt:      row.CreatedAt,
		})
	}
	return plans, nil
}

func (r *planRepository) SaveWeekPlans(ctx context.Context, params repository.SaveWeekPlansParams) (bool, error) {
	saved := false
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		// Serialise check → delete → insert per user and week
		lockKey := params.UserID + "|" + params.WeekStart.Format("2006-01-02")
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
			return fmt.Errorf("failed to lock week: %w", err)
		}

		var exists bool
		if err := tx.GetContext(ctx, &exists, weekExistsQuery, params.UserID, params.WeekStart, weekEnd(params.WeekStart)); err != nil {
			return fmt.Errorf("failed to check week plans: %w", err)
		}
		if exists && !params.Replace {
			return nil
		}
		if exists {
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM weekly_plans
				WHERE user_id = $1::uuid AND plan_date >= $2 AND plan_date < $3
			`, params.UserID, params.WeekStart, weekEnd(params.WeekStart)); err != nil {
				return fmt.Errorf("failed to delete existing plans: %w", err)
			}
		}

		action := params.Action
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO autonomous_actions (
				id, user_id, action_type, week_start, plan_count, created_at, undo_until
			) VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7)
		`, action.ID, action.UserID, action.ActionType, action.WeekStart, action.PlanCount, action.CreatedAt, action.UndoUntil); err != nil {
			return fmt.Errorf("failed to insert action: %w", err)
		}

		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO weekly_plans (
				id, user_id, action_id, plan_date, beat_id, beat_name,
				retailer_ids, estimated_value, created_at
			) VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5::uuid, $6, $7::uuid[], $8, $9)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, plan := range params.Plans {
			if plan.IsEmpty() {
				continue
			}
			retailerIDs := make([]string, 0, len(plan.Retailers))
			for _, rs := range plan.Retailers {
				retailerIDs = append(retailerIDs, rs.RetailerID)
			}
			if _, err := stmt.ExecContext(ctx,
				uuid.NewString(),
				params.UserID,
				action.ID,
				plan.Date,
				plan.BeatID,
				plan.BeatName,
				pq.Array(retailerIDs),
				decimal.NewFromFloat(plan.EstimatedValue),
				action.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert plan for %s: %w", plan.Date.Format("2006-01-02"), err)
			}
		}

		saved = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return saved, nil
}

func (r *planRepository) GetAction(ctx context.Context, actionID string) (*domain.AutonomousAction, error) {
	query := `
		SELECT id::text AS id, user_id::text AS user_id, action_type, week_start,
			plan_count, created_at, undo_until, reverted_at
		FROM autonomous_actions
		WHERE id = $1::uuid
	`

	var action domain.AutonomousAction
	if err := r.db.GetContext(ctx, &action, query, actionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("action %s: %w", actionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get action: %w", err)
	}
	return &action, nil
}

func (r *planRepository) RevertAction(ctx context.Context, action domain.AutonomousAction, revertedAt time.Time) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE autonomous_actions
			SET reverted_at = $2
			WHERE id = $1::uuid AND reverted_at IS NULL
		`, action.ID, revertedAt)
		if err != nil {
			return fmt.Errorf("failed to mark action reverted: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.ErrActionReverted
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_plans WHERE action_id = $1::uuid`, action.ID); err != nil {
			return fmt.Errorf("failed to delete plans of action: %w", err)
		}
		return nil
	})
}
