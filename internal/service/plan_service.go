package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/batch"
	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/andresuchdata/salesintel/backend-go/internal/planner"
	"github.com/andresuchdata/salesintel/backend-go/internal/repository"
	"github.com/andresuchdata/salesintel/backend-go/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// UndoWindow is how long a generated week can be reverted
	UndoWindow = 7 * 24 * time.Hour

	// historyWeeks of past assignments feed the weekday preference
	historyWeeks = 4
)

// PlanArchiver stores a snapshot of each generated week and reads them back
type PlanArchiver interface {
	Save(ctx context.Context, action domain.AutonomousAction, plans []domain.DayPlan, at time.Time) (string, error)
	LoadWeek(ctx context.Context, weekStart time.Time) ([]storage.ArchivedWeek, error)
}

type PlanService struct {
	sales    repository.SalesRepository
	plans    repository.PlanRepository
	archive  PlanArchiver
	pool     *batch.Pool
	location *time.Location
	now      func() time.Time
}

func NewPlanService(sales repository.SalesRepository, plans repository.PlanRepository, archive PlanArchiver, workerCount int, loc *time.Location) *PlanService {
	if loc == nil {
		loc = time.UTC
	}
	return &PlanService{
		sales:    sales,
		plans:    plans,
		archive:  archive,
		pool:     batch.NewPool("weekly-plans", workerCount),
		location: loc,
		now:      time.Now,
	}
}

// GenerateWeeklyPlans plans the target week for one user or every active user.
// A failure on one user is reported in its result; only a failure to list users
// aborts the run.
func (s *PlanService) GenerateWeeklyPlans(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationReport, error) {
	now := s.now()

	weekStart := planner.NextWeekStart(now, s.location)
	if req.WeekStart != nil {
		weekStart = planner.StartOfWeek(planner.DateIn(*req.WeekStart, s.location))
	}

	var users []domain.User
	if req.UserID != "" {
		if _, err := uuid.Parse(req.UserID); err != nil {
			return nil, fmt.Errorf("user_id %q: %w", req.UserID, domain.ErrInvalidInput)
		}
		users = []domain.User{{ID: req.UserID, Active: true}}
	} else {
		var err error
		users, err = s.sales.ListActiveUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
	}

	log.Info().
		Int("users", len(users)).
		Str("week_start", weekStart.Format("2006-01-02")).
		Bool("force", req.ForceRegenerate).
		Msg("plans: generating weekly plans")

	results, done, err := batch.Run(ctx, s.pool, users, func(ctx context.Context, u domain.User) domain.UserGenerationResult {
		return s.generateForUser(ctx, u.ID, weekStart, req.ForceRegenerate, now)
	})
	if err != nil {
		log.Warn().Err(err).Msg("plans: generation interrupted")
	}

	report := &domain.GenerationReport{
		WeekStart: weekStart,
		Results:   make([]domain.UserGenerationResult, 0, len(users)),
	}
	for i, res := range results {
		if !done[i] {
			res = errorResult(users[i].ID, err)
		}
		switch res.Status {
		case domain.GenerationSuccess:
			report.Summary.Success++
		case domain.GenerationSkipped:
			report.Summary.Skipped++
		default:
			report.Summary.Error++
		}
		report.Results = append(report.Results, res)
	}

	log.Info().
		Int("success", report.Summary.Success).
		Int("skipped", report.Summary.Skipped).
		Int("error", report.Summary.Error).
		Msg("plans: generation finished")

	return report, nil
}

func (s *PlanService) generateForUser(ctx context.Context, userID string, weekStart time.Time, force bool, now time.Time) domain.UserGenerationResult {
	// 1. Skip weeks already planned unless forced
	if !force {
		exists, err := s.plans.WeekPlanExists(ctx, userID, weekStart)
		if err != nil {
			return errorResult(userID, err)
		}
		if exists {
			return skippedResult(userID, domain.SkipPlanExists)
		}
	}

	// 2. Score the user's retailers
	beats, scores, reason, err := s.scoreUser(ctx, userID, now)
	if err != nil {
		return errorResult(userID, err)
	}
	if reason != "" {
		return skippedResult(userID, reason)
	}

	// 3. Assign beats to the week's days
	history, err := s.plans.ListPlanHistory(ctx, userID, weekStart.AddDate(0, 0, -7*historyWeeks), weekStart)
	if err != nil {
		return errorResult(userID, err)
	}
	dayPlans := planner.AssignWeek(beats, scores, planner.WeekDays(weekStart), history)

	planCount := 0
	estimated := 0.0
	for _, p := range dayPlans {
		if !p.IsEmpty() {
			planCount++
			estimated += p.EstimatedValue
		}
	}
	if planCount == 0 {
		return skippedResult(userID, domain.SkipNoEligibleBeats)
	}

	// 4. Persist plans and the undoable action together
	action := domain.AutonomousAction{
		ID:         uuid.NewString(),
		UserID:     userID,
		ActionType: domain.ActionTypeWeeklyPlan,
		WeekStart:  weekStart,
		PlanCount:  planCount,
		CreatedAt:  now,
		UndoUntil:  now.Add(UndoWindow),
	}
	saved, err := s.plans.SaveWeekPlans(ctx, repository.SaveWeekPlansParams{
		UserID:    userID,
		WeekStart: weekStart,
		Plans:     dayPlans,
		Action:    action,
		Replace:   force,
	})
	if err != nil {
		return errorResult(userID, err)
	}
	if !saved {
		return skippedResult(userID, domain.SkipPlanExists)
	}

	if s.archive != nil {
		if key, err := s.archive.Save(ctx, action, dayPlans, now); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("plans: archive failed")
		} else {
			log.Debug().Str("key", key).Msg("plans: archived week")
		}
	}

	return domain.UserGenerationResult{
		UserID:         userID,
		Status:         domain.GenerationSuccess,
		ActionID:       action.ID,
		PlanCount:      planCount,
		EstimatedValue: estimated,
	}
}

// scoreUser loads and scores the retailers of the user's active beats. A
// non-empty reason means there was nothing to score.
func (s *PlanService) scoreUser(ctx context.Context, userID string, now time.Time) ([]domain.Beat, []domain.RetailerScore, string, error) {
	beats, err := s.sales.ListActiveBeats(ctx, userID)
	if err != nil {
		return nil, nil, "", err
	}
	if len(beats) == 0 {
		return nil, nil, domain.SkipNoBeats, nil
	}

	beatIDs := make([]string, 0, len(beats))
	for _, b := range beats {
		beatIDs = append(beatIDs, b.ID)
	}
	retailers, err := s.sales.ListRetailersByBeats(ctx, beatIDs)
	if err != nil {
		return nil, nil, "", err
	}
	if len(retailers) == 0 {
		return beats, nil, domain.SkipNoRetailers, nil
	}

	retailerIDs := make([]string, 0, len(retailers))
	for _, r := range retailers {
		retailerIDs = append(retailerIDs, r.ID)
	}

	since := now.AddDate(0, 0, -planner.LookbackDays)
	var (
		orders []domain.Order
		visits []domain.Visit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.sales.ListConfirmedOrders(gctx, retailerIDs, since)
		return err
	})
	g.Go(func() error {
		var err error
		visits, err = s.sales.ListVisits(gctx, userID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, "", err
	}

	return beats, planner.ScoreRetailers(retailers, orders, visits, now), "", nil
}

// ScoreUserRetailers returns the user's retailers by descending priority.
func (s *PlanService) ScoreUserRetailers(ctx context.Context, userID string) ([]domain.RetailerScore, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("user_id %q: %w", userID, domain.ErrInvalidInput)
	}

	_, scores, _, err := s.scoreUser(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	if scores == nil {
		return make([]domain.RetailerScore, 0), nil
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores, nil
}

// ListWeekPlans returns the stored plans of the week containing weekStart,
// defaulting to the current week.
func (s *PlanService) ListWeekPlans(ctx context.Context, userID string, weekStart *time.Time) ([]domain.StoredDayPlan, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("user_id %q: %w", userID, domain.ErrInvalidInput)
	}

	start := planner.StartOfWeek(s.now().In(s.location))
	if weekStart != nil {
		start = planner.StartOfWeek(planner.DateIn(*weekStart, s.location))
	}

	plans, err := s.plans.ListWeekPlans(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = make([]domain.StoredDayPlan, 0)
	}
	return plans, nil
}

// ListArchivedWeek returns the archived snapshots of the week containing
// weekStart, defaulting to the current week.
func (s *PlanService) ListArchivedWeek(ctx context.Context, weekStart *time.Time) ([]storage.ArchivedWeek, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("plan archive: %w", domain.ErrUnavailable)
	}

	start := planner.StartOfWeek(s.now().In(s.location))
	if weekStart != nil {
		start = planner.StartOfWeek(planner.DateIn(*weekStart, s.location))
	}

	weeks, err := s.archive.LoadWeek(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan archive: %w", err)
	}
	return weeks, nil
}

// UndoAction reverts a generated week while its undo window is open.
func (s *PlanService) UndoAction(ctx context.Context, actionID string) (*domain.AutonomousAction, error) {
	if _, err := uuid.Parse(actionID); err != nil {
		return nil, fmt.Errorf("action_id %q: %w", actionID, domain.ErrInvalidInput)
	}

	action, err := s.plans.GetAction(ctx, actionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := action.CanUndo(now); err != nil {
		return nil, err
	}
	if err := s.plans.RevertAction(ctx, *action, now); err != nil {
		return nil, err
	}

	action.RevertedAt = &now
	log.Info().Str("action_id", action.ID).Str("user_id", action.UserID).Msg("plans: action reverted")
	return action, nil
}

func skippedResult(userID, reason string) domain.UserGenerationResult {
	return domain.UserGenerationResult{
		UserID: userID,
		Status: domain.GenerationSkipped,
		Reason: reason,
	}
}

func errorResult(userID string, err error) domain.UserGenerationResult {
	log.Error().Err(err).Str("user_id", userID).Msg("plans: generation failed")
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return domain.UserGenerationResult{
		UserID: userID,
		Status: domain.GenerationError,
		Reason: reason,
	}
}
