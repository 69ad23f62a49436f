package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
)

const planArchivePrefix = "weekly-plans"

// ArchivedWeek is the JSON snapshot written for every generated week
type ArchivedWeek struct {
	Action     domain.AutonomousAction `json:"action"`
	Plans      []domain.DayPlan        `json:"plans"`
	ArchivedAt time.Time               `json:"archived_at"`
}

// PlanArchive keeps immutable snapshots of generated weeks next to the database rows.
type PlanArchive struct {
	store ObjectStorage
}

func NewPlanArchive(store ObjectStorage) *PlanArchive {
	return &PlanArchive{store: store}
}

// ArchiveKey is weekly-plans/<week_start>/<user_id>/<action_id>.json
func ArchiveKey(action domain.AutonomousAction) string {
	return path.Join(planArchivePrefix, action.WeekStart.Format("2006-01-02"), action.UserID, action.ID+".json")
}

func (a *PlanArchive) Save(ctx context.Context, action domain.AutonomousAction, plans []domain.DayPlan, at time.Time) (string, error) {
	payload, err := json.Marshal(ArchivedWeek{Action: action, Plans: plans, ArchivedAt: at})
	if err != nil {
		return "", fmt.Errorf("encode plan archive: %w", err)
	}

	key := ArchiveKey(action)
	if err := a.store.UploadObject(ctx, key, payload); err != nil {
		return "", err
	}
	return key, nil
}

func (a *PlanArchive) Load(ctx context.Context, key string) (*ArchivedWeek, error) {
	body, err := a.store.GetObject(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read plan archive %s: %w", key, err)
	}

	var week ArchivedWeek
	if err := json.Unmarshal(raw, &week); err != nil {
		return nil, fmt.Errorf("decode plan archive %s: %w", key, err)
	}
	return &week, nil
}

// ListWeek returns the archive keys written for a week, across users.
func (a *PlanArchive) ListWeek(ctx context.Context, weekStart time.Time) ([]string, error) {
	objects, err := a.store.ListObjects(ctx, path.Join(planArchivePrefix, weekStart.Format("2006-01-02"))+"/")
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	return keys, nil
}

// LoadWeek returns every snapshot archived for a week, in key order.
func (a *PlanArchive) LoadWeek(ctx context.Context, weekStart time.Time) ([]ArchivedWeek, error) {
	keys, err := a.ListWeek(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	weeks := make([]ArchivedWeek, 0, len(keys))
	for _, key := range keys {
		week, err := a.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, *week)
	}
	return weeks, nil
}
