package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/andresuchdata/salesintel/backend-go/internal/repository"
	"github.com/andresuchdata/salesintel/backend-go/internal/storage"
)

var refNow = time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)

const (
	userA     = "11111111-1111-1111-1111-111111111111"
	userB     = "22222222-2222-2222-2222-222222222222"
	userC     = "33333333-3333-3333-3333-333333333333"
	userD     = "44444444-4444-4444-4444-444444444444"
	retailer1 = "aaaaaaaa-0000-0000-0000-000000000001"
	retailer2 = "aaaaaaaa-0000-0000-0000-000000000002"
	retailer3 = "aaaaaaaa-0000-0000-0000-000000000003"
	actionID  = "bbbbbbbb-0000-0000-0000-000000000001"
)

type fakeSalesRepo struct {
	users        []domain.User
	usersErr     error
	beats        map[string][]domain.Beat
	retailers    []domain.Retailer
	orders       []domain.Order
	visits       []domain.Visit
	products     []domain.Product
	calls        map[string]int
	mu           sync.Mutex
	requestedIDs [][]string
}

func (f *fakeSalesRepo) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeSalesRepo) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeSalesRepo) ListActiveUsers(ctx context.Context) ([]domain.User, error) {
	f.record("ListActiveUsers")
	return f.users, f.usersErr
}

func (f *fakeSalesRepo) ListActiveBeats(ctx context.Context, userID string) ([]domain.Beat, error) {
	f.record("ListActiveBeats")
	return f.beats[userID], nil
}

func (f *fakeSalesRepo) ListRetailersByBeats(ctx context.Context, beatIDs []string) ([]domain.Retailer, error) {
	f.record("ListRetailersByBeats")
	wanted := make(map[string]bool, len(beatIDs))
	for _, id := range beatIDs {
		wanted[id] = true
	}
	var out []domain.Retailer
	for _, r := range f.retailers {
		if wanted[r.BeatID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSalesRepo) GetRetailer(ctx context.Context, retailerID string) (*domain.Retailer, error) {
	f.record("GetRetailer")
	for _, r := range f.retailers {
		if r.ID == retailerID {
			r := r
			return &r, nil
		}
	}
	return nil, fmt.Errorf("retailer %s: %w", retailerID, domain.ErrNotFound)
}

func (f *fakeSalesRepo) ListActiveRetailerIDsByBeat(ctx context.Context, beatID string) ([]string, error) {
	f.record("ListActiveRetailerIDsByBeat")
	var ids []string
	for _, r := range f.retailers {
		if r.BeatID == beatID && r.Active {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

func (f *fakeSalesRepo) ListConfirmedOrders(ctx context.Context, retailerIDs []string, since time.Time) ([]domain.Order, error) {
	f.record("ListConfirmedOrders")
	f.mu.Lock()
	f.requestedIDs = append(f.requestedIDs, retailerIDs)
	f.mu.Unlock()

	wanted := make(map[string]bool, len(retailerIDs))
	for _, id := range retailerIDs {
		wanted[id] = true
	}
	var out []domain.Order
	for _, o := range f.orders {
		if wanted[o.RetailerID] && !o.CreatedAt.Before(since) && o.IsConfirmed() {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeSalesRepo) ListVisits(ctx context.Context, userID string, since time.Time) ([]domain.Visit, error) {
	f.record("ListVisits")
	return f.visits, nil
}

func (f *fakeSalesRepo) ListProductsWithVariants(ctx context.Context, productIDs []string) ([]domain.Product, error) {
	f.record("ListProductsWithVariants")
	wanted := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	var out []domain.Product
	for _, p := range f.products {
		if wanted[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePlanRepo struct {
	mu       sync.Mutex
	existing map[string]bool
	saveErr  map[string]error
	saved    []repository.SaveWeekPlansParams
	actions  map[string]*domain.AutonomousAction
	reverted []string
	listed   []time.Time
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{
		existing: make(map[string]bool),
		saveErr:  make(map[string]error),
		actions:  make(map[string]*domain.AutonomousAction),
	}
}

func (f *fakePlanRepo) WeekPlanExists(ctx context.Context, userID string, weekStart time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[userID], nil
}

func (f *fakePlanRepo) ListPlanHistory(ctx context.Context, userID string, since, until time.Time) ([]domain.HistoricalPlan, error) {
	return nil, nil
}

func (f *fakePlanRepo) ListWeekPlans(ctx context.Context, userID string, weekStart time.Time) ([]domain.StoredDayPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed = append(f.listed, weekStart)
	return nil, nil
}

func (f *fakePlanRepo) SaveWeekPlans(ctx context.Context, params repository.SaveWeekPlansParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.saveErr[params.UserID]; err != nil {
		return false, err
	}
	if f.existing[params.UserID] && !params.Replace {
		return false, nil
	}
	f.existing[params.UserID] = true
	f.saved = append(f.saved, params)
	action := params.Action
	f.actions[action.ID] = &action
	return true, nil
}

func (f *fakePlanRepo) GetAction(ctx context.Context, id string) (*domain.AutonomousAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.actions[id]
	if !ok {
		return nil, fmt.Errorf("action %s: %w", id, domain.ErrNotFound)
	}
	copied := *a
	return &copied, nil
}

func (f *fakePlanRepo) RevertAction(ctx context.Context, action domain.AutonomousAction, revertedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reverted = append(f.reverted, action.ID)
	if a, ok := f.actions[action.ID]; ok {
		a.RevertedAt = &revertedAt
	}
	return nil
}

type fakeArchiver struct {
	mu     sync.Mutex
	err    error
	saved  []string
	weeks  []storage.ArchivedWeek
	loaded []time.Time
}

func (f *fakeArchiver) LoadWeek(ctx context.Context, weekStart time.Time) ([]storage.ArchivedWeek, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = append(f.loaded, weekStart)
	if f.err != nil {
		return nil, f.err
	}
	return f.weeks, nil
}

func (f *fakeArchiver) Save(ctx context.Context, action domain.AutonomousAction, plans []domain.DayPlan, at time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, action.ID)
	return "weekly-plans/" + action.ID + ".json", nil
}

type fakeSuggestionCache struct {
	bundles     map[string]*domain.SuggestionBundle
	invalidated []string
	flushed     int
}

func newFakeSuggestionCache() *fakeSuggestionCache {
	return &fakeSuggestionCache{bundles: make(map[string]*domain.SuggestionBundle)}
}

func (f *fakeSuggestionCache) Get(ctx context.Context, retailerID string) (*domain.SuggestionBundle, bool, error) {
	b, ok := f.bundles[retailerID]
	return b, ok, nil
}

func (f *fakeSuggestionCache) Set(ctx context.Context, bundle *domain.SuggestionBundle) error {
	f.bundles[bundle.RetailerID] = bundle
	return nil
}

func (f *fakeSuggestionCache) Invalidate(ctx context.Context, retailerID string) error {
	f.invalidated = append(f.invalidated, retailerID)
	delete(f.bundles, retailerID)
	return nil
}

func (f *fakeSuggestionCache) InvalidateAll(ctx context.Context) error {
	f.flushed++
	f.bundles = make(map[string]*domain.SuggestionBundle)
	return nil
}

func confirmedOrder(id, retailerID string, at time.Time, items ...domain.OrderItem) domain.Order {
	for i := range items {
		items[i].OrderID = id
	}
	return domain.Order{
		ID:         id,
		RetailerID: retailerID,
		CreatedAt:  at,
		Status:     domain.OrderStatusConfirmed,
		Items:      items,
	}
}

func line(productID, variantID string, qty float64) domain.OrderItem {
	return domain.OrderItem{
		ProductID:   productID,
		ProductName: "Product " + productID,
		VariantID:   variantID,
		Quantity:    qty,
		Unit:        "PCS",
	}
}
