package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/basket"
	"github.com/andresuchdata/salesintel/backend-go/internal/cache"
	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/andresuchdata/salesintel/backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type BasketService struct {
	sales repository.SalesRepository
	cache cache.SuggestionCache
	now   func() time.Time
}

func NewBasketService(sales repository.SalesRepository, cacheImpl cache.SuggestionCache) *BasketService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSuggestionCache()
	}
	return &BasketService{sales: sales, cache: cacheImpl, now: time.Now}
}

// GetSuggestions returns the retailer's repeat, trending and upsell suggestions.
func (s *BasketService) GetSuggestions(ctx context.Context, retailerID string) (*domain.SuggestionBundle, error) {
	if _, err := uuid.Parse(retailerID); err != nil {
		return nil, fmt.Errorf("retailer_id %q: %w", retailerID, domain.ErrInvalidInput)
	}

	if bundle, ok, err := s.cache.Get(ctx, retailerID); err == nil && ok {
		return bundle, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("basket: cache get suggestions failed")
	}

	retailer, err := s.sales.GetRetailer(ctx, retailerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var (
		ownOrders  []domain.Order
		roster     []string
		beatOrders []domain.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ownOrders, err = s.sales.ListConfirmedOrders(gctx, []string{retailer.ID}, now.AddDate(0, 0, -basket.RepeatWindowDays))
		return err
	})
	g.Go(func() error {
		var err error
		roster, err = s.sales.ListActiveRetailerIDsByBeat(gctx, retailer.BeatID)
		if err != nil || len(roster) == 0 {
			return err
		}
		beatOrders, err = s.sales.ListConfirmedOrders(gctx, roster, now.AddDate(0, 0, -basket.TrendWindowDays))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load basket data: %w", err)
	}

	history := basket.NewPurchaseHistory(ownOrders)

	products, err := s.sales.ListProductsWithVariants(ctx, history.BaseProductIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	bundle := domain.NewSuggestionBundle(
		retailer.ID,
		now,
		basket.AnalyzeRepeatOrders(ownOrders, now),
		basket.AnalyzeBeatTrends(beatOrders, roster, history),
		basket.AnalyzePackUpsells(products, history),
	)

	if err := s.cache.Set(ctx, bundle); err != nil {
		log.Warn().Err(err).Msg("basket: cache set suggestions failed")
	}

	return bundle, nil
}

// InvalidateSuggestions drops the cached bundle of a retailer.
func (s *BasketService) InvalidateSuggestions(ctx context.Context, retailerID string) error {
	if _, err := uuid.Parse(retailerID); err != nil {
		return fmt.Errorf("retailer_id %q: %w", retailerID, domain.ErrInvalidInput)
	}
	return s.cache.Invalidate(ctx, retailerID)
}

// InvalidateAllSuggestions drops every cached bundle, e.g. after a catalogue change.
func (s *BasketService) InvalidateAllSuggestions(ctx context.Context) error {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("failed to flush suggestion cache: %w", err)
	}
	log.Info().Msg("basket: suggestion cache flushed")
	return nil
}
