package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/config"
	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const suggestionKeyPrefix = "suggestions:"

// SuggestionCache stores computed suggestion bundles per retailer
type SuggestionCache interface {
	Get(ctx context.Context, retailerID string) (*domain.SuggestionBundle, bool, error)
	Set(ctx context.Context, bundle *domain.SuggestionBundle) error
	Invalidate(ctx context.Context, retailerID string) error
	InvalidateAll(ctx context.Context) error
}

type redisSuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSuggestionCache struct{}

func NewSuggestionCache(cfg config.CacheConfig) (SuggestionCache, error) {
	if !cfg.Enabled {
		return &noopSuggestionCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSuggestionCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopSuggestionCache() SuggestionCache {
	return &noopSuggestionCache{}
}

func (c *redisSuggestionCache) Get(ctx context.Context, retailerID string) (*domain.SuggestionBundle, bool, error) {
	payload, err := c.client.Get(ctx, suggestionKey(retailerID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var bundle domain.SuggestionBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return nil, false, fmt.Errorf("decode suggestion cache: %w", err)
	}

	return &bundle, true, nil
}

func (c *redisSuggestionCache) Set(ctx context.Context, bundle *domain.SuggestionBundle) error {
	if bundle == nil {
		return nil
	}

	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode suggestion cache: %w", err)
	}

	if err := c.client.Set(ctx, suggestionKey(bundle.RetailerID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSuggestionCache) Invalidate(ctx context.Context, retailerID string) error {
	if err := c.client.Del(ctx, suggestionKey(retailerID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *redisSuggestionCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, suggestionKeyPrefix, scanBatchSize)
}

func (n *noopSuggestionCache) Get(ctx context.Context, retailerID string) (*domain.SuggestionBundle, bool, error) {
	return nil, false, nil
}

func (n *noopSuggestionCache) Set(ctx context.Context, bundle *domain.SuggestionBundle) error {
	return nil
}

func (n *noopSuggestionCache) Invalidate(ctx context.Context, retailerID string) error {
	return nil
}

func (n *noopSuggestionCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func suggestionKey(retailerID string) string {
	return suggestionKeyPrefix + strings.ToLower(strings.TrimSpace(retailerID))
}
