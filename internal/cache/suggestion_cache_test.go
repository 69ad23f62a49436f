package cache

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/config"
	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
)

func TestSuggestionKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "AAAA-01", want: "suggestions:aaaa-01"},
		{in: "  aaaa-01 ", want: "suggestions:aaaa-01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := suggestionKey(tt.in); got != tt.want {
				t.Fatalf("suggestionKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.CacheConfig
		wantAddr string
		wantDB   int
		wantErr  bool
	}{
		{name: "defaults", cfg: config.CacheConfig{}, wantAddr: "127.0.0.1:6379"},
		{name: "host and port", cfg: config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2}, wantAddr: "cache:6380", wantDB: 2},
		{name: "url wins", cfg: config.CacheConfig{RedisURL: "redis://redis.internal:6379/3", RedisHost: "ignored"}, wantAddr: "redis.internal:6379", wantDB: 3},
		{name: "bad url", cfg: config.CacheConfig{RedisURL: "http://nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := buildRedisOptions(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("buildRedisOptions() error = %v", err)
			}
			if opts.Addr != tt.wantAddr || opts.DB != tt.wantDB {
				t.Fatalf("opts = %s db %d, want %s db %d", opts.Addr, opts.DB, tt.wantAddr, tt.wantDB)
			}
		})
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := NewSuggestionCache(config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewSuggestionCache() error = %v", err)
	}

	ctx := context.Background()
	bundle := domain.NewSuggestionBundle("r1", time.Now(), nil, nil, nil)
	if err := c.Set(ctx, bundle); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := c.Get(ctx, "r1")
	if err != nil || ok || got != nil {
		t.Fatalf("Get() = %v, %v, %v; want miss", got, ok, err)
	}
	if err := c.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll() error = %v", err)
	}
}
