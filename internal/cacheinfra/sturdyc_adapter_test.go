package cacheinfra

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Capacity:           100,
		NumShards:          4,
		TTL:                time.Hour,
		EvictionPercentage: 10,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Capacity != 2048 {
		t.Errorf("expected Capacity to be 2048, got %d", cfg.Capacity)
	}
	if cfg.NumShards != 16 {
		t.Errorf("expected NumShards to be 16, got %d", cfg.NumShards)
	}
	if cfg.TTL != 24*time.Hour {
		t.Errorf("expected TTL to be 24h, got %v", cfg.TTL)
	}
	if cfg.EvictionPercentage != 10 {
		t.Errorf("expected EvictionPercentage to be 10, got %d", cfg.EvictionPercentage)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero capacity", mutate: func(c *Config) { c.Capacity = 0 }, wantField: "Capacity"},
		{name: "zero shards", mutate: func(c *Config) { c.NumShards = 0 }, wantField: "NumShards"},
		{name: "more shards than capacity", mutate: func(c *Config) { c.NumShards = 200 }, wantField: "NumShards"},
		{name: "zero ttl", mutate: func(c *Config) { c.TTL = 0 }, wantField: "TTL"},
		{name: "eviction too low", mutate: func(c *Config) { c.EvictionPercentage = 0 }, wantField: "EvictionPercentage"},
		{name: "eviction too high", mutate: func(c *Config) { c.EvictionPercentage = 101 }, wantField: "EvictionPercentage"},
		{name: "negative interval", mutate: func(c *Config) { c.EvictionInterval = -time.Second }, wantField: "EvictionInterval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("expected no validation error but got: %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, cfgErr.Field)
			}
		})
	}
}

func TestConfig_ToSturdycOptions(t *testing.T) {
	cfg := testConfig()
	if got := len(cfg.ToSturdycOptions()); got != 0 {
		t.Errorf("expected no options, got %d", got)
	}

	cfg.EvictionInterval = time.Minute
	if got := len(cfg.ToSturdycOptions()); got != 1 {
		t.Errorf("expected 1 option, got %d", got)
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	if got, want := err.Error(), "config error in field TTL: must be greater than 0"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestNewSturdycService_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Capacity = 0
	svc, err := NewSturdycService(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if svc != nil {
		t.Error("expected nil service")
	}
}

func TestSturdycService_GetOrFetch(t *testing.T) {
	svc, err := NewSturdycService(testConfig())
	if err != nil {
		t.Fatalf("NewSturdycService() failed: %v", err)
	}
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return []string{"go"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := svc.GetOrFetch(ctx, "skills::a", fetch)
		if err != nil {
			t.Fatalf("GetOrFetch() failed: %v", err)
		}
		skills, ok := got.([]string)
		if !ok || len(skills) != 1 || skills[0] != "go" {
			t.Fatalf("unexpected value %#v", got)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 fetch, got %d", calls)
	}
}

func TestSturdycService_GetOrFetch_ErrorNotStored(t *testing.T) {
	svc, _ := NewSturdycService(testConfig())
	ctx := context.Background()

	boom := errors.New("boom")
	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return nil, boom
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.GetOrFetch(ctx, "profile::a", fetch); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("failed fetches must not be stored, got %d calls", calls)
	}
}

func TestSturdycService_GetOrFetch_NilFetchFn(t *testing.T) {
	svc, _ := NewSturdycService(testConfig())

	_, err := svc.GetOrFetch(context.Background(), "k", nil)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected *ConfigError, got %v", err)
	}
}

func TestSturdycService_DeleteAndClear(t *testing.T) {
	svc, _ := NewSturdycService(testConfig())
	ctx := context.Background()

	calls := map[string]int{}
	fetchFor := func(key string) func(context.Context) (any, error) {
		return func(context.Context) (any, error) {
			calls[key]++
			return key, nil
		}
	}

	keys := []string{"followers::a::1", "followers::b::2", "following::a::3"}
	for _, k := range keys {
		if _, err := svc.GetOrFetch(ctx, k, fetchFor(k)); err != nil {
			t.Fatalf("GetOrFetch(%s) failed: %v", k, err)
		}
	}

	if err := svc.Delete(ctx, "following::a::3"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	for _, k := range keys {
		_, _ = svc.GetOrFetch(ctx, k, fetchFor(k))
	}
	for _, k := range keys {
		want := 1
		if k == "following::a::3" {
			want = 2
		}
		if calls[k] != want {
			t.Errorf("%s: expected %d fetches, got %d", k, want, calls[k])
		}
	}

	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	for _, k := range keys {
		_, _ = svc.GetOrFetch(ctx, k, fetchFor(k))
	}
	if calls["followers::a::1"] != 2 || calls["followers::b::2"] != 2 || calls["following::a::3"] != 3 {
		t.Errorf("expected Clear to drop every entry, got %v", calls)
	}
}
