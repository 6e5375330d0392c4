package di

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-linkora/cache"
	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/internal/telemetry"
	"github.com/goliatone/go-linkora/pkg/testsupport"
)

var (
	ada   = identity.MustParse("aaaaa-aa")
	brook = identity.MustParse("bbbbb-bb")
)

func TestNewContainer(t *testing.T) {
	config := cache.Config{
		Capacity:           1000,
		NumShards:          16,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}

	container, err := NewContainer(config)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container == nil {
		t.Fatal("NewContainer() returned nil container")
	}

	if container.Recorder() == nil {
		t.Error("Container should have a non-nil recorder")
	}

	storedConfig := container.Config()
	if storedConfig.Capacity != config.Capacity {
		t.Errorf("Expected capacity %d, got %d", config.Capacity, storedConfig.Capacity)
	}

	if storedConfig.TTL != config.TTL {
		t.Errorf("Expected TTL %v, got %v", config.TTL, storedConfig.TTL)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	config := container.Config()
	defaultConfig := cache.DefaultConfig()

	if config.Capacity != defaultConfig.Capacity {
		t.Errorf("Expected default capacity %d, got %d", defaultConfig.Capacity, config.Capacity)
	}

	if config.TTL != defaultConfig.TTL {
		t.Errorf("Expected default TTL %v, got %v", defaultConfig.TTL, config.TTL)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	invalidConfig := cache.Config{
		Capacity:           0, // Invalid: must be > 0
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}

	_, err := NewContainer(invalidConfig)
	if err == nil {
		t.Error("NewContainer() should fail with invalid config")
	}
}

func TestNewStore_ReturnsDistinctStores(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	ctx := context.Background()
	a, err := container.NewStore()
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	b, err := container.NewStore()
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}

	if _, err := a.GetOrFetch(ctx, "k", func(ctx context.Context) (any, error) { return "a", nil }); err != nil {
		t.Fatalf("GetOrFetch() failed: %v", err)
	}
	if err := b.Clear(ctx); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	got, err := a.GetOrFetch(ctx, "k", func(ctx context.Context) (any, error) { return "refetched", nil })
	if err != nil {
		t.Fatalf("GetOrFetch() failed: %v", err)
	}
	if got != "a" {
		t.Errorf("clearing one store must not affect another, got %v", got)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	ctx := context.Background()
	fake := testsupport.NewFakeRemote(ada)

	first, err := container.NewSession(fake, ada)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	second, err := container.NewSession(fake, brook)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}

	first.Events(ctx)
	second.Events(ctx)
	if calls := fake.Calls("Events"); calls != 2 {
		t.Errorf("each session fetches for itself, expected 2 calls, got %d", calls)
	}

	if err := first.Close(ctx); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if !second.Events(ctx).IsSettled() {
		t.Error("closing one session must not clear another")
	}
	if calls := fake.Calls("Events"); calls != 2 {
		t.Errorf("expected the second session to serve from cache, got %d calls", calls)
	}
}

func TestSessionsShareRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	container, err := NewContainerWithDefaults(WithRegisterer(reg))
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	ctx := context.Background()
	fake := testsupport.NewFakeRemote(ada)
	for i := 0; i < 2; i++ {
		s, err := container.NewSession(fake, ada)
		if err != nil {
			t.Fatalf("NewSession() failed: %v", err)
		}
		s.Communities(ctx)
	}

	got := testutil.ToFloat64(container.Recorder().Fetches.WithLabelValues("communities", telemetry.ResultOK))
	if got != 2 {
		t.Errorf("expected 2 recorded fetches, got %v", got)
	}

	// A second container on the same registerer reuses the counters.
	if _, err := NewContainerWithDefaults(WithRegisterer(reg)); err != nil {
		t.Errorf("second container on the same registerer failed: %v", err)
	}
}
