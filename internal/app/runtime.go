package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/omniorder/omniorder/internal/datastore"
	"github.com/omniorder/omniorder/internal/observability"
	"github.com/omniorder/omniorder/internal/persistence"
	"github.com/omniorder/omniorder/internal/remote"
)

const testModeEnv = "OMNIORDER_TEST_MODE"

var testMode atomic.Pointer[bool]

// InTestMode reports whether the binaries should skip runtime side effects.
func InTestMode() bool {
	if v := testMode.Load(); v != nil {
		return *v
	}
	RefreshTestMode()
	return *testMode.Load()
}

// RefreshTestMode re-reads OMNIORDER_TEST_MODE after environment changes.
func RefreshTestMode() {
	v := os.Getenv(testModeEnv) == "1"
	testMode.Store(&v)
}

// Services is the assembled data layer: slot backend, facade and store.
type Services struct {
	Slots   persistence.Slots
	API     *remote.API
	Store   *datastore.Store
	Metrics *observability.Metrics
}

// BuildServices opens the configured backend and wires the store on top.
// The store is returned in its loading state; callers run RefreshAll.
func BuildServices(ctx context.Context, cfg *Config, logger *slog.Logger) (*Services, error) {
	if logger == nil {
		logger = slog.Default()
	}
	slots, err := persistence.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}
	metrics := observability.NewMetrics()
	api := remote.New(slots, cfg.FacadeOptions(logger))
	reporter := observability.NewStoreReporter(metrics, logger)
	store := datastore.New(datastore.FromAPI(api), cfg.StoreOptions(logger, reporter))
	if err := observability.RegisterCollectionSizes(metrics.Registerer(), snapshotSizes(store)); err != nil {
		_ = slots.Close()
		return nil, err
	}
	return &Services{Slots: slots, API: api, Store: store, Metrics: metrics}, nil
}

func snapshotSizes(store *datastore.Store) func() map[string]int {
	return func() map[string]int {
		snap := store.Snapshot()
		return map[string]int{
			"dealers":  len(snap.Dealers),
			"clients":  len(snap.Clients),
			"products": len(snap.Products),
			"orders":   len(snap.Orders),
		}
	}
}

// Reset restores every collection to its seed data and reloads the store.
func (s *Services) Reset(ctx context.Context) error {
	if err := s.API.Reset(ctx); err != nil {
		return fmt.Errorf("reset collections: %w", err)
	}
	return s.Store.RefreshAll(ctx)
}

// Close releases the slot backend.
func (s *Services) Close() error {
	if s == nil || s.Slots == nil {
		return nil
	}
	return s.Slots.Close()
}
