package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/omniorder/omniorder/internal/app"
	"github.com/omniorder/omniorder/internal/persistence"
	"github.com/omniorder/omniorder/internal/records"
)

// Writes the seed collections into the configured backend so they are
// visible to other tools reading the slots directly.
func main() {
	overwrite := flag.Bool("overwrite", false, "replace slots that already hold data")
	flag.Parse()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg)
	ctx := context.Background()

	slots, err := persistence.Open(ctx, cfg.StorageOptions())
	if err != nil {
		log.Fatalf("open %s storage: %v", cfg.StorageDriver, err)
	}
	defer slots.Close()

	steps := []struct {
		key  string
		seed func(context.Context) error
	}{
		{persistence.KeyDealers, func(ctx context.Context) error {
			return persistence.NewCollection(slots, persistence.KeyDealers, records.SeedDealers, logger).Store(ctx, records.SeedDealers())
		}},
		{persistence.KeyClients, func(ctx context.Context) error {
			return persistence.NewCollection(slots, persistence.KeyClients, records.SeedClients, logger).Store(ctx, records.SeedClients())
		}},
		{persistence.KeyProducts, func(ctx context.Context) error {
			return persistence.NewCollection(slots, persistence.KeyProducts, records.SeedProducts, logger).Store(ctx, records.SeedProducts())
		}},
		{persistence.KeyOrders, func(ctx context.Context) error {
			return persistence.NewCollection(slots, persistence.KeyOrders, records.SeedOrders, logger).Store(ctx, records.SeedOrders())
		}},
	}

	for _, step := range steps {
		_, present, err := slots.Get(ctx, step.key)
		if err != nil {
			log.Fatalf("read %s: %v", step.key, err)
		}
		if present && !*overwrite {
			fmt.Printf("→ %s already populated, skipping\n", step.key)
			continue
		}
		fmt.Printf("→ Seeding %s...\n", step.key)
		if err := step.seed(ctx); err != nil {
			log.Fatalf("seed %s: %v", step.key, err)
		}
	}
	logger.Info("seed complete", slog.String("storage", cfg.StorageDriver))
}
