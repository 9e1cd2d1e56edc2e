package remote

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omniorder/omniorder/internal/persistence"
	"github.com/omniorder/omniorder/internal/records"
)

// Default latencies of the simulated round trip.
const (
	DefaultLatency       = 500 * time.Millisecond
	DefaultOrdersLatency = 800 * time.Millisecond
)

// Options configures the facade.
type Options struct {
	// Latency applies to dealers, clients and products. Negative disables
	// the delay, zero selects DefaultLatency.
	Latency time.Duration
	// OrdersLatency applies to orders, with the same conventions.
	OrdersLatency time.Duration
	Logger        *slog.Logger
}

// API groups the four resources.
type API struct {
	Dealers  *Resource[records.Dealer]
	Clients  *Resource[records.Client]
	Products *Resource[records.Product]
	Orders   *Resource[records.Order]
}

// New builds the facade over slots.
func New(slots persistence.Slots, opts Options) *API {
	latency := pick(opts.Latency, DefaultLatency)
	ordersLatency := pick(opts.OrdersLatency, DefaultOrdersLatency)
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &API{
		Dealers: NewResource("dealers",
			persistence.NewCollection(slots, persistence.KeyDealers, records.SeedDealers, logger),
			latency, validated[records.Dealer]),
		Clients: NewResource("clients",
			persistence.NewCollection(slots, persistence.KeyClients, records.SeedClients, logger),
			latency, validated[records.Client]),
		Products: NewResource("products",
			persistence.NewCollection(slots, persistence.KeyProducts, records.SeedProducts, logger),
			latency, validated[records.Product]),
		Orders: NewResource("orders",
			persistence.NewCollection(slots, persistence.KeyOrders, records.SeedOrders, logger),
			ordersLatency, prepareOrder),
	}
}

// Reset clears all four resources back to their seed data.
func (a *API) Reset(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Dealers.Reset(ctx) })
	g.Go(func() error { return a.Clients.Reset(ctx) })
	g.Go(func() error { return a.Products.Reset(ctx) })
	g.Go(func() error { return a.Orders.Reset(ctx) })
	return g.Wait()
}

func validated[T records.Record](record T) (T, error) {
	return record, records.Validate(record)
}

// prepareOrder recomputes totals so an inconsistent order never reaches
// storage.
func prepareOrder(order records.Order) (records.Order, error) {
	order = order.WithTotals()
	return order, records.Validate(order)
}

func pick(d, def time.Duration) time.Duration {
	switch {
	case d < 0:
		return 0
	case d == 0:
		return def
	}
	return d
}
