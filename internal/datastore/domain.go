// Package datastore is the single source of truth for the collections shown
// by the dashboard. Every mutation is written through the facade and
// followed by a full reload; there is no local merge.
package datastore

import (
	"context"
	"slices"
	"time"

	"github.com/omniorder/omniorder/internal/records"
	"github.com/omniorder/omniorder/internal/remote"
)

// Resource is the facade contract for one collection.
type Resource[T records.Record] interface {
	GetAll(ctx context.Context) ([]T, error)
	Save(ctx context.Context, record T) error
	Delete(ctx context.Context, id string) error
}

// Backend groups the four resources the store reads and writes.
type Backend struct {
	Dealers  Resource[records.Dealer]
	Clients  Resource[records.Client]
	Products Resource[records.Product]
	Orders   Resource[records.Order]
}

// FromAPI adapts the simulated facade.
func FromAPI(api *remote.API) Backend {
	return Backend{
		Dealers:  api.Dealers,
		Clients:  api.Clients,
		Products: api.Products,
		Orders:   api.Orders,
	}
}

// Snapshot is one consistent view of all four collections.
type Snapshot struct {
	Dealers  []records.Dealer  `json:"dealers"`
	Clients  []records.Client  `json:"clients"`
	Products []records.Product `json:"products"`
	Orders   []records.Order   `json:"orders"`
	Version  uint64            `json:"version"`
	LoadedAt time.Time         `json:"loadedAt"`
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Dealers = slices.Clone(s.Dealers)
	out.Clients = slices.Clone(s.Clients)
	out.Products = slices.Clone(s.Products)
	out.Orders = cloneOrders(s.Orders)
	return out
}

// Dealer returns the dealer with id.
func (s Snapshot) Dealer(id string) (records.Dealer, bool) { return find(s.Dealers, id) }

// Client returns the client with id.
func (s Snapshot) Client(id string) (records.Client, bool) { return find(s.Clients, id) }

// Product returns the product with id.
func (s Snapshot) Product(id string) (records.Product, bool) { return find(s.Products, id) }

// Order returns the order with id.
func (s Snapshot) Order(id string) (records.Order, bool) { return find(s.Orders, id) }

func find[T records.Record](items []T, id string) (T, bool) {
	for _, item := range items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func cloneOrders(orders []records.Order) []records.Order {
	if orders == nil {
		return nil
	}
	out := make([]records.Order, len(orders))
	for i, o := range orders {
		o.Items = slices.Clone(o.Items)
		out[i] = o
	}
	return out
}

// Reporter receives store outcomes for logging and metrics.
type Reporter interface {
	RefreshDone(elapsed time.Duration, err error)
	MutationDone(resource, op string, err error)
	LoadingChanged(loading bool)
}

type nopReporter struct{}

func (nopReporter) RefreshDone(time.Duration, error)  {}
func (nopReporter) MutationDone(string, string, error) {}
func (nopReporter) LoadingChanged(bool)               {}
