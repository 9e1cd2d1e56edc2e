package datastore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/omniorder/omniorder/internal/records"
	"github.com/omniorder/omniorder/internal/shared"
)

// SaveDealer creates or updates a dealer. An empty id is assigned.
func (s *Store) SaveDealer(ctx context.Context, dealer records.Dealer) (records.Dealer, error) {
	if dealer.ID == "" {
		dealer.ID = s.ids()
	}
	err := s.mutate(ctx, "dealers", "save",
		func() error { return records.Validate(dealer) },
		func(ctx context.Context) error { return s.backend.Dealers.Save(ctx, dealer) })
	return dealer, err
}

// DeleteDealer removes a dealer. Clients and orders referencing it are kept.
func (s *Store) DeleteDealer(ctx context.Context, id string) error {
	return s.mutate(ctx, "dealers", "delete", requireID(id),
		func(ctx context.Context) error { return s.backend.Dealers.Delete(ctx, id) })
}

// SaveClient creates or updates a client.
func (s *Store) SaveClient(ctx context.Context, client records.Client) (records.Client, error) {
	if client.ID == "" {
		client.ID = s.ids()
	}
	err := s.mutate(ctx, "clients", "save",
		func() error { return records.Validate(client) },
		func(ctx context.Context) error { return s.backend.Clients.Save(ctx, client) })
	return client, err
}

// DeleteClient removes a client.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	return s.mutate(ctx, "clients", "delete", requireID(id),
		func(ctx context.Context) error { return s.backend.Clients.Delete(ctx, id) })
}

// SaveProduct creates or updates a product. Existing order lines keep the
// unit price they were created with.
func (s *Store) SaveProduct(ctx context.Context, product records.Product) (records.Product, error) {
	if product.ID == "" {
		product.ID = s.ids()
	}
	err := s.mutate(ctx, "products", "save",
		func() error { return records.Validate(product) },
		func(ctx context.Context) error { return s.backend.Products.Save(ctx, product) })
	return product, err
}

// DeleteProduct removes a product.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.mutate(ctx, "products", "delete", requireID(id),
		func(ctx context.Context) error { return s.backend.Products.Delete(ctx, id) })
}

// SaveOrder creates or updates an order. Missing ids are assigned and the
// totals are recomputed from the lines.
func (s *Store) SaveOrder(ctx context.Context, order records.Order) (records.Order, error) {
	if order.ID == "" {
		order.ID = s.ids()
	}
	order = order.WithTotals()
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = s.ids()
		}
	}
	err := s.mutate(ctx, "orders", "save",
		func() error { return records.Validate(order) },
		func(ctx context.Context) error { return s.backend.Orders.Save(ctx, order) })
	return order, err
}

// DeleteOrder removes an order.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return s.mutate(ctx, "orders", "delete", requireID(id),
		func(ctx context.Context) error { return s.backend.Orders.Delete(ctx, id) })
}

// PlaceOrder submits a composed draft as a new order. The client must be
// present in the loaded snapshot and the generated order number must not
// collide with a loaded order.
func (s *Store) PlaceOrder(ctx context.Context, draft records.Draft) (records.Order, error) {
	snap := s.Snapshot()
	var client *records.Client
	if c, ok := snap.Client(draft.ClientID); ok {
		client = &c
	}
	number, err := s.orderNumber(snap.Orders)
	if err != nil {
		return records.Order{}, err
	}
	order, err := draft.Build(client, s.ids(), number)
	if err != nil {
		return records.Order{}, err
	}
	return s.SaveOrder(ctx, order)
}

func (s *Store) orderNumber(existing []records.Order) (string, error) {
	taken := make(map[string]struct{}, len(existing))
	for _, o := range existing {
		taken[o.OrderNumber] = struct{}{}
	}
	for range maxOrderNumberAttempts {
		n := s.numbers.Next()
		if _, dup := taken[n]; !dup {
			return n, nil
		}
		s.logger.Debug("order number taken, drawing again", slog.String("orderNumber", n))
	}
	return "", fmt.Errorf("%w: no free order number after %d attempts", shared.ErrConflict, maxOrderNumberAttempts)
}

// SetOrderStatus saves the loaded order with a new fulfilment status.
func (s *Store) SetOrderStatus(ctx context.Context, id string, status records.OrderStatus) (records.Order, error) {
	if !status.Valid() {
		return records.Order{}, &records.ValidationError{
			Entity: "order",
			Fields: map[string]string{"orderStatus": "must be one of " + joinStatuses(records.OrderStatuses)},
		}
	}
	order, err := s.loadedOrder(id)
	if err != nil {
		return records.Order{}, err
	}
	order.OrderStatus = status
	return s.SaveOrder(ctx, order)
}

// SetPaymentStatus saves the loaded order with a new payment status.
func (s *Store) SetPaymentStatus(ctx context.Context, id string, status records.PaymentStatus) (records.Order, error) {
	if !status.Valid() {
		return records.Order{}, &records.ValidationError{
			Entity: "order",
			Fields: map[string]string{"paymentStatus": "must be one of PENDING, PARTIAL, PAID"},
		}
	}
	order, err := s.loadedOrder(id)
	if err != nil {
		return records.Order{}, err
	}
	order.PaymentStatus = status
	return s.SaveOrder(ctx, order)
}

func (s *Store) loadedOrder(id string) (records.Order, error) {
	s.mu.RLock()
	order, ok := s.snap.Order(id)
	s.mu.RUnlock()
	if !ok {
		return records.Order{}, fmt.Errorf("datastore: order %q: %w", id, shared.ErrNotFound)
	}
	order.Items = append([]records.OrderItem(nil), order.Items...)
	return order, nil
}

func requireID(id string) func() error {
	return func() error {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: id is required", shared.ErrInvalid)
		}
		return nil
	}
}

func joinStatuses(statuses []records.OrderStatus) string {
	parts := make([]string, len(statuses))
	for i, st := range statuses {
		parts[i] = string(st)
	}
	return strings.Join(parts, ", ")
}
