// Package persistence maps each record collection onto a named durable slot
// holding a JSON array, seeding defaults on first access.
package persistence

import (
	"context"
	"errors"
)

// Well-known slot keys, shared with the browser build of the dashboard.
const (
	KeyDealers  = "omniorder_dealers"
	KeyClients  = "omniorder_clients"
	KeyProducts = "omniorder_products"
	KeyOrders   = "omniorder_orders"
)

// Keys lists every slot in a stable order.
var Keys = []string{KeyDealers, KeyClients, KeyProducts, KeyOrders}

// UpdateFunc receives the current payload (ok is false when the slot is
// empty) and returns the payload to store.
type UpdateFunc func(current []byte, ok bool) ([]byte, error)

// Slots is a key-value backend holding one payload per key.
type Slots interface {
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Put(ctx context.Context, key string, payload []byte) error
	// Update applies fn atomically with respect to other writers of the
	// same backend.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// errSkipWrite lets an UpdateFunc leave the slot untouched.
var errSkipWrite = errors.New("persistence: skip write")
