// Package remote presents the persistence collections as asynchronous
// resources with simulated network latency.
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/omniorder/omniorder/internal/persistence"
	"github.com/omniorder/omniorder/internal/records"
	"github.com/omniorder/omniorder/internal/shared"
)

// PrepareFunc normalises and checks a record before it is written.
type PrepareFunc[T records.Record] func(T) (T, error)

// Resource is one of dealers, clients, products or orders.
type Resource[T records.Record] struct {
	name       string
	collection *persistence.Collection[T]
	delay      time.Duration
	prepare    PrepareFunc[T]
}

// NewResource wraps collection. prepare may be nil.
func NewResource[T records.Record](name string, collection *persistence.Collection[T], delay time.Duration, prepare PrepareFunc[T]) *Resource[T] {
	return &Resource[T]{name: name, collection: collection, delay: delay, prepare: prepare}
}

// Name identifies the resource in logs and metrics.
func (r *Resource[T]) Name() string { return r.name }

// GetAll resolves with the current stored sequence.
func (r *Resource[T]) GetAll(ctx context.Context) ([]T, error) {
	if err := r.wait(ctx, "get all"); err != nil {
		return nil, err
	}
	return r.collection.Load(ctx), nil
}

// Save upserts record by id.
func (r *Resource[T]) Save(ctx context.Context, record T) error {
	if r.prepare != nil {
		prepared, err := r.prepare(record)
		if err != nil {
			return err
		}
		record = prepared
	}
	if err := r.wait(ctx, "save"); err != nil {
		return err
	}
	if err := r.collection.Upsert(ctx, record); err != nil {
		return fmt.Errorf("remote: save %s: %w", r.name, err)
	}
	return nil
}

// Delete removes the record with id; a missing id is not an error.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if err := r.wait(ctx, "delete"); err != nil {
		return err
	}
	if err := r.collection.RemoveByID(ctx, id); err != nil {
		return fmt.Errorf("remote: delete %s: %w", r.name, err)
	}
	return nil
}

// Reset clears the resource back to its seed.
func (r *Resource[T]) Reset(ctx context.Context) error {
	if err := r.wait(ctx, "reset"); err != nil {
		return err
	}
	return r.collection.Reset(ctx)
}

func (r *Resource[T]) wait(ctx context.Context, op string) error {
	if err := sleep(ctx, r.delay); err != nil {
		return fmt.Errorf("remote: %s %s: %w: %w", op, r.name, shared.ErrUnavailable, err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
