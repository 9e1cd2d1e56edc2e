package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/omniorder/omniorder/internal/records"
	"github.com/omniorder/omniorder/internal/shared"
)

// Collection is the ordered sequence of records stored under one key.
type Collection[T records.Record] struct {
	slots  Slots
	key    string
	seed   func() []T
	logger *slog.Logger
}

// NewCollection binds key on slots. seed supplies the default contents of
// an empty slot and must return a fresh slice on every call.
func NewCollection[T records.Record](slots Slots, key string, seed func() []T, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}
	if seed == nil {
		seed = func() []T { return nil }
	}
	return &Collection[T]{slots: slots, key: key, seed: seed, logger: logger}
}

// Key returns the slot key of the collection.
func (c *Collection[T]) Key() string { return c.key }

// Load returns the stored sequence, or the seed when the slot is empty,
// unreadable or does not decode.
func (c *Collection[T]) Load(ctx context.Context) []T {
	payload, ok, err := c.slots.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn("slot read failed, using seed", slog.String("key", c.key), slog.Any("error", err))
		return c.seed()
	}
	items, ok := c.decode(payload, ok)
	if !ok {
		return c.seed()
	}
	return items
}

// Store overwrites the slot with items.
func (c *Collection[T]) Store(ctx context.Context, items []T) error {
	payload, err := encode(items)
	if err != nil {
		return fmt.Errorf("persistence: encode %s: %w", c.key, err)
	}
	if err := c.slots.Put(ctx, c.key, payload); err != nil {
		return c.unavailable("store", err)
	}
	return nil
}

// Upsert replaces the record with the same id in place, or prepends it.
func (c *Collection[T]) Upsert(ctx context.Context, record T) error {
	err := c.slots.Update(ctx, c.key, func(current []byte, ok bool) ([]byte, error) {
		items := c.current(current, ok)
		id := record.RecordID()
		if idx := slices.IndexFunc(items, func(item T) bool { return item.RecordID() == id }); idx >= 0 {
			items[idx] = record
		} else {
			items = append([]T{record}, items...)
		}
		return encode(items)
	})
	if err != nil {
		return c.unavailable("upsert", err)
	}
	return nil
}

// RemoveByID drops every record with id. An absent id leaves the slot as it
// was.
func (c *Collection[T]) RemoveByID(ctx context.Context, id string) error {
	err := c.slots.Update(ctx, c.key, func(current []byte, ok bool) ([]byte, error) {
		items := c.current(current, ok)
		kept := slices.DeleteFunc(slices.Clone(items), func(item T) bool { return item.RecordID() == id })
		if len(kept) == len(items) {
			return nil, errSkipWrite
		}
		return encode(kept)
	})
	if err != nil {
		return c.unavailable("remove", err)
	}
	return nil
}

// Reset clears the slot so the next Load returns the seed.
func (c *Collection[T]) Reset(ctx context.Context) error {
	if err := c.slots.Delete(ctx, c.key); err != nil {
		return c.unavailable("reset", err)
	}
	return nil
}

func (c *Collection[T]) current(payload []byte, ok bool) []T {
	items, ok := c.decode(payload, ok)
	if !ok {
		return c.seed()
	}
	return items
}

func (c *Collection[T]) decode(payload []byte, ok bool) ([]T, bool) {
	if !ok || len(payload) == 0 {
		return nil, false
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		c.logger.Warn("slot decode failed, using seed", slog.String("key", c.key), slog.Any("error", err))
		return nil, false
	}
	if items == nil {
		// a stored JSON null reads as absent
		return nil, false
	}
	return items, true
}

func (c *Collection[T]) unavailable(op string, err error) error {
	if shared.IsTaxonomy(err) {
		return fmt.Errorf("persistence: %s %s: %w", op, c.key, err)
	}
	return fmt.Errorf("persistence: %s %s: %w: %w", op, c.key, shared.ErrUnavailable, err)
}

func encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
