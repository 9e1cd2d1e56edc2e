package persistence

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// MemorySlots keeps payloads in process memory.
type MemorySlots struct {
	mu    sync.Mutex
	slots map[string][]byte
}

var _ Slots = (*MemorySlots)(nil)

// NewMemorySlots returns an empty in-memory backend.
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{slots: make(map[string][]byte)}
}

func (m *MemorySlots) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.slots[key]
	return slices.Clone(payload), ok, nil
}

func (m *MemorySlots) Put(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = slices.Clone(payload)
	return nil
}

func (m *MemorySlots) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.slots[key]
	next, err := fn(slices.Clone(current), ok)
	if errors.Is(err, errSkipWrite) {
		return nil
	}
	if err != nil {
		return err
	}
	m.slots[key] = next
	return nil
}

func (m *MemorySlots) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

func (m *MemorySlots) Close() error { return nil }
