package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/omniorder/omniorder/internal/platform/db"
	"github.com/omniorder/omniorder/internal/shared"
)

const slotsSchema = `
CREATE TABLE IF NOT EXISTS omniorder_slots (
	key        TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresSlots stores slots as rows of omniorder_slots.
type PostgresSlots struct {
	pool *pgxpool.Pool
}

var _ Slots = (*PostgresSlots)(nil)

// NewPostgresSlots wraps pool. Call EnsureSchema before first use.
func NewPostgresSlots(pool *pgxpool.Pool) *PostgresSlots {
	return &PostgresSlots{pool: pool}
}

// EnsureSchema creates the slots table when missing.
func (p *PostgresSlots) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, slotsSchema); err != nil {
		return fmt.Errorf("persistence: ensure schema: %w", err)
	}
	return nil
}

func (p *PostgresSlots) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx, `SELECT payload FROM omniorder_slots WHERE key = $1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (p *PostgresSlots) Put(ctx context.Context, key string, payload []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO omniorder_slots (key, payload, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`,
		key, payload)
	return err
}

func (p *PostgresSlots) Update(ctx context.Context, key string, fn UpdateFunc) error {
	err := db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		var current []byte
		ok := true
		err := tx.QueryRow(ctx, `SELECT payload FROM omniorder_slots WHERE key = $1 FOR UPDATE`, key).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			ok, err = false, nil
		}
		if err != nil {
			return err
		}
		next, err := fn(current, ok)
		if err != nil {
			return err
		}
		if ok {
			_, err = tx.Exec(ctx, `UPDATE omniorder_slots SET payload = $2, updated_at = NOW() WHERE key = $1`, key, next)
			return err
		}
		_, err = tx.Exec(ctx, `INSERT INTO omniorder_slots (key, payload, updated_at) VALUES ($1, $2, NOW())`, key, next)
		return err
	})
	switch {
	case errors.Is(err, errSkipWrite):
		return nil
	case db.IsUniqueViolation(err):
		// another writer created the slot between our SELECT and INSERT
		return fmt.Errorf("persistence: update %s: %w", key, shared.ErrConflict)
	}
	return err
}

func (p *PostgresSlots) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM omniorder_slots WHERE key = $1`, key)
	return err
}

func (p *PostgresSlots) Close() error {
	p.pool.Close()
	return nil
}
