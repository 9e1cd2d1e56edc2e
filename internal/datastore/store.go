package datastore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/omniorder/omniorder/internal/records"
	"github.com/omniorder/omniorder/internal/shared"
)

// DefaultCallTimeout bounds every facade call made by the store.
const DefaultCallTimeout = 10 * time.Second

const maxOrderNumberAttempts = 16

// Options configures a Store. Zero values select defaults.
type Options struct {
	CallTimeout time.Duration
	IDs         records.IDGenerator
	Numbers     *records.OrderNumbers
	Reporter    Reporter
	Logger      *slog.Logger
	Now         func() time.Time
}

// Store holds the last loaded snapshot and serialises reloads.
type Store struct {
	backend  Backend
	timeout  time.Duration
	ids      records.IDGenerator
	numbers  *records.OrderNumbers
	reporter Reporter
	logger   *slog.Logger
	now      func() time.Time
	group    singleflight.Group

	mu           sync.RWMutex
	snap         Snapshot
	initializing bool
	pending      int
	writes       uint64
	appliedGen   uint64
}

// New creates a store in the loading state with empty collections. Call
// RefreshAll to perform the initial load.
func New(backend Backend, opts Options) *Store {
	s := &Store{
		backend:      backend,
		timeout:      opts.CallTimeout,
		ids:          opts.IDs,
		numbers:      opts.Numbers,
		reporter:     opts.Reporter,
		logger:       opts.Logger,
		now:          opts.Now,
		initializing: true,
		snap: Snapshot{
			Dealers:  []records.Dealer{},
			Clients:  []records.Client{},
			Products: []records.Product{},
			Orders:   []records.Order{},
		},
	}
	if s.timeout <= 0 {
		s.timeout = DefaultCallTimeout
	}
	if s.ids == nil {
		s.ids = records.NewID
	}
	if s.numbers == nil {
		s.numbers = records.NewOrderNumbers()
	}
	if s.reporter == nil {
		s.reporter = nopReporter{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.reporter.LoadingChanged(true)
	return s
}

// Loading reports whether the initial load or any mutation is unfinished.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingLocked()
}

func (s *Store) loadingLocked() bool { return s.initializing || s.pending > 0 }

// Snapshot returns a copy of the current collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Dealers returns a copy of the loaded dealers.
func (s *Store) Dealers() []records.Dealer { return s.Snapshot().Dealers }

// Clients returns a copy of the loaded clients.
func (s *Store) Clients() []records.Client { return s.Snapshot().Clients }

// Products returns a copy of the loaded products.
func (s *Store) Products() []records.Product { return s.Snapshot().Products }

// Orders returns a copy of the loaded orders.
func (s *Store) Orders() []records.Order { return s.Snapshot().Orders }

// NewID draws an identifier from the configured generator.
func (s *Store) NewID() string { return s.ids() }

// RefreshAll reloads all four collections concurrently and replaces them
// together. On failure the previous snapshot is kept. Concurrent callers
// share one reload, but never one that started before their last write.
func (s *Store) RefreshAll(ctx context.Context) error {
	return s.await(ctx, s.startRefresh(ctx), nil)
}

func (s *Store) startRefresh(ctx context.Context) <-chan singleflight.Result {
	s.mu.RLock()
	gen := s.writes
	s.mu.RUnlock()

	return s.group.DoChan(fmt.Sprintf("refresh:%d", gen), func() (any, error) {
		return nil, s.refresh(context.WithoutCancel(ctx), gen)
	})
}

// await waits for a reload started by startRefresh. done, when set, runs
// once the reload has finished, even if ctx ends first.
func (s *Store) await(ctx context.Context, ch <-chan singleflight.Result, done func()) error {
	select {
	case <-ctx.Done():
		if done != nil {
			go func() {
				<-ch
				done()
			}()
		}
		return fmt.Errorf("datastore: refresh: %w: %w", shared.ErrUnavailable, ctx.Err())
	case res := <-ch:
		if done != nil {
			done()
		}
		return res.Err
	}
}

func (s *Store) refresh(ctx context.Context, gen uint64) error {
	start := time.Now()
	var next Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		next.Dealers, err = fetch(gctx, s.timeout, s.backend.Dealers)
		return err
	})
	g.Go(func() (err error) {
		next.Clients, err = fetch(gctx, s.timeout, s.backend.Clients)
		return err
	})
	g.Go(func() (err error) {
		next.Products, err = fetch(gctx, s.timeout, s.backend.Products)
		return err
	})
	g.Go(func() (err error) {
		next.Orders, err = fetch(gctx, s.timeout, s.backend.Orders)
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	wasLoading := s.loadingLocked()
	stale := gen < s.appliedGen
	if err == nil && !stale {
		next.Version = s.snap.Version + 1
		next.LoadedAt = s.now()
		s.snap = next
		s.appliedGen = gen
	}
	s.initializing = false
	nowLoading := s.loadingLocked()
	s.mu.Unlock()

	if wasLoading != nowLoading {
		s.reporter.LoadingChanged(nowLoading)
	}
	s.reporter.RefreshDone(time.Since(start), err)
	if err != nil {
		return fmt.Errorf("datastore: refresh: %w", err)
	}
	if stale {
		s.logger.Debug("datastore reload superseded", slog.Uint64("gen", gen))
	}
	return nil
}

func fetch[T records.Record](ctx context.Context, timeout time.Duration, res Resource[T]) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	items, err := res.GetAll(ctx)
	if err != nil {
		return nil, classify(err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// classify maps errors outside the taxonomy onto ErrUnavailable.
func classify(err error) error {
	if err == nil || shared.IsTaxonomy(err) {
		return err
	}
	return fmt.Errorf("%w: %w", shared.ErrUnavailable, err)
}

// mutate runs one write through the facade and reloads on success. The
// loading flag stays raised until the reload has finished, including when
// ctx ends while the reload is still running.
func (s *Store) mutate(ctx context.Context, resource, op string, check func() error, write func(context.Context) error) error {
	if check != nil {
		if err := check(); err != nil {
			s.reporter.MutationDone(resource, op, err)
			return err
		}
	}

	s.begin()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err := write(callCtx)
	cancel()
	if err != nil {
		s.end()
		err = classify(err)
		s.reporter.MutationDone(resource, op, err)
		return fmt.Errorf("datastore: %s %s: %w", op, resource, err)
	}

	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	s.reporter.MutationDone(resource, op, nil)

	return s.await(ctx, s.startRefresh(ctx), s.end)
}

func (s *Store) begin() {
	s.mu.Lock()
	was := s.loadingLocked()
	s.pending++
	s.mu.Unlock()
	if !was {
		s.reporter.LoadingChanged(true)
	}
}

func (s *Store) end() {
	s.mu.Lock()
	s.pending--
	now := s.loadingLocked()
	s.mu.Unlock()
	if !now {
		s.reporter.LoadingChanged(false)
	}
}
