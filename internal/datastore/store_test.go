package datastore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniorder/omniorder/internal/persistence"
	"github.com/omniorder/omniorder/internal/records"
	"github.com/omniorder/omniorder/internal/remote"
	"github.com/omniorder/omniorder/internal/shared"
)

type fakeResource[T records.Record] struct {
	mu        sync.Mutex
	items     []T
	getErr    error
	saveErr   error
	deleteErr error
	gets      int
	saves     int
	deletes   int
	gate      chan struct{}
}

func (f *fakeResource[T]) GetAll(ctx context.Context) ([]T, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return append([]T(nil), f.items...), nil
}

func (f *fakeResource[T]) Save(_ context.Context, record T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	for i, item := range f.items {
		if item.RecordID() == record.RecordID() {
			f.items[i] = record
			return nil
		}
	}
	f.items = append([]T{record}, f.items...)
	return nil
}

func (f *fakeResource[T]) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.items[:0]
	for _, item := range f.items {
		if item.RecordID() != id {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeResource[T]) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

type fakeBackend struct {
	dealers  *fakeResource[records.Dealer]
	clients  *fakeResource[records.Client]
	products *fakeResource[records.Product]
	orders   *fakeResource[records.Order]
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		dealers:  &fakeResource[records.Dealer]{items: records.SeedDealers()},
		clients:  &fakeResource[records.Client]{items: records.SeedClients()},
		products: &fakeResource[records.Product]{items: records.SeedProducts()},
		orders:   &fakeResource[records.Order]{items: records.SeedOrders()},
	}
}

func (b *fakeBackend) backend() Backend {
	return Backend{Dealers: b.dealers, Clients: b.clients, Products: b.products, Orders: b.orders}
}

type recordedMutation struct {
	resource, op string
	err          error
}

type recordingReporter struct {
	mu        sync.Mutex
	refreshes []error
	mutations []recordedMutation
	loading   []bool
}

func (r *recordingReporter) RefreshDone(_ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes = append(r.refreshes, err)
}

func (r *recordingReporter) MutationDone(resource, op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations = append(r.mutations, recordedMutation{resource, op, err})
}

func (r *recordingReporter) LoadingChanged(loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = append(r.loading, loading)
}

func sequentialIDs() records.IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, b *fakeBackend, rep Reporter) *Store {
	t.Helper()
	return New(b.backend(), Options{
		CallTimeout: time.Second,
		IDs:         sequentialIDs(),
		Reporter:    rep,
		Numbers: &records.OrderNumbers{
			Now:  func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) },
			IntN: func(int) int { return 234 },
		},
	})
}

func TestNewStoreStartsLoadingAndEmpty(t *testing.T) {
	store := newTestStore(t, newFakeBackend(), nil)

	assert.True(t, store.Loading())
	snap := store.Snapshot()
	assert.Empty(t, snap.Dealers)
	assert.Empty(t, snap.Orders)
	assert.Zero(t, snap.Version)
}

func TestRefreshAllLoadsEveryCollection(t *testing.T) {
	rep := &recordingReporter{}
	store := newTestStore(t, newFakeBackend(), rep)

	require.NoError(t, store.RefreshAll(context.Background()))

	snap := store.Snapshot()
	assert.False(t, store.Loading())
	assert.Len(t, snap.Dealers, 2)
	assert.Len(t, snap.Clients, 2)
	assert.Len(t, snap.Products, 3)
	assert.Len(t, snap.Orders, 2)
	assert.Equal(t, uint64(1), snap.Version)
	assert.False(t, snap.LoadedAt.IsZero())
	assert.Equal(t, []error{nil}, rep.refreshes)
	assert.Equal(t, []bool{true, false}, rep.loading)
}

func TestRefreshAllFailureKeepsPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	rep := &recordingReporter{}
	store := newTestStore(t, b, rep)
	require.NoError(t, store.RefreshAll(ctx))

	b.dealers.items = nil
	b.orders.getErr = errors.New("boom")

	err := store.RefreshAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUnavailable)
	assert.False(t, store.Loading())

	snap := store.Snapshot()
	assert.Len(t, snap.Dealers, 2, "partial results must not be applied")
	assert.Equal(t, uint64(1), snap.Version)
	require.Len(t, rep.refreshes, 2)
	assert.Error(t, rep.refreshes[1])
}

func TestInitialRefreshFailureClearsLoading(t *testing.T) {
	b := newFakeBackend()
	b.clients.getErr = errors.New("offline")
	store := newTestStore(t, b, nil)

	require.Error(t, store.RefreshAll(context.Background()))
	assert.False(t, store.Loading())
	assert.Empty(t, store.Dealers())
}

func TestConcurrentRefreshesShareOneReload(t *testing.T) {
	b := newFakeBackend()
	gate := make(chan struct{})
	b.dealers.gate = gate
	store := newTestStore(t, b, nil)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.RefreshAll(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, b.dealers.getCount())
	assert.Equal(t, uint64(1), store.Snapshot().Version)
}

func TestRefreshAllHonoursCallTimeout(t *testing.T) {
	b := newFakeBackend()
	b.products.gate = make(chan struct{})
	store := New(b.backend(), Options{CallTimeout: 20 * time.Millisecond})

	err := store.RefreshAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, store.Loading())
}

func TestSnapshotIsACopy(t *testing.T) {
	store := newTestStore(t, newFakeBackend(), nil)
	require.NoError(t, store.RefreshAll(context.Background()))

	orders := store.Orders()
	orders[0].Items[0].Quantity = 99
	orders[0].OrderNumber = "changed"

	again := store.Orders()
	assert.Equal(t, 1, again[0].Items[0].Quantity)
	assert.Equal(t, "ORD-2024-001", again[0].OrderNumber)
}

func TestSaveDealerAssignsIDAndReloads(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	rep := &recordingReporter{}
	store := newTestStore(t, b, rep)
	require.NoError(t, store.RefreshAll(ctx))

	saved, err := store.SaveDealer(ctx, records.Dealer{
		DealerCode: "DLR003",
		Name:       "Urban Spaces",
		Email:      "asha@urban.com",
		Phone:      "9876500000",
		City:       "Pune",
		Status:     records.DealerStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", saved.ID)

	dealers := store.Dealers()
	require.Len(t, dealers, 3)
	assert.Equal(t, "Urban Spaces", dealers[0].Name)
	assert.False(t, store.Loading())
	assert.Equal(t, uint64(2), store.Snapshot().Version)
	assert.Equal(t, []recordedMutation{{"dealers", "save", nil}}, rep.mutations)
	assert.Equal(t, []bool{true, false, true, false}, rep.loading)
}

func TestSaveDealerInvalidSkipsFacade(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	store := newTestStore(t, b, nil)
	require.NoError(t, store.RefreshAll(ctx))

	_, err := store.SaveDealer(ctx, records.Dealer{Name: "No Code"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalid)

	var verr *records.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "dealerCode")
	assert.Zero(t, b.dealers.saves)
	assert.False(t, store.Loading())
}

func TestFailedMutationDoesNotReload(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	rep := &recordingReporter{}
	store := newTestStore(t, b, rep)
	require.NoError(t, store.RefreshAll(ctx))
	gets := b.dealers.getCount()

	b.clients.saveErr = errors.New("quota exceeded")
	client := records.SeedClients()[0]
	client.Name = "Tony Stark"
	_, err := store.SaveClient(ctx, client)

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUnavailable)
	assert.False(t, store.Loading())
	assert.Equal(t, gets, b.dealers.getCount())
	assert.Equal(t, "Robert Downey", store.Clients()[0].Name)
	require.Len(t, rep.mutations, 1)
	assert.Error(t, rep.mutations[0].err)
}

func TestLoadingStaysRaisedUntilAbandonedReloadLands(t *testing.T) {
	b := newFakeBackend()
	rep := &recordingReporter{}
	store := newTestStore(t, b, rep)
	require.NoError(t, store.RefreshAll(context.Background()))

	gate := make(chan struct{})
	b.dealers.gate = gate
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := store.SaveDealer(ctx, records.Dealer{
			DealerCode: "DLR003", Name: "Urban Homes", Email: "urban@example.com",
			Phone: "+91-9000000003", City: "Pune", Status: records.DealerStatusActive,
		})
		done <- err
	}()

	require.Eventually(t, func() bool { return len(store.Dealers()) == 2 && store.Loading() }, time.Second, time.Millisecond)
	cancel()
	err := <-done
	require.ErrorIs(t, err, shared.ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, store.Loading())

	close(gate)
	require.Eventually(t, func() bool { return !store.Loading() }, time.Second, time.Millisecond)
	dealers := store.Dealers()
	require.Len(t, dealers, 3)
	assert.Equal(t, "Urban Homes", dealers[0].Name)

	rep.mu.Lock()
	defer rep.mu.Unlock()
	assert.False(t, rep.loading[len(rep.loading)-1])
}

func TestDeleteProductReloads(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newFakeBackend(), nil)
	require.NoError(t, store.RefreshAll(ctx))

	require.NoError(t, store.DeleteProduct(ctx, "202"))

	products := store.Products()
	require.Len(t, products, 2)
	for _, p := range products {
		assert.NotEqual(t, "202", p.ID)
	}
	// orders referencing the product are untouched
	assert.Len(t, store.Orders()[0].Items, 2)
}

func TestDeleteRequiresID(t *testing.T) {
	b := newFakeBackend()
	store := newTestStore(t, b, nil)

	err := store.DeleteDealer(context.Background(), " ")
	assert.ErrorIs(t, err, shared.ErrInvalid)
	assert.Zero(t, b.dealers.deletes)
}

func TestDeleteDealerKeepsDependentClients(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newFakeBackend(), nil)
	require.NoError(t, store.RefreshAll(ctx))

	require.NoError(t, store.DeleteDealer(ctx, "1"))

	assert.Len(t, store.Dealers(), 1)
	assert.Len(t, store.Clients(), 2)
	assert.Equal(t, "1", store.Clients()[0].DealerID)
}

func TestSaveOrderRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newFakeBackend(), nil)
	require.NoError(t, store.RefreshAll(ctx))

	order := store.Orders()[1]
	order.Items = append(order.Items, records.OrderItem{ProductID: "201", Quantity: 2, UnitPrice: 45000})
	order.FinalAmount = 1

	saved, err := store.SaveOrder(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, 128000.0, saved.FinalAmount)
	assert.Equal(t, 90000.0, saved.Items[1].TotalPrice)
	assert.Equal(t, "id-1", saved.Items[1].ID)
	assert.True(t, saved.Consistent())
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newFakeBackend(), nil)
	require.NoError(t, store.RefreshAll(ctx))

	draft := records.NewDraft(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	draft.ClientID = "102"
	products := store.Products()
	draft.AddProduct(store.NewID(), products[1], 2)
	draft.AddProduct(store.NewID(), products[2], 1)

	order, err := store.PlaceOrder(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2025-1234", order.OrderNumber)
	assert.Equal(t, "1", order.DealerID)
	assert.Equal(t, "2025-06-01", order.OrderDate)
	assert.Equal(t, records.OrderStatusPlaced, order.OrderStatus)
	assert.Equal(t, records.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 288000.0, order.FinalAmount)

	orders := store.Orders()
	require.Len(t, orders, 3)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestPlaceOrderRetriesCollidingNumber(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	existing := records.SeedOrders()[0]
	existing.ID = "303"
	existing.OrderNumber = "ORD-2025-1000"
	b.orders.items = append(b.orders.items, existing)

	draws := []int{0, 0, 5}
	store := New(b.backend(), Options{
		IDs: sequentialIDs(),
		Numbers: &records.OrderNumbers{
			Now: func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) },
			IntN: func(int) int {
				n := draws[0]
				draws = draws[1:]
				return n
			},
		},
	})
	require.NoError(t, store.RefreshAll(ctx))

	draft := records.NewDraft(time.Now())
	draft.ClientID = "101"
	draft.AddProduct("line", records.SeedProducts()[0], 1)

	order, err := store.PlaceOrder(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2025-1005", order.OrderNumber)
}

func TestPlaceOrderRejectsIncompleteDraft(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	store := newTestStore(t, b, nil)
	require.NoError(t, store.RefreshAll(ctx))

	_, err := store.PlaceOrder(ctx, records.NewDraft(time.Now()))
	assert.ErrorIs(t, err, records.ErrClientRequired)

	draft := records.NewDraft(time.Now())
	draft.ClientID = "101"
	_, err = store.PlaceOrder(ctx, draft)
	assert.ErrorIs(t, err, records.ErrNoItems)
	assert.ErrorIs(t, err, shared.ErrInvalid)

	draft.ClientID = "999"
	draft.AddProduct("line", records.SeedProducts()[0], 1)
	_, err = store.PlaceOrder(ctx, draft)
	assert.ErrorIs(t, err, records.ErrClientRequired)

	assert.Zero(t, b.orders.saves)
}

func TestSetOrderStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newFakeBackend(), nil)
	require.NoError(t, store.RefreshAll(ctx))

	order, err := store.SetOrderStatus(ctx, "302", records.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, records.OrderStatusShipped, order.OrderStatus)

	got, ok := store.Snapshot().Order("302")
	require.True(t, ok)
	assert.Equal(t, records.OrderStatusShipped, got.OrderStatus)
	assert.Equal(t, records.PaymentStatusPending, got.PaymentStatus)
	assert.Len(t, store.Orders(), 2)
}

func TestSetOrderStatusErrors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newFakeBackend(), nil)
	require.NoError(t, store.RefreshAll(ctx))

	_, err := store.SetOrderStatus(ctx, "nope", records.OrderStatusShipped)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = store.SetOrderStatus(ctx, "302", records.OrderStatus("LOST"))
	assert.ErrorIs(t, err, shared.ErrInvalid)

	_, err = store.SetPaymentStatus(ctx, "302", records.PaymentStatus("MAYBE"))
	assert.ErrorIs(t, err, shared.ErrInvalid)
}

func TestSetPaymentStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newFakeBackend(), nil)
	require.NoError(t, store.RefreshAll(ctx))

	order, err := store.SetPaymentStatus(ctx, "301", records.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, records.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, records.OrderStatusProcessing, order.OrderStatus)
}

func TestStoreOverFacade(t *testing.T) {
	ctx := context.Background()
	api := remote.New(persistence.NewMemorySlots(), remote.Options{Latency: -1, OrdersLatency: -1})
	store := New(FromAPI(api), Options{})
	require.NoError(t, store.RefreshAll(ctx))

	assert.Len(t, store.Orders(), 2)

	_, err := store.SaveProduct(ctx, records.Product{
		ProductCode: "PRD-K-02", Name: "L-Shaped Kitchen", Category: records.CategoryKitchen, BasePrice: 98000,
	})
	require.NoError(t, err)
	require.Len(t, store.Products(), 4)
	assert.Equal(t, "L-Shaped Kitchen", store.Products()[0].Name)

	seeded := store.Orders()[0]
	require.NoError(t, store.DeleteOrder(ctx, seeded.ID))
	assert.Len(t, store.Orders(), 1)

	require.NoError(t, api.Reset(ctx))
	require.NoError(t, store.RefreshAll(ctx))
	assert.Len(t, store.Orders(), 2)
}
