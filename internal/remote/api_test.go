package remote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniorder/omniorder/internal/persistence"
	"github.com/omniorder/omniorder/internal/records"
	"github.com/omniorder/omniorder/internal/shared"
)

func newTestAPI() *API {
	return New(persistence.NewMemorySlots(), Options{Latency: -1, OrdersLatency: -1})
}

func TestDealersGetAllSeeds(t *testing.T) {
	got, err := newTestAPI().Dealers.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Elite Interiors", got[0].Name)
	assert.Equal(t, "Modern Kitchens", got[1].Name)
}

func TestSaveExistingDealerKeepsPosition(t *testing.T) {
	ctx := context.Background()
	api := newTestAPI()

	d := records.SeedDealers()[0]
	d.City = "Bengaluru"
	require.NoError(t, api.Dealers.Save(ctx, d))

	got, err := api.Dealers.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	matches := 0
	for _, g := range got {
		if g.ID == "1" {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "Bengaluru", got[0].City)
}

func TestSaveOrderRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	api := newTestAPI()

	order := records.Order{
		ID:            "o-1",
		OrderNumber:   "ORD-2025-1234",
		ClientID:      "101",
		DealerID:      "1",
		OrderDate:     "2025-02-01",
		FinalAmount:   1,
		OrderStatus:   records.OrderStatusPlaced,
		PaymentStatus: records.PaymentStatusPending,
		Items:         []records.OrderItem{{ID: "i-1", ProductID: "201", Quantity: 2, UnitPrice: 45000, TotalPrice: 7}},
	}
	require.NoError(t, api.Orders.Save(ctx, order))

	orders, err := api.Orders.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "o-1", orders[0].ID)
	assert.Equal(t, 90000.0, orders[0].Items[0].TotalPrice)
	assert.Equal(t, 90000.0, orders[0].FinalAmount)
}

func TestSaveRejectsMissingFields(t *testing.T) {
	err := newTestAPI().Clients.Save(context.Background(), records.Client{ID: "x"})
	assert.ErrorIs(t, err, shared.ErrInvalid)
}

func TestDeleteMissingClientIsNoop(t *testing.T) {
	ctx := context.Background()
	api := newTestAPI()
	before, err := api.Clients.GetAll(ctx)
	require.NoError(t, err)

	require.NoError(t, api.Clients.Delete(ctx, "nope"))

	after, err := api.Clients.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLatencyHonoursContext(t *testing.T) {
	api := New(persistence.NewMemorySlots(), Options{Latency: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := api.Products.GetAll(ctx)
	assert.ErrorIs(t, err, shared.ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLatencyApplied(t *testing.T) {
	api := New(persistence.NewMemorySlots(), Options{Latency: 20 * time.Millisecond, OrdersLatency: 40 * time.Millisecond})
	start := time.Now()
	_, err := api.Orders.GetAll(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestResetRestoresSeed(t *testing.T) {
	ctx := context.Background()
	api := newTestAPI()
	require.NoError(t, api.Products.Delete(ctx, "201"))
	require.NoError(t, api.Reset(ctx))

	got, err := api.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestPickLatency(t *testing.T) {
	assert.Equal(t, DefaultLatency, pick(0, DefaultLatency))
	assert.Equal(t, time.Duration(0), pick(-1, DefaultLatency))
	assert.Equal(t, time.Second, pick(time.Second, DefaultLatency))
}
