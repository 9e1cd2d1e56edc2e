// Package web exposes the data store as a JSON admin surface.
package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/omniorder/omniorder/internal/dashboard"
	"github.com/omniorder/omniorder/internal/datastore"
	"github.com/omniorder/omniorder/internal/platform/httpx"
	"github.com/omniorder/omniorder/internal/records"
)

// Handler serves the admin API over one Store.
type Handler struct {
	logger *slog.Logger
	store  *datastore.Store
	now    func() time.Time

	dealers  crud[records.Dealer]
	clients  crud[records.Client]
	products crud[records.Product]
	orders   crud[records.Order]
}

// NewHandler constructs the admin handler.
func NewHandler(logger *slog.Logger, store *datastore.Store) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{logger: logger, store: store, now: time.Now}
	h.dealers = crud[records.Dealer]{
		h:      h,
		name:   "dealer",
		items:  func(s datastore.Snapshot) []records.Dealer { return s.Dealers },
		search: dashboard.SearchDealers,
		find:   datastore.Snapshot.Dealer,
		save:   store.SaveDealer,
		remove: store.DeleteDealer,
		withID: func(d records.Dealer, id string) records.Dealer { d.ID = id; return d },
	}
	h.clients = crud[records.Client]{
		h:      h,
		name:   "client",
		items:  func(s datastore.Snapshot) []records.Client { return s.Clients },
		search: dashboard.SearchClients,
		find:   datastore.Snapshot.Client,
		save:   store.SaveClient,
		remove: store.DeleteClient,
		withID: func(c records.Client, id string) records.Client { c.ID = id; return c },
	}
	h.products = crud[records.Product]{
		h:      h,
		name:   "product",
		items:  func(s datastore.Snapshot) []records.Product { return s.Products },
		search: dashboard.SearchProducts,
		find:   datastore.Snapshot.Product,
		save:   store.SaveProduct,
		remove: store.DeleteProduct,
		withID: func(p records.Product, id string) records.Product { p.ID = id; return p },
	}
	h.orders = crud[records.Order]{
		h:      h,
		name:   "order",
		items:  func(s datastore.Snapshot) []records.Order { return s.Orders },
		search: dashboard.SearchOrders,
		find:   datastore.Snapshot.Order,
		save:   store.SaveOrder,
		remove: store.DeleteOrder,
		withID: func(o records.Order, id string) records.Order { o.ID = id; return o },
	}
	return h
}

// StateResponse is the full store view returned by /state and /refresh.
type StateResponse struct {
	Loading bool `json:"loading"`
	datastore.Snapshot
}

func (h *Handler) state() StateResponse {
	return StateResponse{Loading: h.store.Loading(), Snapshot: h.store.Snapshot()}
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.state())
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RefreshAll(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.state())
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, dashboard.Summarize(h.store.Snapshot()))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("api request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	httpx.RespondError(w, err)
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}
