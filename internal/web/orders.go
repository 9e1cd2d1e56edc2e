package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omniorder/omniorder/internal/dashboard"
	"github.com/omniorder/omniorder/internal/platform/httpx"
	"github.com/omniorder/omniorder/internal/records"
)

// OrderRequest is the body of POST /orders. Unit prices are taken from
// the loaded product at the time of the request.
type OrderRequest struct {
	ClientID      string                `json:"clientId"`
	OrderDate     string                `json:"orderDate"`
	OrderStatus   records.OrderStatus   `json:"orderStatus"`
	PaymentStatus records.PaymentStatus `json:"paymentStatus"`
	Items         []OrderLineRequest    `json:"items"`
}

// OrderLineRequest is one product line of an OrderRequest.
type OrderLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// StatusRequest is the body of the status and payment PATCH endpoints.
type StatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	draft, err := h.draft(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.store.PlaceOrder(r.Context(), draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) draft(req OrderRequest) (records.Draft, error) {
	draft := records.NewDraft(h.now())
	draft.ClientID = req.ClientID
	if req.OrderDate != "" {
		draft.OrderDate = req.OrderDate
	}
	if req.OrderStatus != "" {
		draft.OrderStatus = req.OrderStatus
	}
	if req.PaymentStatus != "" {
		draft.PaymentStatus = req.PaymentStatus
	}

	snap := h.store.Snapshot()
	unknown := map[string]string{}
	for i, line := range req.Items {
		product, ok := snap.Product(line.ProductID)
		if !ok {
			unknown[fmt.Sprintf("items[%d].productId", i)] = "must reference a known product"
			continue
		}
		draft.AddProduct(h.store.NewID(), product, line.Quantity)
	}
	if len(unknown) > 0 {
		return records.Draft{}, &records.ValidationError{Entity: "order", Fields: unknown}
	}
	return draft, nil
}

func (h *Handler) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.store.SetOrderStatus(r.Context(), chi.URLParam(r, "id"), records.OrderStatus(req.Status))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.store.SetPaymentStatus(r.Context(), chi.URLParam(r, "id"), records.PaymentStatus(req.Status))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) handleOrderRows(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	snap.Orders = h.orders.search(snap.Orders, r.URL.Query().Get("search"))
	httpx.JSON(w, http.StatusOK, dashboard.OrderRows(snap))
}
