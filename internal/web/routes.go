package web

import "github.com/go-chi/chi/v5"

// MountRoutes registers the admin API on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/state", h.handleState)
	r.Post("/refresh", h.handleRefresh)
	r.Get("/dashboard", h.handleDashboard)

	h.dealers.mount(r, "/dealers")
	h.clients.mount(r, "/clients")
	h.products.mount(r, "/products")

	r.Get("/orders", h.orders.list)
	r.Post("/orders", h.handlePlaceOrder)
	r.Get("/orders/rows", h.handleOrderRows)
	r.Get("/orders/{id}", h.orders.show)
	r.Put("/orders/{id}", h.orders.update)
	r.Delete("/orders/{id}", h.orders.delete)
	r.Patch("/orders/{id}/status", h.handleOrderStatus)
	r.Patch("/orders/{id}/payment", h.handlePaymentStatus)
}
