package dashboard

import "github.com/omniorder/omniorder/internal/datastore"

const (
	UnknownClient  = "Unknown Client"
	UnknownDealer  = "Unknown Dealer"
	UnknownProduct = "Unknown Product"
)

// ClientName resolves a client id for display. Orders may outlive the
// client they reference.
func ClientName(snap datastore.Snapshot, id string) string {
	if c, ok := snap.Client(id); ok {
		return c.Name
	}
	return UnknownClient
}

// DealerName resolves a dealer id for display.
func DealerName(snap datastore.Snapshot, id string) string {
	if d, ok := snap.Dealer(id); ok {
		return d.Name
	}
	return UnknownDealer
}

// ProductName resolves a product id for display.
func ProductName(snap datastore.Snapshot, id string) string {
	if p, ok := snap.Product(id); ok {
		return p.Name
	}
	return UnknownProduct
}

// OrderRow is an order joined with the names shown in the orders list.
type OrderRow struct {
	ID            string  `json:"id"`
	OrderNumber   string  `json:"orderNumber"`
	OrderDate     string  `json:"orderDate"`
	ClientName    string  `json:"clientName"`
	DealerName    string  `json:"dealerName"`
	ItemCount     int     `json:"itemCount"`
	FinalAmount   float64 `json:"finalAmount"`
	OrderStatus   string  `json:"orderStatus"`
	PaymentStatus string  `json:"paymentStatus"`
}

// OrderRows joins every loaded order with its client and dealer names.
func OrderRows(snap datastore.Snapshot) []OrderRow {
	rows := make([]OrderRow, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		rows = append(rows, OrderRow{
			ID:            o.ID,
			OrderNumber:   o.OrderNumber,
			OrderDate:     o.OrderDate,
			ClientName:    ClientName(snap, o.ClientID),
			DealerName:    DealerName(snap, o.DealerID),
			ItemCount:     len(o.Items),
			FinalAmount:   o.FinalAmount,
			OrderStatus:   string(o.OrderStatus),
			PaymentStatus: string(o.PaymentStatus),
		})
	}
	return rows
}
