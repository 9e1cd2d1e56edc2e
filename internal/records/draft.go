package records

import (
	"errors"
	"fmt"
	"time"

	"github.com/omniorder/omniorder/internal/shared"
)

var (
	ErrClientRequired = fmt.Errorf("%w: please select a client", shared.ErrInvalid)
	ErrNoItems        = fmt.Errorf("%w: please add at least one product", shared.ErrInvalid)
	ErrItemIndex      = errors.New("order item index out of range")
)

// DateLayout is the persisted layout of Order.OrderDate.
const DateLayout = "2006-01-02"

// Draft is an order being composed. Unit prices are snapshotted from the
// product when it is picked and do not follow later price changes.
type Draft struct {
	ClientID      string
	OrderDate     string
	OrderStatus   OrderStatus
	PaymentStatus PaymentStatus
	Items         []OrderItem
}

// NewDraft returns an empty draft dated today with PLACED / PENDING status.
func NewDraft(today time.Time) Draft {
	return Draft{
		OrderDate:     today.Format(DateLayout),
		OrderStatus:   OrderStatusPlaced,
		PaymentStatus: PaymentStatusPending,
	}
}

// AddItem appends an empty line with quantity 1 and returns its index.
func (d *Draft) AddItem(id string) int {
	d.Items = append(d.Items, OrderItem{ID: id, Quantity: 1})
	return len(d.Items) - 1
}

// AddProduct appends a line for product with the given quantity.
func (d *Draft) AddProduct(id string, product Product, quantity int) int {
	idx := d.AddItem(id)
	d.Items[idx].ProductID = product.ID
	d.Items[idx].UnitPrice = product.BasePrice
	d.Items[idx].Quantity = quantity
	d.Items[idx] = d.Items[idx].WithTotal()
	return idx
}

// SetProduct points line i at product and snapshots its base price.
func (d *Draft) SetProduct(i int, product Product) error {
	if i < 0 || i >= len(d.Items) {
		return ErrItemIndex
	}
	item := d.Items[i]
	item.ProductID = product.ID
	item.UnitPrice = product.BasePrice
	d.Items[i] = item.WithTotal()
	return nil
}

// SetQuantity changes the quantity of line i.
func (d *Draft) SetQuantity(i, quantity int) error {
	if i < 0 || i >= len(d.Items) {
		return ErrItemIndex
	}
	item := d.Items[i]
	item.Quantity = quantity
	d.Items[i] = item.WithTotal()
	return nil
}

// RemoveItem drops line i.
func (d *Draft) RemoveItem(i int) error {
	if i < 0 || i >= len(d.Items) {
		return ErrItemIndex
	}
	d.Items = append(d.Items[:i:i], d.Items[i+1:]...)
	return nil
}

// Total is the running order total shown while composing.
func (d Draft) Total() float64 {
	return SumItems(d.Items)
}

// Build turns the draft into an order for client. The client's dealer is
// copied onto the order and is not kept in sync afterwards.
func (d Draft) Build(client *Client, id, number string) (Order, error) {
	if client == nil || d.ClientID == "" || client.ID != d.ClientID {
		return Order{}, ErrClientRequired
	}
	if len(d.Items) == 0 {
		return Order{}, ErrNoItems
	}
	order := Order{
		ID:            id,
		OrderNumber:   number,
		ClientID:      client.ID,
		DealerID:      client.DealerID,
		OrderDate:     d.OrderDate,
		OrderStatus:   d.OrderStatus,
		PaymentStatus: d.PaymentStatus,
		Items:         d.Items,
	}
	return order.WithTotals(), nil
}
