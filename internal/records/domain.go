// Package records holds the four record types managed by the dashboard
// together with their seed data, required-field rules and order totals.
package records

// Record is implemented by every persisted entity.
type Record interface {
	RecordID() string
}

// ============================================================================
// DEALER
// ============================================================================

type DealerStatus string

const (
	DealerStatusActive   DealerStatus = "ACTIVE"
	DealerStatusInactive DealerStatus = "INACTIVE"
)

type Dealer struct {
	ID            string       `json:"id" validate:"required"`
	DealerCode    string       `json:"dealerCode" validate:"required"`
	Name          string       `json:"name" validate:"required"`
	ContactPerson string       `json:"contactPerson"`
	Email         string       `json:"email" validate:"required"`
	Phone         string       `json:"phone" validate:"required"`
	City          string       `json:"city" validate:"required"`
	Status        DealerStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

func (d Dealer) RecordID() string { return d.ID }

// Active reports whether the dealer is currently trading.
func (d Dealer) Active() bool { return d.Status == DealerStatusActive }

// ============================================================================
// CLIENT
// ============================================================================

type Client struct {
	ID         string `json:"id" validate:"required"`
	ClientCode string `json:"clientCode" validate:"required"`
	DealerID   string `json:"dealerId" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	City       string `json:"city" validate:"required"`
}

func (c Client) RecordID() string { return c.ID }

// ============================================================================
// PRODUCT
// ============================================================================

type ProductCategory string

const (
	CategoryWardrobe ProductCategory = "WARDROBE"
	CategoryKitchen  ProductCategory = "KITCHEN"
)

type Product struct {
	ID          string          `json:"id" validate:"required"`
	ProductCode string          `json:"productCode" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Category    ProductCategory `json:"category" validate:"required,oneof=WARDROBE KITCHEN"`
	BasePrice   float64         `json:"basePrice" validate:"gte=0"`
}

func (p Product) RecordID() string { return p.ID }

// ============================================================================
// ORDER
// ============================================================================

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "PLACED"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

type OrderItem struct {
	ID         string  `json:"id" validate:"required"`
	ProductID  string  `json:"productId" validate:"required"`
	Quantity   int     `json:"quantity" validate:"gt=0"`
	UnitPrice  float64 `json:"unitPrice" validate:"gte=0"`
	TotalPrice float64 `json:"totalPrice"`
}

type Order struct {
	ID            string        `json:"id" validate:"required"`
	OrderNumber   string        `json:"orderNumber" validate:"required"`
	ClientID      string        `json:"clientId" validate:"required"`
	DealerID      string        `json:"dealerId"`
	OrderDate     string        `json:"orderDate" validate:"required,datetime=2006-01-02"`
	FinalAmount   float64       `json:"finalAmount"`
	OrderStatus   OrderStatus   `json:"orderStatus" validate:"required,oneof=PLACED CONFIRMED PROCESSING SHIPPED DELIVERED CANCELLED"`
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"required,oneof=PENDING PARTIAL PAID"`
	Items         []OrderItem   `json:"items" validate:"required,min=1,dive"`
}

func (o Order) RecordID() string { return o.ID }
