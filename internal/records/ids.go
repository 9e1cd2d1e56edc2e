package records

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces collection-unique record identifiers.
type IDGenerator func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// OrderNumbers generates human readable order numbers of the form
// ORD-<year>-<4 digits>. Numbers are not guaranteed unique; callers check
// for collisions against existing orders.
type OrderNumbers struct {
	Now  func() time.Time
	IntN func(n int) int
}

// NewOrderNumbers uses the wall clock and the global random source.
func NewOrderNumbers() *OrderNumbers {
	return &OrderNumbers{Now: time.Now, IntN: rand.IntN}
}

// Next returns a fresh order number.
func (g *OrderNumbers) Next() string {
	now, intn := time.Now, rand.IntN
	if g != nil && g.Now != nil {
		now = g.Now
	}
	if g != nil && g.IntN != nil {
		intn = g.IntN
	}
	return fmt.Sprintf("ORD-%d-%04d", now().Year(), 1000+intn(9000))
}
