package records

import "slices"

// LineTotal returns quantity x unitPrice.
func LineTotal(quantity int, unitPrice float64) float64 {
	return float64(quantity) * unitPrice
}

// WithTotal returns the item with TotalPrice recomputed.
func (i OrderItem) WithTotal() OrderItem {
	i.TotalPrice = LineTotal(i.Quantity, i.UnitPrice)
	return i
}

// SumItems adds up the line totals of items as stored.
func SumItems(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.TotalPrice
	}
	return total
}

// WithTotals returns a copy of the order whose item totals and final amount
// are recomputed from quantities and unit prices. The receiver's items slice
// is not modified.
func (o Order) WithTotals() Order {
	items := slices.Clone(o.Items)
	for idx := range items {
		items[idx] = items[idx].WithTotal()
	}
	o.Items = items
	o.FinalAmount = SumItems(items)
	return o
}

// Consistent reports whether the stored totals match the items.
func (o Order) Consistent() bool {
	for _, item := range o.Items {
		if item.TotalPrice != LineTotal(item.Quantity, item.UnitPrice) {
			return false
		}
	}
	return o.FinalAmount == SumItems(o.Items)
}
