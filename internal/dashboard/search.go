// Package dashboard holds the read-side views computed from a data store
// snapshot: list search, name lookups and the summary cards.
package dashboard

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/omniorder/omniorder/internal/records"
)

// matcher reports whether any field contains the folded query. The query is
// taken as typed, so whitespace is significant.
type matcher struct {
	query string
}

func newMatcher(query string) matcher {
	return matcher{query: fold(query)}
}

func (m matcher) any(fields ...string) bool {
	if m.query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(fold(f), m.query) {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// SearchDealers matches name or dealer code, case-insensitively.
func SearchDealers(items []records.Dealer, query string) []records.Dealer {
	m := newMatcher(query)
	return filter(items, func(d records.Dealer) bool { return m.any(d.Name, d.DealerCode) })
}

// SearchClients matches name or client code.
func SearchClients(items []records.Client, query string) []records.Client {
	m := newMatcher(query)
	return filter(items, func(c records.Client) bool { return m.any(c.Name, c.ClientCode) })
}

// SearchProducts matches name or product code.
func SearchProducts(items []records.Product, query string) []records.Product {
	m := newMatcher(query)
	return filter(items, func(p records.Product) bool { return m.any(p.Name, p.ProductCode) })
}

// SearchOrders matches the order number.
func SearchOrders(items []records.Order, query string) []records.Order {
	m := newMatcher(query)
	return filter(items, func(o records.Order) bool { return m.any(o.OrderNumber) })
}
