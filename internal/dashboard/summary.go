package dashboard

import (
	"sort"
	"time"

	"github.com/omniorder/omniorder/internal/datastore"
	"github.com/omniorder/omniorder/internal/records"
)

// Summary contains the indicators surfaced on the dashboard.
type Summary struct {
	TotalRevenue      float64          `json:"totalRevenue"`
	TotalOrders       int              `json:"totalOrders"`
	ActiveDealers     int              `json:"activeDealers"`
	AverageOrderValue float64          `json:"averageOrderValue"`
	StatusBreakdown   []StatusCount    `json:"statusBreakdown"`
	MonthlyRevenue    []MonthlyRevenue `json:"monthlyRevenue"`
	RecentOrders      []OrderRow       `json:"recentOrders"`
}

// StatusCount is one slice of the order status chart.
type StatusCount struct {
	Status records.OrderStatus `json:"status"`
	Count  int                 `json:"count"`
}

// MonthlyRevenue sums order amounts per calendar month of the order date.
type MonthlyRevenue struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
}

// RecentLimit is the number of orders in Summary.RecentOrders.
const RecentLimit = 5

// Summarize computes the dashboard cards from snap.
func Summarize(snap datastore.Snapshot) Summary {
	s := Summary{TotalOrders: len(snap.Orders)}
	for _, o := range snap.Orders {
		s.TotalRevenue += o.FinalAmount
	}
	for _, d := range snap.Dealers {
		if d.Active() {
			s.ActiveDealers++
		}
	}
	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalRevenue / float64(s.TotalOrders)
	}
	s.StatusBreakdown = statusBreakdown(snap.Orders)
	s.MonthlyRevenue = monthlyRevenue(snap.Orders)

	rows := OrderRows(snap)
	if len(rows) > RecentLimit {
		rows = rows[:RecentLimit]
	}
	s.RecentOrders = rows
	return s
}

func statusBreakdown(orders []records.Order) []StatusCount {
	counts := make(map[records.OrderStatus]int, len(records.OrderStatuses))
	for _, o := range orders {
		counts[o.OrderStatus]++
	}
	out := make([]StatusCount, 0, len(records.OrderStatuses))
	for _, st := range records.OrderStatuses {
		out = append(out, StatusCount{Status: st, Count: counts[st]})
	}
	return out
}

// monthlyRevenue skips orders whose date does not parse.
func monthlyRevenue(orders []records.Order) []MonthlyRevenue {
	totals := map[string]float64{}
	for _, o := range orders {
		date, err := time.Parse(records.DateLayout, o.OrderDate)
		if err != nil {
			continue
		}
		totals[date.Format("2006-01")] += o.FinalAmount
	}
	out := make([]MonthlyRevenue, 0, len(totals))
	for period, revenue := range totals {
		out = append(out, MonthlyRevenue{Period: period, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}
