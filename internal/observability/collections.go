package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Collections lists the collection labels used by the record gauges.
var Collections = []string{"dealers", "clients", "products", "orders"}

// RegisterCollectionSizes exposes the record count of every loaded
// collection. sizes is called on each scrape.
func RegisterCollectionSizes(reg prometheus.Registerer, sizes func() map[string]int) error {
	for _, name := range Collections {
		gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "omniorder_store_records",
			Help:        "Records in the loaded snapshot per collection.",
			ConstLabels: prometheus.Labels{"collection": name},
		}, func() float64 { return float64(sizes()[name]) })
		if err := reg.Register(gauge); err != nil {
			return fmt.Errorf("register %s gauge: %w", name, err)
		}
	}
	return nil
}
