package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PricingCalculationsTotal counts engine invocations by outcome (empty, undiscounted, discounted).
	PricingCalculationsTotal *prometheus.CounterVec
	// PricingDiscountsAppliedTotal counts recorded breakdown entries per campaign kind.
	PricingDiscountsAppliedTotal *prometheus.CounterVec
	// PricingPointsCappedTotal counts points redemptions limited by the 20% cap.
	PricingPointsCappedTotal prometheus.Counter
	// PricingDiscountAmount records the total discount per priced cart in currency units.
	PricingDiscountAmount prometheus.Histogram
	// CartMutationsTotal counts cart collaborator operations by name and result.
	CartMutationsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PricingCalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_calculations_total",
			Help:      "Count of cart price calculations by outcome.",
		}, []string{"outcome"})
		PricingDiscountsAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_discounts_applied_total",
			Help:      "Count of discounts recorded in breakdowns by campaign kind.",
		}, []string{"kind"})
		PricingPointsCappedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_points_capped_total",
			Help:      "Number of points redemptions limited by the 20% cap.",
		})
		PricingDiscountAmount = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_discount_amount",
			Help:      "Total discount granted per priced cart.",
			Buckets:   []float64{0, 10, 50, 100, 250, 500, 1000, 2500, 5000},
		})
		CartMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of cart operations by name and result.",
		}, []string{"op", "result"})

		mustRegisterCollector(reg, PricingCalculationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PricingCalculationsTotal = v
			}
		})
		mustRegisterCollector(reg, PricingDiscountsAppliedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PricingDiscountsAppliedTotal = v
			}
		})
		mustRegisterCollector(reg, PricingPointsCappedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				PricingPointsCappedTotal = v
			}
		})
		mustRegisterCollector(reg, PricingDiscountAmount, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				PricingDiscountAmount = v
			}
		})
		mustRegisterCollector(reg, CartMutationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartMutationsTotal = v
			}
		})
	})
}
