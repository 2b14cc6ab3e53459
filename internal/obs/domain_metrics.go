package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutTotal counts checkout attempts by outcome.
	CheckoutTotal *prometheus.CounterVec
	// CheckoutAmount records final bill amounts in minor currency units.
	CheckoutAmount prometheus.Histogram
	// CouponAppliedTotal counts coupons applied at checkout by code.
	CouponAppliedTotal *prometheus.CounterVec
	// PointsRedeemedTotal accumulates loyalty points redeemed at checkout.
	PointsRedeemedTotal prometheus.Counter
	// PointsEarnedTotal accumulates loyalty points accrued at checkout.
	PointsEarnedTotal prometheus.Counter
	// CartOpsTotal counts cart mutations by operation and outcome.
	CartOpsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout attempts by outcome.",
		}, []string{"result"})
		CheckoutAmount = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_amount",
			Help:      "Final bill amounts in minor currency units.",
			Buckets:   []float64{100, 500, 1000, 2500, 5000, 10000, 25000, 50000},
		})
		CouponAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_applied_total",
			Help:      "Count of coupons applied at checkout by code.",
		}, []string{"code"})
		PointsRedeemedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loyalty_points_redeemed_total",
			Help:      "Total loyalty points redeemed across checkouts.",
		})
		PointsEarnedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loyalty_points_earned_total",
			Help:      "Total loyalty points accrued across checkouts.",
		})
		CartOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Count of cart mutations by operation and outcome.",
		}, []string{"op", "result"})

		mustRegisterCollector(reg, CheckoutTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutTotal = v
			}
		})
		mustRegisterCollector(reg, CheckoutAmount, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				CheckoutAmount = v
			}
		})
		mustRegisterCollector(reg, CouponAppliedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CouponAppliedTotal = v
			}
		})
		mustRegisterCollector(reg, PointsRedeemedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				PointsRedeemedTotal = v
			}
		})
		mustRegisterCollector(reg, PointsEarnedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				PointsEarnedTotal = v
			}
		})
		mustRegisterCollector(reg, CartOpsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartOpsTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
