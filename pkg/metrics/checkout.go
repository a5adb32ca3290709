package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for the cart-to-inventory commit flow.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	receipts *prometheus.CounterVec
	failures *prometheus.CounterVec
	clamped  *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout commits in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"shop"})
	receipts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "receipts_issued_total",
		Help: "Receipts issued per shop.",
	}, []string{"shop"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout commits that did not complete.",
	}, []string{"shop"})
	clamped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deductions_clamped_total",
		Help: "Inventory deductions floored at zero during commit.",
	}, []string{"shop"})
	reg.MustRegister(duration, receipts, failures, clamped)
	return &CheckoutMetrics{
		duration: duration,
		receipts: receipts,
		failures: failures,
		clamped:  clamped,
	}
}

// ObserveDuration records a commit duration for the shop.
func (c *CheckoutMetrics) ObserveDuration(shop string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(shop)).Observe(duration.Seconds())
}

// IncReceipt increments the issued-receipt counter for the shop.
func (c *CheckoutMetrics) IncReceipt(shop string) {
	if c == nil || c.receipts == nil {
		return
	}
	c.receipts.WithLabelValues(normalizeLabel(shop)).Inc()
}

// IncFailure increments the failed-commit counter for the shop.
func (c *CheckoutMetrics) IncFailure(shop string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(shop)).Inc()
}

// IncClamped counts a deduction that was floored at zero.
func (c *CheckoutMetrics) IncClamped(shop string) {
	if c == nil || c.clamped == nil {
		return
	}
	c.clamped.WithLabelValues(normalizeLabel(shop)).Inc()
}

func normalizeLabel(shop string) string {
	if shop == "" {
		return "unknown"
	}
	return shop
}
