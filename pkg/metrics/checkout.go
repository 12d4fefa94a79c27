package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics tracks order placement outcomes.
type CheckoutMetrics struct {
	placed   prometheus.Counter
	rejected *prometheus.CounterVec
	revenue  prometheus.Counter
}

// NewCheckoutMetrics registers checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_placed_total",
		Help: "Orders successfully placed.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_rejected_total",
		Help: "Checkout attempts rejected, by reason.",
	}, []string{"reason"})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_revenue_total",
		Help: "Total order value accepted at checkout.",
	})
	reg.MustRegister(placed, rejected, revenue)
	return &CheckoutMetrics{
		placed:   placed,
		rejected: rejected,
		revenue:  revenue,
	}
}

// IncPlaced increments the placed-order counter and accumulates revenue.
func (c *CheckoutMetrics) IncPlaced(total float64) {
	if c == nil {
		return
	}
	if c.placed != nil {
		c.placed.Inc()
	}
	if c.revenue != nil && total > 0 {
		c.revenue.Add(total)
	}
}

// IncRejected increments the rejection counter for the given reason.
func (c *CheckoutMetrics) IncRejected(reason string) {
	if c == nil || c.rejected == nil {
		return
	}
	c.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}
