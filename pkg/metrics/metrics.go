package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Checkout records order creation and payment reconciliation.
type Checkout struct {
	ordersCreated prometheus.Counter
	notifications *prometheus.CounterVec
}

// NewCheckout registers the checkout metrics on reg. A nil registerer yields a no-op recorder.
func NewCheckout(reg prometheus.Registerer) *Checkout {
	if reg == nil {
		return &Checkout{}
	}
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toko_orders_created_total",
		Help: "Orders materialized from a cart at checkout.",
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toko_payment_notifications_total",
		Help: "Gateway payment notifications by reported outcome and what the reconciler did with them.",
	}, []string{"outcome", "result"})
	reg.MustRegister(ordersCreated, notifications)
	return &Checkout{
		ordersCreated: ordersCreated,
		notifications: notifications,
	}
}

func (c *Checkout) IncOrdersCreated() {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.Inc()
}

// IncNotification counts a notification. result is one of applied, ignored, duplicate, error.
func (c *Checkout) IncNotification(outcome, result string) {
	if c == nil || c.notifications == nil {
		return
	}
	c.notifications.WithLabelValues(outcome, result).Inc()
}
