package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCheckoutCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckout(reg)

	m.IncOrdersCreated()
	m.IncNotification("paid", "applied")
	m.IncNotification("paid", "applied")
	m.IncNotification("failed", "ignored")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ordersCreated))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.notifications.WithLabelValues("paid", "applied")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.notifications.WithLabelValues("failed", "ignored")))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var m *Checkout
	m.IncOrdersCreated()
	m.IncNotification("paid", "applied")

	NewCheckout(nil).IncOrdersCreated()
}
