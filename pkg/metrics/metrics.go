package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline counters. Pass prometheus.NewRegistry() in
// tests to avoid double registration on the default registerer.
type Metrics struct {
	OrdersCreated        prometheus.Counter
	PaymentsVerified     prometheus.Counter
	VerificationFailures prometheus.Counter
	StatusTransitions    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medimart",
			Name:      "orders_created_total",
			Help:      "Total number of orders persisted at checkout.",
		}),
		PaymentsVerified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medimart",
			Name:      "payments_verified_total",
			Help:      "Total number of payment callbacks verified.",
		}),
		VerificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medimart",
			Name:      "payment_verification_failures_total",
			Help:      "Total number of rejected payment callbacks.",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medimart",
			Name:      "order_status_transitions_total",
			Help:      "Order status transitions by target status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.OrdersCreated, m.PaymentsVerified, m.VerificationFailures, m.StatusTransitions)
	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}
