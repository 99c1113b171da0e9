// Package metrics объявляет метрики Prometheus портала. Метрики регистрируются
// в реестре по умолчанию и отдаются через /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты вызовов сервиса оформления подписок.
const (
	ResultOK          = "ok"
	ResultUnavailable = "unavailable"
	ResultServerError = "server_error"
	ResultRejected    = "rejected"
)

var (
	PricingRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partner_portal_pricing_request_duration_seconds",
			Help:    "Duration of calls to the remote pricing API",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"operation", "result"},
	)

	CheckoutAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partner_portal_checkout_attempts_total",
			Help: "Checkout attempts by stage and outcome",
		},
		[]string{"stage", "outcome"},
	)
)
