package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "craftcrazy"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Payment gateway calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders persisted by payment method.",
	}, []string{"payment_method"})

	PaymentsCaptured = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Payment outcomes recorded against orders.",
	}, []string{"outcome"})

	EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_emitted_total",
		Help:      "Notifier events by name and sink.",
	}, []string{"event", "sink"})

	SocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "socket_clients",
		Help:      "Connected admin WebSocket clients.",
	})
)
