package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	DeliveryFeesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_fees_computed_total",
			Help: "Delivery fees computed, by whether the night surcharge applied",
		},
		[]string{"surcharge"},
	)

	ScheduleRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_schedule_refresh_total",
			Help: "Schedule refresh attempts, by result (ok, stale, fallback)",
		},
		[]string{"result"},
	)

	OrdersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Orders accepted, by delivery type",
		},
		[]string{"delivery_type"},
	)
)
