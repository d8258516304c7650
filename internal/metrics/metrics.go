package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReadingsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buoy_readings_ingested_total",
		Help: "Total number of readings committed to the durable store.",
	})

	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buoy_validation_failures_total",
		Help: "Total number of readings rejected at validation.",
	})

	StoreFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buoy_store_failures_total",
		Help: "Total number of failed durable-store operations.",
	})

	MirrorPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buoy_mirror_publish_failures_total",
		Help: "Total number of mirror publishes that were dropped after an error.",
	})

	// LastReadingTimestamp is 0 until the first reading is accepted.
	LastReadingTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "buoy_last_reading_timestamp_seconds",
		Help: "Unix timestamp (seconds) of the last accepted reading. 0 if none yet.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buoy_http_requests_total",
		Help: "Total number of HTTP requests by method, route, and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "buoy_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
