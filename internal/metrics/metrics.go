package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotbooking_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slotbooking_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	GRPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotbooking_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "code"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotbooking_bookings_total",
			Help: "Booking creation attempts by outcome",
		},
		[]string{"outcome"},
	)

	AvailabilityRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slotbooking_availability_requests_total",
			Help: "Availability lookups answered",
		},
	)

	StoreReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slotbooking_store_ready",
			Help: "1 when the booking store is reachable and bootstrapped",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordGRPCRequest(method, code string) {
	GRPCRequestsTotal.WithLabelValues(method, code).Inc()
}

func RecordBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordAvailability() {
	AvailabilityRequestsTotal.Inc()
}

func SetStoreReady(ok bool) {
	if ok {
		StoreReady.Set(1)
		return
	}
	StoreReady.Set(0)
}
