package prometheus

import (
	"time"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Front-desk metrics
	BookingOperationsCounter prometheus.CounterVec
	RoomStatusGauge          prometheus.GaugeVec

	// Shift metrics
	ShiftOperationsCounter prometheus.CounterVec

	// POS metrics
	PosOrderCounter prometheus.Counter

	// Revenue by source (room, pos)
	RevenueCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Booking lifecycle metrics
	BookingOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_booking_operations_total",
			Help: "Total number of booking operations",
		},
		[]string{"operation"},
	)

	// Room status gauge
	RoomStatusGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_rooms_by_status",
			Help: "Current number of rooms per physical status",
		},
		[]string{"status"},
	)

	// Shift lifecycle metrics
	ShiftOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_shift_operations_total",
			Help: "Total number of shift open/close operations",
		},
		[]string{"operation"},
	)

	// POS order metrics
	PosOrderCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_pos_orders_total",
			Help: "Total number of POS orders created",
		},
	)

	// Revenue metrics
	RevenueCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_revenue_total",
			Help: "Accumulated revenue by source",
		},
		[]string{"source"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordBookingOperation increments the counter for booking operations
func RecordBookingOperation(operation string) {
	BookingOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordShiftOperation increments the counter for shift operations
func RecordShiftOperation(operation string) {
	ShiftOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordRevenue adds an amount to the revenue counter for a source
func RecordRevenue(source string, amount float64) {
	if amount > 0 {
		RevenueCounter.WithLabelValues(source).Add(amount)
	}
}
