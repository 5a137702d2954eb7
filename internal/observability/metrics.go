package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

var (
	registerOnce sync.Once

	echoBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sockecho",
			Subsystem: "echo",
			Name:      "bytes_total",
			Help:      "Payload bytes received and echoed back.",
		},
		[]string{"transport", "direction"},
	)
	streamSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sockecho",
			Subsystem: "stream",
			Name:      "sessions_total",
			Help:      "Accepted stream echo sessions.",
		},
		[]string{"transport"},
	)
	streamSessionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sockecho",
			Subsystem: "stream",
			Name:      "sessions_active",
			Help:      "Stream echo sessions currently open.",
		},
		[]string{"transport"},
	)
	acceptErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sockecho",
			Subsystem: "stream",
			Name:      "accept_errors_total",
			Help:      "Accept failures that were retried.",
		},
		[]string{"transport"},
	)
	datagramErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sockecho",
			Subsystem: "datagram",
			Name:      "errors_total",
			Help:      "Datagram receive and send failures.",
		},
		[]string{"transport", "op"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sockecho",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sockecho",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			echoBytes,
			streamSessions,
			streamSessionsActive,
			acceptErrors,
			datagramErrors,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordEchoBytes(transport, direction string, n int) {
	RegisterMetrics()
	echoBytes.WithLabelValues(transport, direction).Add(float64(n))
}

// StreamSessionStarted counts a new session and returns the matching close hook.
func StreamSessionStarted(transport string) func() {
	RegisterMetrics()
	streamSessions.WithLabelValues(transport).Inc()
	active := streamSessionsActive.WithLabelValues(transport)
	active.Inc()
	return active.Dec
}

func RecordAcceptError(transport string) {
	RegisterMetrics()
	acceptErrors.WithLabelValues(transport).Inc()
}

func RecordDatagramError(transport, op string) {
	RegisterMetrics()
	datagramErrors.WithLabelValues(transport, op).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
