package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics holds the HTTP and checkout collectors of one server instance.
// Each instance owns its registry so several apps can coexist in one process.
type ServerMetrics struct {
	registry      *prometheus.Registry
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	OrdersPlaced  prometheus.Counter
	OrderFailures *prometheus.CounterVec
}

func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lalastore",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lalastore",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lalastore",
		Subsystem: service,
		Name:      "orders_placed_total",
		Help:      "Orders committed successfully.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lalastore",
		Subsystem: service,
		Name:      "order_failures_total",
		Help:      "Checkout attempts that were rolled back, by reason.",
	}, []string{"reason"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		requests, latency, placed, failures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &ServerMetrics{
		registry:      registry,
		Requests:      requests,
		LatencyMS:     latency,
		OrdersPlaced:  placed,
		OrderFailures: failures,
	}
}

func (m *ServerMetrics) ObserveRequest(handler, method string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(handler, method, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(handler).Observe(float64(elapsed) / float64(time.Millisecond))
}

func (m *ServerMetrics) OrderPlaced() {
	m.OrdersPlaced.Inc()
}

func (m *ServerMetrics) OrderFailed(reason string) {
	m.OrderFailures.WithLabelValues(reason).Inc()
}

// Handler serves this instance's registry in the Prometheus exposition format.
func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
