package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aptradar",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "aptradar",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "aptradar",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Upstream vendor metrics
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aptradar",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Total calls to vendor APIs",
	}, []string{"vendor", "operation"})

	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aptradar",
		Subsystem: "upstream",
		Name:      "errors_total",
		Help:      "Total vendor API failures",
	}, []string{"vendor", "operation"})

	// Agent metrics
	UtterancesRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aptradar",
		Subsystem: "agent",
		Name:      "utterances_routed_total",
		Help:      "Total utterances resolved by the agent bus",
	}, []string{"outcome"}) // matched agent name, "default", or "error"

	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aptradar",
		Subsystem: "agent",
		Name:      "tool_calls_total",
		Help:      "Total tool-dispatch webhook calls",
	}, []string{"tool", "status"})

	VoiceTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aptradar",
		Subsystem: "voice",
		Name:      "turns_total",
		Help:      "Total voice-agent turns",
	}, []string{"status"}) // ok, partial (no audio), error

	MailboxPosts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aptradar",
		Subsystem: "agent",
		Name:      "mailbox_posts_total",
		Help:      "Total UI commands posted to the mailbox",
	})

	MailboxTakes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aptradar",
		Subsystem: "agent",
		Name:      "mailbox_takes_total",
		Help:      "Total mailbox polls",
	}, []string{"pending"})

	// Cache metrics
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aptradar",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aptradar",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
