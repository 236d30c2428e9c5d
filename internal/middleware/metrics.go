package middleware

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const wsRoute = "/api/v1/ws"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_http_requests_total",
			Help: "HTTP requests by API area, route template and status",
		},
		[]string{"area", "method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_http_request_duration_seconds",
			Help:    "HTTP request latency by API area (websocket upgrades excluded)",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"area", "method"},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 4, 7), // message pages stay well under 1MB
		},
		[]string{"area"},
	)

	activeRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_http_active_requests",
			Help: "HTTP requests currently in flight, open sockets not included",
		},
	)

	dbConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chat_db_connections",
			Help: "Database pool connections by state",
		},
		[]string{"state"},
	)
)

// Metrics returns a gin middleware that collects Prometheus metrics.
// /metrics, /health and the swagger UI are not counted.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/metrics" || p == "/health" || strings.HasPrefix(p, "/swagger/") {
			c.Next()
			return
		}

		route := normalizePath(c.FullPath())
		area := apiArea(route)
		if route == wsRoute {
			// the handler blocks for the socket lifetime; chat_ws_connections tracks it
			c.Next()
			httpRequestsTotal.WithLabelValues(area, c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
			return
		}

		start := time.Now()
		activeRequests.Inc()

		c.Next()

		activeRequests.Dec()
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(area, c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(area, c.Request.Method).Observe(time.Since(start).Seconds())
		httpResponseSize.WithLabelValues(area).Observe(float64(c.Writer.Size()))
	}
}

// SetDBPoolStats refreshes the pool gauges; the db_stats task calls it
func SetDBPoolStats(stats sql.DBStats) {
	dbConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	dbConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	dbConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
}

// normalizePath keeps the route template (/api/v1/messages/:id) so ids do not become labels.
// Unmatched routes collapse into one label.
func normalizePath(path string) string {
	if path == "" {
		return "unmatched"
	}
	return path
}

// apiArea first segment under /api/v1: messages, contacts, friend-requests, ...
func apiArea(route string) string {
	rest, ok := strings.CutPrefix(route, "/api/v1/")
	if !ok {
		return "other"
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "other"
	}
	return rest
}
