// Package monitoring exposes Prometheus metrics for HTTP traffic and the learning ledgers.
package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// QuizSubmissions counts submissions by outcome: recorded, limit_exceeded, rejected
	QuizSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnsphere_quiz_submissions_total",
			Help: "Quiz submissions by outcome",
		},
		[]string{"outcome"},
	)

	// ProgressUpdates counts content-completion progress writes
	ProgressUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "learnsphere_progress_updates_total",
			Help: "Content progress updates written",
		},
	)

	// CommunityActions counts ratings and forum activity by action
	CommunityActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnsphere_community_actions_total",
			Help: "Ratings, posts and upvotes",
		},
		[]string{"action"},
	)

	initOnce sync.Once
)

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration, QuizSubmissions, ProgressUpdates, CommunityActions)
	})
}

// MetricsMiddleware records count and latency per route template
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

// PrometheusHandler serves the default registry
func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
