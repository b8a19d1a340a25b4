package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	loanOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_operations_total",
			Help: "Loan lifecycle operations by action and outcome.",
		},
		[]string{"action", "outcome"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, loanOpsTotal)
}

func MetricsHandler() http.Handler { return promhttp.Handler() }

// Instrument records per-route request counts and latencies.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}

// CountLoanOp is called by the loan handlers after each operation.
func CountLoanOp(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	loanOpsTotal.WithLabelValues(action, outcome).Inc()
}
