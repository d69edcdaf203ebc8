package monitoring

import (
	"strconv"
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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 出题流水线指标，result ∈ accepted / parse_failed / duplicate / rejected / oracle_error
	GenerationAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_generation_attempts_total",
			Help: "Generation attempts by outcome",
		},
		[]string{"result"},
	)

	NodesExhausted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_generation_nodes_exhausted_total",
			Help: "Knowledge nodes skipped after exhausting retries",
		},
	)

	OracleErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_errors_total",
			Help: "Content generation oracle call failures",
		},
		[]string{"caller"},
	)

	DueLearningItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "learning_items_due",
			Help: "Learning items currently at or past their next review time",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(GenerationAttempts)
	prometheus.MustRegister(NodesExhausted)
	prometheus.MustRegister(OracleErrors)
	prometheus.MustRegister(DueLearningItems)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
