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

	// 业务指标：AI 生成与判分
	QuizGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizforge_quizzes_generated_total",
			Help: "Total number of AI-generated quizzes, by outcome",
		},
		[]string{"outcome"}, // ok / upstream_error / malformed
	)

	AttemptGraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quizforge_attempts_graded_total",
			Help: "Total number of graded quiz attempts",
		},
	)

	AIGenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quizforge_ai_generation_duration_seconds",
			Help:    "Duration of AI quiz generation (content + image)",
			Buckets: []float64{1, 2, 5, 10, 20, 40},
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(QuizGenerated)
	prometheus.MustRegister(AttemptGraded)
	prometheus.MustRegister(AIGenerationDuration)
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
