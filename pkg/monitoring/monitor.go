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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// EnrollmentAttempts 按结果统计选课请求：admitted / already_enrolled / course_full / not_found
	EnrollmentAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_attempts_total",
			Help: "Enrollment attempts by outcome",
		},
		[]string{"result"},
	)

	EnrollmentTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_status_transitions_total",
			Help: "Enrollment status transitions by target status",
		},
		[]string{"status"},
	)

	// WorkersProvisioned 首次访问时自动创建的员工档案；fallback 表示随机工号重试耗尽
	WorkersProvisioned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workers_provisioned_total",
			Help: "Worker profiles created lazily on first access",
		},
		[]string{"id_source"},
	)
)

const (
	ResultAdmitted        = "admitted"
	ResultAlreadyEnrolled = "already_enrolled"
	ResultCourseFull      = "course_full"
	ResultNotFound        = "not_found"
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(EnrollmentAttempts)
		prometheus.MustRegister(EnrollmentTransitions)
		prometheus.MustRegister(WorkersProvisioned)
	})
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
