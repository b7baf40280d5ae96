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
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// ScoreSubmissions counts score writes by game and outcome (accepted, conflict, rejected).
	ScoreSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_submissions_total",
			Help: "Score submissions by game and outcome",
		},
		[]string{"game", "outcome"},
	)

	LeaderboardSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leaderboard_entries",
			Help: "Number of entries returned by the last leaderboard build",
		},
		[]string{"board"},
	)

	RegistrationEmails = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_emails_total",
			Help: "Registration confirmation emails by result",
		},
		[]string{"result"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ScoreSubmissions)
	prometheus.MustRegister(LeaderboardSize)
	prometheus.MustRegister(RegistrationEmails)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
