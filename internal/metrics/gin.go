package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Unmatched labels requests that hit no route, so scans of unknown paths
// share one series.
const Unmatched = "unmatched"

// Registry is where the service's collectors live and are scraped from.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// HTTP holds the request collectors of the card API.
type HTTP struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	inFlight prometheus.Gauge
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	f := promauto.With(reg)
	labels := []string{"method", "route", "status"}
	return &HTTP{
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "casecard",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by route template.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		}, labels),
		total: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casecard",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by route template.",
		}, labels),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "casecard",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "HTTP requests currently being served.",
		}),
	}
}

// Route is the matched route template of c, or Unmatched.
func Route(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return Unmatched
}

// Middleware observes every request. Card renders can take seconds, hence
// the wide buckets.
func (m *HTTP) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		c.Next()

		lv := []string{c.Request.Method, Route(c), strconv.Itoa(c.Writer.Status())}
		m.duration.WithLabelValues(lv...).Observe(time.Since(start).Seconds())
		m.total.WithLabelValues(lv...).Inc()
	}
}
