package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/maxstrb/greenfm/pkg/navigation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenfm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greenfm_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	navigationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenfm_navigation_errors_total",
			Help: "Navigation failures by kind",
		},
		[]string{"kind"},
	)

	listedEntries = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "greenfm_listed_entries",
			Help:    "Number of entries returned per directory listing",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

func metricsHandler() http.Handler {
	return promhttp.Handler()
}

func recordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func recordNavigationError(kind navigation.Kind) {
	navigationErrorsTotal.WithLabelValues(string(kind)).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument records count and latency of every request served by h under route.
func instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		recordHTTPRequest(r.Method, route, rec.status, time.Since(started))
	}
}
