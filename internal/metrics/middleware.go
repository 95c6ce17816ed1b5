package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Route labels. Requests that match no API route share routeOther.
const (
	RouteHealth  = "/health"
	RouteSearch  = "/search"
	RouteExtract = "/extract"
	RouteMetrics = "/metrics"

	routeOther = "other"
)

var apiRoutes = map[string]bool{
	RouteHealth:  true,
	RouteSearch:  true,
	RouteExtract: true,
}

// HTTP Prometheus metrics.
var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "minutesmind",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by API route",
			// /search embeds the query, /extract also waits on the LLM
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "minutesmind",
			Name:      "http_requests_total",
			Help:      "HTTP requests by API route and status class",
		},
		[]string{"method", "route", "code"}, // code: 2xx, 4xx, 5xx
	)

	httpRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "minutesmind",
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration, httpRequestsTotal, httpRequestsInFlight)
}

// Middleware records count, latency and concurrency of API requests.
// Scrapes of /metrics are passed through unrecorded.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == RouteMetrics {
				next.ServeHTTP(w, r)
				return
			}

			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// the pattern is only complete once routing has finished
			route := routeLabel(chi.RouteContext(r.Context()))
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(r.Method, route, statusClass(ww.Status())).Inc()
		})
	}
}

// routeLabel bounds label cardinality to the API routes.
func routeLabel(rctx *chi.Context) string {
	if rctx == nil {
		return routeOther
	}
	if p := rctx.RoutePattern(); apiRoutes[p] {
		return p
	}
	return routeOther
}

// statusClass maps a status code to 2xx/3xx/4xx/5xx. A handler that never
// wrote a header answered 200.
func statusClass(status int) string {
	if status == 0 {
		status = http.StatusOK
	}
	return strconv.Itoa(status/100) + "xx"
}
