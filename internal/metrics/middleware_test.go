package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func respond(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("{}"))
	}
}

// apiRouter mounts handlers on the minutesmind routes behind the middleware.
func apiRouter(search, extract int) http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get(RouteHealth, respond(http.StatusServiceUnavailable))
	r.Post(RouteSearch, respond(search))
	r.Get(RouteSearch, respond(search))
	r.Post(RouteExtract, respond(extract))
	r.Get(RouteMetrics, respond(http.StatusOK))
	return r
}

func TestMiddleware_CountsByRouteAndStatusClass(t *testing.T) {
	h := apiRouter(http.StatusBadRequest, http.StatusBadGateway)

	tests := []struct {
		method string
		path   string
		route  string
		code   string
	}{
		{"POST", "/search", RouteSearch, "4xx"},
		{"GET", "/search?query=budget&top_k=3", RouteSearch, "4xx"},
		{"POST", "/extract", RouteExtract, "5xx"},
		{"GET", "/health", RouteHealth, "5xx"},
		{"GET", "/collections/notes", routeOther, "4xx"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			counter := httpRequestsTotal.WithLabelValues(tt.method, tt.route, tt.code)
			before := testutil.ToFloat64(counter)

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, http.NoBody))

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("http_requests_total{%s,%s,%s} grew by %v, want 1", tt.method, tt.route, tt.code, got)
			}
		})
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds observations")
	}
}

func TestMiddleware_SearchSuccess(t *testing.T) {
	h := apiRouter(http.StatusOK, http.StatusOK)
	counter := httpRequestsTotal.WithLabelValues("POST", RouteSearch, "2xx")
	before := testutil.ToFloat64(counter)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/search", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("2xx search requests grew by %v, want 1", got)
	}
}

func TestMiddleware_MetricsScrapeNotRecorded(t *testing.T) {
	h := apiRouter(http.StatusOK, http.StatusOK)
	other := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", routeOther, "2xx"))
	idle := testutil.ToFloat64(httpRequestsInFlight)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := testutil.ToFloat64(httpRequestsInFlight); got != idle {
		t.Errorf("in flight = %v, want %v", got, idle)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", routeOther, "2xx")); got != other {
		t.Errorf("scrape recorded as %q: %v -> %v", routeOther, other, got)
	}
}

func TestMiddleware_InFlight(t *testing.T) {
	idle := testutil.ToFloat64(httpRequestsInFlight)
	var during float64

	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post(RouteExtract, func(w http.ResponseWriter, _ *http.Request) {
		during = testutil.ToFloat64(httpRequestsInFlight)
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/extract", http.NoBody))

	if during != idle+1 {
		t.Errorf("in flight during request = %v, want %v", during, idle+1)
	}
	if got := testutil.ToFloat64(httpRequestsInFlight); got != idle {
		t.Errorf("in flight after request = %v, want %v", got, idle)
	}
}

func TestMiddleware_NoHeaderWrittenCountsAsSuccess(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get(RouteHealth, func(http.ResponseWriter, *http.Request) {})

	counter := httpRequestsTotal.WithLabelValues("GET", RouteHealth, "2xx")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", http.NoBody))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("2xx health requests grew by %v, want 1", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{0, "2xx"},
		{http.StatusOK, "2xx"},
		{http.StatusPaymentRequired, "4xx"},
		{http.StatusTooManyRequests, "4xx"},
		{http.StatusBadGateway, "5xx"},
	}
	for _, tt := range tests {
		if got := statusClass(tt.status); got != tt.want {
			t.Errorf("statusClass(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestRouteLabel(t *testing.T) {
	if got := routeLabel(nil); got != routeOther {
		t.Errorf("routeLabel(nil) = %q", got)
	}
	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = []string{RouteSearch}
	if got := routeLabel(rctx); got != RouteSearch {
		t.Errorf("routeLabel(/search) = %q", got)
	}
	rctx.RoutePatterns = []string{"/collections/{name}"}
	if got := routeLabel(rctx); got != routeOther {
		t.Errorf("unknown pattern = %q, want %q", got, routeOther)
	}
}
