package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/request"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/result"
	"github.com/kailas-cloud/minutesmind/internal/logger"
	healthuc "github.com/kailas-cloud/minutesmind/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the minutesmind HTTP API.
type Server struct {
	search        Searcher
	extract       Extractor
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, extract Extractor, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search:  search,
		extract: extract,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorResponseCodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded,
			http.StatusPaymentRequired, ErrorResponseCodeEmbeddingQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, ErrorResponseCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrExtractionFailed, http.StatusBadGateway, ErrorResponseCodeExtractionFailed),
		sentinelHandler(domain.ErrStoreUnavailable,
			http.StatusServiceUnavailable, ErrorResponseCodeVectorStoreUnavailable),
	}
	return s
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	for k, err := range report.Errors {
		logger.FromContext(r.Context()).Warn("health check failed", zap.String("check", k), zap.Error(err))
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// SearchPost handles POST /search.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.runSearch(w, r, req.Query, derefInt(req.TopK))
}

// SearchGet handles GET /search?query=&top_k=.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request) {
	var params SearchParams

	err := runtime.BindQueryParameter("form", true, true, "query", r.URL.Query(), &params.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter query: "+err.Error())
		return
	}
	err = runtime.BindQueryParameter("form", true, false, "top_k", r.URL.Query(), &params.TopK)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter top_k: "+err.Error())
		return
	}

	s.runSearch(w, r, params.Query, derefInt(params.TopK))
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, query string, topK int) {
	req, err := request.New(query, topK)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   req.Query(),
		Results: resultsToAPI(results),
	})
}

// Extract handles POST /extract.
func (s *Server) Extract(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := request.New(body.Query, derefInt(body.TopK))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	res, err := s.extract.Extract(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]StructuredItem, len(res.Spans))
	for i, sp := range res.Spans {
		items[i] = StructuredItem{
			Type:       string(sp.Class),
			Text:       sp.Text,
			StartChar:  sp.StartChar,
			EndChar:    sp.EndChar,
			Attributes: sp.Attributes,
		}
		if items[i].Attributes == nil {
			items[i].Attributes = map[string]string{}
		}
	}

	writeJSON(w, http.StatusOK, ExtractResponse{
		Query:            res.Query,
		StructuredOutput: items,
		SourceChunks:     resultsToAPI(res.Sources),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func resultsToAPI(results []result.Result) []SearchResultItem {
	items := make([]SearchResultItem, len(results))
	for i := range results {
		meta := results[i].Metadata()
		if meta == nil {
			meta = map[string]any{}
		}
		items[i] = SearchResultItem{
			ID:       results[i].ID(),
			Score:    results[i].Score(),
			Metadata: meta,
		}
	}
	return items
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
		domain.ErrExtractionFailed,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
