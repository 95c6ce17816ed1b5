package chi

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest             ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed       ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized           ErrorResponseCode = "unauthorized"
	ErrorResponseCodeNotFound               ErrorResponseCode = "not_found"
	ErrorResponseCodeRateLimited            ErrorResponseCode = "rate_limited"
	ErrorResponseCodeEmbeddingQuotaExceeded ErrorResponseCode = "embedding_quota_exceeded"
	ErrorResponseCodeEmbeddingProviderError ErrorResponseCode = "embedding_provider_error"
	ErrorResponseCodeExtractionFailed       ErrorResponseCode = "extraction_failed"
	ErrorResponseCodeVectorStoreUnavailable ErrorResponseCode = "vector_store_unavailable"
	ErrorResponseCodeInternalError          ErrorResponseCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SearchRequest is the body of POST /search and POST /extract.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Query string `form:"query" json:"query"`
	TopK  *int   `form:"top_k,omitempty" json:"top_k,omitempty"`
}

// SearchResultItem is a single retrieved chunk.
type SearchResultItem struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// SearchResponse is the body returned by both search endpoints.
type SearchResponse struct {
	Query   string             `json:"query"`
	Results []SearchResultItem `json:"results"`
}

// StructuredItem is one extracted span.
type StructuredItem struct {
	Type       string            `json:"type"`
	Text       string            `json:"text"`
	StartChar  *int              `json:"start_char"`
	EndChar    *int              `json:"end_char"`
	Attributes map[string]string `json:"attributes"`
}

// ExtractResponse is the body of POST /extract.
type ExtractResponse struct {
	Query            string             `json:"query"`
	StructuredOutput []StructuredItem   `json:"structured_output"`
	SourceChunks     []SearchResultItem `json:"source_chunks"`
}
