package result

// Result is a single search hit.
type Result struct {
	id       string
	score    float64
	metadata map[string]any
}

// New creates a search result.
func New(id string, score float64, metadata map[string]any) Result {
	return Result{id: id, score: score, metadata: metadata}
}

// ID returns the chunk identifier.
func (r *Result) ID() string { return r.id }

// Score returns the similarity score (higher is closer).
func (r *Result) Score() float64 { return r.score }

// Metadata returns the stored field map.
func (r *Result) Metadata() map[string]any { return r.metadata }

// Text returns the chunk text from metadata, or "" when absent.
func (r *Result) Text() string {
	s, _ := r.metadata["text"].(string)
	return s
}
