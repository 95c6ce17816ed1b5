// Package mcp exposes meeting-note search and extraction as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/request"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/result"
	extractuc "github.com/kailas-cloud/minutesmind/internal/usecase/extract"
)

// Tool names.
const (
	ToolSearchNotes    = "search_notes"
	ToolExtractActions = "extract_actions"
)

// Searcher runs semantic search.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
}

// Extractor runs retrieval plus structured extraction.
type Extractor interface {
	Extract(ctx context.Context, req *request.Request) (extractuc.Result, error)
}

// Handlers holds the tool handlers. It is separate from the server so tests can call them directly.
type Handlers struct {
	search  Searcher
	extract Extractor
	logger  *zap.Logger
}

// NewHandlers creates tool handlers over the search and extraction use cases.
func NewHandlers(search Searcher, extract Extractor, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{search: search, extract: extract, logger: logger}
}

// NewServer registers both tools on a fresh MCP server.
func NewServer(h *Handlers, version string) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("minutesmind", version, mcpserver.WithToolCapabilities(false))
	s.AddTool(searchNotesTool(), h.SearchNotes)
	s.AddTool(extractActionsTool(), h.ExtractActions)
	return s
}

// ServeStdio blocks serving MCP over stdin/stdout.
func ServeStdio(s *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(s)
}

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func searchNotesTool() mcp.Tool {
	return mcp.NewTool(ToolSearchNotes,
		mcp.WithDescription("Semantically search ingested meeting notes. Returns the most similar chunks with source file and meeting date."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language query"),
		),
		mcp.WithNumber("top_k",
			mcp.Description(fmt.Sprintf("Number of chunks to return (default %d, max %d)",
				request.DefaultTopK, request.MaxTopK)),
		),
	)
}

func extractActionsTool() mcp.Tool {
	return mcp.NewTool(ToolExtractActions,
		mcp.WithDescription("Retrieve meeting-note chunks for a query and extract decisions, action items, owners, deadlines, open questions and risks as JSON."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("What to look for, e.g. 'launch decisions'"),
		),
		mcp.WithNumber("top_k",
			mcp.Description(fmt.Sprintf("Number of chunks to read (default %d)", request.DefaultTopK)),
		),
	)
}

// SearchNotes handles the search_notes tool.
func (h *Handlers) SearchNotes(ctx context.Context, call mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := request.New(call.GetString("query", ""), call.GetInt("top_k", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results, err := h.search.Search(ctx, &req)
	if err != nil {
		h.logger.Warn("mcp search failed", zap.String("query", req.Query()), zap.Error(err))
		return mcp.NewToolResultError("search failed: " + toolErrorMessage(err)), nil
	}

	return mcp.NewToolResultText(formatSearchResults(req.Query(), results)), nil
}

// ExtractActions handles the extract_actions tool.
func (h *Handlers) ExtractActions(ctx context.Context, call mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := request.New(call.GetString("query", ""), call.GetInt("top_k", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := h.extract.Extract(ctx, &req)
	if err != nil {
		h.logger.Warn("mcp extract failed", zap.String("query", req.Query()), zap.Error(err))
		return mcp.NewToolResultError("extraction failed: " + toolErrorMessage(err)), nil
	}

	body, err := json.MarshalIndent(toExtractOutput(res), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal extraction: %w", err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

type spanOutput struct {
	Type       string            `json:"type"`
	Text       string            `json:"text"`
	StartChar  *int              `json:"start_char"`
	EndChar    *int              `json:"end_char"`
	Attributes map[string]string `json:"attributes"`
}

type sourceOutput struct {
	ID          string  `json:"id"`
	Score       float64 `json:"score"`
	SourceFile  string  `json:"source_file,omitempty"`
	MeetingDate string  `json:"meeting_date,omitempty"`
}

type extractOutput struct {
	Query            string         `json:"query"`
	StructuredOutput []spanOutput   `json:"structured_output"`
	SourceChunks     []sourceOutput `json:"source_chunks"`
}

func toExtractOutput(res extractuc.Result) extractOutput {
	out := extractOutput{
		Query:            res.Query,
		StructuredOutput: make([]spanOutput, len(res.Spans)),
		SourceChunks:     make([]sourceOutput, len(res.Sources)),
	}
	for i, sp := range res.Spans {
		attrs := sp.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		out.StructuredOutput[i] = spanOutput{
			Type: string(sp.Class), Text: sp.Text,
			StartChar: sp.StartChar, EndChar: sp.EndChar,
			Attributes: attrs,
		}
	}
	for i := range res.Sources {
		src := &res.Sources[i]
		out.SourceChunks[i] = sourceOutput{
			ID:          src.ID(),
			Score:       src.Score(),
			SourceFile:  metaString(src.Metadata(), "source_file"),
			MeetingDate: metaString(src.Metadata(), "meeting_date"),
		}
	}
	return out
}

func formatSearchResults(query string, results []result.Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for query: %q", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Search results for %q (%d chunks)\n\n", query, len(results))

	for i := range results {
		r := &results[i]
		meta := r.Metadata()
		fmt.Fprintf(&sb, "### Result %d: `%s`\n\n", i+1, metaString(meta, "source_file"))
		fmt.Fprintf(&sb, "**Meeting date:** %s  \n**Chunk:** %s  \n**Score:** %.4f\n\n",
			metaString(meta, "meeting_date"), r.ID(), r.Score())
		fmt.Fprintf(&sb, "%s\n\n", r.Text())
	}

	return sb.String()
}

func metaString(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// toolErrorMessage keeps provider and store internals out of tool output.
func toolErrorMessage(err error) string {
	for _, s := range []error{
		domain.ErrRateLimited,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
		domain.ErrExtractionFailed,
		domain.ErrStoreUnavailable,
	} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}
