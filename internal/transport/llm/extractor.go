package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	"github.com/kailas-cloud/minutesmind/internal/domain/extraction"
)

// Compile-time check.
var _ domain.Extractor = (*Extractor)(nil)

// Config holds chat model settings for extraction.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxAttempts int
	Logger      *zap.Logger
}

// Extractor implements domain.Extractor on an OpenAI-compatible chat model.
type Extractor struct {
	client      llms.Model
	temperature float64
	maxAttempts int
	logger      *zap.Logger
}

type rawSpan struct {
	Class      string            `json:"class"`
	Text       string            `json:"text"`
	StartChar  *int              `json:"start_char,omitempty"`
	EndChar    *int              `json:"end_char,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type response struct {
	Extractions []rawSpan `json:"extractions"`
}

// New creates an extractor backed by langchaingo's OpenAI client.
func New(cfg Config) (*Extractor, error) {
	// Local OpenAI-compatible servers accept any token.
	token := cfg.APIKey
	if token == "" {
		token = "none"
	}
	opts := []openai.Option{openai.WithToken(token)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	return NewWithModel(client, cfg), nil
}

// NewWithModel wraps an existing llms.Model.
func NewWithModel(model llms.Model, cfg Config) *Extractor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	return &Extractor{
		client:      model,
		temperature: cfg.Temperature,
		maxAttempts: attempts,
		logger:      logger.Named("extractor"),
	}
}

// Extract asks the model for typed spans in text. Malformed JSON is retried
// up to maxAttempts; transport errors are returned immediately.
func (e *Extractor) Extract(ctx context.Context, text string) ([]extraction.Span, error) {
	if strings.TrimSpace(text) == "" {
		return []extraction.Span{}, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt())},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	var parsed response
	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		resp, err := e.client.GenerateContent(ctx, content,
			llms.WithTemperature(e.temperature), llms.WithJSONMode())
		if err != nil {
			return nil, fmt.Errorf("generate content: %w: %w", domain.ErrExtractionFailed, err)
		}
		if len(resp.Choices) == 0 {
			e.logger.Debug("no choices returned from model")
			return []extraction.Span{}, nil
		}

		raw := stripFences(resp.Choices[0].Content)
		parsed = response{}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			lastErr = err
			e.logger.Warn("malformed extraction response",
				zap.Int("attempt", attempt), zap.String("response", raw), zap.Error(err))
			continue
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		return nil, fmt.Errorf("parse response after %d attempts: %w: %w",
			e.maxAttempts, domain.ErrExtractionFailed, lastErr)
	}

	return e.toSpans(text, parsed.Extractions), nil
}

func (e *Extractor) toSpans(input string, raws []rawSpan) []extraction.Span {
	spans := make([]extraction.Span, 0, len(raws))
	for _, r := range raws {
		class, err := extraction.ParseClass(r.Class)
		if err != nil {
			e.logger.Debug("dropping span", zap.String("class", r.Class), zap.Error(err))
			continue
		}
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		start, end := resolveInterval(input, r)
		spans = append(spans, extraction.Span{
			Class:      class,
			Text:       r.Text,
			StartChar:  start,
			EndChar:    end,
			Attributes: r.Attributes,
		})
	}
	return spans
}

// resolveInterval keeps model offsets when they point at the span text and
// otherwise locates the text in the input. Unlocatable spans get nil offsets.
func resolveInterval(input string, r rawSpan) (*int, *int) {
	runes := []rune(input)
	if r.StartChar != nil && r.EndChar != nil {
		s, en := *r.StartChar, *r.EndChar
		if s >= 0 && s < en && en <= len(runes) && string(runes[s:en]) == r.Text {
			return &s, &en
		}
	}
	s, en, ok := locate(input, r.Text)
	if !ok {
		return nil, nil
	}
	return &s, &en
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
