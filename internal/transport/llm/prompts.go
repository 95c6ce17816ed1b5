package llm

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/minutesmind/internal/domain/extraction"
)

const taxonomyPrompt = `Extract the following structured information from the text:

- decision: A conclusion or choice made during a meeting.
- action_item: A task assigned to someone.
- owner: The person responsible for an action item.
- deadline: A due date or time constraint mentioned.
- open_question: An unresolved question raised during the meeting.
- risk: A potential problem or concern flagged.

Do not hallucinate missing fields.
Only extract if clearly supported by the text.`

const formatPrompt = `Respond with a single JSON object of the form:
{"extractions": [{"class": "<one of the classes above>", "text": "<exact text copied from the input>", "start_char": <int>, "end_char": <int>, "attributes": {"<name>": "<value>"}}]}

start_char and end_char are character offsets of "text" in the input, end exclusive.
Copy "text" verbatim from the input. Use an empty list when nothing qualifies.`

const exampleText = "## Decisions\n" +
	"- Keep the current signup copy for one more week.\n\n" +
	"## Action Items\n" +
	"- Priya: share final onboarding metrics by Monday.\n\n" +
	"## Risks\n" +
	"- Third-party API rate limits may affect daily sync jobs."

type exampleSpan struct {
	class      extraction.Class
	text       string
	attributes map[string]string
}

var exampleSpans = []exampleSpan{
	{class: extraction.ClassDecision, text: "Keep the current signup copy for one more week."},
	{
		class:      extraction.ClassActionItem,
		text:       "Priya: share final onboarding metrics by Monday.",
		attributes: map[string]string{"owner": "Priya", "deadline": "Monday"},
	},
	{class: extraction.ClassRisk, text: "Third-party API rate limits may affect daily sync jobs."},
}

// exampleOutput renders the few-shot answer with offsets computed from exampleText.
func exampleOutput() string {
	out := response{Extractions: make([]rawSpan, 0, len(exampleSpans))}
	for _, s := range exampleSpans {
		start, end, ok := locate(exampleText, s.text)
		if !ok {
			continue
		}
		out.Extractions = append(out.Extractions, rawSpan{
			Class:      string(s.class),
			Text:       s.text,
			StartChar:  &start,
			EndChar:    &end,
			Attributes: s.attributes,
		})
	}
	data, _ := json.Marshal(out)
	return string(data)
}

func buildSystemPrompt() string {
	var b strings.Builder
	b.WriteString(taxonomyPrompt)
	b.WriteString("\n\n")
	b.WriteString(formatPrompt)
	b.WriteString("\n\nExample input:\n")
	b.WriteString(exampleText)
	b.WriteString("\n\nExample output:\n")
	b.WriteString(exampleOutput())
	return b.String()
}

// locate finds needle in haystack and returns its rune interval.
func locate(haystack, needle string) (start, end int, ok bool) {
	if needle == "" {
		return 0, 0, false
	}
	i := strings.Index(haystack, needle)
	if i < 0 {
		return 0, 0, false
	}
	start = utf8.RuneCountInString(haystack[:i])
	return start, start + utf8.RuneCountInString(needle), true
}
