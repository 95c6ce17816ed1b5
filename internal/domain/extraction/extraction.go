package extraction

import "fmt"

// Class is the type of an extracted span.
type Class string

// Extraction taxonomy.
const (
	ClassDecision     Class = "decision"
	ClassActionItem   Class = "action_item"
	ClassOwner        Class = "owner"
	ClassDeadline     Class = "deadline"
	ClassOpenQuestion Class = "open_question"
	ClassRisk         Class = "risk"
)

var classes = []Class{
	ClassDecision, ClassActionItem, ClassOwner,
	ClassDeadline, ClassOpenQuestion, ClassRisk,
}

// Classes returns the taxonomy in prompt order.
func Classes() []Class {
	out := make([]Class, len(classes))
	copy(out, classes)
	return out
}

// ParseClass validates a class name.
func ParseClass(s string) (Class, error) {
	for _, c := range classes {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown extraction class %q", s)
}

// Span is a typed piece of text found by the extractor.
// StartChar/EndChar are rune offsets into the extractor input; nil when unknown.
type Span struct {
	Class      Class
	Text       string
	StartChar  *int
	EndChar    *int
	Attributes map[string]string
}

// HasInterval reports whether the span carries a character interval.
func (s Span) HasInterval() bool {
	return s.StartChar != nil && s.EndChar != nil
}
