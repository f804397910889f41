package lexer

import (
	"fmt"
	"strings"
)

func (e LexerError) String() string {
	return fmt.Sprintf(
		`{ "Err": "%s", "Span": "%s", "Token": %s }`,
		e.Err.Error(),
		e.Span,
		e.Token,
	)
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

func (p Position) String() string {
	return fmt.Sprintf("{ \"Line\": %d, \"Character\": %d }", p.Line, p.Character)
}

func (r Range) String() string {
	return fmt.Sprintf("{ \"Start\": %s, \"End\": %s }", r.Start, r.End)
}

func (t Token) String() string {
	return fmt.Sprintf(
		"{ \"ID\": \"%s\", \"Span\": \"%s\", \"Value\": %q }",
		t.ID,
		t.Span,
		t.Value,
	)
}

// PrettyFormatter converts an array of Stringer elements to a formatted string.
func PrettyFormatter[T fmt.Stringer](arr []T) string {
	if len(arr) == 0 {
		return "[]"
	}

	var sb strings.Builder
	sb.WriteString("[")
	for i, el := range arr {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(el.String())
	}
	sb.WriteString("]")

	return sb.String()
}
