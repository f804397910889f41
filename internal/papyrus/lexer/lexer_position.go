package lexer

import (
	"log/slog"
	"strings"
)

// PositionFromOffset converts a byte offset to a text editor position.
// Offsets past the end of the buffer are clamped to its end.
func PositionFromOffset(buffer []byte, offset int) Position {
	var line, col int

	for i := range buffer {
		if i == offset {
			break
		}

		if buffer[i] == byte('\n') {
			line++
			col = 0
		} else {
			col++
		}
	}

	return Position{Line: line, Character: col}
}

// RangeFromSpan converts a byte span into editor coordinates; the end stays exclusive.
func RangeFromSpan(buffer []byte, span Span) Range {
	if span.Start > span.End {
		slog.Error("bad span formating",
			slog.Int("start", span.Start),
			slog.Int("end", span.End),
		)
		panic("bad span formating, 'end offset' cannot be before 'start offset'")
	}

	start := PositionFromOffset(buffer, span.Start)

	// continue counting from the start position instead of rescanning the buffer
	end := start
	for i := span.Start; i < span.End && i < len(buffer); i++ {
		if buffer[i] == byte('\n') {
			end.Line++
			end.Character = 0
		} else {
			end.Character++
		}
	}

	return Range{Start: start, End: end}
}

var stringEscapes = strings.NewReplacer(
	`\n`, "\n",
	`\t`, "\t",
	`\"`, `"`,
	`\\`, `\`,
)

// UnescapeString decodes the escape sequences Papyrus allows inside string literals.
func UnescapeString(raw []byte) string {
	return stringEscapes.Replace(string(raw))
}
