package lexer

import (
	"errors"
	"log"
)

// ----------------------
// Lexer Types definition
// ----------------------

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Position is a 0-based location in editor coordinates.
type Position struct {
	Line      int
	Character int
}

type Range struct {
	Start Position
	End   Position
}

func (r Range) Contains(pos Position) bool {
	if r.Start.Line > pos.Line {
		return false
	}

	if r.End.Line < pos.Line {
		return false
	}

	if r.Start.Line == pos.Line && pos.Character < r.Start.Character {
		return false
	}

	if r.End.Line == pos.Line && pos.Character >= r.End.Character {
		return false
	}

	return true
}

func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

type Token struct {
	ID       Kind
	Keyword  KeywordKind  // meaningful when ID == Keyword
	Operator OperatorKind // meaningful when ID == Operator
	Value    []byte
	Span     Span
}

func (t *Token) IsKeyword(kind KeywordKind) bool {
	return t != nil && t.ID == Keyword && t.Keyword == kind
}

func (t *Token) IsOperator(kind OperatorKind) bool {
	return t != nil && t.ID == Operator && t.Operator == kind
}

// Describe renders the token the way diagnostics quote it.
func (t *Token) Describe() string {
	if t == nil {
		return "end of input"
	}

	switch t.ID {
	case Keyword:
		return "keyword '" + t.Keyword.String() + "'"
	case Operator:
		return "'" + t.Operator.String() + "'"
	case Identifier:
		return "identifier '" + string(t.Value) + "'"
	case Integer, FloatLit:
		return "number '" + string(t.Value) + "'"
	case StringLit:
		return "string \"" + string(t.Value) + "\""
	case Eof:
		return "end of input"
	}

	return "'" + string(t.Value) + "'"
}

type LexerError struct {
	Err   error
	Span  Span
	Token *Token
}

func (l LexerError) Error() string {
	return l.Err.Error()
}

func (l LexerError) GetError() string {
	return l.Err.Error()
}

func (l LexerError) GetSpan() Span {
	return l.Span
}

// Error is the reporting interface shared by lexer and parser failures.
type Error interface {
	GetError() string
	GetSpan() Span
	String() string
}

// Tokenize the source code provided by 'content'.
// Whitespace, line continuations and comments are dropped; every other lexeme becomes a token.
// Unrecognized characters are reported and kept as 'Unexpected' tokens so that the parser
// refuses them. The returned slice always ends with a single 'EOF' token.
func Tokenize(content []byte) (tokens []Token, errs []Error) {
	t := createTokenizer(content)

	for t.offset < len(content) {
		before := t.offset
		t.step()

		if t.offset <= before {
			log.Printf("tokenizer made no progress at offset %d\n content = %q\n", before, content)
			panic("tokenizer made no progress, infinite loop detected")
		}
	}

	end := len(content)
	t.appendToken(Eof, Span{Start: end, End: end}, nil)

	return t.Tokens, t.Errs
}

var (
	errUnrecognizedCharacter = errors.New("character(s) not recognized")
	errUnterminatedString    = errors.New("unterminated string literal")
	errUnterminatedComment   = errors.New("unterminated block comment")
	errUnterminatedDoc       = errors.New("unterminated documentation comment")
)
