package lexer

import (
	"regexp"
	"slices"
	"strings"
)

// compiledPattern holds a pre-compiled regex pattern and its associated token information.
type compiledPattern struct {
	Regex *regexp.Regexp
	ID    Kind
	Skip  bool
}

// compiledPatterns holds all pre-compiled regex patterns used during tokenization.
// These are initialized once at package load time to avoid repeated compilation.
var compiledPatterns struct {
	tokenPatterns []compiledPattern
	operators     *regexp.Regexp
	operatorKinds map[string]OperatorKind
}

func init() {
	compiledPatterns.tokenPatterns = []compiledPattern{
		{
			// blanks, newlines and '\' line continuations
			Regex: regexp.MustCompile(`^(?:[ \t\r\n\f\v]|\\\r?\n)+`),
			Skip:  true,
		},
		{
			Regex: regexp.MustCompile(`^;/(?s:.*?)/;`),
			Skip:  true,
		},
		{
			// ';/' without its closing '/;' is an error, not a line comment
			Regex: regexp.MustCompile(`^;(?:[^/\n][^\n]*|\n|$)`),
			Skip:  true,
		},
		{
			Regex: regexp.MustCompile(`^\{[^}]*\}`),
			Skip:  true,
		},
		{
			Regex: regexp.MustCompile(`^\d+\.\d+`),
			ID:    FloatLit,
		},
		{
			Regex: regexp.MustCompile(`^0[xX][0-9a-fA-F]+`),
			ID:    Integer,
		},
		{
			Regex: regexp.MustCompile(`^\d+`),
			ID:    Integer,
		},
		{
			Regex: regexp.MustCompile(`^"(?:[^"\n\\]|\\.)*"`),
			ID:    StringLit,
		},
		{
			// keywords are resolved from the identifier match
			Regex: regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`),
			ID:    Identifier,
		},
	}

	// Longest lexeme first so that '+=' wins over '+' and '==' over '='.
	lexemes := make([]string, 0, len(operatorLexemes))
	compiledPatterns.operatorKinds = make(map[string]OperatorKind, len(operatorLexemes))

	for kind, lexeme := range operatorLexemes {
		if OperatorKind(kind) == Cast {
			continue
		}
		compiledPatterns.operatorKinds[lexeme] = OperatorKind(kind)
		lexemes = append(lexemes, regexp.QuoteMeta(lexeme))
	}

	slices.SortStableFunc(lexemes, func(a, b string) int { return len(b) - len(a) })
	compiledPatterns.operators = regexp.MustCompile(`^(?:` + strings.Join(lexemes, "|") + `)`)
}

type tokenizer struct {
	content []byte
	offset  int
	Tokens  []Token
	Errs    []Error
}

func createTokenizer(content []byte) *tokenizer {
	return &tokenizer{
		content: content,
		Tokens:  make([]Token, 0, len(content)/4+1),
	}
}

func (t *tokenizer) appendToken(id Kind, span Span, val []byte) *Token {
	t.Tokens = append(t.Tokens, Token{ID: id, Span: span, Value: val})
	return &t.Tokens[len(t.Tokens)-1]
}

func (t *tokenizer) appendError(err error, token Token) {
	lexErr := &LexerError{
		Err:   err,
		Span:  token.Span,
		Token: &token,
	}

	t.Errs = append(t.Errs, lexErr)
}

// step consumes exactly one lexeme (or one run of ignorable text) at the current offset.
func (t *tokenizer) step() {
	data := t.content[t.offset:]

	for _, pattern := range compiledPatterns.tokenPatterns {
		loc := pattern.Regex.FindIndex(data)
		if loc == nil {
			continue
		}

		span := Span{Start: t.offset, End: t.offset + loc[1]}
		t.offset = span.End

		if pattern.Skip {
			return
		}

		text := data[:loc[1]]

		switch pattern.ID {
		case StringLit:
			t.appendToken(StringLit, span, text[1:len(text)-1])
		case Identifier:
			t.appendWord(span, text)
		default:
			t.appendToken(pattern.ID, span, text)
		}

		return
	}

	if loc := compiledPatterns.operators.FindIndex(data); loc != nil {
		span := Span{Start: t.offset, End: t.offset + loc[1]}
		t.offset = span.End

		token := t.appendToken(Operator, span, data[:loc[1]])
		token.Operator = compiledPatterns.operatorKinds[string(data[:loc[1]])]
		return
	}

	t.recover(data)
}

func (t *tokenizer) appendWord(span Span, text []byte) {
	word := string(text)

	if strings.EqualFold(word, castOperatorWord) {
		token := t.appendToken(Operator, span, text)
		token.Operator = Cast
		return
	}

	if kind, ok := LookupKeyword(word); ok {
		token := t.appendToken(Keyword, span, text)
		token.Keyword = kind
		return
	}

	t.appendToken(Identifier, span, text)
}

// recover reports the unrecognized input at the current offset and skips past it.
func (t *tokenizer) recover(data []byte) {
	err := errUnrecognizedCharacter
	size := 1

	switch {
	case data[0] == '"':
		err = errUnterminatedString
		size = len(data)
		if index := slices.Index(data, '\n'); index >= 0 {
			size = index
		}
	case len(data) >= 2 && data[0] == ';' && data[1] == '/':
		err = errUnterminatedComment
		size = len(data)
	case data[0] == '{':
		err = errUnterminatedDoc
		size = len(data)
	default:
		for size < len(data) && !isBoundary(data[size]) {
			size++
		}
	}

	span := Span{Start: t.offset, End: t.offset + size}
	t.offset = span.End

	token := t.appendToken(Unexpected, span, data[:size])
	t.appendError(err, *token)
}

func isBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', '\v':
		return true
	}

	return c < 0x80 && (c == '_' || c == '"' || c == ';' || c == '{' ||
		(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		compiledPatterns.operators.Match([]byte{c}))
}
