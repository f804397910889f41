package parser

import (
	"fmt"
	"log"
	"slices"

	"github.com/pacer/papyrus/internal/papyrus/lexer"
)

// Parser is a cursor over an immutable token slice.
// Backtracking only restores 'indexCurrentToken', the tokens are never copied or mutated.
// A Parser must not be shared between goroutines; the token slice can be.
type Parser struct {
	tokens            []lexer.Token
	indexCurrentToken int

	maxRecursionDepth     int
	currentRecursionDepth int

	// failure that got furthest into the input, even if later backtracked over
	furthestFailure *ParseError
}

type Option func(*Parser)

// WithMaxDepth bounds how deep statements and expressions may nest.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxRecursionDepth = depth
		}
	}
}

// New creates a parser over 'tokens'. A stream that does not end with an 'EOF'
// token gets one appended, the caller's slice is left untouched.
func New(tokens []lexer.Token, opts ...Option) *Parser {
	size := len(tokens)

	if size == 0 || tokens[size-1].ID != lexer.Eof {
		end := 0
		if size > 0 {
			end = tokens[size-1].Span.End
		}

		tokens = append(slices.Clip(tokens), lexer.Token{
			ID:   lexer.Eof,
			Span: lexer.Span{Start: end, End: end},
		})
	}

	p := &Parser{
		tokens:            tokens,
		maxRecursionDepth: defaultMaxDepth,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse parses a whole block of statements out of 'tokens'.
func Parse(tokens []lexer.Token, opts ...Option) ([]Node[Statement], *ParseError) {
	return ParseStatements(New(tokens, opts...))
}

// ParseStatements parses statements until the end of input.
// The first failure aborts the parse. No statement at all yields nil.
// The error returned is the failure that got furthest into the input: in 'x = 1 +'
// that is the missing operand, not the '=' left over once 'x' parsed as an expression.
func ParseStatements(p *Parser) ([]Node[Statement], *ParseError) {
	var statements []Node[Statement]

	for !p.AtEnd() {
		before := p.indexCurrentToken

		statement, err := ParseNode(p, ParseStatement)
		if err != nil {
			return statements, p.furthest(err)
		}

		if p.indexCurrentToken <= before {
			log.Printf(
				"statement parsed without consuming any token\n cursor = %d\n token = %s\n",
				before,
				p.tokens[before],
			)
			panic("statement parsed without consuming any token, infinite loop detected")
		}

		statements = append(statements, statement)
	}

	return statements, nil
}

func (p *Parser) String() string {
	return fmt.Sprintf(
		`{ "Cursor": %d, "Tokens": %d, "Depth": %d, "MaxDepth": %d }`,
		p.indexCurrentToken,
		len(p.tokens),
		p.currentRecursionDepth,
		p.maxRecursionDepth,
	)
}
