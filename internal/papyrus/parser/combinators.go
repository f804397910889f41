package parser

import "github.com/pacer/papyrus/internal/papyrus/lexer"

// ParseFunc is the parse routine every grammar production implements.
type ParseFunc[T any] func(p *Parser) (T, *ParseError)

// ParseNode runs 'parse' and wraps its value with the span of the tokens it consumed.
// Failures propagate unchanged.
func ParseNode[T any](p *Parser, parse ParseFunc[T]) (Node[T], *ParseError) {
	start := p.indexCurrentToken

	value, err := parse(p)
	if err != nil {
		return Node[T]{}, err
	}

	return Node[T]{Value: value, Span: p.spanFrom(start)}, nil
}

// ParseNodeOptional is ParseNode where absence is valid: on failure the cursor
// is rewound and nil is returned.
func ParseNodeOptional[T any](p *Parser, parse ParseFunc[T]) *Node[T] {
	node, ok := Optional(p, func(p *Parser) (Node[T], *ParseError) {
		return ParseNode(p, parse)
	})
	if !ok {
		return nil
	}

	return &node
}

// Optional runs 'parse' and reports whether it succeeded.
// On failure the cursor is back where it was.
func Optional[T any](p *Parser, parse ParseFunc[T]) (T, bool) {
	value, err := OptionalResult(p, parse)
	return value, err == nil
}

// OptionalResult runs 'parse', rewinding the cursor on failure.
// The failure is returned for the caller to report or discard.
func OptionalResult[T any](p *Parser, parse ParseFunc[T]) (T, *ParseError) {
	start := p.indexCurrentToken

	value, err := parse(p)
	if err != nil {
		p.rewind(start)
		p.recordFailure(err)

		var zero T
		return zero, err
	}

	return value, nil
}

// Choose tries each alternative in order from the same position and returns the first success.
// When all of them fail, the cursor is rewound and the error holds every failure in order.
// Exceeding the nesting depth is final and skips the remaining alternatives.
func Choose[T any](p *Parser, production string, alternatives ...ParseFunc[T]) (T, *ParseError) {
	start := p.indexCurrentToken
	causes := make([]*ParseError, 0, len(alternatives))

	for _, alternative := range alternatives {
		value, err := OptionalResult(p, alternative)
		if err == nil {
			return value, nil
		}

		if err.Kind == NestingTooDeep {
			var zero T
			return zero, err
		}

		causes = append(causes, err)
	}

	p.rewind(start)

	var zero T
	return zero, newNoAlternativeError(p.current(), production, causes)
}

// OptionalParseNodesUntilKeyword parses statements until the next token is
// the keyword 'kind' or the input ends. The keyword is not consumed.
// Zero statements yield nil; a statement failure propagates.
func (p *Parser) OptionalParseNodesUntilKeyword(kind lexer.KeywordKind) ([]Node[Statement], *ParseError) {
	var statements []Node[Statement]

	for !p.AtEnd() && !p.peekKeyword(kind) {
		statement, err := ParseNode(p, ParseStatement)
		if err != nil {
			return nil, err
		}

		statements = append(statements, statement)
	}

	return statements, nil
}

// expectOperatorAs consumes the operator 'kind' and yields 'value' in its place.
func expectOperatorAs[T any](kind lexer.OperatorKind, value T) ParseFunc[T] {
	return func(p *Parser) (T, *ParseError) {
		if _, err := p.ExpectOperator(kind); err != nil {
			var zero T
			return zero, err
		}

		return value, nil
	}
}
