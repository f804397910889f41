package parser

import (
	"fmt"

	"github.com/pacer/papyrus/internal/papyrus/lexer"
)

// current never returns nil, the stream always ends with 'EOF'.
func (p *Parser) current() *lexer.Token {
	return &p.tokens[p.indexCurrentToken]
}

// PeekToken returns the current token without consuming it, or nil at end of input.
func (p *Parser) PeekToken() *lexer.Token {
	token := p.current()
	if token.ID == lexer.Eof {
		return nil
	}

	return token
}

// Cursor is the index of the current token.
func (p *Parser) Cursor() int {
	return p.indexCurrentToken
}

func (p *Parser) rewind(cursor int) {
	p.indexCurrentToken = cursor
}

func (p *Parser) AtEnd() bool {
	return p.current().ID == lexer.Eof
}

func (p *Parser) nextToken() *lexer.Token {
	token := p.current()
	if token.ID != lexer.Eof {
		p.indexCurrentToken++
	}

	return token
}

func (p *Parser) peekKeyword(kind lexer.KeywordKind) bool {
	return p.PeekToken().IsKeyword(kind)
}

// ExpectKeyword consumes the current token if it is the keyword 'kind'.
// On mismatch the cursor does not move.
func (p *Parser) ExpectKeyword(kind lexer.KeywordKind) (*lexer.Token, *ParseError) {
	if !p.current().IsKeyword(kind) {
		return nil, newMismatchError(p.current(), "keyword '"+kind.String()+"'")
	}

	return p.nextToken(), nil
}

// ExpectOperator consumes the current token if it is the operator 'kind'.
// On mismatch the cursor does not move.
func (p *Parser) ExpectOperator(kind lexer.OperatorKind) (*lexer.Token, *ParseError) {
	if !p.current().IsOperator(kind) {
		return nil, newMismatchError(p.current(), "'"+kind.String()+"'")
	}

	return p.nextToken(), nil
}

func (p *Parser) ExpectIdentifier() (*lexer.Token, *ParseError) {
	return p.expectKind(lexer.Identifier, "identifier")
}

func (p *Parser) expectKind(kind lexer.Kind, description string) (*lexer.Token, *ParseError) {
	if p.current().ID != kind {
		return nil, newMismatchError(p.current(), description)
	}

	return p.nextToken(), nil
}

// spanFrom covers every token consumed since 'start'.
// Nothing consumed gives an empty span at the start token.
func (p *Parser) spanFrom(start int) lexer.Span {
	first := p.tokens[start].Span

	if p.indexCurrentToken <= start {
		return lexer.Span{Start: first.Start, End: first.Start}
	}

	last := p.tokens[p.indexCurrentToken-1].Span

	return lexer.Span{Start: first.Start, End: last.End}
}

func (p *Parser) incRecursionDepth() *ParseError {
	if p.currentRecursionDepth >= p.maxRecursionDepth {
		token := p.current()

		err := &ParseError{
			Kind: NestingTooDeep,
			Err: fmt.Errorf(
				"parser error, reached the max depth authorized (%d)",
				p.maxRecursionDepth,
			),
			Span:  token.Span,
			Found: token.Describe(),
		}

		if token.ID != lexer.Eof {
			err.Token = token
		}

		return err
	}

	p.currentRecursionDepth++

	return nil
}

func (p *Parser) decRecursionDepth() {
	p.currentRecursionDepth--
}

// recordFailure keeps the latest failure at the furthest position, which is the
// enclosing production once the alternatives under it have all failed.
func (p *Parser) recordFailure(err *ParseError) {
	innermost := err.Innermost()

	if p.furthestFailure == nil || innermost.Span.Start >= p.furthestFailure.Span.Start {
		p.furthestFailure = innermost
	}
}

// furthest returns 'err', unless a failure recorded earlier got further into the input.
func (p *Parser) furthest(err *ParseError) *ParseError {
	if p.furthestFailure != nil && p.furthestFailure.Span.Start > err.Innermost().Span.Start {
		return p.furthestFailure
	}

	return err
}
