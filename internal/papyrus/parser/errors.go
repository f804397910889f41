package parser

import (
	"errors"
	"fmt"

	"github.com/pacer/papyrus/internal/papyrus/lexer"
)

type ErrorKind int

const (
	// ExpectedTokenMismatch: a required token was not the one found.
	ExpectedTokenMismatch ErrorKind = iota
	// NoAlternativeMatched: every branch of an ordered choice failed; see Causes.
	NoAlternativeMatched
	// UnexpectedEndOfInput: the input ran out while a token was still required.
	UnexpectedEndOfInput
	// NestingTooDeep: the input nests deeper than the parser's maximum depth.
	NestingTooDeep
)

var (
	ErrExpectedToken        = errors.New("expected token")
	ErrNoAlternative        = errors.New("no alternative matched")
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrNestingTooDeep       = errors.New("nesting too deep")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case ExpectedTokenMismatch:
		return ErrExpectedToken
	case NoAlternativeMatched:
		return ErrNoAlternative
	case UnexpectedEndOfInput:
		return ErrUnexpectedEndOfInput
	case NestingTooDeep:
		return ErrNestingTooDeep
	}

	return nil
}

func (k ErrorKind) String() string {
	switch k {
	case ExpectedTokenMismatch:
		return "ExpectedTokenMismatch"
	case NoAlternativeMatched:
		return "NoAlternativeMatched"
	case UnexpectedEndOfInput:
		return "UnexpectedEndOfInput"
	case NestingTooDeep:
		return "NestingTooDeep"
	}

	return "ErrorKind(?)"
}

// ParseError is a syntax error. Token is the offending token, nil at end of input.
// Causes is only set for NoAlternativeMatched and keeps the failure of each
// alternative in the order they were tried.
type ParseError struct {
	Kind     ErrorKind
	Err      error
	Span     lexer.Span
	Token    *lexer.Token
	Expected string
	Found    string
	Causes   []*ParseError
}

func (p *ParseError) Error() string {
	return p.Err.Error()
}

func (p *ParseError) GetError() string {
	return p.Err.Error()
}

func (p *ParseError) GetSpan() lexer.Span {
	return p.Span
}

// Is makes errors.Is match the sentinel of the error's kind.
func (p *ParseError) Is(target error) bool {
	return target == p.Kind.sentinel()
}

func (p *ParseError) Unwrap() []error {
	if len(p.Causes) == 0 {
		return nil
	}

	errs := make([]error, 0, len(p.Causes))
	for _, cause := range p.Causes {
		errs = append(errs, cause)
	}

	return errs
}

// Innermost returns the failure that got furthest into the input, looking through
// nested ordered choices. Ties go to the alternative tried first. A choice none of
// whose alternatives got past its own position is returned as is.
func (p *ParseError) Innermost() *ParseError {
	if p == nil || len(p.Causes) == 0 {
		return p
	}

	var best *ParseError
	for _, cause := range p.Causes {
		candidate := cause.Innermost()
		if candidate == nil {
			continue
		}

		if best == nil || candidate.Span.Start > best.Span.Start {
			best = candidate
		}
	}

	if best == nil || best.Span.Start <= p.Span.Start {
		return p
	}

	return best
}

func (p *ParseError) String() string {
	return fmt.Sprintf(
		`{ "Kind": "%s", "Err": %q, "Span": "%s", "Causes": %d }`,
		p.Kind,
		p.Err.Error(),
		p.Span,
		len(p.Causes),
	)
}

func newMismatchError(token *lexer.Token, expected string) *ParseError {
	if token == nil {
		panic("token cannot be nil while creating parse error")
	}

	found := token.Describe()

	if token.ID == lexer.Eof {
		return &ParseError{
			Kind:     UnexpectedEndOfInput,
			Err:      fmt.Errorf("unexpected end of input, expected %s", expected),
			Span:     token.Span,
			Expected: expected,
			Found:    found,
		}
	}

	return &ParseError{
		Kind:     ExpectedTokenMismatch,
		Err:      fmt.Errorf("expected %s, found %s", expected, found),
		Span:     token.Span,
		Token:    token,
		Expected: expected,
		Found:    found,
	}
}

func newNoAlternativeError(token *lexer.Token, production string, causes []*ParseError) *ParseError {
	err := &ParseError{
		Kind:     NoAlternativeMatched,
		Err:      fmt.Errorf("expected %s, found %s", production, token.Describe()),
		Span:     token.Span,
		Expected: production,
		Found:    token.Describe(),
		Causes:   causes,
	}

	if token.ID != lexer.Eof {
		err.Token = token
	}

	return err
}
