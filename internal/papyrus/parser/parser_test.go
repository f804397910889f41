package parser

import (
	"errors"
	"testing"

	"github.com/pacer/papyrus/internal/papyrus/lexer"
	"github.com/pacer/papyrus/internal/papyrus/testutil"
)

func TestNewAppendsEndOfInput(t *testing.T) {
	tokens := []lexer.Token{
		{ID: lexer.Identifier, Value: []byte("x"), Span: lexer.NewSpan(0, 1)},
	}

	p := New(tokens)

	if len(tokens) != 1 {
		t.Fatalf("caller's token slice was modified: %v", tokens)
	}

	if p.PeekToken() == nil || string(p.PeekToken().Value) != "x" {
		t.Fatalf("expected identifier 'x' first, got %v", p.PeekToken())
	}

	p.nextToken()

	if !p.AtEnd() || p.PeekToken() != nil {
		t.Errorf("expected end of input after 'x', got %v", p.PeekToken())
	}

	if got := p.current().Span; got != lexer.NewSpan(1, 1) {
		t.Errorf("synthetic end of input span = %s, expected 1..1", got)
	}

	empty := New(nil)
	if !empty.AtEnd() {
		t.Error("parser over no token should be at end")
	}
}

func TestExpectLeavesCursorOnMismatch(t *testing.T) {
	p := newTestParser(t, "If x")

	if _, err := p.ExpectKeyword(lexer.While); err == nil {
		t.Fatal("'If' must not match 'While'")
	} else if err.Kind != ExpectedTokenMismatch || !errors.Is(err, ErrExpectedToken) {
		t.Errorf("unexpected error kind %s", err.Kind)
	} else if err.Found != "keyword 'If'" || err.Expected != "keyword 'While'" {
		t.Errorf("unexpected description: expected %q, found %q", err.Expected, err.Found)
	}

	if _, err := p.ExpectOperator(lexer.ParenthesisOpen); err == nil {
		t.Fatal("'If' must not match '('")
	}

	if p.Cursor() != 0 {
		t.Fatalf("cursor moved to %d after failed matches", p.Cursor())
	}

	token, err := p.ExpectKeyword(lexer.If)
	if err != nil || token.Span != lexer.NewSpan(0, 2) {
		t.Fatalf("expected to consume 'If', got %v, %v", token, err)
	}

	if _, err := p.ExpectIdentifier(); err != nil {
		t.Fatalf("expected to consume 'x': %s", err)
	}

	_, err = p.ExpectIdentifier()
	if err == nil || err.Kind != UnexpectedEndOfInput {
		t.Fatalf("expected an end of input error, got %v", err)
	}

	if err.Token != nil {
		t.Errorf("end of input error should not carry a token, got %v", err.Token)
	}
}

func TestChoose(t *testing.T) {
	keyword := func(kind lexer.KeywordKind) ParseFunc[string] {
		return func(p *Parser) (string, *ParseError) {
			token, err := p.ExpectKeyword(kind)
			if err != nil {
				return "", err
			}
			return token.Keyword.String(), nil
		}
	}

	// consumes a token before failing, so the rollback is observable
	partial := func(p *Parser) (string, *ParseError) {
		p.nextToken()
		return "", newMismatchError(p.current(), "nothing")
	}

	t.Run("first success wins", func(t *testing.T) {
		p := newTestParser(t, "While EndWhile")

		got, err := Choose(p, "loop", partial, keyword(lexer.If), keyword(lexer.While), keyword(lexer.While))
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}

		if got != "While" || p.Cursor() != 1 {
			t.Errorf("got %q with cursor %d", got, p.Cursor())
		}
	})

	t.Run("all alternatives fail", func(t *testing.T) {
		p := newTestParser(t, "EndWhile")

		_, err := Choose(p, "loop", partial, keyword(lexer.If), keyword(lexer.While))
		if err == nil {
			t.Fatal("expected an error")
		}

		if p.Cursor() != 0 {
			t.Errorf("cursor moved to %d", p.Cursor())
		}

		if err.Kind != NoAlternativeMatched || len(err.Causes) != 3 {
			t.Fatalf("expected an aggregate of 3 causes, got %s", err)
		}

		if err.Causes[1].Expected != "keyword 'If'" || err.Causes[2].Expected != "keyword 'While'" {
			t.Errorf("causes out of order: %v", err.Causes)
		}

		if !errors.Is(err, ErrNoAlternative) || !errors.Is(err, ErrExpectedToken) {
			t.Error("errors.Is should match the choice and its causes")
		}

		if errors.Is(err, ErrNestingTooDeep) {
			t.Error("errors.Is matched an unrelated kind")
		}

		if err.Expected != "loop" || err.Found != "keyword 'EndWhile'" {
			t.Errorf("unexpected description: expected %q, found %q", err.Expected, err.Found)
		}
	})
}

func TestOptionalCombinators(t *testing.T) {
	p := newTestParser(t, "x = 1")

	if node := ParseNodeOptional(p, ParseLiteral); node != nil {
		t.Fatalf("'x' is not a literal, got %v", node)
	}

	if _, ok := Optional(p, ParseAssignmentKind); ok {
		t.Fatal("'x' is not an assignment operator")
	}

	_, err := OptionalResult(p, ParseAssignmentKind)
	if err == nil || err.Kind != NoAlternativeMatched {
		t.Fatalf("expected the failure to be returned, got %v", err)
	}

	if p.Cursor() != 0 {
		t.Fatalf("cursor moved to %d", p.Cursor())
	}

	name := ParseNodeOptional(p, ParseIdentifier)
	if name == nil || name.Value != "x" || name.Span != lexer.NewSpan(0, 1) {
		t.Fatalf("expected identifier 'x' at 0..1, got %v", name)
	}
}

func TestOptionalParseNodesUntilKeyword(t *testing.T) {
	p := newTestParser(t, "EndIf")

	statements, err := p.OptionalParseNodesUntilKeyword(lexer.EndIf)
	if err != nil || statements != nil {
		t.Fatalf("expected nil without error, got %v, %v", statements, err)
	}

	p = newTestParser(t, "x = 1 Return EndIf")

	statements, err = p.OptionalParseNodesUntilKeyword(lexer.EndIf)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(statements) != 2 || !p.PeekToken().IsKeyword(lexer.EndIf) {
		t.Errorf("expected 2 statements before 'EndIf', got %d", len(statements))
	}

	p = newTestParser(t, "Return")

	statements, err = p.OptionalParseNodesUntilKeyword(lexer.EndIf)
	if err != nil || len(statements) != 1 {
		t.Errorf("end of input should stop the loop, got %v, %v", statements, err)
	}
}

func TestInnermost(t *testing.T) {
	deep := &ParseError{Kind: UnexpectedEndOfInput, Err: errors.New("deep"), Span: lexer.NewSpan(9, 9)}
	shallow := &ParseError{Kind: ExpectedTokenMismatch, Err: errors.New("shallow"), Span: lexer.NewSpan(0, 2)}

	nested := &ParseError{
		Kind:   NoAlternativeMatched,
		Err:    errors.New("nested"),
		Span:   lexer.NewSpan(3, 4),
		Causes: []*ParseError{deep},
	}

	root := &ParseError{
		Kind:   NoAlternativeMatched,
		Err:    errors.New("root"),
		Span:   lexer.NewSpan(0, 2),
		Causes: []*ParseError{shallow, nested},
	}

	if got := root.Innermost(); got != deep {
		t.Errorf("innermost = %s, expected the deepest cause", got)
	}

	flat := &ParseError{
		Kind:   NoAlternativeMatched,
		Err:    errors.New("flat"),
		Span:   lexer.NewSpan(0, 2),
		Causes: []*ParseError{shallow},
	}

	if got := flat.Innermost(); got != flat {
		t.Errorf("a choice whose causes did not advance should be its own innermost, got %s", got)
	}

	if got := shallow.Innermost(); got != shallow {
		t.Errorf("an error without cause is its own innermost, got %s", got)
	}
}

func TestDescribe(t *testing.T) {
	p := newTestParser(t, "Pages[i] += 1")

	statements, err := ParseStatements(p)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	described := DescribeStatements(statements)
	if len(described) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(described))
	}

	root := described[0].(map[string]any)
	if root["Kind"] != "Assignment" || root["Operator"] != "Addition" || root["Span"] != "0..13" {
		t.Errorf("unexpected description: %v", root)
	}

	lhs := root["LHS"].(map[string]any)
	if lhs["Kind"] != "ArrayAccess" || lhs["Span"] != "0..8" {
		t.Errorf("unexpected lhs description: %v", lhs)
	}

	rhs := root["RHS"].(map[string]any)
	if rhs["Type"] != "Integer" || rhs["Value"] != int32(1) {
		t.Errorf("unexpected rhs description: %v", rhs)
	}
}

func TestParseStatementsReportsFurthestFailure(t *testing.T) {
	// 'x' alone parses as an expression statement, the '=' is then left over.
	p := newTestParser(t, "x = 1 +")

	statements, err := ParseStatements(p)
	if err == nil {
		t.Fatalf("expected an error, got %v", statements)
	}

	innermost := err.Innermost()
	if innermost.Span != lexer.NewSpan(7, 7) {
		t.Errorf("expected the failure at the missing operand, got %s", innermost)
	}

	if !testutil.ContainsSubstring(innermost.GetError(), "expression") {
		t.Errorf("unexpected error: %s", innermost.GetError())
	}
}
