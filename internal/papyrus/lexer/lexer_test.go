package lexer

import (
	"testing"

	"github.com/pacer/papyrus/internal/papyrus/testutil"
)

// tokenKinds strips a token slice down to its kinds, final 'EOF' excluded.
func tokenKinds(tokens []Token) []Kind {
	kinds := make([]Kind, 0, len(tokens))
	for _, token := range tokens[:len(tokens)-1] {
		kinds = append(kinds, token.ID)
	}
	return kinds
}

func TestTokenize_EmptyInput(t *testing.T) {
	tokens, errs := Tokenize([]byte(""))

	testutil.AssertNoErrors(t, errs)

	if len(tokens) != 1 || tokens[0].ID != Eof {
		t.Fatalf("Expected a single EOF token, got %v", tokens)
	}

	if tokens[0].Span != NewSpan(0, 0) {
		t.Errorf("Expected EOF at 0..0, got %s", tokens[0].Span)
	}
}

func TestTokenize_OnlyTrivia(t *testing.T) {
	source := "  ; line comment\n;/ block\ncomment /;\t{ documentation }\n"
	tokens, errs := Tokenize([]byte(source))

	testutil.AssertNoErrors(t, errs)

	if len(tokens) != 1 {
		t.Fatalf("Expected only EOF, got %v", PrettyFormatter(tokens))
	}

	if tokens[0].Span != NewSpan(len(source), len(source)) {
		t.Errorf("Expected EOF at end of source, got %s", tokens[0].Span)
	}
}

func TestTokenize_Statement(t *testing.T) {
	tokens, errs := Tokenize([]byte("int x = 1"))

	testutil.AssertNoErrors(t, errs)

	expected := []Token{
		{ID: Keyword, Keyword: Int, Value: []byte("int"), Span: NewSpan(0, 3)},
		{ID: Identifier, Value: []byte("x"), Span: NewSpan(4, 5)},
		{ID: Operator, Operator: Assignment, Value: []byte("="), Span: NewSpan(6, 7)},
		{ID: Integer, Value: []byte("1"), Span: NewSpan(8, 9)},
		{ID: Eof, Span: NewSpan(9, 9)},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %s", len(expected), len(tokens), PrettyFormatter(tokens))
	}

	for i, want := range expected {
		got := tokens[i]
		if got.ID != want.ID || got.Keyword != want.Keyword || got.Operator != want.Operator ||
			string(got.Value) != string(want.Value) || got.Span != want.Span {
			t.Errorf("token %d: got %s, expected %s", i, got, want)
		}
	}
}

func TestTokenize_KeywordsAreCaseInsensitive(t *testing.T) {
	for _, word := range []string{"endif", "EndIf", "ENDIF", "eNdIf"} {
		tokens, errs := Tokenize([]byte(word))
		testutil.AssertNoErrors(t, errs)

		if !tokens[0].IsKeyword(EndIf) {
			t.Errorf("%q should be the keyword EndIf, got %s", word, tokens[0])
		}

		if string(tokens[0].Value) != word {
			t.Errorf("keyword should keep its spelling, got %q", tokens[0].Value)
		}
	}

	tokens, _ := Tokenize([]byte("EndIfx"))
	if tokens[0].ID != Identifier {
		t.Errorf("'EndIfx' should be an identifier, got %s", tokens[0])
	}
}

func TestTokenize_CastOperator(t *testing.T) {
	tokens, errs := Tokenize([]byte("x AS Int"))

	testutil.AssertNoErrors(t, errs)

	if !tokens[1].IsOperator(Cast) {
		t.Errorf("'AS' should be the cast operator, got %s", tokens[1])
	}
}

func TestTokenize_Operators(t *testing.T) {
	tests := []struct {
		source   string
		expected []OperatorKind
	}{
		{"+=", []OperatorKind{AdditionAssignment}},
		{"+ =", []OperatorKind{Addition, Assignment}},
		{"==!=", []OperatorKind{EqualTo, NotEqualTo}},
		{">=<=><", []OperatorKind{GreaterThanOrEqualTo, LessThanOrEqualTo, GreaterThan, LessThan}},
		{"&&||!", []OperatorKind{LogicalAnd, LogicalOr, LogicalNot}},
		{"-=*=/=%=", []OperatorKind{
			SubtractionAssignment, MultiplicationAssignment, DivisionAssignment, ModulusAssignment,
		}},
		{"()[],.:", []OperatorKind{
			ParenthesisOpen, ParenthesisClose, SquareBracketsOpen, SquareBracketsClose, Comma, Access, Colon,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tokens, errs := Tokenize([]byte(tt.source))
			testutil.AssertNoErrors(t, errs)

			if len(tokens)-1 != len(tt.expected) {
				t.Fatalf("Expected %d operators, got %s", len(tt.expected), PrettyFormatter(tokens))
			}

			for i, kind := range tt.expected {
				if !tokens[i].IsOperator(kind) {
					t.Errorf("token %d: got %s, expected %s", i, tokens[i], kind)
				}
			}
		})
	}
}

func TestTokenize_Literals(t *testing.T) {
	tests := []struct {
		source string
		kind   Kind
		value  string
	}{
		{"123", Integer, "123"},
		{"0x1F", Integer, "0x1F"},
		{"3.25", FloatLit, "3.25"},
		{`"hello \"world\""`, StringLit, `hello \"world\"`},
		{`""`, StringLit, ""},
		{"_name2", Identifier, "_name2"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tokens, errs := Tokenize([]byte(tt.source))
			testutil.AssertNoErrors(t, errs)

			if tokens[0].ID != tt.kind || string(tokens[0].Value) != tt.value {
				t.Errorf("got %s, expected %s %q", tokens[0], tt.kind, tt.value)
			}

			if tokens[0].Span != NewSpan(0, len(tt.source)) {
				t.Errorf("literal span %s should cover the whole source", tokens[0].Span)
			}
		})
	}
}

func TestTokenize_LineContinuation(t *testing.T) {
	tokens, errs := Tokenize([]byte("x = \\\n  1"))

	testutil.AssertNoErrors(t, errs)

	kinds := tokenKinds(tokens)
	if len(kinds) != 3 || kinds[2] != Integer {
		t.Errorf("Expected identifier, operator, integer; got %v", kinds)
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		errorMatch string
		span       Span
	}{
		{"unrecognized character", "x = 1 @@ y", "not recognized", NewSpan(6, 8)},
		{"unterminated string", "s = \"abc\nx", "unterminated string", NewSpan(4, 8)},
		{"unterminated block comment", "x ;/ never closed", "unterminated block comment", NewSpan(2, 17)},
		{"unterminated documentation", "x { doc", "unterminated documentation", NewSpan(2, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, errs := Tokenize([]byte(tt.source))

			testutil.AssertErrorCount(t, errs, 1)
			testutil.AssertErrorContains(t, errs, tt.errorMatch)

			if errs[0].GetSpan() != tt.span {
				t.Errorf("error span = %s, expected %s", errs[0].GetSpan(), tt.span)
			}

			found := false
			for _, token := range tokens {
				if token.ID == Unexpected && token.Span == tt.span {
					found = true
				}
			}

			if !found {
				t.Errorf("Expected an 'Unexpected' token at %s, got %s", tt.span, PrettyFormatter(tokens))
			}

			if last := tokens[len(tokens)-1]; last.ID != Eof {
				t.Errorf("stream should still end with EOF, got %s", last)
			}
		})
	}
}

func TestTokenize_ScanningContinuesAfterError(t *testing.T) {
	tokens, errs := Tokenize([]byte("a @ b # c"))

	testutil.AssertErrorCount(t, errs, 2)

	identifiers := 0
	for _, token := range tokens {
		if token.ID == Identifier {
			identifiers++
		}
	}

	if identifiers != 3 {
		t.Errorf("Expected 3 identifiers around the bad characters, got %d", identifiers)
	}
}

func TestRangeFromSpan(t *testing.T) {
	source := []byte("If x\n  Return\nEndIf")

	tests := []struct {
		span     Span
		expected Range
	}{
		{NewSpan(0, 2), Range{Start: Position{0, 0}, End: Position{0, 2}}},
		{NewSpan(7, 13), Range{Start: Position{1, 2}, End: Position{1, 8}}},
		{NewSpan(3, 19), Range{Start: Position{0, 3}, End: Position{2, 5}}},
		{NewSpan(19, 19), Range{Start: Position{2, 5}, End: Position{2, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.span.String(), func(t *testing.T) {
			got := RangeFromSpan(source, tt.span)
			if got != tt.expected {
				t.Errorf("got %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	rng := Range{Start: Position{1, 2}, End: Position{3, 4}}

	tests := []struct {
		pos      Position
		expected bool
	}{
		{Position{0, 9}, false},
		{Position{1, 1}, false},
		{Position{1, 2}, true},
		{Position{2, 0}, true},
		{Position{3, 3}, true},
		{Position{3, 4}, false},
		{Position{4, 0}, false},
	}

	for _, tt := range tests {
		if got := rng.Contains(tt.pos); got != tt.expected {
			t.Errorf("Contains(%s) = %v, expected %v", tt.pos, got, tt.expected)
		}
	}
}

func TestSpan(t *testing.T) {
	outer := NewSpan(2, 10)

	if !outer.Contains(NewSpan(2, 10)) || !outer.Contains(NewSpan(4, 4)) {
		t.Error("Contains should accept equal and nested spans")
	}

	if outer.Contains(NewSpan(1, 5)) || outer.Contains(NewSpan(9, 11)) {
		t.Error("Contains should reject overlapping spans")
	}

	if got := NewSpan(5, 7).Union(NewSpan(1, 3)); got != NewSpan(1, 7) {
		t.Errorf("Union = %s, expected 1..7", got)
	}

	if outer.Len() != 8 || outer.IsEmpty() || !NewSpan(3, 3).IsEmpty() {
		t.Error("Len or IsEmpty is wrong")
	}
}

func TestUnescapeString(t *testing.T) {
	got := UnescapeString([]byte(`line\nnext\t"\\`))
	if got != "line\nnext\t\"\\" {
		t.Errorf("got %q", got)
	}
}
