package lexer

// ----------
// Lexer Kind
// ----------

// Kind tags a token.
type Kind int

const (
	Keyword Kind = iota
	Operator
	Identifier
	Integer
	FloatLit
	StringLit
	Eof // End Of File
	Unexpected
)

var kindNames = [...]string{
	Keyword:    "Keyword",
	Operator:   "Operator",
	Identifier: "Identifier",
	Integer:    "Integer",
	FloatLit:   "Float",
	StringLit:  "String",
	Eof:        "EOF",
	Unexpected: "Unexpected",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}

	return kindNames[k]
}

// -------------
// Operator Kind
// -------------

// OperatorKind identifies a punctuation or operator lexeme.
type OperatorKind int

const (
	Assignment OperatorKind = iota
	AdditionAssignment
	SubtractionAssignment
	MultiplicationAssignment
	DivisionAssignment
	ModulusAssignment
	Addition
	Subtraction
	Multiplication
	Division
	Modulus
	EqualTo
	NotEqualTo
	GreaterThan
	GreaterThanOrEqualTo
	LessThan
	LessThanOrEqualTo
	LogicalAnd
	LogicalOr
	LogicalNot
	Cast
	ParenthesisOpen
	ParenthesisClose
	SquareBracketsOpen
	SquareBracketsClose
	Comma
	Access
	Colon
)

var operatorLexemes = [...]string{
	Assignment:               "=",
	AdditionAssignment:       "+=",
	SubtractionAssignment:    "-=",
	MultiplicationAssignment: "*=",
	DivisionAssignment:       "/=",
	ModulusAssignment:        "%=",
	Addition:                 "+",
	Subtraction:              "-",
	Multiplication:           "*",
	Division:                 "/",
	Modulus:                  "%",
	EqualTo:                  "==",
	NotEqualTo:               "!=",
	GreaterThan:              ">",
	GreaterThanOrEqualTo:     ">=",
	LessThan:                 "<",
	LessThanOrEqualTo:        "<=",
	LogicalAnd:               "&&",
	LogicalOr:                "||",
	LogicalNot:               "!",
	Cast:                     castOperatorWord,
	ParenthesisOpen:          "(",
	ParenthesisClose:         ")",
	SquareBracketsOpen:       "[",
	SquareBracketsClose:      "]",
	Comma:                    ",",
	Access:                   ".",
	Colon:                    ":",
}

// String returns the source spelling of the operator.
func (o OperatorKind) String() string {
	if o < 0 || int(o) >= len(operatorLexemes) {
		return "Operator(?)"
	}

	return operatorLexemes[o]
}
