package parser

// -----------
// Parser Kind
// -----------

// Parser configuration constants
const (
	// defaultMaxDepth limits statement nesting to keep recursion off the end of the stack.
	defaultMaxDepth = 256
)

// AssignmentKind is the operator of an assignment statement.
type AssignmentKind int

const (
	AssignNormal         AssignmentKind = iota // '='
	AssignAddition                             // '+='
	AssignSubtraction                          // '-='
	AssignMultiplication                       // '*='
	AssignDivision                             // '/='
	AssignModulus                              // '%='
)

var assignmentKindNames = [...]string{
	AssignNormal:         "Normal",
	AssignAddition:       "Addition",
	AssignSubtraction:    "Subtraction",
	AssignMultiplication: "Multiplication",
	AssignDivision:       "Division",
	AssignModulus:        "Modulus",
}

func (a AssignmentKind) String() string {
	if a < 0 || int(a) >= len(assignmentKindNames) {
		return "AssignmentKind(?)"
	}
	return assignmentKindNames[a]
}

type UnaryKind int

const (
	UnaryNegate UnaryKind = iota
	UnaryNot
)

func (u UnaryKind) String() string {
	if u == UnaryNot {
		return "Not"
	}
	return "Negate"
}

type BinaryKind int

const (
	BinaryAdd BinaryKind = iota
	BinarySubtract
	BinaryMultiply
	BinaryDivide
	BinaryModulo
)

var binaryKindNames = [...]string{
	BinaryAdd:      "Add",
	BinarySubtract: "Subtract",
	BinaryMultiply: "Multiply",
	BinaryDivide:   "Divide",
	BinaryModulo:   "Modulo",
}

func (b BinaryKind) String() string {
	if b < 0 || int(b) >= len(binaryKindNames) {
		return "BinaryKind(?)"
	}
	return binaryKindNames[b]
}

type ComparisonKind int

const (
	CompareEqualTo ComparisonKind = iota
	CompareNotEqualTo
	CompareGreaterThan
	CompareGreaterThanOrEqualTo
	CompareLessThan
	CompareLessThanOrEqualTo
)

var comparisonKindNames = [...]string{
	CompareEqualTo:              "EqualTo",
	CompareNotEqualTo:           "NotEqualTo",
	CompareGreaterThan:          "GreaterThan",
	CompareGreaterThanOrEqualTo: "GreaterThanOrEqualTo",
	CompareLessThan:             "LessThan",
	CompareLessThanOrEqualTo:    "LessThanOrEqualTo",
}

func (c ComparisonKind) String() string {
	if c < 0 || int(c) >= len(comparisonKindNames) {
		return "ComparisonKind(?)"
	}
	return comparisonKindNames[c]
}

type LogicalKind int

const (
	LogicalAnd LogicalKind = iota
	LogicalOr
)

func (l LogicalKind) String() string {
	if l == LogicalOr {
		return "Or"
	}
	return "And"
}

// BaseType is one of the built-in type names.
type BaseType int

const (
	BaseBool BaseType = iota
	BaseInt
	BaseFloat
	BaseString
	BaseVar
)

var baseTypeNames = [...]string{
	BaseBool:   "Bool",
	BaseInt:    "Int",
	BaseFloat:  "Float",
	BaseString: "String",
	BaseVar:    "Var",
}

func (b BaseType) String() string {
	if b < 0 || int(b) >= len(baseTypeNames) {
		return "BaseType(?)"
	}
	return baseTypeNames[b]
}
