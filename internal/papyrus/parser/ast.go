package parser

// Identifier is a name as spelled in the source.
type Identifier string

// ----------
// Statements
// ----------

// Statement is one of VariableDefinition, Return, Assignment, If, While or ExpressionStatement.
type Statement interface {
	statementNode()
}

// VariableDefinition is 'int x = 1'.
type VariableDefinition struct {
	Type         Node[Type]
	Name         Node[Identifier]
	InitialValue *Node[Expression]
}

// Return is 'Return x'. Value is nil for a bare 'Return'.
type Return struct {
	Value *Node[Expression]
}

// Assignment is 'x = y' and its compound forms.
type Assignment struct {
	LHS  Node[Expression]
	Kind Node[AssignmentKind]
	RHS  Node[Expression]
}

// If holds its branches in source order. OtherPaths are the ElseIf branches.
// Empty OtherPaths and ElsePath are nil, never empty slices.
type If struct {
	IfPath     Node[ConditionalPath]
	OtherPaths []Node[ConditionalPath]
	ElsePath   []Node[Statement]
}

type While struct {
	Path Node[ConditionalPath]
}

// ExpressionStatement is an expression evaluated for its side effect, usually a call.
type ExpressionStatement struct {
	Expression Node[Expression]
}

// ConditionalPath is a condition followed by the statements it guards.
// Statements is nil when the body is empty.
type ConditionalPath struct {
	Condition  Node[Expression]
	Statements []Node[Statement]
}

func (VariableDefinition) statementNode()  {}
func (Return) statementNode()              {}
func (Assignment) statementNode()          {}
func (If) statementNode()                  {}
func (While) statementNode()               {}
func (ExpressionStatement) statementNode() {}

func (s VariableDefinition) childNodes() []Spanned {
	return appendOptional([]Spanned{s.Type, s.Name}, s.InitialValue)
}

func (s Return) childNodes() []Spanned {
	return appendOptional(nil, s.Value)
}

func (s Assignment) childNodes() []Spanned {
	return []Spanned{s.LHS, s.Kind, s.RHS}
}

func (s If) childNodes() []Spanned {
	children := []Spanned{s.IfPath}
	children = appendAll(children, s.OtherPaths)
	return appendAll(children, s.ElsePath)
}

func (s While) childNodes() []Spanned {
	return []Spanned{s.Path}
}

func (s ExpressionStatement) childNodes() []Spanned {
	return []Spanned{s.Expression}
}

func (c ConditionalPath) childNodes() []Spanned {
	return appendAll([]Spanned{c.Condition}, c.Statements)
}

// -----
// Types
// -----

type Type struct {
	Name    Node[TypeName]
	IsArray bool
}

// TypeName is either a BaseType or a ScriptType.
type TypeName interface {
	typeName()
}

// ScriptType names a script or struct, 'Namespace:Name' included.
type ScriptType struct {
	Name Identifier
}

func (BaseType) typeName()   {}
func (ScriptType) typeName() {}

func (t Type) childNodes() []Spanned {
	return []Spanned{t.Name}
}

// -----------
// Expressions
// -----------

type Expression interface {
	expressionNode()
}

type IdentifierExpression struct {
	Name Identifier
}

type LiteralExpression struct {
	Value Literal
}

type UnaryExpression struct {
	Operator UnaryKind
	Operand  Node[Expression]
}

// BinaryExpression is arithmetic: + - * / %.
type BinaryExpression struct {
	LHS      Node[Expression]
	Operator BinaryKind
	RHS      Node[Expression]
}

type ComparisonExpression struct {
	LHS  Node[Expression]
	Kind ComparisonKind
	RHS  Node[Expression]
}

type LogicalExpression struct {
	LHS  Node[Expression]
	Kind LogicalKind
	RHS  Node[Expression]
}

// CastExpression is 'x as Type'.
type CastExpression struct {
	Value  Node[Expression]
	Target Node[Type]
}

// MemberAccess is 'lhs.rhs'; RHS is an identifier or a function call.
type MemberAccess struct {
	LHS Node[Expression]
	RHS Node[Expression]
}

type ArrayAccess struct {
	Array Node[Expression]
	Index Node[Expression]
}

// FunctionCall has nil Arguments when called with '()'.
type FunctionCall struct {
	Name      Node[Identifier]
	Arguments []Node[FunctionArgument]
}

// NewArray is 'new int[5]'.
type NewArray struct {
	ElementType Node[Type]
	Size        Node[Expression]
}

// NewStruct is 'new Point'.
type NewStruct struct {
	Name Node[TypeName]
}

func (IdentifierExpression) expressionNode() {}
func (LiteralExpression) expressionNode()    {}
func (UnaryExpression) expressionNode()      {}
func (BinaryExpression) expressionNode()     {}
func (ComparisonExpression) expressionNode() {}
func (LogicalExpression) expressionNode()    {}
func (CastExpression) expressionNode()       {}
func (MemberAccess) expressionNode()         {}
func (ArrayAccess) expressionNode()          {}
func (FunctionCall) expressionNode()         {}
func (NewArray) expressionNode()             {}
func (NewStruct) expressionNode()            {}

func (e UnaryExpression) childNodes() []Spanned {
	return []Spanned{e.Operand}
}

func (e BinaryExpression) childNodes() []Spanned {
	return []Spanned{e.LHS, e.RHS}
}

func (e ComparisonExpression) childNodes() []Spanned {
	return []Spanned{e.LHS, e.RHS}
}

func (e LogicalExpression) childNodes() []Spanned {
	return []Spanned{e.LHS, e.RHS}
}

func (e CastExpression) childNodes() []Spanned {
	return []Spanned{e.Value, e.Target}
}

func (e MemberAccess) childNodes() []Spanned {
	return []Spanned{e.LHS, e.RHS}
}

func (e ArrayAccess) childNodes() []Spanned {
	return []Spanned{e.Array, e.Index}
}

func (e FunctionCall) childNodes() []Spanned {
	return appendAll([]Spanned{e.Name}, e.Arguments)
}

func (e NewArray) childNodes() []Spanned {
	return []Spanned{e.ElementType, e.Size}
}

func (e NewStruct) childNodes() []Spanned {
	return []Spanned{e.Name}
}

// Literal is one of IntegerLiteral, FloatLiteral, BoolLiteral, StringLiteral or NoneLiteral.
type Literal interface {
	literal()
}

type (
	IntegerLiteral int32
	FloatLiteral   float32
	BoolLiteral    bool
	StringLiteral  string
	NoneLiteral    struct{}
)

func (IntegerLiteral) literal() {}
func (FloatLiteral) literal()   {}
func (BoolLiteral) literal()    {}
func (StringLiteral) literal()  {}
func (NoneLiteral) literal()    {}

// FunctionArgument is a PositionalArgument or a NamedArgument.
type FunctionArgument interface {
	functionArgument()
}

type PositionalArgument struct {
	Value Node[Expression]
}

// NamedArgument is 'name = value' inside a call.
type NamedArgument struct {
	Name  Node[Identifier]
	Value Node[Expression]
}

func (PositionalArgument) functionArgument() {}
func (NamedArgument) functionArgument()      {}

func (a PositionalArgument) childNodes() []Spanned {
	return []Spanned{a.Value}
}

func (a NamedArgument) childNodes() []Spanned {
	return []Spanned{a.Name, a.Value}
}
