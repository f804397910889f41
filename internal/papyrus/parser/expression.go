package parser

import (
	"strconv"

	"github.com/pacer/papyrus/internal/papyrus/lexer"
)

var (
	logicalOrOperators = map[lexer.OperatorKind]LogicalKind{
		lexer.LogicalOr: LogicalOr,
	}
	logicalAndOperators = map[lexer.OperatorKind]LogicalKind{
		lexer.LogicalAnd: LogicalAnd,
	}
	comparisonOperators = map[lexer.OperatorKind]ComparisonKind{
		lexer.EqualTo:              CompareEqualTo,
		lexer.NotEqualTo:           CompareNotEqualTo,
		lexer.GreaterThan:          CompareGreaterThan,
		lexer.GreaterThanOrEqualTo: CompareGreaterThanOrEqualTo,
		lexer.LessThan:             CompareLessThan,
		lexer.LessThanOrEqualTo:    CompareLessThanOrEqualTo,
	}
	additiveOperators = map[lexer.OperatorKind]BinaryKind{
		lexer.Addition:    BinaryAdd,
		lexer.Subtraction: BinarySubtract,
	}
	multiplicativeOperators = map[lexer.OperatorKind]BinaryKind{
		lexer.Multiplication: BinaryMultiply,
		lexer.Division:       BinaryDivide,
		lexer.Modulus:        BinaryModulo,
	}
)

// ParseExpression reads an expression, from '||' (loosest) down to atoms.
func ParseExpression(p *Parser) (Expression, *ParseError) {
	if err := p.incRecursionDepth(); err != nil {
		return nil, err
	}
	defer p.decRecursionDepth()

	return parseLogicalOr(p)
}

func parseLogicalOr(p *Parser) (Expression, *ParseError) {
	return parseLeftAssociative(p, parseLogicalAnd, logicalOrOperators,
		func(lhs Node[Expression], kind LogicalKind, rhs Node[Expression]) Expression {
			return LogicalExpression{LHS: lhs, Kind: kind, RHS: rhs}
		})
}

func parseLogicalAnd(p *Parser) (Expression, *ParseError) {
	return parseLeftAssociative(p, parseComparison, logicalAndOperators,
		func(lhs Node[Expression], kind LogicalKind, rhs Node[Expression]) Expression {
			return LogicalExpression{LHS: lhs, Kind: kind, RHS: rhs}
		})
}

func parseComparison(p *Parser) (Expression, *ParseError) {
	return parseLeftAssociative(p, parseAdditive, comparisonOperators,
		func(lhs Node[Expression], kind ComparisonKind, rhs Node[Expression]) Expression {
			return ComparisonExpression{LHS: lhs, Kind: kind, RHS: rhs}
		})
}

func parseAdditive(p *Parser) (Expression, *ParseError) {
	return parseLeftAssociative(p, parseMultiplicative, additiveOperators,
		func(lhs Node[Expression], kind BinaryKind, rhs Node[Expression]) Expression {
			return BinaryExpression{LHS: lhs, Operator: kind, RHS: rhs}
		})
}

func parseMultiplicative(p *Parser) (Expression, *ParseError) {
	return parseLeftAssociative(p, parseUnary, multiplicativeOperators,
		func(lhs Node[Expression], kind BinaryKind, rhs Node[Expression]) Expression {
			return BinaryExpression{LHS: lhs, Operator: kind, RHS: rhs}
		})
}

// parseLeftAssociative reads <operand> (<operator> <operand>)* and folds to the left,
// so 'a - b - c' is '(a - b) - c'.
func parseLeftAssociative[K any](
	p *Parser,
	operand ParseFunc[Expression],
	operators map[lexer.OperatorKind]K,
	build func(lhs Node[Expression], kind K, rhs Node[Expression]) Expression,
) (Expression, *ParseError) {
	start := p.indexCurrentToken

	lhs, err := ParseNode(p, operand)
	if err != nil {
		return nil, err
	}

	for {
		token := p.current()
		if token.ID != lexer.Operator {
			return lhs.Value, nil
		}

		kind, ok := operators[token.Operator]
		if !ok {
			return lhs.Value, nil
		}

		p.nextToken()

		rhs, err := ParseNode(p, operand)
		if err != nil {
			return nil, err
		}

		lhs = Node[Expression]{Value: build(lhs, kind, rhs), Span: p.spanFrom(start)}
	}
}

// ('-' | '!') <unary> | <cast>
func parseUnary(p *Parser) (Expression, *ParseError) {
	var kind UnaryKind

	switch token := p.current(); {
	case token.IsOperator(lexer.Subtraction):
		kind = UnaryNegate
	case token.IsOperator(lexer.LogicalNot):
		kind = UnaryNot
	default:
		return parseCast(p)
	}

	if err := p.incRecursionDepth(); err != nil {
		return nil, err
	}
	defer p.decRecursionDepth()

	p.nextToken()

	operand, err := ParseNode(p, parseUnary)
	if err != nil {
		return nil, err
	}

	return UnaryExpression{Operator: kind, Operand: operand}, nil
}

// <postfix> ('as' <type>)*
func parseCast(p *Parser) (Expression, *ParseError) {
	start := p.indexCurrentToken

	value, err := ParseNode(p, parsePostfix)
	if err != nil {
		return nil, err
	}

	for p.current().IsOperator(lexer.Cast) {
		p.nextToken()

		target, err := ParseNode(p, ParseType)
		if err != nil {
			return nil, err
		}

		value = Node[Expression]{
			Value: CastExpression{Value: value, Target: target},
			Span:  p.spanFrom(start),
		}
	}

	return value.Value, nil
}

// <atom> ('.' <member> | '[' <expression> ']')*
func parsePostfix(p *Parser) (Expression, *ParseError) {
	start := p.indexCurrentToken

	value, err := ParseNode(p, parseAtom)
	if err != nil {
		return nil, err
	}

	for {
		var next Expression

		switch token := p.current(); {
		case token.IsOperator(lexer.Access):
			p.nextToken()

			member, err := ParseNode(p, parseMember)
			if err != nil {
				return nil, err
			}

			next = MemberAccess{LHS: value, RHS: member}

		case token.IsOperator(lexer.SquareBracketsOpen):
			p.nextToken()

			index, err := ParseNode(p, ParseExpression)
			if err != nil {
				return nil, err
			}

			if _, err := p.ExpectOperator(lexer.SquareBracketsClose); err != nil {
				return nil, err
			}

			next = ArrayAccess{Array: value, Index: index}

		default:
			return value.Value, nil
		}

		value = Node[Expression]{Value: next, Span: p.spanFrom(start)}
	}
}

// The right side of '.': 'Length', a call or a plain identifier.
func parseMember(p *Parser) (Expression, *ParseError) {
	if p.current().IsKeyword(lexer.Length) {
		token := p.nextToken()
		return IdentifierExpression{Name: Identifier(token.Value)}, nil
	}

	return Choose(p, "member name", parseFunctionCall, parseIdentifierExpression)
}

func parseAtom(p *Parser) (Expression, *ParseError) {
	return Choose(p, "expression",
		parseParenthesis,
		parseLiteralExpression,
		parseNewExpression,
		parseFunctionCall,
		parseIdentifierExpression,
	)
}

// '(' <expression> ')' yields the inner expression; its node spans the parentheses.
func parseParenthesis(p *Parser) (Expression, *ParseError) {
	if _, err := p.ExpectOperator(lexer.ParenthesisOpen); err != nil {
		return nil, err
	}

	inner, err := ParseNode(p, ParseExpression)
	if err != nil {
		return nil, err
	}

	if _, err := p.ExpectOperator(lexer.ParenthesisClose); err != nil {
		return nil, err
	}

	return inner.Value, nil
}

func parseIdentifierExpression(p *Parser) (Expression, *ParseError) {
	name, err := ParseIdentifier(p)
	if err != nil {
		return nil, err
	}

	return IdentifierExpression{Name: name}, nil
}

func parseLiteralExpression(p *Parser) (Expression, *ParseError) {
	literal, err := ParseLiteral(p)
	if err != nil {
		return nil, err
	}

	return LiteralExpression{Value: literal}, nil
}

// ParseLiteral reads an integer, float, string, 'True', 'False' or 'None'.
func ParseLiteral(p *Parser) (Literal, *ParseError) {
	token := p.current()

	switch token.ID {
	case lexer.Integer:
		value, ok := parseIntegerLiteral(string(token.Value))
		if !ok {
			return nil, newMismatchError(token, "32-bit integer")
		}

		p.nextToken()
		return IntegerLiteral(value), nil

	case lexer.FloatLit:
		value, err := strconv.ParseFloat(string(token.Value), 32)
		if err != nil {
			return nil, newMismatchError(token, "32-bit float")
		}

		p.nextToken()
		return FloatLiteral(value), nil

	case lexer.StringLit:
		p.nextToken()
		return StringLiteral(lexer.UnescapeString(token.Value)), nil

	case lexer.Keyword:
		switch token.Keyword {
		case lexer.True:
			p.nextToken()
			return BoolLiteral(true), nil
		case lexer.False:
			p.nextToken()
			return BoolLiteral(false), nil
		case lexer.None:
			p.nextToken()
			return NoneLiteral{}, nil
		}
	}

	return nil, newMismatchError(token, "literal")
}

// parseIntegerLiteral accepts decimal and '0x' hexadecimal. Hexadecimal values wrap
// to int32, so '0xFFFFFFFF' is -1.
func parseIntegerLiteral(raw string) (int32, bool) {
	if len(raw) > 2 && raw[0] == '0' && (raw[1] == 'x' || raw[1] == 'X') {
		value, err := strconv.ParseUint(raw[2:], 16, 32)
		if err != nil {
			return 0, false
		}

		return int32(uint32(value)), true
	}

	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, false
	}

	return int32(value), true
}

// <identifier> '(' [<argument> (',' <argument>)*] ')'
func parseFunctionCall(p *Parser) (Expression, *ParseError) {
	name, err := ParseNode(p, ParseIdentifier)
	if err != nil {
		return nil, err
	}

	if _, err := p.ExpectOperator(lexer.ParenthesisOpen); err != nil {
		return nil, err
	}

	var arguments []Node[FunctionArgument]

	if !p.current().IsOperator(lexer.ParenthesisClose) {
		for {
			argument, err := ParseNode(p, parseFunctionArgument)
			if err != nil {
				return nil, err
			}

			arguments = append(arguments, argument)

			if !p.current().IsOperator(lexer.Comma) {
				break
			}

			p.nextToken()
		}
	}

	if _, err := p.ExpectOperator(lexer.ParenthesisClose); err != nil {
		return nil, err
	}

	return FunctionCall{Name: name, Arguments: arguments}, nil
}

// <identifier> '=' <expression> | <expression>
func parseFunctionArgument(p *Parser) (FunctionArgument, *ParseError) {
	return Choose(p, "function argument", parseNamedArgument, parsePositionalArgument)
}

func parseNamedArgument(p *Parser) (FunctionArgument, *ParseError) {
	name, err := ParseNode(p, ParseIdentifier)
	if err != nil {
		return nil, err
	}

	if _, err := p.ExpectOperator(lexer.Assignment); err != nil {
		return nil, err
	}

	value, err := ParseNode(p, ParseExpression)
	if err != nil {
		return nil, err
	}

	return NamedArgument{Name: name, Value: value}, nil
}

func parsePositionalArgument(p *Parser) (FunctionArgument, *ParseError) {
	value, err := ParseNode(p, ParseExpression)
	if err != nil {
		return nil, err
	}

	return PositionalArgument{Value: value}, nil
}

// 'new' <type name> '[' <expression> ']' | 'new' <type name>
func parseNewExpression(p *Parser) (Expression, *ParseError) {
	if _, err := p.ExpectKeyword(lexer.New); err != nil {
		return nil, err
	}

	name, err := ParseNode(p, ParseTypeName)
	if err != nil {
		return nil, err
	}

	if !p.current().IsOperator(lexer.SquareBracketsOpen) {
		return NewStruct{Name: name}, nil
	}

	p.nextToken()

	size, err := ParseNode(p, ParseExpression)
	if err != nil {
		return nil, err
	}

	if _, err := p.ExpectOperator(lexer.SquareBracketsClose); err != nil {
		return nil, err
	}

	elementType := Node[Type]{Value: Type{Name: name}, Span: name.Span}

	return NewArray{ElementType: elementType, Size: size}, nil
}
