package parser

import (
	"github.com/pacer/papyrus/internal/papyrus/lexer"
)

// ParseStatement tries, in this order: Return, If, While, variable definition,
// assignment and finally a bare expression.
// The order matters: a definition must be tried before an assignment so that
// 'int x = 1' never reads as an assignment to 'int'.
func ParseStatement(p *Parser) (Statement, *ParseError) {
	if err := p.incRecursionDepth(); err != nil {
		return nil, err
	}
	defer p.decRecursionDepth()

	return Choose(p, "statement",
		parseReturnStatement,
		parseIfStatement,
		parseWhileStatement,
		parseDefineStatement,
		parseAssignStatement,
		parseExpressionStatement,
	)
}

// ParseAssignmentKind reads one of '=', '+=', '-=', '*=', '/=', '%='.
func ParseAssignmentKind(p *Parser) (AssignmentKind, *ParseError) {
	return Choose(p, "assignment operator",
		expectOperatorAs(lexer.Assignment, AssignNormal),
		expectOperatorAs(lexer.AdditionAssignment, AssignAddition),
		expectOperatorAs(lexer.SubtractionAssignment, AssignSubtraction),
		expectOperatorAs(lexer.MultiplicationAssignment, AssignMultiplication),
		expectOperatorAs(lexer.DivisionAssignment, AssignDivision),
		expectOperatorAs(lexer.ModulusAssignment, AssignModulus),
	)
}

// <l-value> <assignment operator> <expression>
// Any expression is accepted as l-value, assignability is not checked here.
func parseAssignStatement(p *Parser) (Statement, *ParseError) {
	lhs, err := ParseNode(p, ParseExpression)
	if err != nil {
		return nil, err
	}

	kind, err := ParseNode(p, ParseAssignmentKind)
	if err != nil {
		return nil, err
	}

	rhs, err := ParseNode(p, ParseExpression)
	if err != nil {
		return nil, err
	}

	return Assignment{LHS: lhs, Kind: kind, RHS: rhs}, nil
}

func parseExpressionStatement(p *Parser) (Statement, *ParseError) {
	expression, err := ParseNode(p, ParseExpression)
	if err != nil {
		return nil, err
	}

	return ExpressionStatement{Expression: expression}, nil
}

// 'Return' [<expression>]
func parseReturnStatement(p *Parser) (Statement, *ParseError) {
	if _, err := p.ExpectKeyword(lexer.Return); err != nil {
		return nil, err
	}

	value := ParseNodeOptional(p, ParseExpression)

	return Return{Value: value}, nil
}

// <type> <identifier> ['=' <expression>]
func parseDefineStatement(p *Parser) (Statement, *ParseError) {
	typeNode, name, err := ParseTypeWithIdentifier(p)
	if err != nil {
		return nil, err
	}

	initialValue, ok := Optional(p, func(p *Parser) (Node[Expression], *ParseError) {
		if _, err := p.ExpectOperator(lexer.Assignment); err != nil {
			return Node[Expression]{}, err
		}

		return ParseNode(p, ParseExpression)
	})

	statement := VariableDefinition{Type: typeNode, Name: name}
	if ok {
		statement.InitialValue = &initialValue
	}

	return statement, nil
}

// ParseConditionalPath reads <expression> <statement>*.
// The statement loop stops before 'EndIf', 'EndWhile', 'ElseIf', 'Else' or at end of input.
func ParseConditionalPath(p *Parser) (ConditionalPath, *ParseError) {
	condition, err := ParseNode(p, ParseExpression)
	if err != nil {
		return ConditionalPath{}, err
	}

	var statements []Node[Statement]

	for !isConditionalPathEnd(p.PeekToken()) {
		statement, err := ParseNode(p, ParseStatement)
		if err != nil {
			return ConditionalPath{}, err
		}

		statements = append(statements, statement)
	}

	return ConditionalPath{Condition: condition, Statements: statements}, nil
}

func isConditionalPathEnd(token *lexer.Token) bool {
	if token == nil {
		return true
	}

	switch {
	case token.IsKeyword(lexer.EndIf),
		token.IsKeyword(lexer.EndWhile),
		token.IsKeyword(lexer.ElseIf),
		token.IsKeyword(lexer.Else):
		return true
	}

	return false
}

// 'If' <conditional path>
// ['ElseIf' <conditional path>]*
// ['Else' <statement>*]
// 'EndIf'
func parseIfStatement(p *Parser) (Statement, *ParseError) {
	if _, err := p.ExpectKeyword(lexer.If); err != nil {
		return nil, err
	}

	ifPath, err := ParseNode(p, ParseConditionalPath)
	if err != nil {
		return nil, err
	}

	statement := If{IfPath: ifPath}

	for !p.peekKeyword(lexer.EndIf) {
		next := p.PeekToken()

		if next.IsKeyword(lexer.ElseIf) {
			p.nextToken()

			path, err := ParseNode(p, ParseConditionalPath)
			if err != nil {
				return nil, err
			}

			statement.OtherPaths = append(statement.OtherPaths, path)
			continue
		}

		if next.IsKeyword(lexer.Else) {
			p.nextToken()

			statement.ElsePath, err = p.OptionalParseNodesUntilKeyword(lexer.EndIf)
			if err != nil {
				return nil, err
			}

			break
		}

		// end of input or a stray 'EndWhile', the 'EndIf' check below reports it
		break
	}

	if _, err := p.ExpectKeyword(lexer.EndIf); err != nil {
		return nil, err
	}

	return statement, nil
}

// 'While' <conditional path> 'EndWhile'
func parseWhileStatement(p *Parser) (Statement, *ParseError) {
	if _, err := p.ExpectKeyword(lexer.While); err != nil {
		return nil, err
	}

	path, err := ParseNode(p, ParseConditionalPath)
	if err != nil {
		return nil, err
	}

	if _, err := p.ExpectKeyword(lexer.EndWhile); err != nil {
		return nil, err
	}

	return While{Path: path}, nil
}
