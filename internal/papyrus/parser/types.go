package parser

import (
	"strings"

	"github.com/pacer/papyrus/internal/papyrus/lexer"
)

var baseTypeKeywords = map[lexer.KeywordKind]BaseType{
	lexer.Bool:   BaseBool,
	lexer.Int:    BaseInt,
	lexer.Float:  BaseFloat,
	lexer.String: BaseString,
	lexer.Var:    BaseVar,
}

func ParseIdentifier(p *Parser) (Identifier, *ParseError) {
	token, err := p.ExpectIdentifier()
	if err != nil {
		return "", err
	}

	return Identifier(token.Value), nil
}

// ParseTypeName reads a built-in type or a script name such as 'Namespace:Quest'.
func ParseTypeName(p *Parser) (TypeName, *ParseError) {
	token := p.current()

	if token.ID == lexer.Keyword {
		if base, ok := baseTypeKeywords[token.Keyword]; ok {
			p.nextToken()
			return base, nil
		}
	}

	first, err := p.ExpectIdentifier()
	if err != nil {
		return nil, newMismatchError(token, "type")
	}

	parts := []string{string(first.Value)}

	for {
		part, ok := Optional(p, func(p *Parser) (Identifier, *ParseError) {
			if _, err := p.ExpectOperator(lexer.Colon); err != nil {
				return "", err
			}

			return ParseIdentifier(p)
		})
		if !ok {
			break
		}

		parts = append(parts, string(part))
	}

	return ScriptType{Name: Identifier(strings.Join(parts, ":"))}, nil
}

// ParseType reads <type name> ['[' ']'].
// A '[' that is not immediately closed is left unread, 'new int[5]' relies on it.
func ParseType(p *Parser) (Type, *ParseError) {
	name, err := ParseNode(p, ParseTypeName)
	if err != nil {
		return Type{}, err
	}

	_, isArray := Optional(p, func(p *Parser) (bool, *ParseError) {
		if _, err := p.ExpectOperator(lexer.SquareBracketsOpen); err != nil {
			return false, err
		}

		if _, err := p.ExpectOperator(lexer.SquareBracketsClose); err != nil {
			return false, err
		}

		return true, nil
	})

	return Type{Name: name, IsArray: isArray}, nil
}

// ParseTypeWithIdentifier reads <type> <identifier>, as found in definitions.
func ParseTypeWithIdentifier(p *Parser) (Node[Type], Node[Identifier], *ParseError) {
	typeNode, err := ParseNode(p, ParseType)
	if err != nil {
		return Node[Type]{}, Node[Identifier]{}, err
	}

	name, err := ParseNode(p, ParseIdentifier)
	if err != nil {
		return Node[Type]{}, Node[Identifier]{}, err
	}

	return typeNode, name, nil
}
