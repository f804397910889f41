package parser

import "github.com/pacer/papyrus/internal/papyrus/lexer"

// Node pairs a parsed value with the exact byte span it was parsed from.
// A node's span contains the spans of all of its children.
type Node[T any] struct {
	Value T
	Span  lexer.Span
}

func NewNode[T any](value T, start, end int) Node[T] {
	return Node[T]{Value: value, Span: lexer.Span{Start: start, End: end}}
}

// Spanned is implemented by every Node instantiation and lets generic code
// walk a tree without knowing the concrete value types.
type Spanned interface {
	NodeSpan() lexer.Span
	NodeValue() any
	Children() []Spanned
}

// parent is implemented by AST values that own child nodes.
type parent interface {
	childNodes() []Spanned
}

func (n Node[T]) NodeSpan() lexer.Span {
	return n.Span
}

func (n Node[T]) NodeValue() any {
	return n.Value
}

func (n Node[T]) Children() []Spanned {
	if p, ok := any(n.Value).(parent); ok {
		return p.childNodes()
	}

	return nil
}

// Walk visits root and then, depth first, every node below it.
// Returning false from visit skips the children of that node.
func Walk(root Spanned, visit func(Spanned) bool) {
	if root == nil || !visit(root) {
		return
	}

	for _, child := range root.Children() {
		Walk(child, visit)
	}
}

// WalkStatements walks every statement of a block.
func WalkStatements(statements []Node[Statement], visit func(Spanned) bool) {
	for _, statement := range statements {
		Walk(statement, visit)
	}
}

func appendOptional[T any](children []Spanned, node *Node[T]) []Spanned {
	if node == nil {
		return children
	}

	return append(children, *node)
}

func appendAll[T any](children []Spanned, nodes []Node[T]) []Spanned {
	for _, node := range nodes {
		children = append(children, node)
	}

	return children
}
