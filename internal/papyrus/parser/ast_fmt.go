package parser

import (
	"fmt"
)

func (n Node[T]) String() string {
	return fmt.Sprintf(`{"Value": %v, "Span": "%s"}`, any(n.Value), n.Span)
}

func (s ScriptType) String() string {
	return string(s.Name)
}

// Describe turns a node and everything below it into maps and slices ready for
// JSON or YAML encoding. Every map carries the node "Kind" and its "Span".
func Describe(node Spanned) map[string]any {
	out := map[string]any{"Span": node.NodeSpan().String()}

	switch value := node.NodeValue().(type) {
	case VariableDefinition:
		out["Kind"] = "VariableDefinition"
		out["Type"] = Describe(value.Type)
		out["Name"] = Describe(value.Name)
		if value.InitialValue != nil {
			out["InitialValue"] = Describe(*value.InitialValue)
		}

	case Return:
		out["Kind"] = "Return"
		if value.Value != nil {
			out["Value"] = Describe(*value.Value)
		}

	case Assignment:
		out["Kind"] = "Assignment"
		out["LHS"] = Describe(value.LHS)
		out["Operator"] = value.Kind.Value.String()
		out["OperatorSpan"] = value.Kind.Span.String()
		out["RHS"] = Describe(value.RHS)

	case If:
		out["Kind"] = "If"
		out["IfPath"] = Describe(value.IfPath)
		if value.OtherPaths != nil {
			out["OtherPaths"] = describeAll(value.OtherPaths)
		}
		if value.ElsePath != nil {
			out["ElsePath"] = describeAll(value.ElsePath)
		}

	case While:
		out["Kind"] = "While"
		out["Path"] = Describe(value.Path)

	case ExpressionStatement:
		out["Kind"] = "Expression"
		out["Expression"] = Describe(value.Expression)

	case ConditionalPath:
		out["Kind"] = "ConditionalPath"
		out["Condition"] = Describe(value.Condition)
		if value.Statements != nil {
			out["Statements"] = describeAll(value.Statements)
		}

	case AssignmentKind:
		out["Kind"] = "AssignmentKind"
		out["Operator"] = value.String()

	case Identifier:
		out["Kind"] = "Identifier"
		out["Name"] = string(value)

	case Type:
		out["Kind"] = "Type"
		out["Name"] = Describe(value.Name)
		out["IsArray"] = value.IsArray

	case BaseType:
		out["Kind"] = "BaseType"
		out["Name"] = value.String()

	case ScriptType:
		out["Kind"] = "ScriptType"
		out["Name"] = string(value.Name)

	case IdentifierExpression:
		out["Kind"] = "Identifier"
		out["Name"] = string(value.Name)

	case LiteralExpression:
		out["Kind"] = "Literal"
		out["Type"], out["Value"] = describeLiteral(value.Value)

	case UnaryExpression:
		out["Kind"] = "Unary"
		out["Operator"] = value.Operator.String()
		out["Operand"] = Describe(value.Operand)

	case BinaryExpression:
		out["Kind"] = "Binary"
		out["Operator"] = value.Operator.String()
		out["LHS"] = Describe(value.LHS)
		out["RHS"] = Describe(value.RHS)

	case ComparisonExpression:
		out["Kind"] = "Comparison"
		out["Operator"] = value.Kind.String()
		out["LHS"] = Describe(value.LHS)
		out["RHS"] = Describe(value.RHS)

	case LogicalExpression:
		out["Kind"] = "Logical"
		out["Operator"] = value.Kind.String()
		out["LHS"] = Describe(value.LHS)
		out["RHS"] = Describe(value.RHS)

	case CastExpression:
		out["Kind"] = "Cast"
		out["Value"] = Describe(value.Value)
		out["Target"] = Describe(value.Target)

	case MemberAccess:
		out["Kind"] = "MemberAccess"
		out["LHS"] = Describe(value.LHS)
		out["RHS"] = Describe(value.RHS)

	case ArrayAccess:
		out["Kind"] = "ArrayAccess"
		out["Array"] = Describe(value.Array)
		out["Index"] = Describe(value.Index)

	case FunctionCall:
		out["Kind"] = "FunctionCall"
		out["Name"] = Describe(value.Name)
		if value.Arguments != nil {
			out["Arguments"] = describeAll(value.Arguments)
		}

	case NewArray:
		out["Kind"] = "NewArray"
		out["ElementType"] = Describe(value.ElementType)
		out["Size"] = Describe(value.Size)

	case NewStruct:
		out["Kind"] = "NewStruct"
		out["Name"] = Describe(value.Name)

	case PositionalArgument:
		out["Kind"] = "PositionalArgument"
		out["Value"] = Describe(value.Value)

	case NamedArgument:
		out["Kind"] = "NamedArgument"
		out["Name"] = Describe(value.Name)
		out["Value"] = Describe(value.Value)

	default:
		out["Kind"] = fmt.Sprintf("%T", value)
	}

	return out
}

// DescribeStatements describes a whole block.
func DescribeStatements(statements []Node[Statement]) []any {
	return describeAll(statements)
}

func describeAll[T any](nodes []Node[T]) []any {
	out := make([]any, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, Describe(node))
	}

	return out
}

func describeLiteral(literal Literal) (string, any) {
	switch value := literal.(type) {
	case IntegerLiteral:
		return "Integer", int32(value)
	case FloatLiteral:
		return "Float", float32(value)
	case BoolLiteral:
		return "Bool", bool(value)
	case StringLiteral:
		return "String", string(value)
	case NoneLiteral:
		return "None", nil
	}

	return fmt.Sprintf("%T", literal), nil
}
