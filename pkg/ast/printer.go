package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sprint renders a node as a parenthesised prefix form, e.g.
// `(* (- 123) (group 45.67))`. It is meant for debugging, not re-parsing.
func Sprint(node Node) string {
	var b strings.Builder
	write(&b, node)
	return b.String()
}

// SprintProgram renders each statement on its own line.
func SprintProgram(stmts []Statement) string {
	var b strings.Builder
	for _, stmt := range stmts {
		write(&b, stmt)
		b.WriteByte('\n')
	}
	return b.String()
}

func write(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("nil")
	case *NumberLiteral:
		b.WriteString(strconv.FormatFloat(n.Value, 'f', -1, 64))
	case *StringLiteral:
		b.WriteString(strconv.Quote(n.Value))
	case *BooleanLiteral:
		b.WriteString(strconv.FormatBool(n.Value))
	case *NilLiteral:
		b.WriteString("nil")
	case *Identifier:
		b.WriteString(n.Name)
	case *AssignmentExpression:
		parenthesize(b, "= "+n.Name.Name, n.Value)
	case *UnaryExpression:
		parenthesize(b, n.Operator.Lexeme, n.Operand)
	case *BinaryExpression:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *LogicalExpression:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *GroupingExpression:
		parenthesize(b, "group", n.Inner)
	case *ConditionalExpression:
		parenthesize(b, "?:", n.Condition, n.Then, n.Else)
	case *CallExpression:
		nodes := append([]Node{n.Callee}, exprNodes(n.Arguments)...)
		parenthesize(b, "call", nodes...)
	case *ExpressionStatement:
		parenthesize(b, ";", n.Expression)
	case *PrintStatement:
		parenthesize(b, "print", n.Expression)
	case *VarDeclaration:
		if n.Initializer == nil {
			parenthesize(b, "var "+n.Name.Name)
			return
		}
		parenthesize(b, "var "+n.Name.Name, n.Initializer)
	case *BlockStatement:
		nodes := make([]Node, 0, len(n.Body))
		for _, stmt := range n.Body {
			nodes = append(nodes, stmt)
		}
		parenthesize(b, "block", nodes...)
	case *IfStatement:
		if n.Else == nil {
			parenthesize(b, "if", n.Condition, n.Then)
			return
		}
		parenthesize(b, "if", n.Condition, n.Then, n.Else)
	case *WhileLoop:
		parenthesize(b, "while", n.Condition, n.Body)
	case *InputStatement:
		parenthesize(b, "input "+n.Name.Name)
	default:
		fmt.Fprintf(b, "<%s>", node.NodeType())
	}
}

func parenthesize(b *strings.Builder, name string, nodes ...Node) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, node := range nodes {
		b.WriteByte(' ')
		write(b, node)
	}
	b.WriteByte(')')
}

func exprNodes(exprs []Expression) []Node {
	out := make([]Node, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, e)
	}
	return out
}
