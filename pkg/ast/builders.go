package ast

import "lox/interpreter-go/pkg/lexer"

// Short constructors for hand-built trees. Nodes built here sit on line 1.

var operatorKinds = map[string]lexer.Kind{
	"-":   lexer.Minus,
	"+":   lexer.Plus,
	"*":   lexer.Star,
	"/":   lexer.Slash,
	"!":   lexer.Bang,
	"!=":  lexer.BangEqual,
	"==":  lexer.EqualEqual,
	">":   lexer.Greater,
	">=":  lexer.GreaterEqual,
	"<":   lexer.Less,
	"<=":  lexer.LessEqual,
	"and": lexer.And,
	"or":  lexer.Or,
}

// Op builds an operator token for lexeme.
func Op(lexeme string) lexer.Token {
	kind, ok := operatorKinds[lexeme]
	if !ok {
		panic("ast: unknown operator " + lexeme)
	}
	return lexer.Token{Kind: kind, Lexeme: lexeme, Line: 1}
}

func ID(name string) *Identifier {
	return NewIdentifier(lexer.Token{Kind: lexer.Identifier, Lexeme: name, Line: 1})
}

func Num(v float64) *NumberLiteral  { return NewNumberLiteral(v, 1) }
func Str(v string) *StringLiteral   { return NewStringLiteral(v, 1) }
func Bool(v bool) *BooleanLiteral   { return NewBooleanLiteral(v, 1) }
func Nil() *NilLiteral              { return NewNilLiteral(1) }
func Group(e Expression) Expression { return NewGroupingExpression(e, 1) }

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(ID(name), value)
}

func Un(op string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(Op(op), operand)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(Op(op), left, right)
}

func Logic(op string, left, right Expression) *LogicalExpression {
	return NewLogicalExpression(Op(op), left, right)
}

func Cond(cond, then, els Expression) *ConditionalExpression {
	return NewConditionalExpression(cond, then, els, 1)
}

func Call(callee Expression, args ...Expression) *CallExpression {
	paren := lexer.Token{Kind: lexer.RightParen, Lexeme: ")", Line: 1}
	return NewCallExpression(callee, paren, args)
}

func Expr(e Expression) *ExpressionStatement { return NewExpressionStatement(e) }
func Print(e Expression) *PrintStatement     { return NewPrintStatement(e, 1) }

func Var(name string, init Expression) *VarDeclaration {
	return NewVarDeclaration(ID(name), init)
}

func Block(body ...Statement) *BlockStatement { return NewBlockStatement(body, 1) }

func If(cond Expression, then, els Statement) *IfStatement {
	return NewIfStatement(cond, then, els, 1)
}

func While(cond Expression, body Statement) *WhileLoop { return NewWhileLoop(cond, body, 1) }

func Input(name string) *InputStatement { return NewInputStatement(ID(name)) }
