package ast

import "lox/interpreter-go/pkg/lexer"

type NodeType string

const (
	NodeIdentifier            NodeType = "Identifier"
	NodeNumberLiteral         NodeType = "NumberLiteral"
	NodeStringLiteral         NodeType = "StringLiteral"
	NodeBooleanLiteral        NodeType = "BooleanLiteral"
	NodeNilLiteral            NodeType = "NilLiteral"
	NodeAssignmentExpression  NodeType = "AssignmentExpression"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeLogicalExpression     NodeType = "LogicalExpression"
	NodeGroupingExpression    NodeType = "GroupingExpression"
	NodeConditionalExpression NodeType = "ConditionalExpression"
	NodeCallExpression        NodeType = "CallExpression"
	NodeExpressionStatement   NodeType = "ExpressionStatement"
	NodePrintStatement        NodeType = "PrintStatement"
	NodeVarDeclaration        NodeType = "VarDeclaration"
	NodeBlockStatement        NodeType = "BlockStatement"
	NodeIfStatement           NodeType = "IfStatement"
	NodeWhileLoop             NodeType = "WhileLoop"
	NodeInputStatement        NodeType = "InputStatement"
)

// Span records where a node starts in the source.
type Span struct {
	Line int `json:"line"`
}

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Pos  Span     `json:"span"`
}

func newNodeImpl(kind NodeType, line int) nodeImpl {
	return nodeImpl{Type: kind, Pos: Span{Line: line}}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.Pos }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Identifier is a variable reference.

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name lexer.Token) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier, name.Line), Name: name.Lexeme}
}

// Literals

type NumberLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value float64 `json:"value"`
}

func NewNumberLiteral(value float64, line int) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral, line), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string, line int) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral, line), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool, line int) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral, line), Value: value}
}

type NilLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewNilLiteral(line int) *NilLiteral {
	return &NilLiteral{nodeImpl: newNodeImpl(NodeNilLiteral, line)}
}

// Operators

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Name  *Identifier `json:"name"`
	Value Expression  `json:"value"`
}

func NewAssignmentExpression(name *Identifier, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression, name.Span().Line), Name: name, Value: value}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator lexer.Token `json:"operator"`
	Operand  Expression  `json:"operand"`
}

func NewUnaryExpression(operator lexer.Token, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression, operator.Line), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator lexer.Token `json:"operator"`
	Left     Expression  `json:"left"`
	Right    Expression  `json:"right"`
}

func NewBinaryExpression(operator lexer.Token, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression, operator.Line), Operator: operator, Left: left, Right: right}
}

// LogicalExpression is a short-circuiting `and` / `or`.
type LogicalExpression struct {
	nodeImpl
	expressionMarker

	Operator lexer.Token `json:"operator"`
	Left     Expression  `json:"left"`
	Right    Expression  `json:"right"`
}

func NewLogicalExpression(operator lexer.Token, left, right Expression) *LogicalExpression {
	return &LogicalExpression{nodeImpl: newNodeImpl(NodeLogicalExpression, operator.Line), Operator: operator, Left: left, Right: right}
}

type GroupingExpression struct {
	nodeImpl
	expressionMarker

	Inner Expression `json:"inner"`
}

func NewGroupingExpression(inner Expression, line int) *GroupingExpression {
	return &GroupingExpression{nodeImpl: newNodeImpl(NodeGroupingExpression, line), Inner: inner}
}

// ConditionalExpression is `cond ? then : else`.
type ConditionalExpression struct {
	nodeImpl
	expressionMarker

	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else"`
}

func NewConditionalExpression(cond, then, els Expression, line int) *ConditionalExpression {
	return &ConditionalExpression{nodeImpl: newNodeImpl(NodeConditionalExpression, line), Condition: cond, Then: then, Else: els}
}

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Paren     lexer.Token  `json:"paren"`
	Arguments []Expression `json:"arguments"`
}

func NewCallExpression(callee Expression, paren lexer.Token, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression, paren.Line), Callee: callee, Paren: paren, Arguments: args}
}
