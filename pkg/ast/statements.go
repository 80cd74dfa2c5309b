package ast

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement, expr.Span().Line), Expression: expr}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewPrintStatement(expr Expression, line int) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement, line), Expression: expr}
}

// VarDeclaration binds Name in the current scope; Initializer may be nil.
type VarDeclaration struct {
	nodeImpl
	statementMarker

	Name        *Identifier `json:"name"`
	Initializer Expression  `json:"initializer,omitempty"`
}

func NewVarDeclaration(name *Identifier, initializer Expression) *VarDeclaration {
	return &VarDeclaration{nodeImpl: newNodeImpl(NodeVarDeclaration, name.Span().Line), Name: name, Initializer: initializer}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockStatement(body []Statement, line int) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement, line), Body: body}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(cond Expression, then, els Statement, line int) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement, line), Condition: cond, Then: then, Else: els}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileLoop(cond Expression, body Statement, line int) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop, line), Condition: cond, Body: body}
}

// InputStatement reads a line from the host into an existing variable.
type InputStatement struct {
	nodeImpl
	statementMarker

	Name *Identifier `json:"name"`
}

func NewInputStatement(name *Identifier) *InputStatement {
	return &InputStatement{nodeImpl: newNodeImpl(NodeInputStatement, name.Span().Line), Name: name}
}
