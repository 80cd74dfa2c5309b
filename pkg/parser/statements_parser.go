package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
)

// declaration is any statement; a var declaration may also stand alone as an
// if branch or loop body, where it binds in the enclosing scope.
func (p *Parser) declaration() (ast.Statement, error) {
	if p.match(lexer.Var) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) varDeclaration() (ast.Statement, error) {
	name, err := p.consume(lexer.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expression
	if p.match(lexer.Equal) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return ast.NewVarDeclaration(ast.NewIdentifier(name), initializer), nil
}

func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.match(lexer.Print):
		return p.printStatement()
	case p.match(lexer.LeftBrace):
		return p.blockStatement()
	case p.match(lexer.If):
		return p.ifStatement()
	case p.match(lexer.While):
		return p.whileStatement()
	case p.checkContextual("input") && p.checkNext(lexer.LeftParen):
		p.advance()
		return p.inputStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (ast.Statement, error) {
	keyword := p.previous()
	if _, err := p.consume(lexer.LeftParen, "Expect '(' after 'print'."); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RightParen, "Expect ')' after expression."); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.Semicolon, "Expect ';' after print statement."); err != nil {
		return nil, err
	}
	return ast.NewPrintStatement(value, keyword.Line), nil
}

// blockStatement parses declarations up to the closing brace; the opening
// brace has already been consumed.
func (p *Parser) blockStatement() (ast.Statement, error) {
	open := p.previous()
	body := make([]ast.Statement, 0)
	for !p.check(lexer.RightBrace) && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if _, err := p.consume(lexer.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return ast.NewBlockStatement(body, open.Line), nil
}

func (p *Parser) ifStatement() (ast.Statement, error) {
	keyword := p.previous()
	cond, err := p.parenthesizedCondition("if")
	if err != nil {
		return nil, err
	}
	then, err := p.declaration()
	if err != nil {
		return nil, err
	}
	// The innermost open if takes the else.
	var els ast.Statement
	if p.match(lexer.Else) {
		els, err = p.declaration()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(cond, then, els, keyword.Line), nil
}

func (p *Parser) whileStatement() (ast.Statement, error) {
	keyword := p.previous()
	cond, err := p.parenthesizedCondition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.declaration()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileLoop(cond, body, keyword.Line), nil
}

func (p *Parser) parenthesizedCondition(keyword string) (ast.Expression, error) {
	if _, err := p.consume(lexer.LeftParen, "Expect '(' after '"+keyword+"'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RightParen, "Expect ')' after "+keyword+" condition."); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) inputStatement() (ast.Statement, error) {
	if _, err := p.consume(lexer.LeftParen, "Expect '(' after 'input'."); err != nil {
		return nil, err
	}
	name, err := p.consume(lexer.Identifier, "Expect variable name in input.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RightParen, "Expect ')' after variable name."); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.Semicolon, "Expect ';' after input statement."); err != nil {
		return nil, err
	}
	return ast.NewInputStatement(ast.NewIdentifier(name)), nil
}

func (p *Parser) expressionStatement() (ast.Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return ast.NewExpressionStatement(expr), nil
}
