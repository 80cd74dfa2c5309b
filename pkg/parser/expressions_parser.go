package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
)

// maxArguments bounds call argument lists.
const maxArguments = 255

func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

// assignment is right-associative: the value side recurses into assignment.
// A bad target is recorded but does not trigger synchronisation, since the
// tokens around it were consumed cleanly.
func (p *Parser) assignment() (ast.Expression, error) {
	expr, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if !p.match(lexer.Equal) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if target, ok := expr.(*ast.Identifier); ok {
		return ast.NewAssignmentExpression(target, value), nil
	}
	p.record(&ParseError{Kind: InvalidAssignmentTarget, Token: equals, Message: "Invalid assignment target."})
	return expr, nil
}

func (p *Parser) conditional() (ast.Expression, error) {
	cond, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.match(lexer.Question) {
		return cond, nil
	}
	question := p.previous()
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.Colon, "Expect ':' after then branch of conditional expression."); err != nil {
		return nil, err
	}
	els, err := p.conditional()
	if err != nil {
		return nil, err
	}
	return ast.NewConditionalExpression(cond, then, els, question.Line), nil
}

func (p *Parser) or() (ast.Expression, error) {
	return p.logical(p.and, lexer.Or)
}

func (p *Parser) and() (ast.Expression, error) {
	return p.logical(p.equality, lexer.And)
}

func (p *Parser) equality() (ast.Expression, error) {
	return p.binary(p.comparison, lexer.BangEqual, lexer.EqualEqual)
}

func (p *Parser) comparison() (ast.Expression, error) {
	return p.binary(p.term, lexer.Greater, lexer.GreaterEqual, lexer.Less, lexer.LessEqual)
}

func (p *Parser) term() (ast.Expression, error) {
	return p.binary(p.factor, lexer.Minus, lexer.Plus)
}

func (p *Parser) factor() (ast.Expression, error) {
	return p.binary(p.unary, lexer.Slash, lexer.Star)
}

// binary parses a left-associative chain of operands separated by any of ops.
func (p *Parser) binary(operand func() (ast.Expression, error), ops ...lexer.Kind) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(op, expr, right)
	}
	return expr, nil
}

func (p *Parser) logical(operand func() (ast.Expression, error), op lexer.Kind) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(op) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogicalExpression(operator, expr, right)
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(lexer.Bang, lexer.Minus) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(op, operand), nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.LeftParen) {
		expr, err = p.finishCall(expr)
		if err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	args := make([]ast.Expression, 0)
	if !p.check(lexer.RightParen) {
		for {
			if len(args) >= maxArguments {
				p.record(syntaxError(p.peek(), "Can't have more than 255 arguments."))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	paren, err := p.consume(lexer.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return ast.NewCallExpression(callee, paren, args), nil
}

func (p *Parser) primary() (ast.Expression, error) {
	tok := p.peek()
	switch {
	case p.match(lexer.False):
		return ast.NewBooleanLiteral(false, tok.Line), nil
	case p.match(lexer.True):
		return ast.NewBooleanLiteral(true, tok.Line), nil
	case p.match(lexer.Nil):
		return ast.NewNilLiteral(tok.Line), nil
	case p.match(lexer.Number):
		value, _ := tok.Literal.(float64)
		return ast.NewNumberLiteral(value, tok.Line), nil
	case p.match(lexer.String):
		value, _ := tok.Literal.(string)
		return ast.NewStringLiteral(value, tok.Line), nil
	case p.match(lexer.Identifier):
		return ast.NewIdentifier(tok), nil
	case p.match(lexer.LeftParen):
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.NewGroupingExpression(inner, tok.Line), nil
	default:
		return nil, syntaxError(tok, "Expect expression.")
	}
}
