package parser

import (
	"github.com/hashicorp/go-multierror"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
)

// Parser turns a token slice into statements by recursive descent. Each
// precedence level lives in its own method and calls the next tighter one.
type Parser struct {
	tokens  []lexer.Token
	current int
	errs    *multierror.Error
}

// New wraps tokens, which must end with an EOF token as produced by the lexer.
func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], lexer.Token{Kind: lexer.EOF, Line: line})
	}
	return &Parser{tokens: tokens}
}

// Parse parses a whole program. When any statement fails, every syntax
// error found after recovery is returned as a *multierror.Error of
// *ParseError values and the statement slice is nil.
func Parse(tokens []lexer.Token) ([]ast.Statement, error) {
	return New(tokens).ParseProgram()
}

// ParseProgram parses declarations until EOF, synchronising after each
// failed statement so later errors are reported too.
func (p *Parser) ParseProgram() ([]ast.Statement, error) {
	statements := make([]ast.Statement, 0)
	for !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.record(err)
			p.synchronize()
			continue
		}
		statements = append(statements, stmt)
	}
	if err := p.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return statements, nil
}

// synchronize discards tokens until a likely statement boundary: just past
// a semicolon or in front of a statement keyword.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Kind == lexer.Semicolon {
			return
		}
		switch p.peek().Kind {
		case lexer.Class, lexer.Fun, lexer.Var, lexer.For, lexer.If,
			lexer.While, lexer.Print, lexer.Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) record(err error) {
	p.errs = multierror.Append(p.errs, err)
}
