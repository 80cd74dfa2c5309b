package parser

import "lox/interpreter-go/pkg/lexer"

func (p *Parser) match(kinds ...lexer.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind lexer.Kind, message string) (lexer.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return lexer.Token{}, syntaxError(p.peek(), message)
}

func (p *Parser) check(kind lexer.Kind) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Kind == kind
}

// checkContextual reports whether the next token is the identifier word.
func (p *Parser) checkContextual(word string) bool {
	return p.check(lexer.Identifier) && p.peek().Lexeme == word
}

func (p *Parser) checkNext(kind lexer.Kind) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Kind == kind
}

func (p *Parser) advance() lexer.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == lexer.EOF
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}
