package parser

import (
	"fmt"

	"lox/interpreter-go/pkg/lexer"
)

// ErrorKind separates plain grammar mismatches from assignments whose
// left-hand side is not a variable.
type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	InvalidAssignmentTarget
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case InvalidAssignmentTarget:
		return "InvalidAssignmentTarget"
	default:
		return fmt.Sprintf("unknown_error_kind_%d", int(k))
	}
}

// ParseError includes a message plus the token the parser stopped at.
type ParseError struct {
	Kind    ErrorKind
	Token   lexer.Token
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Token.Line, e.Where(), e.Message)
}

// Line is the source line of the offending token.
func (e *ParseError) Line() int {
	return e.Token.Line
}

// Where describes the offending token for diagnostics.
func (e *ParseError) Where() string {
	if e.Token.Kind == lexer.EOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", e.Token.Lexeme)
}

func syntaxError(tok lexer.Token, message string) *ParseError {
	return &ParseError{Kind: SyntaxError, Token: tok, Message: message}
}
