package interpreter

import (
	"errors"
	"fmt"

	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/runtime"
)

// ErrorKind classifies runtime failures.
type ErrorKind int

const (
	UndefinedVariable ErrorKind = iota
	OperandTypeError
	DivisionByZero
	ConditionTypeError
	ArityError
	NativeError
	Cancelled
)

func (k ErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "UndefinedVariable"
	case OperandTypeError:
		return "OperandTypeError"
	case DivisionByZero:
		return "DivisionByZero"
	case ConditionTypeError:
		return "ConditionTypeError"
	case ArityError:
		return "ArityError"
	case NativeError:
		return "NativeError"
	case Cancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("unknown_error_kind_%d", int(k))
	}
}

// RuntimeError carries the token evaluation stopped at.
type RuntimeError struct {
	Kind    ErrorKind
	Token   lexer.Token
	Message string
	cause   error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Token.Line, e.Message)
}

// Line is the source line of the offending token.
func (e *RuntimeError) Line() int {
	return e.Token.Line
}

func (e *RuntimeError) Unwrap() error {
	return e.cause
}

func runtimeError(kind ErrorKind, tok lexer.Token, message string) *RuntimeError {
	return &RuntimeError{Kind: kind, Token: tok, Message: message}
}

// undefined converts an environment lookup failure into a RuntimeError
// positioned at the identifier.
func undefined(err error, tok lexer.Token) error {
	var undef *runtime.UndefinedVariableError
	if errors.As(err, &undef) {
		return &RuntimeError{Kind: UndefinedVariable, Token: tok, Message: undef.Error(), cause: err}
	}
	return err
}

// keyword builds a token for statements whose AST node keeps only a line.
func keyword(kind lexer.Kind, lexeme string, line int) lexer.Token {
	return lexer.Token{Kind: kind, Lexeme: lexeme, Line: line}
}
