package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) executeStatement(ctx context.Context, node ast.Statement) error {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(n.Expression)
		return err
	case *ast.PrintStatement:
		return i.executePrint(n)
	case *ast.VarDeclaration:
		return i.executeVarDeclaration(n)
	case *ast.BlockStatement:
		return i.executeBlock(ctx, n)
	case *ast.IfStatement:
		return i.executeIf(ctx, n)
	case *ast.WhileLoop:
		return i.executeWhile(ctx, n)
	case *ast.InputStatement:
		return i.executeInput(n)
	default:
		return fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

func (i *Interpreter) executePrint(stmt *ast.PrintStatement) error {
	val, err := i.evaluateExpression(stmt.Expression)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(i.out, Stringify(val)); err != nil {
		return &RuntimeError{
			Kind:    NativeError,
			Token:   keyword(lexer.Print, "print", stmt.Span().Line),
			Message: fmt.Sprintf("Failed to write output: %v.", err),
			cause:   err,
		}
	}
	return nil
}

func (i *Interpreter) executeVarDeclaration(stmt *ast.VarDeclaration) error {
	var val runtime.Value = runtime.Nil
	if stmt.Initializer != nil {
		v, err := i.evaluateExpression(stmt.Initializer)
		if err != nil {
			return err
		}
		val = v
	}
	i.env.Define(stmt.Name.Name, val)
	return nil
}

// executeBlock runs the body in a child scope; the parent scope is
// restored on every exit path.
func (i *Interpreter) executeBlock(ctx context.Context, block *ast.BlockStatement) error {
	defer i.env.Restore(i.env.Push())
	for _, stmt := range block.Body {
		if err := i.executeStatement(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeIf(ctx context.Context, stmt *ast.IfStatement) error {
	cond, err := i.condition(stmt.Condition, keyword(lexer.If, "if", stmt.Span().Line))
	if err != nil {
		return err
	}
	if cond {
		return i.executeStatement(ctx, stmt.Then)
	}
	if stmt.Else != nil {
		return i.executeStatement(ctx, stmt.Else)
	}
	return nil
}

func (i *Interpreter) executeWhile(ctx context.Context, loop *ast.WhileLoop) error {
	tok := keyword(lexer.While, "while", loop.Span().Line)
	for {
		if err := ctx.Err(); err != nil {
			return &RuntimeError{Kind: Cancelled, Token: tok, Message: "Execution cancelled.", cause: err}
		}
		cond, err := i.condition(loop.Condition, tok)
		if err != nil {
			return err
		}
		if !cond {
			return nil
		}
		if err := i.executeStatement(ctx, loop.Body); err != nil {
			return err
		}
	}
}

// condition evaluates a guard, which must produce a Boolean.
func (i *Interpreter) condition(expr ast.Expression, tok lexer.Token) (bool, error) {
	val, err := i.evaluateExpression(expr)
	if err != nil {
		return false, err
	}
	b, ok := val.(runtime.BoolValue)
	if !ok {
		return false, runtimeError(ConditionTypeError, tok,
			fmt.Sprintf("Condition must be a boolean, got %s.", val.Kind()))
	}
	return b.Val, nil
}

// executeInput reads one line and stores it in an existing variable. A
// line that parses as a finite number becomes a Number; anything else is
// kept as text. End of input stores nil.
func (i *Interpreter) executeInput(stmt *ast.InputStatement) error {
	tok := keyword(lexer.Identifier, stmt.Name.Name, stmt.Span().Line)
	// The target must exist before any input is consumed.
	if _, err := i.env.Get(stmt.Name.Name); err != nil {
		return undefined(err, tok)
	}
	line, err := i.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return &RuntimeError{Kind: NativeError, Token: tok, Message: "Failed to read input.", cause: err}
	}
	var val runtime.Value = runtime.Nil
	if err == nil || line != "" {
		val = parseInput(strings.TrimRight(line, "\r\n"))
	}
	if err := i.env.Assign(stmt.Name.Name, val); err != nil {
		return undefined(err, tok)
	}
	return nil
}

func parseInput(text string) runtime.Value {
	if n, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return runtime.NumberValue{Val: n}
	}
	return runtime.StringValue{Val: text}
}
