package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NilLiteral:
		return runtime.Nil, nil
	case *ast.GroupingExpression:
		return i.evaluateExpression(n.Inner)
	case *ast.Identifier:
		val, err := i.env.Get(n.Name)
		if err != nil {
			return nil, undefined(err, identToken(n))
		}
		return val, nil
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(n)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n)
	case *ast.LogicalExpression:
		return i.evaluateLogicalExpression(n)
	case *ast.ConditionalExpression:
		return i.evaluateConditionalExpression(n)
	case *ast.CallExpression:
		return i.evaluateCallExpression(n)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateAssignment(assign *ast.AssignmentExpression) (runtime.Value, error) {
	val, err := i.evaluateExpression(assign.Value)
	if err != nil {
		return nil, err
	}
	if err := i.env.Assign(assign.Name.Name, val); err != nil {
		return nil, undefined(err, identToken(assign.Name))
	}
	return val, nil
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case lexer.Minus:
		n, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtimeError(OperandTypeError, expr.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -n.Val}, nil
	case lexer.Bang:
		return runtime.BoolValue{Val: !isTruthy(operand)}, nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %s", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	op := expr.Operator
	switch op.Kind {
	case lexer.Plus:
		return add(op, left, right)
	case lexer.EqualEqual:
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case lexer.BangEqual:
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	}

	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, runtimeError(OperandTypeError, op, "Operands must be numbers.")
	}
	switch op.Kind {
	case lexer.Minus:
		return runtime.NumberValue{Val: l.Val - r.Val}, nil
	case lexer.Star:
		return runtime.NumberValue{Val: l.Val * r.Val}, nil
	case lexer.Slash:
		if r.Val == 0 {
			return nil, runtimeError(DivisionByZero, op, "Division by zero.")
		}
		return runtime.NumberValue{Val: l.Val / r.Val}, nil
	case lexer.Greater:
		return runtime.BoolValue{Val: l.Val > r.Val}, nil
	case lexer.GreaterEqual:
		return runtime.BoolValue{Val: l.Val >= r.Val}, nil
	case lexer.Less:
		return runtime.BoolValue{Val: l.Val < r.Val}, nil
	case lexer.LessEqual:
		return runtime.BoolValue{Val: l.Val <= r.Val}, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %s", op.Lexeme)
	}
}

// add sums numbers and concatenates text. Text paired with any other value
// concatenates the other operand's printed form.
func add(op lexer.Token, left, right runtime.Value) (runtime.Value, error) {
	ls, lstr := left.(runtime.StringValue)
	rs, rstr := right.(runtime.StringValue)
	switch {
	case lstr && rstr:
		return runtime.StringValue{Val: ls.Val + rs.Val}, nil
	case lstr:
		return runtime.StringValue{Val: ls.Val + Stringify(right)}, nil
	case rstr:
		return runtime.StringValue{Val: Stringify(left) + rs.Val}, nil
	}
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, runtimeError(OperandTypeError, op, "Operands must be two numbers or two strings.")
	}
	return runtime.NumberValue{Val: l.Val + r.Val}, nil
}

// evaluateLogicalExpression short-circuits and yields the truthiness of
// the deciding operand as a Boolean.
func (i *Interpreter) evaluateLogicalExpression(expr *ast.LogicalExpression) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	truthy := isTruthy(left)
	if expr.Operator.Kind == lexer.Or && truthy {
		return runtime.BoolValue{Val: true}, nil
	}
	if expr.Operator.Kind == lexer.And && !truthy {
		return runtime.BoolValue{Val: false}, nil
	}
	right, err := i.evaluateExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	return runtime.BoolValue{Val: isTruthy(right)}, nil
}

func (i *Interpreter) evaluateConditionalExpression(expr *ast.ConditionalExpression) (runtime.Value, error) {
	cond, err := i.condition(expr.Condition, keyword(lexer.Question, "?", expr.Span().Line))
	if err != nil {
		return nil, err
	}
	if cond {
		return i.evaluateExpression(expr.Then)
	}
	return i.evaluateExpression(expr.Else)
}

func (i *Interpreter) evaluateCallExpression(call *ast.CallExpression) (runtime.Value, error) {
	callee, err := i.evaluateExpression(call.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		arg, err := i.evaluateExpression(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, runtimeError(OperandTypeError, call.Paren, "Can only call functions.")
	}
	if fn.Arity() != len(args) {
		return nil, runtimeError(ArityError, call.Paren,
			fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}
	result, err := fn.Call(&runtime.NativeCallContext{Now: i.now}, args)
	if err != nil {
		return nil, &RuntimeError{Kind: NativeError, Token: call.Paren, Message: err.Error(), cause: err}
	}
	if result == nil {
		return runtime.Nil, nil
	}
	return result, nil
}

func identToken(id *ast.Identifier) lexer.Token {
	return keyword(lexer.Identifier, id.Name, id.Span().Line)
}
