package interpreter

import (
	"fmt"
	"strconv"

	"lox/interpreter-go/pkg/runtime"
)

// Stringify renders a value the way print shows it. Numbers use the
// shortest decimal form, so 7 prints as "7" and 2.5 as "2.5".
func Stringify(val runtime.Value) string {
	switch v := val.(type) {
	case runtime.NumberValue:
		return strconv.FormatFloat(v.Val, 'f', -1, 64)
	case runtime.StringValue:
		return v.Val
	case runtime.BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case runtime.NilValue:
		return "nil"
	case runtime.NativeFunctionValue:
		return v.String()
	default:
		if val == nil {
			return "nil"
		}
		return fmt.Sprintf("[%s]", val.Kind())
	}
}

// isTruthy treats only false and nil as falsy.
func isTruthy(val runtime.Value) bool {
	switch v := val.(type) {
	case runtime.BoolValue:
		return v.Val
	case runtime.NilValue, nil:
		return false
	default:
		return true
	}
}

// valuesEqual compares by value within a kind; values of different kinds
// are never equal.
func valuesEqual(left, right runtime.Value) bool {
	switch l := left.(type) {
	case runtime.NumberValue:
		r, ok := right.(runtime.NumberValue)
		return ok && l.Val == r.Val
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		return ok && l.Val == r.Val
	case runtime.BoolValue:
		r, ok := right.(runtime.BoolValue)
		return ok && l.Val == r.Val
	case runtime.NilValue:
		_, ok := right.(runtime.NilValue)
		return ok
	case runtime.NativeFunctionValue:
		r, ok := right.(runtime.NativeFunctionValue)
		return ok && l.Name == r.Name
	default:
		return false
	}
}
