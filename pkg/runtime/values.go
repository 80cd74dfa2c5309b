package runtime

import (
	"fmt"
	"time"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindNil
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNil:
		return "nil"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values. Every variant is a
// plain value type, so copying a binding copies the value.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

// Nil is the shared nil value.
var Nil Value = NilValue{}

//-----------------------------------------------------------------------------
// Native functions
//-----------------------------------------------------------------------------

// NativeCallContext provides hooks for native functions.
type NativeCallContext struct {
	Now func() time.Time
}

// Clock returns the context's time source, defaulting to time.Now.
func (c *NativeCallContext) Clock() time.Time {
	if c == nil || c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// Callable is implemented by every value the evaluator can invoke.
type Callable interface {
	Value
	Arity() int
	Call(ctx *NativeCallContext, args []Value) (Value, error)
}

type NativeFunctionValue struct {
	Name   string
	Params int
	Impl   NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

func (v NativeFunctionValue) Arity() int { return v.Params }

func (v NativeFunctionValue) Call(ctx *NativeCallContext, args []Value) (Value, error) {
	if v.Impl == nil {
		return nil, fmt.Errorf("native function %s has no implementation", v.Name)
	}
	return v.Impl(ctx, args)
}

func (v NativeFunctionValue) String() string {
	return fmt.Sprintf("<native fn %s>", v.Name)
}
