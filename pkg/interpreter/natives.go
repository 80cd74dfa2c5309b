package interpreter

import (
	"context"
	"log/slog"
	"sort"

	"lox/interpreter-go/pkg/runtime"
)

// natives is the registry of host functions available to scripts.
var natives = map[string]runtime.NativeFunctionValue{
	"clock": {
		Name:   "clock",
		Params: 0,
		Impl: func(ctx *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue{Val: float64(ctx.Clock().UnixNano()) / 1e9}, nil
		},
	},
}

// NativeNames lists the registered natives in sorted order.
func NativeNames() []string {
	names := make([]string, 0, len(natives))
	for name := range natives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsNative reports whether name is a registered native.
func IsNative(name string) bool {
	_, ok := natives[name]
	return ok
}

func (i *Interpreter) defineNatives(allow []string) {
	names := allow
	if names == nil {
		names = NativeNames()
	}
	for _, name := range names {
		fn, ok := natives[name]
		if !ok {
			i.logger.LogAttrs(context.Background(), slog.LevelWarn, "unknown native skipped", slog.String("name", name))
			continue
		}
		i.env.Define(name, fn)
	}
}
