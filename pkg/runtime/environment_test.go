package runtime

import (
	"errors"
	"testing"
)

func TestEnvironmentDefineGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", NumberValue{Val: 1})

	val, err := env.Get("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := val.(NumberValue); !ok || got.Val != 1 {
		t.Fatalf("unexpected value %#v", val)
	}

	env.Define("x", StringValue{Val: "again"})
	val, _ = env.Get("x")
	if got, ok := val.(StringValue); !ok || got.Val != "again" {
		t.Fatalf("redefinition should overwrite, got %#v", val)
	}
}

func TestEnvironmentUndefined(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get("missing")
	var undef *UndefinedVariableError
	if !errors.As(err, &undef) || undef.Name != "missing" {
		t.Fatalf("expected UndefinedVariableError, got %v", err)
	}
	if err.Error() != "Undefined variable 'missing'." {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if err := env.Assign("missing", Nil); err == nil {
		t.Fatalf("assign to an undeclared name should fail")
	}
	if _, err := env.Get("missing"); err == nil {
		t.Fatalf("failed assign must not create a binding")
	}
}

func TestEnvironmentShadowingAndRestore(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", NumberValue{Val: 1})

	prev := env.Push()
	if prev != GlobalScope {
		t.Fatalf("expected global as previous scope, got %d", prev)
	}
	env.Define("x", NumberValue{Val: 2})
	if val, _ := env.Get("x"); val.(NumberValue).Val != 2 {
		t.Fatalf("inner binding should shadow, got %#v", val)
	}
	env.Restore(prev)

	if val, _ := env.Get("x"); val.(NumberValue).Val != 1 {
		t.Fatalf("outer binding should be visible again, got %#v", val)
	}
	if env.Depth() != 1 || env.Current() != GlobalScope {
		t.Fatalf("expected only the global scope, depth=%d current=%d", env.Depth(), env.Current())
	}
}

func TestEnvironmentAssignWalksChain(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("count", NumberValue{Val: 0})

	outer := env.Push()
	inner := env.Push()
	if env.Parent(env.Current()) != inner {
		t.Fatalf("expected parent %d, got %d", inner, env.Parent(env.Current()))
	}
	if err := env.Assign("count", NumberValue{Val: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keys := env.Keys(); len(keys) != 0 {
		t.Fatalf("assign must not define in the current scope, got %v", keys)
	}
	env.Restore(outer)

	val, _ := env.Get("count")
	if val.(NumberValue).Val != 5 {
		t.Fatalf("expected updated global, got %#v", val)
	}
}

func TestEnvironmentRestoreReleasesNestedScopes(t *testing.T) {
	env := NewEnvironment(nil)
	prev := env.Push()
	env.Push()
	env.Push()
	env.Define("deep", BoolValue{Val: true})
	if env.Depth() != 4 {
		t.Fatalf("expected 4 scopes, got %d", env.Depth())
	}

	env.Restore(prev)
	if env.Depth() != 1 {
		t.Fatalf("expected nested scopes released, got depth %d", env.Depth())
	}
	if _, err := env.Get("deep"); err == nil {
		t.Fatalf("binding from a released scope should be gone")
	}
}

func TestEnvironmentKeysSorted(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("b", Nil)
	env.Define("a", Nil)
	env.Define("c", Nil)
	keys := env.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Fatalf("unexpected keys %v", keys)
	}
	snap := env.Snapshot()
	snap["d"] = Nil
	if len(env.Keys()) != 3 {
		t.Fatalf("snapshot must be a copy")
	}
}
