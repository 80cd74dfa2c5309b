package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// ScopeID indexes a scope record in an Environment's arena.
type ScopeID int

// NoScope is the parent of the global scope.
const NoScope ScopeID = -1

// GlobalScope is always the first record.
const GlobalScope ScopeID = 0

// UndefinedVariableError is returned by Get and Assign when no scope in the
// chain binds the name.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'.", e.Name)
}

type scope struct {
	values map[string]Value
	parent ScopeID
}

// Environment provides lexical scoping for runtime values. Scopes live in
// an arena and are addressed by ScopeID; since scopes only nest with
// blocks, the arena behaves as a stack and Restore releases every record
// above the restored one.
type Environment struct {
	scopes  []scope
	current ScopeID
	logger  *slog.Logger
}

// NewEnvironment creates an environment holding only the global scope.
// A nil logger falls back to slog.Default.
func NewEnvironment(logger *slog.Logger) *Environment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Environment{
		scopes:  []scope{{values: make(map[string]Value), parent: NoScope}},
		current: GlobalScope,
		logger:  logger,
	}
}

// Current is the innermost active scope.
func (e *Environment) Current() ScopeID {
	return e.current
}

// Depth is the number of live scope records, including the global one.
func (e *Environment) Depth() int {
	return len(e.scopes)
}

// Parent exposes the lexical parent of id (NoScope for the global scope).
func (e *Environment) Parent(id ScopeID) ScopeID {
	if !e.live(id) {
		return NoScope
	}
	return e.scopes[id].parent
}

// Push opens a child of the current scope and makes it current. It returns
// the previously current scope so callers can `defer env.Restore(env.Push())`.
func (e *Environment) Push() ScopeID {
	prev := e.current
	e.scopes = append(e.scopes, scope{values: make(map[string]Value), parent: prev})
	e.current = ScopeID(len(e.scopes) - 1)
	e.logger.LogAttrs(context.Background(), slog.LevelDebug, "scope push",
		slog.Int("scope", int(e.current)), slog.Int("parent", int(prev)))
	return prev
}

// Restore makes prev current again and releases every record above it.
func (e *Environment) Restore(prev ScopeID) {
	if !e.live(prev) {
		prev = GlobalScope
	}
	released := len(e.scopes) - int(prev) - 1
	for idx := int(prev) + 1; idx < len(e.scopes); idx++ {
		e.scopes[idx] = scope{}
	}
	e.scopes = e.scopes[:prev+1]
	e.current = prev
	e.logger.LogAttrs(context.Background(), slog.LevelDebug, "scope pop",
		slog.Int("scope", int(prev)), slog.Int("released", released))
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.scopes[e.current].values[name] = value
}

// Assign updates an existing binding in the first scope where it appears.
func (e *Environment) Assign(name string, value Value) error {
	for id := e.current; id != NoScope; id = e.scopes[id].parent {
		if _, ok := e.scopes[id].values[name]; ok {
			e.scopes[id].values[name] = value
			return nil
		}
	}
	return &UndefinedVariableError{Name: name}
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for id := e.current; id != NoScope; id = e.scopes[id].parent {
		if v, ok := e.scopes[id].values[name]; ok {
			return v, nil
		}
	}
	return nil, &UndefinedVariableError{Name: name}
}

// Keys returns the current scope's bindings in sorted order.
func (e *Environment) Keys() []string {
	values := e.scopes[e.current].values
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the current scope's bindings.
func (e *Environment) Snapshot() map[string]Value {
	values := e.scopes[e.current].values
	out := make(map[string]Value, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

func (e *Environment) live(id ScopeID) bool {
	return id >= 0 && int(id) < len(e.scopes)
}
