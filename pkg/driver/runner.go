package driver

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/parser"
)

// Exit statuses follow sysexits: 65 for bad input, 70 for runtime failure.
const (
	ExitOK       = 0
	ExitDataErr  = 65
	ExitSoftware = 70
)

// RunOptions configures a Session.
type RunOptions struct {
	Stdout  io.Writer
	Stdin   io.Reader
	Natives []string
	Logger  *slog.Logger
	Now     func() time.Time
}

// Result summarises one pass through the pipeline.
type Result struct {
	Diagnostics []Diagnostic
	ExitCode    int
}

// OK reports whether the run produced no diagnostics.
func (r Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Session keeps one interpreter across several sources, so definitions
// made by one Run are visible to the next.
type Session struct {
	interp  *interpreter.Interpreter
	logger  *slog.Logger
	runtime []Diagnostic
}

// NewSession builds a session with a fresh global environment.
func NewSession(opts RunOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{logger: logger}
	s.interp = interpreter.New(interpreter.Options{
		Out:     opts.Stdout,
		In:      opts.Stdin,
		Natives: opts.Natives,
		Logger:  logger,
		Now:     opts.Now,
		Reporter: func(err *interpreter.RuntimeError) {
			s.runtime = append(s.runtime, RuntimeDiagnostic(err))
		},
	})
	return s
}

// Run lexes, parses and executes source. Lex errors stop the pipeline
// before parsing and parse errors stop it before execution.
func (s *Session) Run(ctx context.Context, source string) Result {
	stmts, diags := Parse(source)
	if len(diags) > 0 {
		return Result{Diagnostics: diags, ExitCode: ExitDataErr}
	}
	s.runtime = nil
	if err := s.interp.Execute(ctx, stmts); err != nil {
		s.logger.Debug("execution finished with errors", "count", len(s.runtime))
		return Result{Diagnostics: s.runtime, ExitCode: ExitSoftware}
	}
	return Result{ExitCode: ExitOK}
}

// Binding is a global variable rendered for display.
type Binding struct {
	Name  string
	Value string
}

// Bindings lists the session's global variables, natives included, in
// name order.
func (s *Session) Bindings() []Binding {
	env := s.interp.Environment()
	values := env.Snapshot()
	out := make([]Binding, 0, len(values))
	for _, name := range env.Keys() {
		out = append(out, Binding{Name: name, Value: interpreter.Stringify(values[name])})
	}
	return out
}

// Run executes source in a fresh session.
func Run(ctx context.Context, source string, opts RunOptions) Result {
	return NewSession(opts).Run(ctx, source)
}

// RunFile reads path and runs it in a fresh session.
func RunFile(ctx context.Context, path string, opts RunOptions) (Result, error) {
	source, err := ReadSource(path)
	if err != nil {
		return Result{}, err
	}
	return Run(ctx, source, opts), nil
}

// ReadSource loads a script from disk.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

// Tokens scans source, returning every token together with any lex
// diagnostics.
func Tokens(source string) ([]lexer.Token, []Diagnostic) {
	tokens, err := lexer.Tokenize(source)
	return tokens, Diagnostics(PhaseLex, err)
}

// Parse scans and parses source. The statements are nil whenever a
// diagnostic is returned.
func Parse(source string) ([]ast.Statement, []Diagnostic) {
	tokens, diags := Tokens(source)
	if len(diags) > 0 {
		return nil, diags
	}
	stmts, err := parser.Parse(tokens)
	if err != nil {
		return nil, Diagnostics(PhaseParse, err)
	}
	return stmts, nil
}

// Incomplete reports whether source fails only because it ends too early:
// an unterminated string, or parse errors all positioned at end of input.
// Interactive front ends use it to keep reading lines.
func Incomplete(source string) bool {
	tokens, diags := Tokens(source)
	if len(diags) > 0 {
		return len(diags) == 1 && diags[0].Message == lexer.UnterminatedString
	}
	_, err := parser.Parse(tokens)
	if err == nil {
		return false
	}
	for _, d := range Diagnostics(PhaseParse, err) {
		if d.Where != " at end" {
			return false
		}
	}
	return true
}
