package interpreter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/runtime"
)

// Reporter receives each runtime error as the statement it aborted unwinds.
type Reporter func(err *RuntimeError)

// Options configures an Interpreter. The zero value writes to stdout, reads
// from stdin, registers every native and reports errors on stderr.
type Options struct {
	Out      io.Writer
	In       io.Reader
	Natives  []string // allow-list; nil registers every native
	Reporter Reporter
	Logger   *slog.Logger
	Now      func() time.Time
}

// Interpreter evaluates statements against a single environment. It is
// not safe for concurrent use; build one per run.
type Interpreter struct {
	env      *runtime.Environment
	out      io.Writer
	in       *bufio.Reader
	reporter Reporter
	logger   *slog.Logger
	now      func() time.Time
}

// New returns an interpreter whose global scope holds the allowed natives.
func New(opts Options) *Interpreter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = func(err *RuntimeError) { fmt.Fprintln(os.Stderr, err) }
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	i := &Interpreter{
		env:      runtime.NewEnvironment(logger),
		out:      out,
		in:       bufio.NewReader(in),
		reporter: reporter,
		logger:   logger,
		now:      now,
	}
	i.defineNatives(opts.Natives)
	return i
}

// Environment returns the interpreter's environment.
func (i *Interpreter) Environment() *runtime.Environment {
	return i.env
}

// Execute runs statements in order. A runtime error aborts only the
// top-level statement it was raised in; it is reported and execution moves
// on. Cancellation of ctx stops the run. All errors are returned as a
// *multierror.Error of *RuntimeError values.
func (i *Interpreter) Execute(ctx context.Context, statements []ast.Statement) error {
	var errs *multierror.Error
	for _, stmt := range statements {
		if err := ctx.Err(); err != nil {
			rerr := &RuntimeError{
				Kind:    Cancelled,
				Token:   lexer.Token{Kind: lexer.EOF, Line: stmt.Span().Line},
				Message: "Execution cancelled.",
				cause:   err,
			}
			i.report(rerr)
			errs = multierror.Append(errs, rerr)
			break
		}
		err := i.executeStatement(ctx, stmt)
		if err == nil {
			continue
		}
		var rerr *RuntimeError
		if !errors.As(err, &rerr) {
			rerr = &RuntimeError{Kind: NativeError, Token: lexer.Token{Line: stmt.Span().Line}, Message: err.Error(), cause: err}
		}
		i.report(rerr)
		errs = multierror.Append(errs, rerr)
		if rerr.Kind == Cancelled {
			break
		}
	}
	return errs.ErrorOrNil()
}

// Evaluate computes a single expression in the current scope.
func (i *Interpreter) Evaluate(expr ast.Expression) (runtime.Value, error) {
	return i.evaluateExpression(expr)
}

func (i *Interpreter) report(err *RuntimeError) {
	i.logger.LogAttrs(context.Background(), slog.LevelDebug, "runtime error",
		slog.String("kind", err.Kind.String()),
		slog.Int("line", err.Line()),
		slog.String("message", err.Message))
	i.reporter(err)
}
