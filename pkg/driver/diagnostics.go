package driver

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"

	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/parser"
)

// Phase names the pipeline stage a diagnostic came from.
type Phase string

const (
	PhaseLex     Phase = "lex"
	PhaseParse   Phase = "parse"
	PhaseRuntime Phase = "runtime"
)

// Diagnostic is a single reportable problem with its source line.
// Context, when set, is the source text the problem was found on.
type Diagnostic struct {
	Phase   Phase  `json:"phase"`
	Line    int    `json:"line"`
	Where   string `json:"where,omitempty"`
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Diagnostics flattens err (a single error or a *multierror.Error) into
// diagnostics tagged with phase.
func Diagnostics(phase Phase, err error) []Diagnostic {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]Diagnostic, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			out = append(out, diagnosticFor(phase, e))
		}
		return out
	}
	return []Diagnostic{diagnosticFor(phase, err)}
}

func diagnosticFor(phase Phase, err error) Diagnostic {
	var (
		lexErr   *lexer.LexError
		parseErr *parser.ParseError
		runErr   *interpreter.RuntimeError
	)
	switch {
	case errors.As(err, &lexErr):
		return lexDiagnostic(phase, lexErr)
	case errors.As(err, &parseErr):
		return Diagnostic{Phase: phase, Line: parseErr.Line(), Where: parseErr.Where(), Message: parseErr.Message}
	case errors.As(err, &runErr):
		return RuntimeDiagnostic(runErr)
	default:
		return Diagnostic{Phase: phase, Message: err.Error()}
	}
}

func lexDiagnostic(phase Phase, err *lexer.LexError) Diagnostic {
	d := Diagnostic{Phase: phase, Line: err.Line, Message: err.Message, Context: err.Context}
	if err.Lexeme != "" {
		d.Where = fmt.Sprintf(" at '%s'", err.Lexeme)
	}
	return d
}

// RuntimeDiagnostic converts an evaluator error.
func RuntimeDiagnostic(err *interpreter.RuntimeError) Diagnostic {
	return Diagnostic{Phase: PhaseRuntime, Line: err.Line(), Message: err.Message}
}

// Printer writes diagnostics, optionally coloured.
type Printer struct {
	w       io.Writer
	errorC  *color.Color
	context *color.Color
}

// NewPrinter returns a printer writing to w. Colour is used exactly when
// enabled is true, whatever w is.
func NewPrinter(w io.Writer, enabled bool) *Printer {
	p := &Printer{
		w:       w,
		errorC:  color.New(color.FgRed, color.Bold),
		context: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.errorC, p.context} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Print writes one line per diagnostic, followed by its source context
// indented on the next line when there is one.
func (p *Printer) Print(diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(p.w, "%s %s: %s\n",
			p.context.Sprintf("[line %d]", d.Line),
			p.errorC.Sprintf("Error%s", d.Where),
			d.Message)
		if d.Context != "" {
			fmt.Fprintf(p.w, "    %s\n", p.context.Sprint(d.Context))
		}
	}
}
