package interpreter

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"lox/interpreter-go/pkg/lexer"
	"lox/interpreter-go/pkg/parser"
)

var fixedNow = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

type runResult struct {
	out      string
	reported []*RuntimeError
	err      error
}

// newTestInterpreter captures output and reported errors.
func newTestInterpreter(input string) (*Interpreter, *bytes.Buffer, *[]*RuntimeError) {
	var out bytes.Buffer
	reported := make([]*RuntimeError, 0)
	interp := New(Options{
		Out:      &out,
		In:       strings.NewReader(input),
		Reporter: func(err *RuntimeError) { reported = append(reported, err) },
		Now:      func() time.Time { return fixedNow },
	})
	return interp, &out, &reported
}

func runSource(t *testing.T, src string, input string) runResult {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	stmts, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	interp, out, reported := newTestInterpreter(input)
	execErr := interp.Execute(context.Background(), stmts)
	return runResult{out: out.String(), reported: *reported, err: execErr}
}

func expectKinds(t *testing.T, res runResult, kinds ...ErrorKind) {
	t.Helper()
	if len(res.reported) != len(kinds) {
		t.Fatalf("expected %d runtime errors, got %d: %v", len(kinds), len(res.reported), res.reported)
	}
	for idx, kind := range kinds {
		if res.reported[idx].Kind != kind {
			t.Fatalf("error %d: expected %s, got %s (%s)", idx, kind, res.reported[idx].Kind, res.reported[idx].Message)
		}
	}
	if len(kinds) == 0 && res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if len(kinds) > 0 && res.err == nil {
		t.Fatalf("expected Execute to return the runtime errors")
	}
}
