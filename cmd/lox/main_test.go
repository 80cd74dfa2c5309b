package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lox/interpreter-go/pkg/driver"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// runCLI invokes the binary entry point with an isolated config.
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := writeFile(t, dir, "lox.yml", "color: false\nrepl:\n  history: "+filepath.Join(dir, "history")+"\n")
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--config", cfg}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunCommand(t *testing.T) {
	script := writeFile(t, t.TempDir(), "ok.lox", "var a = \"lo\";\nprint(a + \"x\");\nprint(2 * 3);\n")
	code, out, errOut := runCLI(t, "", "run", script)
	assert.Equal(t, driver.ExitOK, code)
	assert.Equal(t, "lox\n6\n", out)
	assert.Empty(t, errOut)
}

func TestGlobalFlags(t *testing.T) {
	script := writeFile(t, t.TempDir(), "ok.lox", "print(1);")
	code, out, errOut := runCLI(t, "", "--verbose", "run", script)
	assert.Equal(t, driver.ExitOK, code)
	assert.Equal(t, "1\n", out)
	assert.Contains(t, errOut, "running script")

	code, out, _ = runCLI(t, "", "--version")
	assert.Equal(t, driver.ExitOK, code)
	assert.Contains(t, out, cliToolVersion)

	code, out, _ = runCLI(t, "", "-v")
	assert.Equal(t, driver.ExitOK, code)
	assert.Contains(t, out, cliToolVersion)
}

func TestBareFileArgumentRuns(t *testing.T) {
	script := writeFile(t, t.TempDir(), "ok.lox", "print(true ? 1 : 2);")
	code, out, _ := runCLI(t, "", script)
	assert.Equal(t, driver.ExitOK, code)
	assert.Equal(t, "1\n", out)
}

func TestRunCommandSyntaxError(t *testing.T) {
	script := writeFile(t, t.TempDir(), "bad.lox", "print(1);\nprint 2;\n")
	code, out, errOut := runCLI(t, "", "run", script)
	assert.Equal(t, driver.ExitDataErr, code)
	assert.Empty(t, out)
	assert.Equal(t, "[line 2] Error at '2': Expect '(' after 'print'.\n", errOut)
}

func TestRunCommandRuntimeError(t *testing.T) {
	script := writeFile(t, t.TempDir(), "bad.lox", "print(1);\nprint(nope);\nprint(3);\n")
	code, out, errOut := runCLI(t, "", "run", script)
	assert.Equal(t, driver.ExitSoftware, code)
	assert.Equal(t, "1\n3\n", out)
	assert.Equal(t, "[line 2] Error: Undefined variable 'nope'.\n", errOut)
}

func TestRunCommandReadsInput(t *testing.T) {
	script := writeFile(t, t.TempDir(), "in.lox", "var n; input(n); print(n + 1);")
	code, out, _ := runCLI(t, "41\n", "run", script)
	assert.Equal(t, driver.ExitOK, code)
	assert.Equal(t, "42\n", out)
}

func TestRunCommandMissingFile(t *testing.T) {
	code, _, errOut := runCLI(t, "", "run", filepath.Join(t.TempDir(), "missing.lox"))
	assert.Equal(t, 66, code)
	assert.Contains(t, errOut, "missing.lox")
}

func TestRunCommandArgumentCount(t *testing.T) {
	code, _, errOut := runCLI(t, "", "run", "a.lox", "b.lox")
	assert.Equal(t, 64, code)
	assert.Contains(t, errOut, "expected exactly one script path")
}

func TestTokensCommand(t *testing.T) {
	script := writeFile(t, t.TempDir(), "t.lox", "print(1);")
	code, out, _ := runCLI(t, "", "tokens", script)
	assert.Equal(t, driver.ExitOK, code)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "PRINT print null", lines[0])
	assert.Equal(t, "NUMBER 1 1", lines[2])
	assert.Equal(t, "EOF  null", lines[5])
}

func TestTokensCommandLexError(t *testing.T) {
	script := writeFile(t, t.TempDir(), "t.lox", "print(1);\n@")
	code, out, errOut := runCLI(t, "", "tokens", script)
	assert.Equal(t, driver.ExitDataErr, code)
	assert.Contains(t, out, "PRINT print null")
	assert.Contains(t, errOut, "[line 2]")
	assert.Contains(t, errOut, "Unexpected character")
}

func TestASTCommand(t *testing.T) {
	script := writeFile(t, t.TempDir(), "a.lox", "var a = 1 + 2;\nprint(a);")
	code, out, _ := runCLI(t, "", "ast", script)
	assert.Equal(t, driver.ExitOK, code)
	assert.Equal(t, "(var a (+ 1 2))\n(print a)\n", out)

	code, out, _ = runCLI(t, "", "ast", "--json", script)
	assert.Equal(t, driver.ExitOK, code)
	assert.Contains(t, out, `"type": "VarDeclaration"`)
	assert.Contains(t, out, `"type": "PrintStatement"`)
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "lox.yml", "colour: true\n")
	script := writeFile(t, dir, "ok.lox", "print(1);")
	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", cfg, "run", script}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "failed to load config")
	assert.Empty(t, stdout.String())
}

func TestConfigRestrictsNatives(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "lox.yml", "color: false\nnatives: []\n")
	script := writeFile(t, dir, "clock.lox", "print(clock());")
	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", cfg, script}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, driver.ExitSoftware, code)
	assert.Contains(t, stderr.String(), "Undefined variable 'clock'.")
}

type scriptedReader struct {
	lines   []string
	errs    map[int]error
	prompts []string
}

func (r *scriptedReader) Prompt(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	n := len(r.prompts) - 1
	if err, ok := r.errs[n]; ok {
		return "", err
	}
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func newTestEnv() (*cliEnv, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &cliEnv{
		stdin:  strings.NewReader(""),
		stdout: &stdout,
		stderr: &stderr,
		cfg:    driver.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return env, &stdout, &stderr
}

func TestReplLoopKeepsStateAcrossLines(t *testing.T) {
	env, stdout, stderr := newTestEnv()
	lr := &scriptedReader{lines: []string{
		"var a = 1;",
		"{",
		"  print(a);",
		"}",
		"",
		"print(b);",
		":quit",
		"print(99);",
	}}
	var history []string
	env.replLoop(context.Background(), lr, func(src string) { history = append(history, src) })

	assert.Equal(t, "1\n", stdout.String())
	assert.Equal(t, "[line 1] Error: Undefined variable 'b'.\n", stderr.String())
	assert.Equal(t, []string{"var a = 1;", "{   print(a); }", "print(b);"}, history)
	assert.Equal(t, []string{"> ", "> ", "... ", "... ", "> ", "> ", "> "}, lr.prompts)
}

func TestReplLoopSyntaxErrorsAndCommands(t *testing.T) {
	env, stdout, stderr := newTestEnv()
	lr := &scriptedReader{lines: []string{"print 1;", ":help", "print(2);"}}
	env.replLoop(context.Background(), lr, nil)

	assert.Equal(t, "unknown command. Type :env to list globals or :quit to exit.\n2\n\n", stdout.String())
	assert.Equal(t, "[line 1] Error at '1': Expect '(' after 'print'.\n", stderr.String())
}

func TestReplLoopAbortDiscardsBuffer(t *testing.T) {
	env, stdout, _ := newTestEnv()
	// The second prompt (a continuation) is aborted with Ctrl+C.
	lr := &scriptedReader{
		lines: []string{"print(", "print(5);"},
		errs:  map[int]error{1: liner.ErrPromptAborted},
	}
	env.replLoop(context.Background(), lr, nil)
	assert.Equal(t, "5\n\n", stdout.String())
	assert.Equal(t, []string{"> ", "... ", "> ", "> "}, lr.prompts)
}

func TestReplLoopListsGlobals(t *testing.T) {
	env, stdout, _ := newTestEnv()
	lr := &scriptedReader{lines: []string{"var x = 1 + 1;", ":env"}}
	env.replLoop(context.Background(), lr, nil)
	assert.Equal(t, "clock = <native fn clock>\nx = 2\n\n", stdout.String())
}
