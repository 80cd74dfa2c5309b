package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"lox/interpreter-go/pkg/driver"
)

const continuationPrompt = "... "

// lineReader is the part of liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// readStatement keeps prompting while the buffered source is only missing
// its tail. ok is false once the input is exhausted.
func readStatement(lr lineReader, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := lr.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops whatever was buffered.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		if strings.TrimSpace(src) != "" && driver.Incomplete(src) {
			continue
		}
		return src, true
	}
}

// replLoop evaluates statements against one session until EOF or :quit.
// history is called with each source that was run.
func (env *cliEnv) replLoop(ctx context.Context, lr lineReader, history func(string)) {
	session := driver.NewSession(env.runOptions())
	for {
		src, ok := readStatement(lr, env.cfg.REPL.Prompt, continuationPrompt)
		if !ok {
			fmt.Fprintln(env.stdout)
			return
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return
			case ":env":
				for _, b := range session.Bindings() {
					fmt.Fprintf(env.stdout, "%s = %s\n", b.Name, b.Value)
				}
			default:
				fmt.Fprintln(env.stdout, "unknown command. Type :env to list globals or :quit to exit.")
			}
			continue
		}
		res := session.Run(ctx, src)
		env.report(res.Diagnostics)
		if history != nil {
			history(strings.ReplaceAll(src, "\n", " "))
		}
	}
}

func (env *cliEnv) repl(c *cli.Context) error {
	if c.NArg() > 0 {
		return cli.Exit("repl takes no arguments", 64)
	}
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := env.cfg.REPL.History
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			} else {
				env.logger.Debug("history not saved", "path", histPath, "error", err)
			}
		}()
	}

	env.replLoop(contextOf(c), ln, ln.AppendHistory)
	return nil
}
