package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"lox/interpreter-go/pkg/driver"
)

const cliToolVersion = "0.1.0-dev"

const (
	configFlagName  = "config"
	verboseFlagName = "verbose"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cliEnv carries the streams and the resolved config into every command.
type cliEnv struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cfg    *driver.Config
	logger *slog.Logger
	color  bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	env := &cliEnv{stdin: stdin, stdout: stdout, stderr: stderr}
	app := newApp(env)
	err := app.Run(append([]string{"lox"}, args...))
	if err == nil {
		return driver.ExitOK
	}
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintln(stderr, err)
	return 1
}

func newApp(env *cliEnv) *cli.App {
	return &cli.App{
		Name:      "lox",
		Usage:     "run, inspect and serve Lox scripts",
		UsageText: "lox [global options] <file>\n   lox [global options] command [command options] [arguments...]",
		Version:   cliToolVersion,
		Reader:    env.stdin,
		Writer:    env.stdout,
		ErrWriter: env.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlagName,
				Usage:   "path to lox.yml (default: $LOX_CONFIG, then the nearest lox.yml upwards)",
				EnvVars: []string{driver.ConfigEnvVar},
			},
			// -v stays with the built-in --version flag.
			&cli.BoolFlag{
				Name:  verboseFlagName,
				Usage: "log debug output to stderr",
			},
		},
		Before: env.setup,
		// Exit codes are returned from run, never via os.Exit inside the app.
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return env.repl(c)
			}
			return env.runFile(c)
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "execute a script",
				ArgsUsage: "<file>",
				Action:    env.runFile,
			},
			{
				Name:      "tokens",
				Usage:     "print the token stream of a script",
				ArgsUsage: "<file>",
				Action:    env.tokens,
			},
			{
				Name:      "ast",
				Usage:     "print the syntax tree of a script",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "emit JSON instead of S-expressions"},
				},
				Action: env.ast,
			},
			{
				Name:   "repl",
				Usage:  "start an interactive session",
				Action: env.repl,
			},
			{
				Name:  "serve",
				Usage: "serve POST /run over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address (overrides server.addr)"},
				},
				Action: env.serve,
			},
		},
	}
}

func (env *cliEnv) setup(c *cli.Context) error {
	level := slog.LevelWarn
	if c.Bool(verboseFlagName) {
		level = slog.LevelDebug
	}
	env.logger = slog.New(slog.NewTextHandler(env.stderr, &slog.HandlerOptions{Level: level}))

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := driver.ResolveConfig(c.String(configFlagName), cwd)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load config: %v", err), 1)
	}
	env.cfg = cfg
	env.color = cfg.Color && !color.NoColor
	if cfg.Path != "" {
		env.logger.Debug("config loaded", "path", cfg.Path)
	}
	return nil
}

func (env *cliEnv) runOptions() driver.RunOptions {
	return driver.RunOptions{
		Stdout:  env.stdout,
		Stdin:   env.stdin,
		Natives: env.cfg.Natives,
		Logger:  env.logger,
	}
}

func (env *cliEnv) report(diags []driver.Diagnostic) {
	driver.NewPrinter(env.stderr, env.color).Print(diags)
}
