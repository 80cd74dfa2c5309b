package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/server"
)

// sourceArg reads the single script argument.
func sourceArg(c *cli.Context) (string, string, error) {
	if c.NArg() != 1 {
		return "", "", cli.Exit(fmt.Sprintf("expected exactly one script path, got %d arguments", c.NArg()), 64)
	}
	path := c.Args().First()
	source, err := driver.ReadSource(path)
	if err != nil {
		return "", "", cli.Exit(err.Error(), 66)
	}
	return path, source, nil
}

func (env *cliEnv) runFile(c *cli.Context) error {
	path, source, err := sourceArg(c)
	if err != nil {
		return err
	}
	env.logger.Debug("running script", "path", path)
	res := driver.Run(c.Context, source, env.runOptions())
	env.report(res.Diagnostics)
	if res.ExitCode != driver.ExitOK {
		return cli.Exit("", res.ExitCode)
	}
	return nil
}

func (env *cliEnv) tokens(c *cli.Context) error {
	_, source, err := sourceArg(c)
	if err != nil {
		return err
	}
	tokens, diags := driver.Tokens(source)
	for _, tok := range tokens {
		fmt.Fprintln(env.stdout, tok.String())
	}
	env.report(diags)
	if len(diags) > 0 {
		return cli.Exit("", driver.ExitDataErr)
	}
	return nil
}

func (env *cliEnv) ast(c *cli.Context) error {
	_, source, err := sourceArg(c)
	if err != nil {
		return err
	}
	stmts, diags := driver.Parse(source)
	if len(diags) > 0 {
		env.report(diags)
		return cli.Exit("", driver.ExitDataErr)
	}
	if !c.Bool("json") {
		fmt.Fprint(env.stdout, ast.SprintProgram(stmts))
		return nil
	}
	encoded, err := json.MarshalIndent(stmts, "", "  ")
	if err != nil {
		return cli.Exit(fmt.Sprintf("encode ast: %v", err), 1)
	}
	fmt.Fprintln(env.stdout, string(encoded))
	return nil
}

func (env *cliEnv) serve(c *cli.Context) error {
	cfg := env.cfg.Server
	if addr := c.String("addr"); addr != "" {
		cfg.Addr = addr
	}
	srv, err := server.New(server.Options{
		Config:  cfg,
		Natives: env.cfg.Natives,
		Logger:  env.logger,
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to start server: %v", err), 1)
	}
	ctx, stop := signal.NotifyContext(contextOf(c), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(env.stdout, "serving on %s\n", srv.Addr())
	if err := srv.ListenAndServe(ctx); err != nil {
		return cli.Exit(fmt.Sprintf("server: %v", err), 1)
	}
	return nil
}

func contextOf(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}
