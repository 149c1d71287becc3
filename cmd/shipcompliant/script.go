package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dop251/goja"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-shipcompliant/host"
)

func newScriptCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "script <file.js>",
		Short: "Run a JavaScript file with the ShipCompliantV1 binding installed",
		Long: "Run a JavaScript file. The globals baseUrl, username and password hold the\n" +
			"resolved credentials and print writes a line to stdout. A non-undefined\n" +
			"completion value is printed as JSON.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd.Context(), *root, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runScript(ctx context.Context, root rootOptions, path string, stdout io.Writer, stderr io.Writer) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script %s: %w", path, err)
	}

	s, err := newSession(ctx, root, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	vm := goja.New()
	binding, err := host.Register(vm,
		host.WithContext(ctx),
		host.WithClientOptions(s.clientOptions()...),
	)
	if err != nil {
		return err
	}
	defer func() { _ = binding.Close() }()

	globals := map[string]any{
		"baseUrl":  s.settings.baseURL,
		"username": s.settings.username,
		"password": s.settings.password,
		"print": func(call goja.FunctionCall) goja.Value {
			parts := make([]string, 0, len(call.Arguments))
			for _, arg := range call.Arguments {
				parts = append(parts, arg.String())
			}
			_, _ = fmt.Fprintln(stdout, strings.Join(parts, " "))
			return goja.Undefined()
		},
	}
	for name, value := range globals {
		if err := vm.Set(name, value); err != nil {
			return fmt.Errorf("install %s: %w", name, err)
		}
	}

	value, err := vm.RunScript(path, string(source))
	if err != nil {
		return err
	}
	if value == nil || goja.IsUndefined(value) {
		return nil
	}
	return writeJSON(stdout, value.Export())
}
