package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-shipcompliant/api"
	"github.com/goliatone/go-shipcompliant/core"
)

type callOptions struct {
	key          string
	shipmentKeys []string
	inputPath    string
}

type operationRunner func(ctx context.Context, client *core.Client, opts callOptions, body any) (any, error)

func byKey(fn func(*core.Client, context.Context, string) (any, error)) operationRunner {
	return func(ctx context.Context, client *core.Client, opts callOptions, _ any) (any, error) {
		return fn(client, ctx, opts.key)
	}
}

func byBody(fn func(*core.Client, context.Context, any) (any, error)) operationRunner {
	return func(ctx context.Context, client *core.Client, _ callOptions, body any) (any, error) {
		return fn(client, ctx, body)
	}
}

var operationRunners = map[string]operationRunner{
	api.OperationGetSalesOrder: byKey((*core.Client).GetSalesOrder),
	api.OperationGetSalesOrderTracking: func(ctx context.Context, client *core.Client, opts callOptions, _ any) (any, error) {
		var keys any
		if len(opts.shipmentKeys) > 0 {
			keys = opts.shipmentKeys
		}
		return client.GetSalesOrderTracking(ctx, opts.key, keys)
	},
	api.OperationQuoteSalesTaxRate: byBody((*core.Client).QuoteSalesTaxRate),
	api.OperationQuoteSalesTax:     byBody((*core.Client).QuoteSalesTax),
	api.OperationCheckCompliance:   byBody((*core.Client).CheckCompliance),
	api.OperationCommitSalesOrder:  byBody((*core.Client).CommitSalesOrder),
	api.OperationPersistSalesOrder: byBody((*core.Client).PersistSalesOrder),
	api.OperationVoidSalesOrder:    byKey((*core.Client).VoidSalesOrder),
	api.OperationUpsertProduct:     byBody((*core.Client).UpsertProduct),
	api.OperationGetProduct:        byKey((*core.Client).GetProduct),
	api.OperationUpsertBrand:       byBody((*core.Client).UpsertBrand),
}

func newCallCmd(root *rootOptions) *cobra.Command {
	opts := callOptions{}

	cmd := &cobra.Command{
		Use:   "call <operation>",
		Short: "Invoke one API operation and print the result as JSON",
		Long: "Invoke one API operation. Identifier operations read --key, body operations read\n" +
			"--input (JSON or YAML, '-' for stdin). Run 'shipcompliant operations' for the list.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd.Context(), *root, opts, args[0], cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.key, "key", "", "sales order or product key")
	fs.StringArrayVar(&opts.shipmentKeys, "shipment-key", nil, "shipment key filter for tracking, repeatable")
	fs.StringVar(&opts.inputPath, "input", "", "request body file, '-' reads stdin")
	return cmd
}

func runCall(ctx context.Context, root rootOptions, opts callOptions, operation string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	operation = strings.TrimSpace(operation)
	runner, ok := operationRunners[operation]
	if !ok {
		return fmt.Errorf("unknown operation %q, expected one of: %s", operation, strings.Join(sortedOperations(), ", "))
	}

	body, err := readInput(opts.inputPath, stdin)
	if err != nil {
		return err
	}

	s, err := newSession(ctx, root, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	client, err := s.openClient()
	if err != nil {
		return err
	}
	result, err := runner(ctx, client, opts, body)
	if err != nil {
		return err
	}
	return writeJSON(stdout, result)
}

// readInput decodes a JSON or YAML document. An empty path yields nil.
func readInput(path string, stdin io.Reader) (any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	var body any
	if err := yaml.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}
	return body, nil
}

func sortedOperations() []string {
	names := make([]string, 0, len(operationRunners))
	for name := range operationRunners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newOperationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List the operation names accepted by call",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range api.Operations() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
