package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := runCLI(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "shipcompliant: %v\n", err)
		os.Exit(1)
	}
}

func runCLI(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
