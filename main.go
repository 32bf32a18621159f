// Completion: 100% - CLI interface complete, all flags working
package main

import (
	"context"
	"os"
)

// A tiny compiler from add1/sub1/negate expressions to x86_64 assembly

const versionString = "adder 1.0.0"

func main() {
	ctx := &CommandContext{
		Config: LoadConfig(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	if err := NewRootCommand(ctx).ExecuteContext(context.Background()); err != nil {
		reportError(ctx, err)
		os.Exit(1)
	}
}
