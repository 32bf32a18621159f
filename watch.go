package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xyproto/adder/internal/engine"
)

// watchLog reports watcher trouble in verbose mode
func watchLog(format string, args ...any) {
	if engine.VerboseMode {
		fmt.Fprintf(engine.LogOutput, format, args...)
	}
}

// cmdWatch compiles input to output, then again every time input changes,
// until interrupted or parent is done. Compilation errors are reported and
// watching continues. No rebuild is running when cmdWatch returns.
func cmdWatch(parent context.Context, ctx *CommandContext, input, output string) error {
	if parent == nil {
		parent = context.Background()
	}
	sigCtx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rebuild := func(reason string) {
		if reason != "" {
			fmt.Fprintf(ctx.Stderr, "%s changed, recompiling\n", reason)
		}
		if err := cmdBuild(ctx, []string{input}, output); err != nil {
			reportError(ctx, err)
			return
		}
		fmt.Fprintf(ctx.Stderr, "Wrote %s\n", output)
	}

	watcher, err := NewFileWatcher(rebuild)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.AddFile(input); err != nil {
		return err
	}

	rebuild("")
	fmt.Fprintf(ctx.Stderr, "Watching %s (press Ctrl-C to stop)\n", input)
	watcher.Watch(sigCtx)
	return nil
}
