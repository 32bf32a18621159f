// Completion: 100% - CLI interface complete, all subcommands working
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xyproto/adder/internal/engine"
)

// cli.go - command-line interface for adder
//
// - adder <input> <output>        compile input to output (the classic form)
// - adder build <input...> [-o]   compile one or more files
// - adder eval <input> | -e expr  evaluate with the reference interpreter
// - adder watch <input> <output>  recompile on every change
// - adder repl                    interactive read-compile-eval loop

// CommandContext holds the execution context for a CLI command
type CommandContext struct {
	Config *Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewRootCommand builds the command tree
func NewRootCommand(ctx *CommandContext) *cobra.Command {
	cfg := ctx.Config

	rootCmd := &cobra.Command{
		Use:   "adder <input> [output]",
		Short: "Compile add1/sub1/negate expressions to x86-64 assembly",
		Long: `Adder compiles a tiny expression language to x86-64 assembly.

A program is a single expression:

  expr ::= integer | (add1 expr) | (sub1 expr) | (negate expr)

The output defines our_code_starts_here, which leaves the value of the
expression in rax and returns. When no output file is given, the input
file name with a .s extension is used.
`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			engine.VerboseMode = cfg.Verbose
			if _, err := engine.ParseSyntax(cfg.Syntax); err != nil {
				return err
			}
			if _, err := cfg.UseColor(os.Stderr); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0:
				return cmd.Help()
			case 1:
				return cmdBuild(ctx, args, "")
			default:
				return cmdBuild(ctx, args[:1], args[1])
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "verbose mode (show progress for every stage)")
	flags.StringVar(&cfg.Syntax, "syntax", cfg.Syntax, "assembler syntax (nasm, gas)")
	flags.StringVar(&cfg.Color, "color", cfg.Color, "colored diagnostics (auto, always, never)")
	flags.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum nesting depth (0 for unlimited)")
	flags.StringVar(&cfg.Entry, "entry", cfg.Entry, "entry label of the generated code")

	rootCmd.AddCommand(
		newBuildCommand(ctx),
		newEvalCommand(ctx),
		newWatchCommand(ctx),
		newReplCommand(ctx),
		newVersionCommand(ctx),
	)
	return rootCmd
}

func newBuildCommand(ctx *CommandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "build <input>... [-o output]",
		Short: "Compile source files to assembly",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdBuild(ctx, args, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (- for stdout, only with a single input)")
	return cmd
}

func newEvalCommand(ctx *CommandContext) *cobra.Command {
	var (
		code  string
		check bool
	)
	cmd := &cobra.Command{
		Use:   "eval [input]",
		Short: "Evaluate a program with the reference interpreter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == "" && len(args) == 0 {
				return errors.New("usage: adder eval <input> or adder eval -e <expr>")
			}
			if code != "" && len(args) > 0 {
				return errors.New("give either an input file or -e, not both")
			}
			input := "-e"
			if len(args) > 0 {
				input = args[0]
			}
			return cmdEval(ctx, input, code, check)
		},
	}
	cmd.Flags().StringVarP(&code, "expr", "e", "", "evaluate the given expression instead of a file")
	cmd.Flags().BoolVar(&check, "check", false, "also run the generated code on the simulated machine and compare")
	return cmd
}

func newWatchCommand(ctx *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <input> <output>",
		Short: "Recompile whenever the input file changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdWatch(cmd.Context(), ctx, args[0], args[1])
		},
	}
}

func newReplCommand(ctx *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read expressions interactively and show their value and code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdRepl(ctx)
		},
	}
}

func newVersionCommand(ctx *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(ctx.Stdout, versionString)
		},
	}
}

// readSource reads a source file, or stdin for "-"
func readSource(ctx *CommandContext, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(ctx.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes the program text, or prints it for "-"
func writeOutput(ctx *CommandContext, path, text string) error {
	if path == "-" {
		_, err := io.WriteString(ctx.Stdout, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// defaultOutputPath replaces the extension of the input with .s
func defaultOutputPath(input string) string {
	if input == "-" {
		return "-"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".s"
}

// compileFile reads and compiles one source file
func compileFile(ctx *CommandContext, input string) (*engine.Result, error) {
	source, err := readSource(ctx, input)
	if err != nil {
		return nil, err
	}
	opts, err := ctx.Config.Options(input)
	if err != nil {
		return nil, err
	}
	return engine.Compile(source, opts)
}

// cmdBuild compiles each input file. A single input may name its output;
// several inputs are compiled concurrently, each next to its source.
func cmdBuild(ctx *CommandContext, inputs []string, output string) error {
	if len(inputs) == 1 {
		result, err := compileFile(ctx, inputs[0])
		if err != nil {
			return err
		}
		if output == "" {
			output = defaultOutputPath(inputs[0])
		}
		if err := writeOutput(ctx, output, result.Assembly); err != nil {
			return err
		}
		if engine.VerboseMode {
			fmt.Fprintf(ctx.Stderr, "Wrote %s\n", output)
		}
		return nil
	}

	if output != "" {
		return errors.New("-o can only be used with a single input file")
	}

	sources := make([]engine.Source, 0, len(inputs))
	for _, input := range inputs {
		text, err := readSource(ctx, input)
		if err != nil {
			return err
		}
		sources = append(sources, engine.Source{File: input, Text: text})
	}

	opts, err := ctx.Config.Options("")
	if err != nil {
		return err
	}
	results, err := engine.CompileBatch(context.Background(), sources, opts, 0)
	if err != nil {
		return err
	}

	// Report the first failure, in input order
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	for _, r := range results {
		out := defaultOutputPath(r.File)
		if err := writeOutput(ctx, out, r.Result.Assembly); err != nil {
			return err
		}
		if engine.VerboseMode {
			fmt.Fprintf(ctx.Stderr, "Wrote %s\n", out)
		}
	}
	return nil
}

// cmdEval prints the value of a program as computed by the interpreter
func cmdEval(ctx *CommandContext, input, code string, check bool) error {
	source := code
	if input != "-e" {
		var err error
		if source, err = readSource(ctx, input); err != nil {
			return err
		}
	}

	opts, err := ctx.Config.Options(input)
	if err != nil {
		return err
	}

	if check {
		value, err := engine.Check(source, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.Stdout, value)
		return nil
	}

	expr, err := engine.Parse(source, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Stdout, engine.Eval(expr))
	return nil
}

// reportError prints an error the way the compiler formats diagnostics
func reportError(ctx *CommandContext, err error) {
	useColor := false
	if f, ok := ctx.Stderr.(*os.File); ok {
		useColor, _ = ctx.Config.UseColor(f)
	}
	var cerr *engine.CompilerError
	if errors.As(err, &cerr) {
		fmt.Fprint(ctx.Stderr, cerr.Format(useColor))
		return
	}
	fmt.Fprintf(ctx.Stderr, "Error: %v\n", err)
}
