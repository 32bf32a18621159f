// Completion: 100% - Compilation pipeline complete
package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// VerboseMode enables progress output from every stage
var VerboseMode bool

// LogOutput receives verbose output
var LogOutput io.Writer = os.Stderr

func logf(format string, args ...any) {
	fmt.Fprintf(LogOutput, format, args...)
}

// Options configures a compilation
type Options struct {
	File     string // source file name, only used in diagnostics
	Syntax   Syntax
	Entry    string
	MaxDepth int // reader nesting limit, 0 or negative for unlimited
}

func (o Options) reader() *Reader {
	r := NewReader(o.File)
	if o.MaxDepth > 0 {
		r.MaxDepth = o.MaxDepth
	}
	return r
}

// Result holds every product of a successful compilation
type Result struct {
	Expr     Expr
	Program  Program
	Assembly string
}

// Parse reads source and builds its AST
func Parse(source string, opts Options) (Expr, error) {
	sexp, err := opts.reader().Read(source)
	if err != nil {
		return nil, err
	}
	if VerboseMode {
		logf("reader: %s\n", sexp)
	}

	expr, err := ParseExpr(sexp)
	if err != nil {
		var cerr *CompilerError
		if errors.As(err, &cerr) {
			cerr.withSource(opts.File, source)
		}
		return nil, err
	}
	if VerboseMode {
		logf("parser: %d operator(s) above the literal\n", Depth(expr))
	}
	return expr, nil
}

// Compile runs the whole pipeline: reader, AST builder, code generator and
// the program template. The first error aborts the compilation.
func Compile(source string, opts Options) (*Result, error) {
	expr, err := Parse(source, opts)
	if err != nil {
		return nil, err
	}
	program := CompileExpr(expr)
	return &Result{
		Expr:     expr,
		Program:  program,
		Assembly: Render(program, RenderOptions{Syntax: opts.Syntax, Entry: opts.Entry}),
	}, nil
}

// Check compiles source and runs the generated program on the simulated
// machine, comparing the result with Eval
func Check(source string, opts Options) (int64, error) {
	result, err := Compile(source, opts)
	if err != nil {
		return 0, err
	}
	want := Eval(result.Expr)
	got, err := Execute(result.Program)
	if err != nil {
		return 0, err
	}
	if got != want {
		return 0, fmt.Errorf("generated code computes %d, interpreter computes %d", got, want)
	}
	return want, nil
}
