package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/xyproto/adder/internal/engine"
)

const (
	promptMain = "adder> "
	promptCont = "   ... "
)

const replHelp = `Enter an expression such as (negate (add1 5)) to see its value and code.
  :syntax nasm|gas   switch the assembler syntax
  :help              show this text
  :quit              leave the repl
`

// replSession holds the state that survives between repl lines
type replSession struct {
	ctx    *CommandContext
	syntax engine.Syntax
}

// cmdRepl runs the interactive loop
func cmdRepl(ctx *CommandContext) error {
	syntax, err := engine.ParseSyntax(ctx.Config.Syntax)
	if err != nil {
		return err
	}
	session := &replSession{ctx: ctx, syntax: syntax}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completeOperator)

	histPath := ctx.Config.HistoryFile
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintf(ctx.Stdout, "%s (type :help for help)\n", versionString)
	for {
		code, ok := readExpression(ln)
		if !ok {
			fmt.Fprintln(ctx.Stdout)
			return nil
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		out, quit, err := session.eval(code)
		if err != nil {
			reportError(ctx, err)
			continue
		}
		fmt.Fprint(ctx.Stdout, out)
		if quit {
			return nil
		}
	}
}

// readExpression keeps prompting while the input ends inside an open list
func readExpression(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := engine.ReadSexp(src); err != nil && engine.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}

// eval handles one complete repl input. It returns the text to print and
// whether the session should end.
func (s *replSession) eval(code string) (string, bool, error) {
	code = strings.TrimSpace(code)

	if strings.HasPrefix(code, ":") {
		fields := strings.Fields(code)
		switch strings.ToLower(fields[0]) {
		case ":quit", ":q", ":exit":
			return "", true, nil
		case ":help", ":h":
			return replHelp, false, nil
		case ":syntax":
			if len(fields) != 2 {
				return "", false, errors.New("usage: :syntax nasm|gas")
			}
			syntax, err := engine.ParseSyntax(fields[1])
			if err != nil {
				return "", false, err
			}
			s.syntax = syntax
			return fmt.Sprintf("syntax is now %s\n", syntax), false, nil
		default:
			return "", false, fmt.Errorf("unknown command %s, type :help for help", fields[0])
		}
	}

	opts, err := s.ctx.Config.Options("<repl>")
	if err != nil {
		return "", false, err
	}
	opts.Syntax = s.syntax

	result, err := engine.Compile(code, opts)
	if err != nil {
		return "", false, err
	}

	var sb strings.Builder
	for _, line := range result.Program.Lines(s.syntax) {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "= %d\n", engine.Eval(result.Expr))
	return sb.String(), false, nil
}

// completeOperator completes a partially typed operator name after '('
func completeOperator(line string) []string {
	i := strings.LastIndexByte(line, '(')
	if i < 0 {
		return nil
	}
	prefix, partial := line[:i+1], line[i+1:]
	var completions []string
	for _, op := range []string{engine.OpNameAdd1, engine.OpNameSub1, engine.OpNameNegate} {
		if strings.HasPrefix(op, partial) {
			completions = append(completions, prefix+op+" ")
		}
	}
	return completions
}
