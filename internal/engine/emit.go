// Completion: 100% - Utility module complete
package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errNoAssembly = errors.New("no assembly given")

// RenderOptions controls the program text around the generated instructions
type RenderOptions struct {
	Syntax Syntax
	Entry  string // entry label, DefaultEntry when empty
}

// Render wraps the instruction sequence in the fixed program template:
//
//	section .text
//	global our_code_starts_here
//	our_code_starts_here:
//	  <instructions>
//	  ret
func Render(program Program, opts RenderOptions) string {
	entry := opts.Entry
	if entry == "" {
		entry = DefaultEntry
	}

	var sb strings.Builder
	for _, line := range opts.Syntax.header(entry) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	for _, line := range program.Lines(opts.Syntax) {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("  ret\n")
	return sb.String()
}

// ParseAssembly reads NASM text produced by Render back into a Program.
// Directives and labels are skipped, and reading stops at the first ret.
func ParseAssembly(assembly string) (Program, error) {
	if strings.TrimSpace(assembly) == "" {
		return nil, errNoAssembly
	}

	var program Program
	for n, raw := range strings.Split(assembly, "\n") {
		line := raw
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}

		head, rest, _ := strings.Cut(line, " ")
		switch head {
		case "section", "global", "extern", "bits", "default":
			continue
		case "ret":
			return program, nil
		}

		instr, err := parseInstr(head, strings.TrimSpace(rest))
		if err != nil {
			return nil, fmt.Errorf("line %d: %q: %w", n+1, line, err)
		}
		program = append(program, instr)
	}
	return program, nil
}

// parseInstr decodes one instruction operating on the accumulator
func parseInstr(mnemonic, operands string) (Instr, error) {
	var args []string
	for _, arg := range strings.Split(operands, ",") {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	if len(args) == 0 || args[0] != Accumulator {
		return Instr{}, fmt.Errorf("expected %s as the destination", Accumulator)
	}

	switch {
	case mnemonic == "mov" && len(args) == 2:
		imm, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			return Instr{}, fmt.Errorf("bad immediate: %w", err)
		}
		return Instr{Op: OpMovImm, Imm: int32(imm)}, nil
	case mnemonic == "add" && len(args) == 2 && args[1] == "1":
		return Instr{Op: OpAdd1}, nil
	case mnemonic == "sub" && len(args) == 2 && args[1] == "1":
		return Instr{Op: OpSub1}, nil
	case mnemonic == "neg" && len(args) == 1:
		return Instr{Op: OpNeg}, nil
	}
	return Instr{}, fmt.Errorf("unsupported instruction %s", mnemonic)
}
