// Completion: 100% - Utility module complete
package engine

import (
	"fmt"
	"strings"
)

// DefaultEntry is the label the runtime calls into
const DefaultEntry = "our_code_starts_here"

// Syntax selects the x86-64 assembler dialect of the output
type Syntax int

const (
	SyntaxNASM Syntax = iota // Intel operand order, the default
	SyntaxGAS                // GNU as, AT&T operand order
)

func (s Syntax) String() string {
	switch s {
	case SyntaxNASM:
		return "nasm"
	case SyntaxGAS:
		return "gas"
	default:
		return "unknown"
	}
}

// ParseSyntax parses an assembler dialect name
func ParseSyntax(s string) (Syntax, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nasm", "intel", "yasm":
		return SyntaxNASM, nil
	case "gas", "att", "gnu":
		return SyntaxGAS, nil
	default:
		return 0, fmt.Errorf("unsupported syntax: %s (supported: nasm, gas)", s)
	}
}

// ValidateEntry checks that label can be used as the entry symbol in both
// NASM and GNU as: a letter, '_' or '.' followed by letters, digits, '_' or '.'
func ValidateEntry(label string) error {
	if label == "" {
		return fmt.Errorf("invalid entry label: empty")
	}
	for i, ch := range label {
		switch {
		case ch == '_' || ch == '.':
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9' && i > 0:
		default:
			return fmt.Errorf("invalid entry label %q: unexpected %q at offset %d", label, ch, i)
		}
	}
	if strings.EqualFold(label, Accumulator) {
		return fmt.Errorf("invalid entry label %q: register name", label)
	}
	return nil
}

// Instruction renders a single instruction
func (s Syntax) Instruction(i Instr) string {
	if s == SyntaxGAS {
		switch i.Op {
		case OpMovImm:
			return fmt.Sprintf("movq $%d, %%%s", i.Imm, Accumulator)
		case OpAdd1:
			return "addq $1, %" + Accumulator
		case OpSub1:
			return "subq $1, %" + Accumulator
		case OpNeg:
			return "negq %" + Accumulator
		}
		return "# " + i.Op.String()
	}

	switch i.Op {
	case OpMovImm:
		return fmt.Sprintf("mov %s, %d", Accumulator, i.Imm)
	case OpAdd1:
		return "add " + Accumulator + ", 1"
	case OpSub1:
		return "sub " + Accumulator + ", 1"
	case OpNeg:
		return "neg " + Accumulator
	}
	return "; " + i.Op.String()
}

// header returns the section and symbol directives that open the program
func (s Syntax) header(entry string) []string {
	if s == SyntaxGAS {
		return []string{".text", ".globl " + entry, entry + ":"}
	}
	return []string{"section .text", "global " + entry, entry + ":"}
}
