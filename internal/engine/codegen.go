// Completion: 100% - Code generator complete for all expression types
package engine

import (
	"fmt"
)

// Accumulator is the only register the generated code uses
const Accumulator = "rax"

// Opcode identifies one of the instructions the generator emits
type Opcode int

const (
	OpMovImm Opcode = iota // mov rax, imm
	OpAdd1                 // add rax, 1
	OpSub1                 // sub rax, 1
	OpNeg                  // neg rax
)

func (op Opcode) String() string {
	switch op {
	case OpMovImm:
		return "mov"
	case OpAdd1:
		return "add"
	case OpSub1:
		return "sub"
	case OpNeg:
		return "neg"
	default:
		return "unknown"
	}
}

// Instr is one generated instruction. Imm is only used by OpMovImm.
type Instr struct {
	Op  Opcode
	Imm int32
}

// String renders the instruction in NASM syntax
func (i Instr) String() string {
	return SyntaxNASM.Instruction(i)
}

// Program is a straight-line instruction sequence in emission order
type Program []Instr

// Lines renders every instruction in the given syntax
func (p Program) Lines(syntax Syntax) []string {
	lines := make([]string, len(p))
	for i, instr := range p {
		lines[i] = syntax.Instruction(instr)
	}
	return lines
}

// CompileExpr generates code that leaves the value of e in the accumulator.
//
// The walk is post-order: the operand's code comes first, then the single
// instruction for the operator. Only one value is ever live, so no spills or
// temporaries are needed. Since the AST is a single path, the post-order walk is
// the leaf followed by the operators from innermost to outermost.
func CompileExpr(e Expr) Program {
	nodes := spine(e)
	program := make(Program, 0, len(nodes))

	for i := len(nodes) - 1; i >= 0; i-- {
		switch node := nodes[i].(type) {
		case *Num:
			program = append(program, Instr{Op: OpMovImm, Imm: node.Value})
		case *Add1:
			program = append(program, Instr{Op: OpAdd1})
		case *Sub1:
			program = append(program, Instr{Op: OpSub1})
		case *Negate:
			program = append(program, Instr{Op: OpNeg})
		default:
			panic(fmt.Sprintf("unknown expression type %T", node))
		}
	}

	if VerboseMode {
		logf("codegen: %d instruction(s) for %d node(s)\n", len(program), len(nodes))
	}
	return program
}
