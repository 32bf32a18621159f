// Completion: 100% - Simulator complete for the generated instruction set
package engine

import (
	"fmt"
)

// Machine simulates the part of an x86-64 core the generated code touches:
// the 64-bit accumulator. It exists to check generated programs without an
// assembler and is never used on the compile path.
type Machine struct {
	RAX   int64
	Steps int
	Trace func(step int, instr Instr, rax int64) // called after each instruction when set
}

// Step executes a single instruction
func (m *Machine) Step(instr Instr) error {
	switch instr.Op {
	case OpMovImm:
		// mov r64, imm32 sign-extends
		m.RAX = int64(instr.Imm)
	case OpAdd1:
		m.RAX++
	case OpSub1:
		m.RAX--
	case OpNeg:
		m.RAX = -m.RAX
	default:
		return fmt.Errorf("step %d: illegal opcode %d", m.Steps, instr.Op)
	}
	m.Steps++
	if m.Trace != nil {
		m.Trace(m.Steps, instr, m.RAX)
	}
	return nil
}

// Run executes the program from a cleared accumulator and returns its final value
func (m *Machine) Run(program Program) (int64, error) {
	m.RAX = 0
	m.Steps = 0
	for _, instr := range program {
		if err := m.Step(instr); err != nil {
			return 0, err
		}
	}
	return m.RAX, nil
}

// Execute runs a program on a fresh machine
func Execute(program Program) (int64, error) {
	var m Machine
	return m.Run(program)
}

// ExecuteAssembly parses NASM text from Render and runs it
func ExecuteAssembly(assembly string) (int64, error) {
	program, err := ParseAssembly(assembly)
	if err != nil {
		return 0, err
	}
	return Execute(program)
}
