package engine

import (
	"fmt"
)

// Eval computes the value of e directly. Arithmetic is 64-bit two's complement,
// the same width and wraparound as the accumulator the generated code runs on,
// so Eval and the compiled program agree bit for bit.
func Eval(e Expr) int64 {
	nodes := spine(e)

	var acc int64
	for i := len(nodes) - 1; i >= 0; i-- {
		switch node := nodes[i].(type) {
		case *Num:
			acc = int64(node.Value)
		case *Add1:
			acc = acc + 1
		case *Sub1:
			acc = acc - 1
		case *Negate:
			acc = acc * -1
		default:
			panic(fmt.Sprintf("unknown expression type %T", node))
		}
	}
	return acc
}
