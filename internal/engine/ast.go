// Completion: 100% - All AST nodes implemented
package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Integer literals must fit the 32-bit immediate of mov
const (
	minLiteral = math.MinInt32
	maxLiteral = math.MaxInt32
)

// Operator names, in the order they are tried by the builder
const (
	OpNameAdd1   = "add1"
	OpNameSub1   = "sub1"
	OpNameNegate = "negate"
)

var operatorNames = []string{OpNameAdd1, OpNameSub1, OpNameNegate}

// Expr is an AST node. The variant set is closed: *Num, *Add1, *Sub1 and *Negate.
// Nodes are built once by ParseExpr and never mutated afterwards.
type Expr interface {
	String() string
	exprNode()
}

// Num is an integer literal
type Num struct {
	Value int32
}

// Add1 adds one to its operand
type Add1 struct {
	Expr Expr
}

// Sub1 subtracts one from its operand
type Sub1 struct {
	Expr Expr
}

// Negate flips the sign of its operand
type Negate struct {
	Expr Expr
}

func (n *Num) String() string    { return strconv.FormatInt(int64(n.Value), 10) }
func (a *Add1) String() string   { return formatExpr(a) }
func (s *Sub1) String() string   { return formatExpr(s) }
func (n *Negate) String() string { return formatExpr(n) }

func (n *Num) exprNode()    {}
func (a *Add1) exprNode()   {}
func (s *Sub1) exprNode()   {}
func (n *Negate) exprNode() {}

// unaryOperand returns the child of a unary node, or nil for a leaf
func unaryOperand(e Expr) Expr {
	switch node := e.(type) {
	case *Add1:
		return node.Expr
	case *Sub1:
		return node.Expr
	case *Negate:
		return node.Expr
	case *Num:
		return nil
	default:
		panic(fmt.Sprintf("unknown expression type %T", e))
	}
}

// spine flattens an expression into its chain of nodes, outermost first, ending
// with the *Num leaf. Every operator is unary, so the AST is always a single path.
func spine(e Expr) []Expr {
	var nodes []Expr
	for e != nil {
		nodes = append(nodes, e)
		e = unaryOperand(e)
	}
	return nodes
}

// Depth returns the number of operator nodes above the literal
func Depth(e Expr) int {
	return len(spine(e)) - 1
}

// operatorName returns the source spelling of a unary node
func operatorName(e Expr) string {
	switch e.(type) {
	case *Add1:
		return OpNameAdd1
	case *Sub1:
		return OpNameSub1
	case *Negate:
		return OpNameNegate
	default:
		return ""
	}
}

// formatExpr prints e back in source form
func formatExpr(e Expr) string {
	nodes := spine(e)
	ops := nodes[:len(nodes)-1]

	var sb strings.Builder
	for _, op := range ops {
		sb.WriteString("(")
		sb.WriteString(operatorName(op))
		sb.WriteString(" ")
	}
	sb.WriteString(nodes[len(nodes)-1].String())
	sb.WriteString(strings.Repeat(")", len(ops)))
	return sb.String()
}
