package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalScenarios(t *testing.T) {
	tests := []struct {
		source string
		want   int64
	}{
		{"5", 5},
		{"(add1 5)", 6},
		{"(negate (add1 5))", -6},
		{"(sub1 (sub1 10))", 8},
		{"(add1 (negate 3))", -2},
		{"(negate 10)", -10},
		{"(negate (negate -7))", -7},
		{"(add1 2147483647)", 2147483648},
		{"(negate -2147483648)", 2147483648},
		{"(sub1 -2147483648)", -2147483649},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			expr, err := Parse(tt.source, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, Eval(expr))
		})
	}
}

func TestEvalLiteralIdentity(t *testing.T) {
	for _, n := range []int32{0, 1, -1, 42, math.MaxInt32, math.MinInt32} {
		assert.Equal(t, int64(n), Eval(&Num{Value: n}))
	}
}

func TestEvalOperatorSemantics(t *testing.T) {
	rng := rand.New(rand.NewSource(67))
	for i := 0; i < 200; i++ {
		e := randomExpr(rng, 12)
		v := Eval(e)
		assert.Equal(t, v+1, Eval(&Add1{Expr: e}), e.String())
		assert.Equal(t, v-1, Eval(&Sub1{Expr: e}), e.String())
		assert.Equal(t, -v, Eval(&Negate{Expr: e}), e.String())
	}
}

func TestMachineRun(t *testing.T) {
	program := Program{
		{Op: OpMovImm, Imm: 5},
		{Op: OpAdd1},
		{Op: OpNeg},
		{Op: OpSub1},
	}

	var trace []int64
	m := &Machine{Trace: func(step int, instr Instr, rax int64) {
		trace = append(trace, rax)
	}}
	got, err := m.Run(program)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), got)
	assert.Equal(t, 4, m.Steps)
	assert.Equal(t, []int64{5, 6, -6, -7}, trace)
}

func TestMachineSignExtendsImmediate(t *testing.T) {
	got, err := Execute(Program{{Op: OpMovImm, Imm: -1}})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), got)
}

func TestMachineIllegalOpcode(t *testing.T) {
	_, err := Execute(Program{{Op: Opcode(99)}})
	assert.Error(t, err)
}

// randomExpr builds a random well-formed AST at most maxDepth operators deep
func randomExpr(rng *rand.Rand, maxDepth int) Expr {
	var e Expr = &Num{Value: int32(rng.Uint32())}
	for i := rng.Intn(maxDepth + 1); i > 0; i-- {
		switch rng.Intn(3) {
		case 0:
			e = &Add1{Expr: e}
		case 1:
			e = &Sub1{Expr: e}
		default:
			e = &Negate{Expr: e}
		}
	}
	return e
}

func TestGeneratedCodeMatchesInterpreter(t *testing.T) {
	rng := rand.New(rand.NewSource(131))
	for i := 0; i < 500; i++ {
		expr := randomExpr(rng, 40)
		want := Eval(expr)

		got, err := Execute(CompileExpr(expr))
		require.NoError(t, err)
		require.Equal(t, want, got, "program for %s", expr)

		// The rendered text must compute the same value too
		got, err = ExecuteAssembly(Render(CompileExpr(expr), RenderOptions{}))
		require.NoError(t, err)
		require.Equal(t, want, got, "assembly for %s", expr)
	}
}

func TestGeneratedCodeRoundTripsThroughSource(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for i := 0; i < 100; i++ {
		expr := randomExpr(rng, 20)
		reparsed, err := Parse(expr.String(), Options{})
		require.NoError(t, err)
		assert.Equal(t, expr.String(), reparsed.String())
		assert.Equal(t, CompileExpr(expr), CompileExpr(reparsed))
	}
}
