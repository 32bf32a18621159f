// Completion: 100% - AST builder complete, all four productions
package engine

import (
	"fmt"
)

// ParseExpr converts a symbolic expression into an AST.
//
// Accepted shapes:
//
//	integer        -> Num
//	(add1 e)       -> Add1
//	(sub1 e)       -> Sub1
//	(negate e)     -> Negate
//
// Anything else is an error wrapping ErrMalformed, and an integer that does not
// fit in 32 bits is an error wrapping ErrRange. The walk follows the operand
// chain with a loop, since every production has at most one sub-expression.
func ParseExpr(s Sexp) (Expr, error) {
	var ops []string

	for current := s; ; {
		switch v := current.(type) {
		case *SexpInt:
			num, err := parseNum(v)
			if err != nil {
				return nil, err
			}
			return wrapOperators(num, ops), nil

		case *SexpSym:
			if isOperatorName(v.Name) {
				err := MalformedError(fmt.Sprintf("operator '%s' used as a value", v.Name), v.Loc)
				err.Context.Suggestion = fmt.Sprintf("write (%s <expr>)", v.Name)
				return nil, err
			}
			return nil, MalformedError(fmt.Sprintf("unexpected symbol '%s', expected an expression", v.Name), v.Loc)

		case *SexpList:
			op, operand, err := matchUnary(v)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
			current = operand

		default:
			return nil, &CompilerError{
				Level:    LevelFatal,
				Category: CategoryInternal,
				Message:  fmt.Sprintf("unknown symbolic expression type %T", s),
			}
		}
	}
}

// parseNum range checks an integer atom
func parseNum(v *SexpInt) (*Num, error) {
	if !v.Fits64 || v.Value < minLiteral || v.Value > maxLiteral {
		return nil, RangeError(v.Text, v.Loc)
	}
	return &Num{Value: int32(v.Value)}, nil
}

// matchUnary checks that a list has the shape (op operand) with a known op
func matchUnary(list *SexpList) (string, Sexp, error) {
	if len(list.Items) == 0 {
		return "", nil, MalformedError("empty list", list.Loc)
	}

	head, ok := list.Items[0].(*SexpSym)
	if !ok {
		first := list.Items[0]
		return "", nil, MalformedError(fmt.Sprintf("expected an operator name, got %s", describeSexp(first)), first.Pos())
	}
	if !isOperatorName(head.Name) {
		return "", nil, UnknownOperatorError(head.Name, head.Loc)
	}

	if argc := len(list.Items) - 1; argc != 1 {
		err := MalformedError(fmt.Sprintf("'%s' takes exactly one operand, got %d", head.Name, argc), list.Loc)
		err.Location.Length = 1
		return "", nil, err
	}
	return head.Name, list.Items[1], nil
}

// wrapOperators applies ops, outermost first, around the literal
func wrapOperators(num *Num, ops []string) Expr {
	var e Expr = num
	for i := len(ops) - 1; i >= 0; i-- {
		switch ops[i] {
		case OpNameAdd1:
			e = &Add1{Expr: e}
		case OpNameSub1:
			e = &Sub1{Expr: e}
		case OpNameNegate:
			e = &Negate{Expr: e}
		}
	}
	return e
}

func isOperatorName(name string) bool {
	for _, op := range operatorNames {
		if name == op {
			return true
		}
	}
	return false
}
