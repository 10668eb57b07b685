package eval

import (
	"puffin/ast"
	"puffin/value"
)

func (ev *Evaluator) evalUnary(n *ast.UnaryExpr, env *Environment) (value.Value, error) {
	operand, err := ev.eval(n.Operand, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.OpNeg:
		num, ok := operand.(value.Num)
		if !ok {
			return nil, value.NewError(value.TypeError, "unary - requires a num, got %s", operand.Type())
		}
		return value.Num{Val: -num.Val}, nil

	case ast.OpNot:
		ok, err := value.Truthy(operand)
		if err != nil {
			return nil, err
		}
		return boolNum(!ok), nil

	default:
		return nil, value.NewError(value.TypeError, "unknown unary operator %s", n.Op)
	}
}

// boolNum renders a Go bool as Puffin's 1/0 (spec Design Note: logical
// operators must yield exactly 0 or 1, never the raw operand).
func boolNum(b bool) value.Num {
	if b {
		return value.Num{Val: 1}
	}
	return value.Num{Val: 0}
}

func (ev *Evaluator) evalBinary(n *ast.BinaryExpr, env *Environment) (value.Value, error) {
	// && and || short-circuit, so the right operand is evaluated lazily.
	switch n.Op {
	case ast.OpAnd:
		left, err := ev.eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		lt, err := value.Truthy(left)
		if err != nil {
			return nil, err
		}
		if !lt {
			return boolNum(false), nil
		}
		right, err := ev.eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		rt, err := value.Truthy(right)
		if err != nil {
			return nil, err
		}
		return boolNum(rt), nil

	case ast.OpOr:
		left, err := ev.eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		lt, err := value.Truthy(left)
		if err != nil {
			return nil, err
		}
		if lt {
			return boolNum(true), nil
		}
		right, err := ev.eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		rt, err := value.Truthy(right)
		if err != nil {
			return nil, err
		}
		return boolNum(rt), nil
	}

	left, err := ev.eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case ast.OpEq:
		return boolNum(left.Equal(right)), nil
	case ast.OpNe:
		return boolNum(!left.Equal(right)), nil
	}

	switch n.Op {
	case ast.OpAdd:
		return evalAdd(left, right)
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return evalArith(n.Op, left, right)
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return evalCompare(n.Op, left, right)
	default:
		return nil, value.NewError(value.TypeError, "unknown binary operator %s", n.Op)
	}
}

// evalAdd handles num+num and the string+string concatenation overload
// (spec §4.1); every other combination is a TypeError.
func evalAdd(left, right value.Value) (value.Value, error) {
	if ls, ok := left.(value.String); ok {
		rs, ok := right.(value.String)
		if !ok {
			return nil, value.NewError(value.TypeError, "cannot add %s to string", right.Type())
		}
		return value.String{Val: ls.Val + rs.Val}, nil
	}
	ln, ok := left.(value.Num)
	if !ok {
		return nil, value.NewError(value.TypeError, "cannot add %s and %s", left.Type(), right.Type())
	}
	rn, ok := right.(value.Num)
	if !ok {
		return nil, value.NewError(value.TypeError, "cannot add %s and %s", left.Type(), right.Type())
	}
	return value.Num{Val: ln.Val + rn.Val}, nil
}

func evalArith(op ast.Operator, left, right value.Value) (value.Value, error) {
	ln, ok := left.(value.Num)
	if !ok {
		return nil, value.NewError(value.TypeError, "operator %s requires nums, got %s", op, left.Type())
	}
	rn, ok := right.(value.Num)
	if !ok {
		return nil, value.NewError(value.TypeError, "operator %s requires nums, got %s", op, right.Type())
	}
	switch op {
	case ast.OpSub:
		return value.Num{Val: ln.Val - rn.Val}, nil
	case ast.OpMul:
		return value.Num{Val: ln.Val * rn.Val}, nil
	case ast.OpDiv:
		if rn.Val == 0 {
			return nil, value.NewError(value.ValueErrorCode, "division by zero")
		}
		return value.Num{Val: ln.Val / rn.Val}, nil
	case ast.OpMod:
		if rn.Val == 0 {
			return nil, value.NewError(value.ValueErrorCode, "modulo by zero")
		}
		return value.Num{Val: float64(int64(ln.Val) % int64(rn.Val))}, nil
	default:
		return nil, value.NewError(value.TypeError, "unknown arithmetic operator %s", op)
	}
}

// evalCompare implements <, <=, >, >= for nums and, provisionally, for
// strings by byte-lexicographic order (spec §9 Open Question, resolved in
// SPEC_FULL.md).
func evalCompare(op ast.Operator, left, right value.Value) (value.Value, error) {
	if ln, ok := left.(value.Num); ok {
		rn, ok := right.(value.Num)
		if !ok {
			return nil, value.NewError(value.TypeError, "cannot compare num and %s", right.Type())
		}
		return boolNum(compareNum(op, ln.Val, rn.Val)), nil
	}
	if ls, ok := left.(value.String); ok {
		rs, ok := right.(value.String)
		if !ok {
			return nil, value.NewError(value.TypeError, "cannot compare string and %s", right.Type())
		}
		return boolNum(compareStr(op, ls.Val, rs.Val)), nil
	}
	return nil, value.NewError(value.TypeError, "values of type %s are not ordered", left.Type())
}

func compareNum(op ast.Operator, l, r float64) bool {
	switch op {
	case ast.OpLt:
		return l < r
	case ast.OpLe:
		return l <= r
	case ast.OpGt:
		return l > r
	case ast.OpGe:
		return l >= r
	}
	return false
}

func compareStr(op ast.Operator, l, r string) bool {
	switch op {
	case ast.OpLt:
		return l < r
	case ast.OpLe:
		return l <= r
	case ast.OpGt:
		return l > r
	case ast.OpGe:
		return l >= r
	}
	return false
}
