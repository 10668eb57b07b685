// Package eval implements Puffin's tree-walking evaluator (spec §4): a
// recursive expression evaluator plus a statement executor, sharing one
// Environment chain per call frame.
package eval

import (
	"puffin/ast"
	"puffin/value"
)

// defaultMaxDepth bounds closure-call recursion so a runaway Puffin
// program fails with a catchable-at-the-CLI StackOverflow RuntimeError
// instead of crashing the host Go process (spec §9, Design Note on
// recursion). Configurable via config.Limits.
const defaultMaxDepth = 4096

// Evaluator walks an ast.Block against an Environment chain, enforcing the
// recursion-depth limit and owning the root (global) frame that builtins
// and top-level declarations live in.
type Evaluator struct {
	root     *Environment
	maxDepth int
	depth    int
}

// New creates an Evaluator with an empty root frame; callers populate it
// through Globals (normally with builtins.Install) before Run.
func New(maxDepth int) *Evaluator {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Evaluator{root: newRootEnvironment(), maxDepth: maxDepth}
}

// Globals returns the root environment, for installing builtins before
// Run.
func (ev *Evaluator) Globals() *Environment { return ev.root }

// Run executes block as a top-level program in a child frame of the root
// environment. A `return` that reaches the top level, outside any function
// body, fails with ReturnOutsideFunction.
func (ev *Evaluator) Run(block *ast.Block) error {
	sig, _, err := ev.execBlock(block, ev.root)
	if err != nil {
		return err
	}
	if sig == SigReturn {
		return value.NewError(value.ReturnOutsideFunction, "return outside a function body")
	}
	return nil
}

// Signal distinguishes normal statement completion from an in-flight
// return value unwinding the call stack. Puffin has no break/continue/try,
// so these two cases are the whole story (unlike the teacher's unified
// Result{Val,Flow,Error,Label}, which also has to carry those).
type Signal int

const (
	SigNormal Signal = iota
	SigReturn
)

// eval evaluates expr in env, returning its value.
func (ev *Evaluator) eval(expr ast.Expr, env *Environment) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.NumLit:
		return value.Num{Val: n.Value}, nil

	case *ast.StringLit:
		return value.String{Val: n.Value}, nil

	case *ast.NullLit:
		return value.Null{}, nil

	case *ast.Name:
		v, ok := env.Get(n.Ident)
		if !ok {
			return nil, value.NewError(value.NameError, "name %q is not defined", n.Ident)
		}
		return v, nil

	case *ast.ArrayLit:
		elems := make([]value.Value, len(n.Elems))
		for i, e := range n.Elems {
			v, err := ev.eval(e, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return value.NewArray(elems), nil

	case *ast.ArraySized:
		sz, err := ev.eval(n.Size, env)
		if err != nil {
			return nil, err
		}
		num, ok := sz.(value.Num)
		if !ok {
			return nil, value.NewError(value.TypeError, "array size must be a num, got %s", sz.Type())
		}
		size := int(num.Val)
		if size < 0 || float64(size) != num.Val {
			return nil, value.NewError(value.ValueErrorCode, "invalid array size %s", value.FormatNum(num.Val))
		}
		return value.NewArraySized(size), nil

	case *ast.ArrayRange:
		lo, err := ev.eval(n.Lo, env)
		if err != nil {
			return nil, err
		}
		hi, err := ev.eval(n.Hi, env)
		if err != nil {
			return nil, err
		}
		loNum, ok1 := lo.(value.Num)
		hiNum, ok2 := hi.(value.Num)
		if !ok1 || !ok2 {
			return nil, value.NewError(value.TypeError, "array range bounds must be nums")
		}
		loI, hiI := int(loNum.Val), int(hiNum.Val)
		if float64(loI) != loNum.Val || float64(hiI) != hiNum.Val {
			return nil, value.NewError(value.ValueErrorCode, "array range bounds must be integral")
		}
		if hiI < loI {
			return value.NewArray(nil), nil
		}
		elems := make([]value.Value, hiI-loI+1)
		for i := range elems {
			elems[i] = value.Num{Val: float64(loI + i)}
		}
		return value.NewArray(elems), nil

	case *ast.StructureLit:
		names := make([]string, len(n.Fields))
		vals := make([]value.Value, len(n.Fields))
		for i, f := range n.Fields {
			v, err := ev.eval(f.Value, env)
			if err != nil {
				return nil, err
			}
			names[i] = f.Name
			vals[i] = v
		}
		return value.NewStructure(names, vals), nil

	case *ast.FunctionLit:
		return newClosure(n.Params, n.Body, env), nil

	case *ast.UnaryExpr:
		return ev.evalUnary(n, env)

	case *ast.BinaryExpr:
		return ev.evalBinary(n, env)

	case *ast.Subscript:
		return ev.evalSubscript(n, env)

	case *ast.Dot:
		return ev.evalDot(n, env)

	case *ast.Call:
		return ev.evalCall(n, env)

	default:
		return nil, value.NewError(value.ParseError, "unhandled expression node %T", expr)
	}
}

func (ev *Evaluator) evalSubscript(n *ast.Subscript, env *Environment) (value.Value, error) {
	recv, err := ev.eval(n.Recv, env)
	if err != nil {
		return nil, err
	}
	idx, err := ev.eval(n.Index, env)
	if err != nil {
		return nil, err
	}
	switch r := recv.(type) {
	case value.Array:
		i, err := indexOf(idx, r.Len())
		if err != nil {
			return nil, err
		}
		return r.Get(i), nil
	case value.String:
		i, err := indexOf(idx, len(r.Val))
		if err != nil {
			return nil, err
		}
		return value.String{Val: string(r.Val[i])}, nil
	default:
		return nil, value.NewError(value.TypeError, "value of type %s is not subscriptable", recv.Type())
	}
}

// indexOf validates idx as an in-range integral index for a collection of
// length n (spec §4.1: out-of-bounds and non-integral indices are
// IndexError).
func indexOf(idx value.Value, n int) (int, error) {
	num, ok := idx.(value.Num)
	if !ok {
		return 0, value.NewError(value.TypeError, "index must be a num, got %s", idx.Type())
	}
	i := int(num.Val)
	if float64(i) != num.Val {
		return 0, value.NewError(value.IndexError, "index %s is not an integer", value.FormatNum(num.Val))
	}
	if i < 0 || i >= n {
		return 0, value.NewError(value.IndexError, "index %d out of bounds for length %d", i, n)
	}
	return i, nil
}

func (ev *Evaluator) evalDot(n *ast.Dot, env *Environment) (value.Value, error) {
	recv, err := ev.eval(n.Recv, env)
	if err != nil {
		return nil, err
	}
	s, ok := recv.(value.Structure)
	if !ok {
		return nil, value.NewError(value.TypeError, "value of type %s has no fields", recv.Type())
	}
	v, ok := s.Get(n.Field)
	if !ok {
		return nil, value.NewError(value.FieldError, "structure has no field %q", n.Field)
	}
	return v, nil
}

func (ev *Evaluator) evalCall(n *ast.Call, env *Environment) (value.Value, error) {
	recv, err := ev.eval(n.Recv, env)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := ev.eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch fn := recv.(type) {
	case value.Builtin:
		return fn.Fn(args)
	case Closure:
		return ev.callClosure(fn, args)
	default:
		return nil, value.NewError(value.TypeError, "value of type %s is not callable", recv.Type())
	}
}

func (ev *Evaluator) callClosure(c Closure, args []value.Value) (value.Value, error) {
	if len(args) != len(c.data.params) {
		return nil, value.NewError(value.ArityError, "expected %d argument(s), got %d", len(c.data.params), len(args))
	}
	if ev.depth >= ev.maxDepth {
		return nil, value.NewError(value.StackOverflow, "maximum call depth %d exceeded", ev.maxDepth)
	}
	ev.depth++
	defer func() { ev.depth-- }()

	callEnv := c.data.env.NewChild()
	for i, p := range c.data.params {
		callEnv.Bind(p, args[i])
	}
	sig, ret, err := ev.execBlock(c.data.body, callEnv)
	if err != nil {
		return nil, err
	}
	if sig == SigReturn {
		return ret, nil
	}
	return value.Null{}, nil
}
