// Package builtins implements Puffin's fixed builtin library (spec §4.4):
// a closed set of host-provided names pre-bound into the root
// environment. The set cannot grow or shrink at runtime — the evaluator's
// name assignment (eval/lvalue.go) rejects any assignment that would
// rebind one of these names
// (value.RebindBuiltin).
package builtins

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"puffin/eval"
	"puffin/value"
)

// registry bundles the host state a few builtins need: where print/println/
// error write, where input_str/input_num read from and prompt to, and the
// RNG rand() draws from. Each instance is independent so tests can supply
// their own in-memory reader/writer instead of the process's stdio.
type registry struct {
	out    io.Writer
	errOut io.Writer
	in     *bufio.Reader
	rng    *rand.Rand
}

// Install binds every builtin name into env's frame. out/errOut/in back
// print/println/error/input_str/input_num; seed drives rand() (spec §9's
// "implementation-defined RNG" Open Question, resolved in DESIGN.md as
// a seedable math/rand source for reproducible test runs).
func Install(env *eval.Environment, out, errOut io.Writer, in io.Reader, seed int64) {
	r := &registry{
		out:    out,
		errOut: errOut,
		in:     bufio.NewReader(in),
		rng:    rand.New(rand.NewSource(seed)),
	}

	env.Bind("PI", value.Num{Val: math.Pi})
	env.Bind("EPSILON", value.Num{Val: 1e-9})
	env.Bind("true", value.Num{Val: 1})
	env.Bind("false", value.Num{Val: 0})

	bind := func(name string, fn func([]value.Value) (value.Value, error)) {
		env.Bind(name, value.Builtin{Name: name, Fn: fn})
	}

	bind("str", r.str)
	bind("len", r.length)
	bind("print", r.print)
	bind("println", r.println)
	bind("error", r.errorBuiltin)

	bind("sin", unaryMath(math.Sin))
	bind("cos", unaryMath(math.Cos))
	bind("tan", unaryMath(math.Tan))
	bind("sqrt", r.sqrt)
	bind("abs", unaryMath(math.Abs))
	bind("round", unaryMath(math.Round))

	bind("input_str", r.inputStr)
	bind("input_num", r.inputNum)

	bind("push", r.push)
	bind("pop", r.pop)
	bind("remove", r.remove)
	bind("insert", r.insert)

	bind("rand", r.rand)
}

func arityError(name string, want, got int) error {
	return value.NewError(value.ArityError, "%s expects %d argument(s), got %d", name, want, got)
}

func (r *registry) str(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, arityError("str", 1, len(args))
	}
	return value.String{Val: args[0].String()}, nil
}

func (r *registry) length(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, arityError("len", 1, len(args))
	}
	switch v := args[0].(type) {
	case value.Array:
		return value.Num{Val: float64(v.Len())}, nil
	case value.String:
		return value.Num{Val: float64(len(v.Val))}, nil
	case value.Structure:
		return value.Num{Val: float64(v.Len())}, nil
	default:
		return nil, value.NewError(value.TypeError, "len() does not accept %s", v.Type())
	}
}

// writeJoined renders args the way print/println/error do: each value's
// String() form, space-separated, with no trailing newline.
func writeJoined(w io.Writer, args []value.Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Fprint(w, strings.Join(parts, " "))
}

func (r *registry) print(args []value.Value) (value.Value, error) {
	writeJoined(r.out, args)
	return value.Null{}, nil
}

func (r *registry) println(args []value.Value) (value.Value, error) {
	writeJoined(r.out, args)
	fmt.Fprintln(r.out)
	return value.Null{}, nil
}

// errorBuiltin writes its arguments to stderr with a trailing newline,
// exactly like println but to errOut, then terminates the program (spec
// §4.4/§5: "the only orderly termination path besides program
// completion"). It never lets the caller pick Puffin's internal
// ErrorCode taxonomy — that's a host-side concept, not user-facing
// builtin surface.
func (r *registry) errorBuiltin(args []value.Value) (value.Value, error) {
	writeJoined(r.errOut, args)
	fmt.Fprintln(r.errOut)
	return nil, value.NewError(value.ErrorCalled, "program terminated by error()")
}

func unaryMath(fn func(float64) float64) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, arityError("<math builtin>", 1, len(args))
		}
		n, ok := args[0].(value.Num)
		if !ok {
			return nil, value.NewError(value.TypeError, "expected a num, got %s", args[0].Type())
		}
		return value.Num{Val: fn(n.Val)}, nil
	}
}

func (r *registry) sqrt(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, arityError("sqrt", 1, len(args))
	}
	n, ok := args[0].(value.Num)
	if !ok {
		return nil, value.NewError(value.TypeError, "sqrt expects a num, got %s", args[0].Type())
	}
	if n.Val < 0 {
		return nil, value.NewError(value.ValueErrorCode, "sqrt of negative number %s", value.FormatNum(n.Val))
	}
	return value.Num{Val: math.Sqrt(n.Val)}, nil
}

// inputStr prints its (optional) prompt args exactly like print, then
// reads one line from stdin (spec §4.4: "input_str(...prompt) — prints
// prompt, reads line from stdin").
func (r *registry) inputStr(args []value.Value) (value.Value, error) {
	writeJoined(r.out, args)
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return value.Null{}, nil
	}
	return value.String{Val: strings.TrimRight(line, "\r\n")}, nil
}

// inputNum is input_str plus a num parse (spec §4.4: "input_num(...prompt)").
func (r *registry) inputNum(args []value.Value) (value.Value, error) {
	writeJoined(r.out, args)
	line, err := r.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return value.Null{}, nil
	}
	f, perr := strconv.ParseFloat(line, 64)
	if perr != nil {
		return nil, value.NewError(value.ValueErrorCode, "input %q is not a valid num", line)
	}
	return value.Num{Val: f}, nil
}

func (r *registry) push(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, arityError("push", 2, len(args))
	}
	arr, ok := args[0].(value.Array)
	if !ok {
		return nil, value.NewError(value.TypeError, "push() expects an array, got %s", args[0].Type())
	}
	arr.Push(args[1])
	return arr, nil
}

func (r *registry) pop(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, arityError("pop", 1, len(args))
	}
	arr, ok := args[0].(value.Array)
	if !ok {
		return nil, value.NewError(value.TypeError, "pop() expects an array, got %s", args[0].Type())
	}
	v, ok := arr.Pop()
	if !ok {
		return nil, value.NewError(value.IndexError, "pop() on empty array")
	}
	return v, nil
}

func (r *registry) remove(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, arityError("remove", 2, len(args))
	}
	arr, ok := args[0].(value.Array)
	if !ok {
		return nil, value.NewError(value.TypeError, "remove() expects an array, got %s", args[0].Type())
	}
	i, err := indexArg(args[1], arr.Len())
	if err != nil {
		return nil, err
	}
	return arr.RemoveAt(i), nil
}

func (r *registry) insert(args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return nil, arityError("insert", 3, len(args))
	}
	arr, ok := args[0].(value.Array)
	if !ok {
		return nil, value.NewError(value.TypeError, "insert() expects an array, got %s", args[0].Type())
	}
	i, err := indexArg(args[1], arr.Len()+1)
	if err != nil {
		return nil, err
	}
	arr.InsertAt(i, args[2])
	return arr, nil
}

func indexArg(v value.Value, n int) (int, error) {
	num, ok := v.(value.Num)
	if !ok {
		return 0, value.NewError(value.TypeError, "index must be a num, got %s", v.Type())
	}
	i := int(num.Val)
	if float64(i) != num.Val || i < 0 || i >= n {
		return 0, value.NewError(value.IndexError, "index %s out of bounds", value.FormatNum(num.Val))
	}
	return i, nil
}

// rand returns a uniformly distributed num in [0, 1).
func (r *registry) rand(args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, arityError("rand", 0, len(args))
	}
	return value.Num{Val: r.rng.Float64()}, nil
}
