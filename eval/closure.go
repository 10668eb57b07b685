package eval

import (
	"puffin/ast"
	"puffin/value"
)

// closureData is the heap payload a Closure handle shares: the parameter
// names, the body AST, and the environment captured at the point the `fn`
// expression was evaluated (spec §3.1). It lives in eval, not value,
// because it must reference *Environment and *ast.Block without value
// importing either package.
type closureData struct {
	params []string
	body   *ast.Block
	env    *Environment
}

// Closure is a shared handle to a function value. It implements
// value.Value so it can flow through the evaluator like any other runtime
// value; only eval.go ever calls it.
type Closure struct {
	data *closureData
}

func newClosure(params []string, body *ast.Block, env *Environment) Closure {
	return Closure{data: &closureData{params: params, body: body, env: env}}
}

func (Closure) Type() value.Type { return value.TypeClosure }
func (Closure) String() string   { return "<closure>" }

// Equal is handle identity, matching value.Array.Equal / value.Structure.Equal.
func (c Closure) Equal(other value.Value) bool {
	o, ok := other.(Closure)
	return ok && c.data == o.data
}
