package eval

import (
	"puffin/ast"
	"puffin/value"
)

// execBlock runs every statement of block in a fresh child frame of env,
// stopping early on the first SigReturn (spec §4.2: a return unwinds the
// whole enclosing function body, not just one block).
func (ev *Evaluator) execBlock(block *ast.Block, env *Environment) (Signal, value.Value, error) {
	inner := env.NewChild()
	for _, stmt := range block.Stmts {
		sig, val, err := ev.execStmt(stmt, inner)
		if err != nil {
			return SigNormal, nil, err
		}
		if sig == SigReturn {
			return SigReturn, val, nil
		}
	}
	return SigNormal, nil, nil
}

// execStmt executes one statement. The returned value.Value is only
// meaningful when Signal is SigReturn.
func (ev *Evaluator) execStmt(stmt ast.Stmt, env *Environment) (Signal, value.Value, error) {
	switch s := stmt.(type) {
	case *ast.Block:
		return ev.execBlock(s, env)

	case *ast.ExprStmt:
		if _, err := ev.eval(s.Expr, env); err != nil {
			return SigNormal, nil, err
		}
		return SigNormal, nil, nil

	case *ast.ReturnStmt:
		if s.Value == nil {
			return SigReturn, value.Null{}, nil
		}
		v, err := ev.eval(s.Value, env)
		if err != nil {
			return SigNormal, nil, err
		}
		return SigReturn, v, nil

	case *ast.AssignStmt:
		if err := ev.execAssign(s, env); err != nil {
			return SigNormal, nil, err
		}
		return SigNormal, nil, nil

	case *ast.IfStmt:
		return ev.execIf(s, env)

	case *ast.WhileStmt:
		return ev.execWhile(s, env)

	case *ast.ForStmt:
		return ev.execFor(s, env)

	case *ast.ForInStmt:
		return ev.execForIn(s, env)

	default:
		return SigNormal, nil, value.NewError(value.ParseError, "unhandled statement node %T", stmt)
	}
}

func (ev *Evaluator) execIf(s *ast.IfStmt, env *Environment) (Signal, value.Value, error) {
	cond, err := ev.eval(s.Cond, env)
	if err != nil {
		return SigNormal, nil, err
	}
	ok, err := value.Truthy(cond)
	if err != nil {
		return SigNormal, nil, err
	}
	if ok {
		return ev.execBlock(s.Then, env)
	}
	if s.Else != nil {
		return ev.execBlock(s.Else, env)
	}
	return SigNormal, nil, nil
}

func (ev *Evaluator) execWhile(s *ast.WhileStmt, env *Environment) (Signal, value.Value, error) {
	for {
		cond, err := ev.eval(s.Cond, env)
		if err != nil {
			return SigNormal, nil, err
		}
		ok, err := value.Truthy(cond)
		if err != nil {
			return SigNormal, nil, err
		}
		if !ok {
			return SigNormal, nil, nil
		}
		sig, val, err := ev.execBlock(s.Body, env)
		if err != nil {
			return SigNormal, nil, err
		}
		if sig == SigReturn {
			return SigReturn, val, nil
		}
	}
}

// execFor runs the C-style for loop in its own frame, since Init declares
// a loop variable scoped to the whole loop, not just one iteration's body
// (spec §3.3).
func (ev *Evaluator) execFor(s *ast.ForStmt, env *Environment) (Signal, value.Value, error) {
	loopEnv := env.NewChild()
	if s.Init != nil {
		if _, _, err := ev.execStmt(s.Init, loopEnv); err != nil {
			return SigNormal, nil, err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := ev.eval(s.Cond, loopEnv)
			if err != nil {
				return SigNormal, nil, err
			}
			ok, err := value.Truthy(cond)
			if err != nil {
				return SigNormal, nil, err
			}
			if !ok {
				return SigNormal, nil, nil
			}
		}
		sig, val, err := ev.execBlock(s.Body, loopEnv)
		if err != nil {
			return SigNormal, nil, err
		}
		if sig == SigReturn {
			return SigReturn, val, nil
		}
		if s.Step != nil {
			if _, _, err := ev.execStmt(s.Step, loopEnv); err != nil {
				return SigNormal, nil, err
			}
		}
	}
}

// execForIn iterates an Array's elements (spec §4.2: "iter must evaluate
// to an Array"), binding Name fresh in a new child frame on every
// iteration.
func (ev *Evaluator) execForIn(s *ast.ForInStmt, env *Environment) (Signal, value.Value, error) {
	iter, err := ev.eval(s.Iter, env)
	if err != nil {
		return SigNormal, nil, err
	}

	iterate := func(v value.Value) (Signal, value.Value, error, bool) {
		iterEnv := env.NewChild()
		iterEnv.Bind(s.Name, v)
		sig, val, err := ev.execBlock(s.Body, iterEnv)
		if err != nil {
			return SigNormal, nil, err, true
		}
		if sig == SigReturn {
			return SigReturn, val, nil, true
		}
		return SigNormal, nil, nil, false
	}

	arr, ok := iter.(value.Array)
	if !ok {
		return SigNormal, nil, value.NewError(value.TypeError, "for-in requires an Array, got %s", iter.Type())
	}
	for i := 0; i < arr.Len(); i++ {
		if sig, val, err, stop := iterate(arr.Get(i)); stop {
			return sig, val, err
		}
	}
	return SigNormal, nil, nil
}
