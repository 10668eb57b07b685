package eval

import (
	"puffin/ast"
	"puffin/value"
)

// execAssign resolves and writes to one of the three l-value shapes
// (Name, Subscript, Dot; spec §4.3). Augmented assignment (AugOp != "")
// reads the current value, applies the arithmetic operator, and writes
// the result back through the same target — for Subscript/Dot targets
// this means the receiver is only evaluated once, so `a[f()] += 1` calls
// f() a single time.
func (ev *Evaluator) execAssign(s *ast.AssignStmt, env *Environment) error {
	switch target := s.Target.(type) {
	case *ast.Name:
		return ev.assignName(target, s, env)
	case *ast.Subscript:
		return ev.assignSubscript(target, s, env)
	case *ast.Dot:
		return ev.assignDot(target, s, env)
	default:
		return value.NewError(value.InvalidAssignTarget, "cannot assign to this expression")
	}
}

func (ev *Evaluator) applyAug(op ast.Operator, current, rhs value.Value) (value.Value, error) {
	if op == "" {
		return rhs, nil
	}
	switch op {
	case ast.OpAdd:
		return evalAdd(current, rhs)
	default:
		return evalArith(op, current, rhs)
	}
}

// assignName rejects every name bound in the root frame, not only names
// holding a value.Builtin: builtins.Install puts the whole registry there,
// constants such as PI and true included, while program bindings live in
// child frames.
func (ev *Evaluator) assignName(target *ast.Name, s *ast.AssignStmt, env *Environment) error {
	existing, found := env.Get(target.Ident)
	if found {
		_, isBuiltin := existing.(value.Builtin)
		_, isRoot := ev.root.vars[target.Ident]
		if isBuiltin || isRoot {
			return value.NewError(value.RebindBuiltin, "cannot rebind builtin %q", target.Ident)
		}
	}

	rhs, err := ev.eval(s.Value, env)
	if err != nil {
		return err
	}

	if s.AugOp != "" {
		if !found {
			return value.NewError(value.NameError, "name %q is not defined", target.Ident)
		}
		rhs, err = ev.applyAug(s.AugOp, existing, rhs)
		if err != nil {
			return err
		}
	}

	env.Assign(target.Ident, rhs)
	return nil
}

func (ev *Evaluator) assignSubscript(target *ast.Subscript, s *ast.AssignStmt, env *Environment) error {
	recv, err := ev.eval(target.Recv, env)
	if err != nil {
		return err
	}
	arr, ok := recv.(value.Array)
	if !ok {
		return value.NewError(value.TypeError, "value of type %s does not support index assignment", recv.Type())
	}
	idxVal, err := ev.eval(target.Index, env)
	if err != nil {
		return err
	}
	i, err := indexOf(idxVal, arr.Len())
	if err != nil {
		return err
	}

	rhs, err := ev.eval(s.Value, env)
	if err != nil {
		return err
	}
	if s.AugOp != "" {
		rhs, err = ev.applyAug(s.AugOp, arr.Get(i), rhs)
		if err != nil {
			return err
		}
	}
	arr.Set(i, rhs)
	return nil
}

// assignDot writes a structure field. Plain `=` creates the field if it
// doesn't exist yet (spec §4.3: "structures grow at runtime"); augmented
// assignment requires the field to already exist, since there is no
// current value to combine with otherwise.
func (ev *Evaluator) assignDot(target *ast.Dot, s *ast.AssignStmt, env *Environment) error {
	recv, err := ev.eval(target.Recv, env)
	if err != nil {
		return err
	}
	st, ok := recv.(value.Structure)
	if !ok {
		return value.NewError(value.TypeError, "value of type %s has no fields", recv.Type())
	}

	rhs, err := ev.eval(s.Value, env)
	if err != nil {
		return err
	}
	if s.AugOp != "" {
		current, exists := st.Get(target.Field)
		if !exists {
			return value.NewError(value.FieldError, "structure has no field %q", target.Field)
		}
		rhs, err = ev.applyAug(s.AugOp, current, rhs)
		if err != nil {
			return err
		}
	}
	st.Set(target.Field, rhs)
	return nil
}
