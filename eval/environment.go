package eval

import "puffin/value"

// Environment is a single frame in the lexical scope chain (spec §3.2): a
// name→value mapping plus a link to the enclosing frame. Frames are
// pushed on entering a block, function body, or loop body, and popped on
// exit — including error exits, which ordinary Go call-stack unwinding
// gives us for free since each push/pop is scoped to one Go function call.
type Environment struct {
	vars   map[string]value.Value
	parent *Environment
}

// newRootEnvironment creates the outermost frame, with no parent.
func newRootEnvironment() *Environment {
	return &Environment{vars: make(map[string]value.Value)}
}

// NewEnvironment creates a standalone root frame with no parent, for
// tests and tools that exercise the builtin registry without a full
// Evaluator.
func NewEnvironment() *Environment {
	return newRootEnvironment()
}

// NewChild creates a new frame whose parent is e. A closure's captured
// environment is simply the *Environment that existed when its `fn`
// expression was evaluated (spec §3.1); because Environment is pointer
// typed, later mutations through this frame are visible to every closure
// that captured it ("environment capture by reference").
func (e *Environment) NewChild() *Environment {
	return &Environment{vars: make(map[string]value.Value), parent: e}
}

// Get searches this frame, then each enclosing frame in turn. The
// innermost binding wins.
func (e *Environment) Get(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Bind creates or overwrites a binding in this exact frame, without
// searching outward. Used to introduce a genuinely new name in a fresh
// frame: function parameters and for-loop variables.
func (e *Environment) Bind(name string, v value.Value) {
	e.vars[name] = v
}

// Assign implements spec §3.2's assignment rule: update the binding in
// whichever frame it already lives in, or create it in this (innermost)
// frame if the name has never been bound anywhere in the chain.
func (e *Environment) Assign(name string, v value.Value) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return
		}
	}
	e.vars[name] = v
}
