package builtins

import (
	"bytes"
	"strings"
	"testing"

	"puffin/eval"
	"puffin/value"
)

func newEnv(t *testing.T, stdin string) (*eval.Environment, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	env := eval.NewEnvironment()
	var out, errOut bytes.Buffer
	Install(env, &out, &errOut, strings.NewReader(stdin), 7)
	return env, &out, &errOut
}

func callBuiltin(t *testing.T, env *eval.Environment, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	v, ok := env.Get(name)
	if !ok {
		t.Fatalf("builtin %q not installed", name)
	}
	fn, ok := v.(value.Builtin)
	if !ok {
		t.Fatalf("%q is not a builtin", name)
	}
	return fn.Fn(args)
}

func TestConstants(t *testing.T) {
	env, _, _ := newEnv(t, "")
	tests := []struct {
		name string
		want float64
	}{
		{"true", 1},
		{"false", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := env.Get(tt.name)
			if !ok {
				t.Fatalf("%s not bound", tt.name)
			}
			n, ok := v.(value.Num)
			if !ok || n.Val != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, v, tt.want)
			}
		})
	}
}

func TestLenAcrossVariants(t *testing.T) {
	env, _, _ := newEnv(t, "")
	tests := []struct {
		name string
		v    value.Value
		want float64
	}{
		{"array", value.NewArray([]value.Value{value.Num{Val: 1}, value.Num{Val: 2}}), 2},
		{"string", value.String{Val: "abcd"}, 4},
		{"structure", value.NewStructure([]string{"a", "b", "c"}, []value.Value{value.Null{}, value.Null{}, value.Null{}}), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := callBuiltin(t, env, "len", tt.v)
			if err != nil {
				t.Fatalf("len() error: %v", err)
			}
			n := got.(value.Num)
			if n.Val != tt.want {
				t.Errorf("len() = %v, want %v", n.Val, tt.want)
			}
		})
	}
}

func TestPushPopRemoveInsert(t *testing.T) {
	env, _, _ := newEnv(t, "")
	arr := value.NewArray([]value.Value{value.Num{Val: 1}, value.Num{Val: 2}})

	if _, err := callBuiltin(t, env, "push", arr, value.Num{Val: 3}); err != nil {
		t.Fatalf("push error: %v", err)
	}
	if arr.Len() != 3 {
		t.Fatalf("after push len = %d, want 3", arr.Len())
	}

	popped, err := callBuiltin(t, env, "pop", arr)
	if err != nil {
		t.Fatalf("pop error: %v", err)
	}
	if !popped.Equal(value.Num{Val: 3}) {
		t.Errorf("pop() = %v, want 3", popped)
	}

	if _, err := callBuiltin(t, env, "insert", arr, value.Num{Val: 0}, value.Num{Val: 100}); err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if !arr.Get(0).Equal(value.Num{Val: 100}) {
		t.Errorf("insert at 0 gave %v, want 100", arr.Get(0))
	}

	removed, err := callBuiltin(t, env, "remove", arr, value.Num{Val: 0})
	if err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if !removed.Equal(value.Num{Val: 100}) {
		t.Errorf("remove() = %v, want 100", removed)
	}
}

func TestSqrtRejectsNegative(t *testing.T) {
	env, _, _ := newEnv(t, "")
	_, err := callBuiltin(t, env, "sqrt", value.Num{Val: -4})
	rerr, ok := err.(*value.RuntimeError)
	if !ok || rerr.Code != value.ValueErrorCode {
		t.Fatalf("expected ValueError for sqrt(-4), got %v", err)
	}
}

func TestInputStrTrimsNewline(t *testing.T) {
	env, _, _ := newEnv(t, "hello world\n")
	got, err := callBuiltin(t, env, "input_str")
	if err != nil {
		t.Fatalf("input_str error: %v", err)
	}
	if got.(value.String).Val != "hello world" {
		t.Errorf("input_str() = %q, want %q", got.(value.String).Val, "hello world")
	}
}

func TestRandIsWithinUnitInterval(t *testing.T) {
	env, _, _ := newEnv(t, "")
	for i := 0; i < 20; i++ {
		got, err := callBuiltin(t, env, "rand")
		if err != nil {
			t.Fatalf("rand() error: %v", err)
		}
		n := got.(value.Num).Val
		if n < 0 || n >= 1 {
			t.Fatalf("rand() = %v, want in [0, 1)", n)
		}
	}
}

func TestErrorBuiltinWritesStderrAndTerminates(t *testing.T) {
	env, _, errOut := newEnv(t, "")
	_, err := callBuiltin(t, env, "error", value.String{Val: "bad input"}, value.Num{Val: 42})
	rerr, ok := err.(*value.RuntimeError)
	if !ok || rerr.Code != value.ErrorCalled {
		t.Fatalf("expected ErrorCalled, got %v", err)
	}
	if strings.TrimSpace(errOut.String()) != "bad input 42" {
		t.Errorf("error() wrote %q to stderr, want %q", strings.TrimSpace(errOut.String()), "bad input 42")
	}
}

func TestErrorBuiltinAcceptsNoArgs(t *testing.T) {
	env, _, _ := newEnv(t, "")
	_, err := callBuiltin(t, env, "error")
	rerr, ok := err.(*value.RuntimeError)
	if !ok || rerr.Code != value.ErrorCalled {
		t.Fatalf("expected ErrorCalled, got %v", err)
	}
}
