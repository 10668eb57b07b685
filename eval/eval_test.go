package eval_test

import (
	"bytes"
	"strings"
	"testing"

	"puffin/builtins"
	"puffin/eval"
	"puffin/parser"
	"puffin/value"
)

// run parses and executes src with a fresh Evaluator whose builtins write
// to in-memory buffers and read from stdin, returning what was printed to
// stdout and stderr.
func run(t *testing.T, src string, stdin string) (string, string, *eval.Evaluator, error) {
	t.Helper()
	program, err := parser.New(src).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	ev := eval.New(0)
	var out, errOut bytes.Buffer
	builtins.Install(ev.Globals(), &out, &errOut, strings.NewReader(stdin), 1)
	runErr := ev.Run(program)
	return out.String(), errOut.String(), ev, runErr
}

func TestFactorialRecursion(t *testing.T) {
	src := `
		fact = fn(n) {
			if (n <= 1) { return 1; }
			return n * fact(n - 1);
		};
		println(fact(6));
	`
	out, _, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "720" {
		t.Errorf("fact(6) printed %q, want \"720\"", strings.TrimSpace(out))
	}
}

func TestCurriedAdd(t *testing.T) {
	src := `
		add = fn(a) { return fn(b) => a + b; };
		add5 = add(5);
		println(add5(3));
	`
	out, _, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "8" {
		t.Errorf("curried add printed %q, want \"8\"", strings.TrimSpace(out))
	}
}

func TestArrayMutationVisibleThroughAlias(t *testing.T) {
	src := `
		a = [1, 2, 3];
		b = a;
		b[0] = 99;
		println(a[0]);
	`
	out, _, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "99" {
		t.Errorf("alias mutation printed %q, want \"99\"", strings.TrimSpace(out))
	}
}

func TestStructureGrowsAtRuntime(t *testing.T) {
	src := `
		s = {a: 1};
		s.b = 2;
		println(s.a, s.b);
	`
	out, _, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "1 2" {
		t.Errorf("structure growth printed %q, want \"1 2\"", strings.TrimSpace(out))
	}
}

func TestRangeInitAndForIn(t *testing.T) {
	src := `
		total = 0;
		for (v in [1:5]) {
			total += v;
		}
		println(total);
	`
	out, _, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "15" {
		t.Errorf("range for-in printed %q, want \"15\"", strings.TrimSpace(out))
	}
}

func TestForInRejectsNonArray(t *testing.T) {
	_, _, _, err := run(t, `for (v in {a: 1}) { }`, "")
	rerr, ok := err.(*value.RuntimeError)
	if !ok || rerr.Code != value.TypeError {
		t.Fatalf("expected TypeError iterating a structure, got %v", err)
	}
}

func TestRebindBuiltinFails(t *testing.T) {
	_, _, _, err := run(t, `PI = 3;`, "")
	if err == nil {
		t.Fatal("expected an error rebinding PI")
	}
	rerr, ok := err.(*value.RuntimeError)
	if !ok || rerr.Code != value.RebindBuiltin {
		t.Fatalf("expected RebindBuiltin, got %v", err)
	}
}

func TestRebindTrueFalseFails(t *testing.T) {
	tests := []string{`true = 0;`, `false = 1;`}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, _, _, err := run(t, src, "")
			rerr, ok := err.(*value.RuntimeError)
			if !ok || rerr.Code != value.RebindBuiltin {
				t.Fatalf("expected RebindBuiltin, got %v", err)
			}
		})
	}
}

func TestDivisionByZeroIsValueError(t *testing.T) {
	_, _, _, err := run(t, `x = 1 / 0;`, "")
	rerr, ok := err.(*value.RuntimeError)
	if !ok || rerr.Code != value.ValueErrorCode {
		t.Fatalf("expected ValueError, got %v", err)
	}
}

func TestOutOfBoundsIndexIsIndexError(t *testing.T) {
	_, _, _, err := run(t, `a = [1, 2]; x = a[5];`, "")
	rerr, ok := err.(*value.RuntimeError)
	if !ok || rerr.Code != value.IndexError {
		t.Fatalf("expected IndexError, got %v", err)
	}
}

func TestMissingFieldReadIsFieldError(t *testing.T) {
	_, _, _, err := run(t, `s = {a: 1}; x = s.b;`, "")
	rerr, ok := err.(*value.RuntimeError)
	if !ok || rerr.Code != value.FieldError {
		t.Fatalf("expected FieldError, got %v", err)
	}
}

func TestUnboundedRecursionHitsStackOverflow(t *testing.T) {
	src := `
		loop = fn(n) { return loop(n + 1); };
		loop(0);
	`
	_, _, _, err := run(t, src, "")
	rerr, ok := err.(*value.RuntimeError)
	if !ok || rerr.Code != value.StackOverflow {
		t.Fatalf("expected StackOverflow, got %v", err)
	}
}

func TestInputNumReadsStdin(t *testing.T) {
	src := `
		n = input_num();
		println(n * 2);
	`
	out, _, _, err := run(t, src, "21\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "42" {
		t.Errorf("input_num*2 printed %q, want \"42\"", strings.TrimSpace(out))
	}
}

func TestInputNumPrintsPrompt(t *testing.T) {
	src := `n = input_num("n: ");`
	out, _, _, err := run(t, src, "3\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "n: " {
		t.Errorf("input_num prompt printed %q, want %q", out, "n: ")
	}
}

func TestInputStrAcceptsNoPrompt(t *testing.T) {
	src := `
		s = input_str();
		println(s);
	`
	out, _, _, err := run(t, src, "hello\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("input_str printed %q, want \"hello\"", strings.TrimSpace(out))
	}
}

func TestErrorWritesStderrAndTerminates(t *testing.T) {
	src := `error("bad input");`
	out, errOut, _, err := run(t, src, "")
	if out != "" {
		t.Errorf("error() wrote to stdout: %q", out)
	}
	if strings.TrimSpace(errOut) != "bad input" {
		t.Errorf("error() wrote %q to stderr, want \"bad input\"", strings.TrimSpace(errOut))
	}
	rerr, ok := err.(*value.RuntimeError)
	if !ok || rerr.Code != value.ErrorCalled {
		t.Fatalf("expected ErrorCalled termination, got %v", err)
	}
}

func TestErrorAcceptsMultipleArgsLikePrintln(t *testing.T) {
	src := `error("code", 42);`
	_, errOut, _, _ := run(t, src, "")
	if strings.TrimSpace(errOut) != "code 42" {
		t.Errorf("error() wrote %q to stderr, want \"code 42\"", strings.TrimSpace(errOut))
	}
}

func TestLogicalOperatorsYieldZeroOrOne(t *testing.T) {
	src := `println(3 && 4); println(0 || 5);`
	out, _, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "1" || lines[1] != "1" {
		t.Errorf("logical operators printed %v, want [1 1]", lines)
	}
}
