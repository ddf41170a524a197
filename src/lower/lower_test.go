package lower

import (
	"strings"
	"testing"

	"rvslc/src/frontend"
	"rvslc/src/util"
)

func TestMain(m *testing.M) {
	go util.ListenLabel()
	code := m.Run()
	util.CloseLabel()
	if code != 0 {
		panic("lower package tests failed")
	}
}

func mustLower(t *testing.T, src string) string {
	t.Helper()
	tu, err := frontend.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	prog, err := Lower(tu)
	if err != nil {
		t.Fatalf("lower error: %v", err)
	}
	return prog.String()
}

func TestLowerMinimalReturn(t *testing.T) {
	out := mustLower(t, "int main() { return 1; }")
	if !strings.Contains(out, "fun @main(): i32 {") {
		t.Fatalf("missing main signature in:\n%s", out)
	}
	if !strings.Contains(out, "ret 1") {
		t.Fatalf("missing return in:\n%s", out)
	}
}

func TestLowerImplicitReturnZero(t *testing.T) {
	out := mustLower(t, "int main() { int x; x = 1; }")
	if !strings.Contains(out, "ret 0") {
		t.Fatalf("expected implicit `ret 0`, got:\n%s", out)
	}
}

func TestLowerVoidFunctionImplicitReturn(t *testing.T) {
	out := mustLower(t, "void f() { } int main() { f(); return 0; }")
	if !strings.Contains(out, "fun @f() {") {
		t.Fatalf("missing void function signature in:\n%s", out)
	}
	if !strings.Contains(out, "ret\n") && !strings.HasSuffix(strings.TrimSpace(out), "ret") {
		t.Fatalf("expected bare `ret` in void function body:\n%s", out)
	}
}

func TestLowerShortCircuitOrSkipsDivByZero(t *testing.T) {
	// 1 || (1/0) must lower without error: the divide-by-zero operand
	// sits in a conditionally-unreached block.
	out := mustLower(t, "int f() { if (1 || (1/0)) return 7; return 0; }")
	if !strings.Contains(out, "or_rhs") {
		t.Fatalf("expected a short-circuit rhs block, got:\n%s", out)
	}
}

func TestLowerArrayIndexing(t *testing.T) {
	out := mustLower(t, "int main() { int a[3] = {1, 2, 3}; return a[1]; }")
	if !strings.Contains(out, "getelemptr") {
		t.Fatalf("expected a getelemptr instruction, got:\n%s", out)
	}
}

func TestLowerCallsRuntimeFunction(t *testing.T) {
	out := mustLower(t, "int main() { putint(42); return 0; }")
	if !strings.Contains(out, "call @putint(42)") {
		t.Fatalf("expected a call to @putint, got:\n%s", out)
	}
}

func TestLowerGlobalArrayAggregate(t *testing.T) {
	out := mustLower(t, "int a[2][3] = {1, {2}, 3, 4}; int main() { return a[1][1]; }")
	if !strings.Contains(out, "global @a") {
		t.Fatalf("expected a global declaration for a, got:\n%s", out)
	}
	if !strings.Contains(out, "{1, 0, 0}") || !strings.Contains(out, "{2, 3, 4}") {
		t.Fatalf("expected row aggregates {1, 0, 0} and {2, 3, 4}, got:\n%s", out)
	}
}

func TestLowerConstFoldsPureExpression(t *testing.T) {
	// N resolves through the symbol table and N+1 collapses to a
	// single interned constant; no add instruction survives.
	out := mustLower(t, "const int N = 5; int main() { int a[N]; return N + 1; }")
	if !strings.Contains(out, "ret 6") {
		t.Fatalf("expected folded `ret 6`, got:\n%s", out)
	}
	if strings.Contains(out, "= add") {
		t.Fatalf("constant expression should not emit an add instruction:\n%s", out)
	}
	if !strings.Contains(out, "alloc [i32, 5]") {
		t.Fatalf("expected the array dimension to resolve to 5, got:\n%s", out)
	}
}

func TestLowerShadowedNamesGetDistinctCells(t *testing.T) {
	out := mustLower(t, "int main() { int x; x = 1; { int x; x = 2; } return 0; }")
	if !strings.Contains(out, "%x_1") || !strings.Contains(out, "%x_2") {
		t.Fatalf("expected level-suffixed cell names for shadowed x, got:\n%s", out)
	}
}

func TestLowerArrayArgumentDecaysToPointer(t *testing.T) {
	out := mustLower(t, "int main() { int a[3]; putarray(getarray(a), a); return 0; }")
	if !strings.Contains(out, "call @getarray") || !strings.Contains(out, "call @putarray") {
		t.Fatalf("expected array I/O calls, got:\n%s", out)
	}
	if !strings.Contains(out, "getelemptr") {
		t.Fatalf("expected the array argument to decay through getelemptr, got:\n%s", out)
	}
}

func TestLowerBreakOutsideLoopIsAnError(t *testing.T) {
	tu, err := frontend.Parse("int main() { break; return 0; }")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := Lower(tu); err == nil {
		t.Fatalf("expected an error for break outside a loop")
	}
}

func TestLowerWhileLoop(t *testing.T) {
	out := mustLower(t, "int main() { int i; i = 0; while (i < 10) { i = i + 1; } return i; }")
	if !strings.Contains(out, "while_cond") || !strings.Contains(out, "while_body") || !strings.Contains(out, "while_end") {
		t.Fatalf("expected while_cond/while_body/while_end blocks, got:\n%s", out)
	}
}
