package riscv

import (
	"os"
	"strings"
	"sync"
	"testing"

	"rvslc/src/midir"
	"rvslc/src/util"
)

// genToString runs GenRiscv against prog and returns everything written,
// round-tripping through a temp file the way the real driver does
// (util.Writer only knows how to send strings down a channel to
// util.ListenWrite, never back to the caller directly).
func genToString(t *testing.T, prog *midir.Program, threads int) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "rvslc-asm-*.s")
	if err != nil {
		t.Fatalf("tempfile: %v", err)
	}
	defer f.Close()

	opt := util.Options{Mode: "riscv", Threads: threads}
	wg := sync.WaitGroup{}
	util.ListenWrite(opt, f, &wg)

	if err := GenRiscv(opt, prog); err != nil {
		t.Fatalf("GenRiscv: %v", err)
	}
	util.Close()
	wg.Wait()

	b, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("read back generated asm: %v", err)
	}
	return string(b)
}

// simpleReturnProgram builds `int main() { return 42; }` directly
// against the midir builder API.
func simpleReturnProgram() *midir.Program {
	prog := midir.NewProgram()
	fn := prog.NewFunction("main", nil, midir.Int32, nil)
	bb := fn.NewBlock("entry")
	fn.AppendBlock(bb)
	fn.NewReturn(bb, prog.ConstInt(42))
	return prog
}

func TestGenRiscvEmitsFunctionLabelAndReturn(t *testing.T) {
	out := genToString(t, simpleReturnProgram(), 1)
	if !strings.Contains(out, "main:") {
		t.Fatalf("missing function label in:\n%s", out)
	}
	if !strings.Contains(out, "li\ta0, 42") {
		t.Fatalf("missing return-value load in:\n%s", out)
	}
	if !strings.Contains(out, "ret\n") {
		t.Fatalf("missing ret in:\n%s", out)
	}
	// A leaf function with no locals needs no stack frame at all.
	if strings.Contains(out, "addi\tsp, sp,") {
		t.Fatalf("leaf function with no locals should not touch sp:\n%s", out)
	}
}

func TestGenRiscvSpillsLocalAndReloadsIt(t *testing.T) {
	prog := midir.NewProgram()
	fn := prog.NewFunction("f", nil, midir.Int32, nil)
	bb := fn.NewBlock("entry")
	fn.AppendBlock(bb)
	x := fn.NewAlloc(bb, midir.Int32, "x")
	fn.NewStore(bb, prog.ConstInt(7), x)
	load := fn.NewLoad(bb, x)
	fn.NewReturn(bb, load)

	out := genToString(t, prog, 1)
	if !strings.Contains(out, "addi\tsp, sp, -16") {
		t.Fatalf("expected a 16-byte-aligned frame for the cell and the loaded value:\n%s", out)
	}
	if !strings.Contains(out, "sw\t") || !strings.Contains(out, "lw\t") {
		t.Fatalf("expected both a store and a load against the spill slot:\n%s", out)
	}
}

func TestGenRiscvCallSavesAndRestoresRA(t *testing.T) {
	prog := midir.NewProgram()
	callee := prog.NewFunction("callee", nil, midir.Unit, nil)
	fn := prog.NewFunction("caller", nil, midir.Unit, nil)
	bb := fn.NewBlock("entry")
	fn.AppendBlock(bb)
	fn.NewCall(bb, callee, nil)
	fn.NewReturn(bb, nil)

	out := genToString(t, prog, 1)
	if !strings.Contains(out, "call\tcallee") {
		t.Fatalf("missing call instruction in:\n%s", out)
	}
	if !strings.Contains(out, "sw\tra,") {
		t.Fatalf("expected ra to be saved in a function that calls out:\n%s", out)
	}
	if !strings.Contains(out, "lw\tra,") {
		t.Fatalf("expected ra to be restored before ret:\n%s", out)
	}
}

func TestGenRiscvGlobalArrayEmitsDataSection(t *testing.T) {
	prog := midir.NewProgram()
	arrType := midir.NewArray(midir.Int32, 3)
	init := prog.Aggregate(midir.Int32, []*midir.Value{
		prog.ConstInt(1), prog.ConstInt(2), prog.ConstInt(3),
	})
	prog.GlobalAlloc("g", arrType, init)
	fn := prog.NewFunction("main", nil, midir.Int32, nil)
	bb := fn.NewBlock("entry")
	fn.AppendBlock(bb)
	fn.NewReturn(bb, prog.ConstInt(0))

	out := genToString(t, prog, 1)
	if !strings.Contains(out, ".data") {
		t.Fatalf("missing data section directive in:\n%s", out)
	}
	if !strings.Contains(out, "g:") {
		t.Fatalf("missing global label in:\n%s", out)
	}
	for _, want := range []string{".word 1", ".word 2", ".word 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestGenRiscvLargeFrameSynthesizesAdjustment(t *testing.T) {
	// 600 spilled words need a 2400-byte frame, past the 12-bit addi
	// range, so the prologue materializes the adjustment through t0 and
	// the highest slots are reached through synthesized addresses.
	prog := midir.NewProgram()
	fn := prog.NewFunction("big", nil, midir.Int32, nil)
	bb := fn.NewBlock("entry")
	fn.AppendBlock(bb)
	var last *midir.Value
	for i := 0; i < 600; i++ {
		last = fn.NewBinary(bb, midir.OpAdd, prog.ConstInt(1), prog.ConstInt(2))
	}
	fn.NewReturn(bb, last)

	out := genToString(t, prog, 1)
	if !strings.Contains(out, "li\tt0, -2400") || !strings.Contains(out, "add\tsp, sp, t0") {
		t.Fatalf("expected a synthesized prologue adjustment for a 2400-byte frame:\n%s", out)
	}
	if !strings.Contains(out, "out of imm range") {
		t.Fatalf("expected high slots to go through large-offset synthesis:\n%s", out)
	}
	// Slots below the immediate limit still use the direct form.
	if !strings.Contains(out, "2044(sp)") {
		t.Fatalf("expected the last in-range slot to use a direct offset:\n%s", out)
	}
}

func TestGenRiscvParallelMatchesSequentialFunctionSet(t *testing.T) {
	prog := midir.NewProgram()
	for _, name := range []string{"a", "b", "c", "d"} {
		fn := prog.NewFunction(name, nil, midir.Int32, nil)
		bb := fn.NewBlock("entry")
		fn.AppendBlock(bb)
		fn.NewReturn(bb, prog.ConstInt(0))
	}

	out := genToString(t, prog, 4)
	for _, name := range []string{"a", "b", "c", "d"} {
		if !strings.Contains(out, name+":") {
			t.Fatalf("missing label for function %q in parallel output:\n%s", name, out)
		}
	}
}
