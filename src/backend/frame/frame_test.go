package frame_test

import (
	"testing"

	"rvslc/src/backend/frame"
	"rvslc/src/midir"
)

// leafFunc builds a function with a single block containing one Alloc
// of t (plus a trailing void return, since every block must terminate
// before its frame can be planned meaningfully) and no calls.
func leafFunc(prog *midir.Program, allocType *midir.Type) *midir.Function {
	fn := prog.NewFunction("leaf", nil, midir.Unit, nil)
	bb := fn.NewBlock("entry")
	fn.AppendBlock(bb)
	fn.NewAlloc(bb, allocType, "x")
	fn.NewReturn(bb, nil)
	return fn
}

func TestPlanFrameNoCallHasNoRASlot(t *testing.T) {
	prog := midir.NewProgram()
	fn := leafFunc(prog, midir.Int32)
	fr := frame.PlanFrame(fn)

	if fr.HasCall() {
		t.Fatalf("leaf function should not be marked as calling out")
	}
	if fr.Size()%16 != 0 {
		t.Fatalf("frame size %d is not 16-byte aligned", fr.Size())
	}
}

func TestPlanFrameArrayAllocGetsFullSize(t *testing.T) {
	prog := midir.NewProgram()
	arr := midir.NewArray(midir.Int32, 10) // 40 bytes.
	fn := leafFunc(prog, arr)

	fr := frame.PlanFrame(fn)
	alloc := fn.Blocks()[0].Instrs()[0]

	// A flat word-per-value slot (the uncorrected original behaviour)
	// would only reserve 4 bytes here; local array storage needs all
	// 40, since GetElemPtr addresses directly into this slot.
	if fr.Size() < arr.Size() {
		t.Fatalf("frame too small (%d) to hold a %d-byte local array", fr.Size(), arr.Size())
	}
	if got := fr.Offset(alloc); got < 0 || got+arr.Size() > fr.Size() {
		t.Fatalf("array slot at offset %d (size %d) does not fit in frame of size %d",
			got, arr.Size(), fr.Size())
	}
}

func TestPlanFrameWithCallReservesRAAndOutArgs(t *testing.T) {
	prog := midir.NewProgram()
	callee := prog.NewFunction("callee", nil, midir.Unit, nil)

	fn := prog.NewFunction("caller", nil, midir.Unit, nil)
	bb := fn.NewBlock("entry")
	fn.AppendBlock(bb)
	// 9 arguments: the 9th must be passed on the stack (regs hold 8).
	args := make([]*midir.Value, 9)
	for i1 := range args {
		args[i1] = prog.ConstInt(int32(i1))
	}
	fn.NewCall(bb, callee, args)
	fn.NewReturn(bb, nil)

	fr := frame.PlanFrame(fn)
	if !fr.HasCall() {
		t.Fatalf("function with a Call should be marked as calling out")
	}
	// ra is always saved at the very top of the frame.
	if fr.RAOffset() != fr.Size()-4 {
		t.Fatalf("ra offset %d, want %d", fr.RAOffset(), fr.Size()-4)
	}
	if frame.OutArgOffset(0) != 0 {
		t.Fatalf("first stack-passed argument should sit at offset 0, got %d", frame.OutArgOffset(0))
	}
}

func TestPlanFrameEmptyFunctionHasZeroSize(t *testing.T) {
	prog := midir.NewProgram()
	fn := prog.NewFunction("empty", nil, midir.Unit, nil)
	bb := fn.NewBlock("entry")
	fn.AppendBlock(bb)
	fn.NewReturn(bb, nil)

	fr := frame.PlanFrame(fn)
	if fr.Size() != 0 {
		t.Fatalf("function with no locals and no calls should need no frame, got size %d", fr.Size())
	}
}

func TestFrameOffsetPanicsOnUnitValue(t *testing.T) {
	prog := midir.NewProgram()
	fn := leafFunc(prog, midir.Int32)
	fr := frame.PlanFrame(fn)
	ret := fn.Blocks()[0].Instrs()[1] // the Return, unit-typed.

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Offset to panic for a unit-typed value")
		}
	}()
	fr.Offset(ret)
}
