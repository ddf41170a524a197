package lower

import (
	"testing"

	"rvslc/src/frontend"
)

func lit(v int32) *frontend.InitList { return &frontend.InitList{Expr: &frontend.IntLit{Value: v}} }

func brace(children ...*frontend.InitList) *frontend.InitList {
	return &frontend.InitList{List: children}
}

func slotVal(t *testing.T, e frontend.Expr) int32 {
	t.Helper()
	il, ok := e.(*frontend.IntLit)
	if !ok {
		t.Fatalf("expected *frontend.IntLit slot, got %T", e)
	}
	return il.Value
}

// int a[2][3] = {1, {2}, 3, 4};
// The brace around 2 does not line up with a row boundary (cursor sits
// at 1, one past "1"), so it is pushed to the next row (position 3)
// before being filled; 3 and 4 then continue filling that same row.
func TestFlattenInitArrayWithGaps(t *testing.T) {
	dims := []int{2, 3}
	init := brace(lit(1), brace(lit(2)), lit(3), lit(4))

	slots, err := flattenInit(dims, init)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(slots))
	}
	want := []int32{1, 0, 0, 2, 3, 4}
	for i, w := range want {
		if slots[i] == nil {
			if w != 0 {
				t.Fatalf("slot %d: expected %d, got nil (zero)", i, w)
			}
			continue
		}
		if got := slotVal(t, slots[i]); got != w {
			t.Fatalf("slot %d: expected %d, got %d", i, w, got)
		}
	}
}

func TestFlattenInitFullyBracedRows(t *testing.T) {
	dims := []int{2, 2}
	init := brace(brace(lit(1), lit(2)), brace(lit(3), lit(4)))
	slots, err := flattenInit(dims, init)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int32{1, 2, 3, 4}
	for i, w := range want {
		if got := slotVal(t, slots[i]); got != w {
			t.Fatalf("slot %d: expected %d, got %d", i, w, got)
		}
	}
}

func TestFlattenInitPartialTrailingZero(t *testing.T) {
	dims := []int{4}
	init := brace(lit(1), lit(2))
	slots, err := flattenInit(dims, init)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots[0] == nil || slotVal(t, slots[0]) != 1 {
		t.Fatalf("slot 0 wrong")
	}
	if slots[1] == nil || slotVal(t, slots[1]) != 2 {
		t.Fatalf("slot 1 wrong")
	}
	if slots[2] != nil || slots[3] != nil {
		t.Fatalf("expected trailing slots to be zero (nil)")
	}
}

func TestIndicesOfRowMajor(t *testing.T) {
	dims := []int{2, 3}
	got := indicesOf(dims, 4)
	if got[0] != 1 || got[1] != 1 {
		t.Fatalf("indicesOf(4) = %v, want [1 1]", got)
	}
}

func TestFlattenScalarUnwrapsSingleBrace(t *testing.T) {
	init := brace(lit(7))
	slots, err := flattenInit(nil, init)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slotVal(t, slots[0]) != 7 {
		t.Fatalf("expected single slot of 7, got %v", slots)
	}
}
