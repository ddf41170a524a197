package midir

import "testing"

func TestMinimalReturnProgram(t *testing.T) {
	p := NewProgram()
	f := p.NewFunction("main", nil, Int32, nil)
	entry := f.NewBlock("entry")
	f.AppendBlock(entry)
	f.NewReturn(entry, p.ConstInt(42))

	got := p.String()
	want := "fun @main(): i32 {\n%entry:\n  ret 42\n}\n\n"
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestAggregateSizeAndString(t *testing.T) {
	p := NewProgram()
	arr := NewArray(Int32, 3)
	init := p.Aggregate(Int32, []*Value{p.ConstInt(1), p.ConstInt(0), p.ConstInt(2)})
	g := p.GlobalAlloc("a", arr, init)
	if arr.Size() != 12 {
		t.Fatalf("expected array size 12, got %d", arr.Size())
	}
	if !g.IsGlobal() {
		t.Fatalf("expected GlobalAlloc to report IsGlobal")
	}
	got := p.String()
	want := "global @a = alloc [i32, 3], {1, 0, 2}\n\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestFuncArgRefParams(t *testing.T) {
	p := NewProgram()
	f := p.NewFunction("add", []*Type{Int32, Int32}, Int32, []string{"a", "b"})
	if len(f.Params()) != 2 {
		t.Fatalf("expected 2 params, got %d", len(f.Params()))
	}
	if f.Params()[0].Kind() != KindFuncArgRef || f.Params()[0].ArgIndex() != 0 {
		t.Fatalf("unexpected param 0: %+v", f.Params()[0])
	}
}
