package midir

import "fmt"

// Function is a MidIR function: a name, a signature, an ordered
// parameter-handle list, and a layout of basic blocks. A function with
// no blocks is declaration-only (the runtime library entries are all
// declaration-only).
type Function struct {
	prog       *Program
	id         int
	name       string
	paramTypes []*Type
	paramNames []string
	params     []*Value // KindFuncArgRef handles, index-aligned with paramTypes.
	retType    *Type
	blocks     []*Block
}

// Id returns the unique sequence number assigned to f when it was
// created.
func (f *Function) Id() int { return f.id }

// Name returns the display name of f (the '@'-stripped symbol).
func (f *Function) Name() string { return f.name }

// RetType returns the declared return type of f.
func (f *Function) RetType() *Type { return f.retType }

// ParamTypes returns the parameter types of f in declaration order.
func (f *Function) ParamTypes() []*Type { return f.paramTypes }

// Params returns the function's parameter handles (KindFuncArgRef
// values), obtainable per the working contract so lowering can bind
// them to local storage.
func (f *Function) Params() []*Value { return f.params }

// IsDeclaration reports whether f has no basic blocks (a runtime-library
// declaration such as getint/putint).
func (f *Function) IsDeclaration() bool { return len(f.blocks) == 0 }

// Blocks returns f's basic blocks in layout order.
func (f *Function) Blocks() []*Block { return f.blocks }

// NewBlock creates a basic block with the given label within f but does
// not add it to f's layout; call AppendBlock to do that. Splitting
// creation from appending lets the lowering engine build a block's
// identity (e.g. to use as a branch target) before it has any
// instructions.
func (f *Function) NewBlock(label string) *Block {
	b := &Block{id: f.prog.nextId(), parent: f}
	if label != "" {
		b.name = label
	} else {
		b.name = fmt.Sprintf("bb%d", b.id)
	}
	return b
}

// AppendBlock appends b to f's layout.
func (f *Function) AppendBlock(b *Block) {
	f.blocks = append(f.blocks, b)
}
