package midir

import "fmt"

// ValueKind discriminates the tagged union a Value holds. Every field of
// Value not relevant to a kind is left zero.
type ValueKind int

const (
	KindInteger ValueKind = iota
	KindZeroInit
	KindAggregate
	KindGlobalAlloc
	KindAlloc
	KindLoad
	KindStore
	KindGetElemPtr
	KindGetPtr
	KindBinary
	KindBranch
	KindJump
	KindCall
	KindReturn
	KindFuncArgRef
)

// BinaryOp enumerates the MidIR binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpSar
	OpSlt
	OpSgt
	OpEq
	OpNeq
	OpLe
	OpGe
)

var binaryOpNames = [...]string{
	"add", "sub", "mul", "div", "mod", "and", "or", "xor",
	"shl", "shr", "sar", "slt", "sgt", "eq", "neq", "le", "ge",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// Value is a handle addressing a global, a function, or an
// instruction/constant local to a function. Handles are implemented as
// pointers so identity is stable for the lifetime of the program, per
// the working contract.
type Value struct {
	id   int
	name string
	typ  *Type
	kind ValueKind

	global bool // true if this Value is a GlobalAlloc.

	// KindInteger
	intVal int32

	// KindAggregate, Call args
	elems []*Value

	// KindGlobalAlloc, KindAlloc
	allocType *Type

	// KindGlobalAlloc
	init *Value

	// KindLoad, KindGetElemPtr, KindGetPtr (src)
	src *Value

	// KindStore
	storeVal  *Value
	storeDest *Value

	// KindGetElemPtr, KindGetPtr
	index *Value

	// KindBinary
	op       BinaryOp
	lhs, rhs *Value

	// KindBranch
	cond            *Value
	trueBB, falseBB *Block

	// KindJump
	target *Block

	// KindCall
	callee *Function

	// KindReturn
	retVal *Value

	// KindFuncArgRef
	argIndex int
}

// Id returns the unique sequence number assigned to v when it was
// created.
func (v *Value) Id() int { return v.id }

// Name returns the display name of v (empty if never set).
func (v *Value) Name() string { return v.name }

// SetName sets the display name of v.
func (v *Value) SetName(name string) { v.name = name }

// Type returns the type of v.
func (v *Value) Type() *Type { return v.typ }

// Kind returns the value kind of v.
func (v *Value) Kind() ValueKind { return v.kind }

// IsGlobal reports whether v is a GlobalAlloc.
func (v *Value) IsGlobal() bool { return v.global }

// IntValue returns the constant payload of a KindInteger value.
func (v *Value) IntValue() int32 { return v.intVal }

// Elems returns the element list of a KindAggregate value.
func (v *Value) Elems() []*Value { return v.elems }

// AllocType returns the pointee type of a KindGlobalAlloc/KindAlloc
// value.
func (v *Value) AllocType() *Type { return v.allocType }

// Init returns the initializer handle of a KindGlobalAlloc value.
func (v *Value) Init() *Value { return v.init }

// Src returns the source operand of a KindLoad/KindGetElemPtr/KindGetPtr
// value.
func (v *Value) Src() *Value { return v.src }

// StoreOperands returns the (value, dest) operands of a KindStore
// value.
func (v *Value) StoreOperands() (*Value, *Value) { return v.storeVal, v.storeDest }

// Index returns the index operand of a KindGetElemPtr/KindGetPtr value.
func (v *Value) Index() *Value { return v.index }

// BinaryOp returns the operator and operands of a KindBinary value.
func (v *Value) BinaryOp() (BinaryOp, *Value, *Value) { return v.op, v.lhs, v.rhs }

// BranchOperands returns the (cond, true_bb, false_bb) operands of a
// KindBranch value.
func (v *Value) BranchOperands() (*Value, *Block, *Block) { return v.cond, v.trueBB, v.falseBB }

// JumpTarget returns the target block of a KindJump value.
func (v *Value) JumpTarget() *Block { return v.target }

// CallOperands returns the callee and argument list of a KindCall
// value.
func (v *Value) CallOperands() (*Function, []*Value) { return v.callee, v.elems }

// ReturnValue returns the optional return operand of a KindReturn value
// (nil for "return;").
func (v *Value) ReturnValue() *Value { return v.retVal }

// ArgIndex returns the parameter index of a KindFuncArgRef value.
func (v *Value) ArgIndex() int { return v.argIndex }

// displayName returns the name to use in textual output: the explicit
// name if set, else a sequence-derived fallback.
func (v *Value) displayName() string {
	if v.name != "" {
		return v.name
	}
	return fmt.Sprintf("%%%d", v.id)
}
