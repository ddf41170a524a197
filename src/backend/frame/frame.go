// frame.go plans a function's stack frame: the byte offset from sp that
// every non-unit-typed instruction result is spilled to, and the total
// frame size. Every value is spilled — there is no register allocator
// in this backend, so a function's frame holds one word per non-unit
// instruction result (an Alloc's slot instead holds the whole allocated
// type, see slotSize) plus outgoing call arguments beyond the first
// eight and (if the function itself calls out) one word for ra.
//
// Layout, sp-relative, lowest address first:
//
//	outgoing arg 9, 10, ...   (call_args_size bytes)
//	instruction results       (local_size bytes)
//	saved ra                  (ra_size bytes, only if the function calls out)
package frame

import "rvslc/src/midir"

const wordSize = 4
const stackAlign = 16

// Frame holds the per-value spill offsets and overall size computed for
// one function.
type Frame struct {
	offsets  map[*midir.Value]int
	size     int
	raOffset int // valid only if hasCall.
	hasCall  bool
}

// PlanFrame walks every instruction in fn and assigns spill offsets.
func PlanFrame(fn *midir.Function) *Frame {
	fr := &Frame{offsets: make(map[*midir.Value]int)}

	maxCallArgs := 0
	for _, b := range fn.Blocks() {
		for _, v := range b.Instrs() {
			if v.Kind() == midir.KindCall {
				fr.hasCall = true
				_, args := v.CallOperands()
				if len(args) > maxCallArgs {
					maxCallArgs = len(args)
				}
			}
		}
	}

	raSize := 0
	if fr.hasCall {
		raSize = wordSize
	}
	callArgsSize := 0
	if maxCallArgs > 8 {
		callArgsSize = (maxCallArgs - 8) * wordSize
	}

	localSize := 0
	for _, b := range fn.Blocks() {
		for _, v := range b.Instrs() {
			if v.Type().IsUnit() {
				continue
			}
			fr.offsets[v] = localSize + callArgsSize
			localSize += slotSize(v)
		}
	}

	total := raSize + localSize + callArgsSize
	fr.size = (total + stackAlign - 1) &^ (stackAlign - 1)
	if fr.hasCall {
		fr.raOffset = fr.size - raSize
	}
	return fr
}

// slotSize returns the number of bytes v's frame slot reserves. Every
// instruction result is a scalar (i32 or a pointer) except Alloc, whose
// slot is not a pointer-sized cell holding an address computed
// elsewhere — it IS the storage the allocated type needs, addressed
// directly as sp-relative offsets by later GetElemPtr/GetPtr
// instructions. A plain word-per-value slot (as if Alloc needed only
// enough room for its own pointer value) would silently truncate every
// local array to four bytes.
func slotSize(v *midir.Value) int {
	if v.Kind() == midir.KindAlloc {
		return v.AllocType().Size()
	}
	return wordSize
}

// Offset returns the sp-relative byte offset spilled to for v's result.
// Panics if v has no spill slot (a unit-typed value, or a value not
// belonging to this frame) — a programming error in the caller.
func (fr *Frame) Offset(v *midir.Value) int {
	off, ok := fr.offsets[v]
	if !ok {
		panic("backend: value has no stack slot in this frame")
	}
	return off
}

// Size returns the total, 16-byte-aligned frame size in bytes.
func (fr *Frame) Size() int { return fr.size }

// HasCall reports whether the function being framed calls another
// function, and therefore needs to save ra.
func (fr *Frame) HasCall() bool { return fr.hasCall }

// RAOffset returns the sp-relative offset ra is saved to. Valid only
// when HasCall is true.
func (fr *Frame) RAOffset() int { return fr.raOffset }

// OutArgOffset returns the sp-relative offset of the nth (0-indexed)
// outgoing call argument beyond the eighth, used to pass arguments
// 9, 10, ... on the stack per the calling convention.
func OutArgOffset(n int) int { return n * wordSize }
