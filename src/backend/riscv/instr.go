package riscv

import (
	"rvslc/src/backend/frame"
	"rvslc/src/backend/xtoa"
	"rvslc/src/midir"
)

// genCtx carries the state one function's code generation needs:
// its frame plan and the writer its instructions accumulate into.
type genCtx struct {
	fn *midir.Function
	fr *frame.Frame
	w  *frame.AsmWriter
}

// addr materializes an sp-relative offset as an operand, synthesizing
// it into scratch when it doesn't fit a 12-bit immediate. tmp must not
// be the register the caller still needs live.
func (c *genCtx) addr(offset int, tmp string) string {
	if offset > maxImm || offset < minImm {
		c.w.Comment("offset %s out of imm range, synthesizing", xtoa.ItoA(offset))
		c.w.Write("\tli\t%s, %d\n", tmp, offset)
		c.w.Ins3("add", tmp, regi[sp], tmp)
		return "0(" + tmp + ")"
	}
	return ""
}

// loadSlot loads the value held in v's frame slot into dst.
func (c *genCtx) loadSlot(v *midir.Value, dst string) {
	off := c.fr.Offset(v)
	if a := c.addr(off, scratchFor(dst)); a != "" {
		c.w.Write("\tlw\t%s, %s\n", dst, a)
		return
	}
	c.w.LoadStore("lw", dst, off, regi[sp])
}

// storeSlot stores src into v's frame slot. Unit-typed values have no
// slot and must never reach here.
func (c *genCtx) storeSlot(v *midir.Value, src string) {
	off := c.fr.Offset(v)
	if a := c.addr(off, scratchFor(src)); a != "" {
		c.w.Write("\tsw\t%s, %s\n", src, a)
		return
	}
	c.w.LoadStore("sw", src, off, regi[sp])
}

// scratchFor picks an address-synthesis scratch register distinct from
// avoid, from t0-t2, the only scratch registers this backend uses.
func scratchFor(avoid string) string {
	for _, r := range []string{regi[t0], regi[t1], regi[t2]} {
		if r != avoid {
			return r
		}
	}
	panic("backend/riscv: no free scratch register")
}

// allocAddr computes the address of a local Alloc v (sp + its slot
// offset — the slot itself IS the variable's storage) into dst.
func (c *genCtx) allocAddr(v *midir.Value, dst string) {
	off := c.fr.Offset(v)
	if off <= maxImm && off >= minImm {
		c.w.Ins2imm("addi", dst, regi[sp], off)
		return
	}
	c.w.Comment("offset %s out of imm range, synthesizing", xtoa.ItoA(off))
	c.w.Write("\tli\t%s, %d\n", dst, off)
	c.w.Ins3("add", dst, regi[sp], dst)
}

// loadArgRef loads the value of a FuncArgRef param into dst: the first
// eight arguments arrive in a0-a7, the rest on the caller's stack, one
// frame below this function's own (see frame.go's layout comment).
func (c *genCtx) loadArgRef(v *midir.Value, dst string) {
	idx := v.ArgIndex()
	if idx < len(argRegs) {
		c.w.Ins2("mv", dst, regi[argRegs[idx]])
		return
	}
	off := c.fr.Size() + (idx-len(argRegs))*wordSize
	if a := c.addr(off, scratchFor(dst)); a != "" {
		c.w.Write("\tlw\t%s, %s\n", dst, a)
		return
	}
	c.w.LoadStore("lw", dst, off, regi[sp])
}

// loadAddress materializes the address a pointer-typed Value v stands
// for into dst: an Alloc's address is computed arithmetically, a
// GlobalAlloc's from its label, and anything else (a GetElemPtr/GetPtr
// result) was already computed and spilled, so it's loaded back.
func (c *genCtx) loadAddress(v *midir.Value, dst string) {
	switch v.Kind() {
	case midir.KindAlloc:
		c.allocAddr(v, dst)
	case midir.KindGlobalAlloc:
		c.w.Write("\tla\t%s, %s\n", dst, v.Name())
	default:
		c.loadSlot(v, dst)
	}
}

// loadOperand materializes any Value's data (as opposed to address)
// into dst.
func (c *genCtx) loadOperand(v *midir.Value, dst string) {
	switch v.Kind() {
	case midir.KindInteger:
		if v.IntValue() == 0 {
			c.w.Ins2("mv", dst, regi[zero])
		} else {
			c.w.Write("\tli\t%s, %d\n", dst, v.IntValue())
		}
	case midir.KindFuncArgRef:
		c.loadArgRef(v, dst)
	case midir.KindAlloc, midir.KindGlobalAlloc:
		c.loadAddress(v, dst)
	default:
		c.loadSlot(v, dst)
	}
}

// storeResult spills src into v's frame slot, if v has one (unit-typed
// instructions, i.e. Store/Branch/Jump/Return, don't).
func (c *genCtx) storeResult(v *midir.Value, src string) {
	if v.Type().IsUnit() {
		return
	}
	c.storeSlot(v, src)
}
