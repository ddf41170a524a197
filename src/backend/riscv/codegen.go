// codegen.go walks a MidIR program and emits RISC-V 32-bit assembly.
// Every value spills to its frame slot (see frame.Frame): nothing
// is assumed live in a register across instruction boundaries, so
// there is nothing to save across a call either. t0-t2 are the only
// registers used as scratch, and only within the span of the one
// instruction being generated.
package riscv

import (
	"errors"
	"fmt"
	"sync"

	"rvslc/src/backend/frame"
	"rvslc/src/midir"
	"rvslc/src/util"
)

// GenRiscv generates RISC-V assembly for prog and writes it out through
// the util.Writer channel architecture util.ListenWrite set up. Globals
// are emitted first and synchronously; functions are then generated,
// optionally in parallel across opt.Threads worker goroutines, one
// write burst per function.
func GenRiscv(opt util.Options, prog *midir.Program) error {
	if len(prog.Globals()) > 0 {
		gw := util.NewWriter()
		genGlobals(&gw, prog)
		gw.Flush()
		gw.Close()
	}

	fns := make([]*midir.Function, 0, len(prog.Functions()))
	for _, fn := range prog.Functions() {
		if !fn.IsDeclaration() {
			fns = append(fns, fn)
		}
	}

	if opt.Threads > 1 && len(fns) > 1 {
		return genFunctionsParallel(fns, opt.Threads)
	}

	w := util.NewWriter()
	for _, fn := range fns {
		genFunction(&w, fn)
	}
	w.Flush()
	w.Close()
	return nil
}

// genFunctionsParallel fans function generation out across t worker
// goroutines, one util.Writer burst per function, collecting recovered
// panics as errors through util.NewPerror.
func genFunctionsParallel(fns []*midir.Function, t int) error {
	if t > len(fns) {
		t = len(fns)
	}
	pe := util.NewPerror(len(fns))
	wg := sync.WaitGroup{}

	n := len(fns) / t
	res := len(fns) % t
	i := 0
	for worker := 0; worker < t; worker++ {
		j := n
		if worker < res {
			j++
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for _, fn := range fns[lo:hi] {
				func() {
					defer func() {
						if r := recover(); r != nil {
							pe.Append(fmt.Errorf("function %s: %v", fn.Name(), r))
						}
					}()
					w := util.NewWriter()
					genFunction(&w, fn)
					w.Flush()
					w.Close()
				}()
			}
		}(i, i+j)
		i += j
	}
	wg.Wait()
	pe.Stop()
	if pe.Len() > 0 {
		return errors.New("errors during parallel code generation")
	}
	return nil
}

// genGlobals emits the data segment: one label and initializer per
// GlobalAlloc.
func genGlobals(w *util.Writer, prog *midir.Program) {
	aw := frame.NewAsmWriter(w)
	aw.Directive(false, "data")
	for _, g := range prog.Globals() {
		aw.Directive(true, "globl %s", g.Name())
		aw.Label(g.Name())
		emitInitializer(aw, g.Init())
	}
	aw.BlankLine()
}

// emitInitializer recursively flattens a GlobalAlloc's initializer
// into .word/.zero directives.
func emitInitializer(w frame.AsmWriter, v *midir.Value) {
	switch v.Kind() {
	case midir.KindInteger:
		w.Directive(true, "word %d", v.IntValue())
	case midir.KindZeroInit:
		w.Directive(true, "zero %d", v.Type().Size())
	case midir.KindAggregate:
		for _, e := range v.Elems() {
			emitInitializer(w, e)
		}
	}
}

// genFunction emits the prologue, body and every Return's epilogue for
// one function.
func genFunction(w *util.Writer, fn *midir.Function) {
	aw := frame.NewAsmWriter(w)
	fr := frame.PlanFrame(fn)
	ctx := &genCtx{fn: fn, fr: fr, w: &aw}

	aw.Directive(false, "text")
	aw.Directive(true, "globl %s", fn.Name())
	aw.Label(fn.Name())
	genPrologue(ctx)

	for i, b := range fn.Blocks() {
		// The entry block needs no label of its own: the function
		// label already names it, and nothing ever branches back to
		// it. Emitting one would also collide across functions, since
		// every function's entry block shares the same name.
		if i > 0 {
			aw.Label(b.Name())
		}
		for _, v := range b.Instrs() {
			genInstr(ctx, v)
		}
	}
	aw.BlankLine()
}

// genPrologue grows the stack and saves ra if the function calls out.
// Parameter materialization needs no special-cased code here: it's
// just the entry block's leading Store(FuncArgRef(i), allocSlot)
// instructions, handled like any other Store by genInstr.
func genPrologue(c *genCtx) {
	size := c.fr.Size()
	if size == 0 {
		return
	}
	if size <= maxImm {
		c.w.Ins2imm("addi", regi[sp], regi[sp], -size)
	} else {
		c.w.Write("\tli\t%s, %d\n", regi[t0], -size)
		c.w.Ins3("add", regi[sp], regi[sp], regi[t0])
	}
	if c.fr.HasCall() {
		c.storeSlotAt(c.fr.RAOffset(), regi[ra])
	}
}

// genEpilogue shrinks the stack back down and restores ra. Emitted
// once per Return, since this backend has no shared exit block.
func genEpilogue(c *genCtx) {
	if c.fr.HasCall() {
		c.loadSlotAt(c.fr.RAOffset(), regi[ra])
	}
	size := c.fr.Size()
	if size == 0 {
		return
	}
	if size <= maxImm {
		c.w.Ins2imm("addi", regi[sp], regi[sp], size)
	} else {
		c.w.Write("\tli\t%s, %d\n", regi[t0], size)
		c.w.Ins3("add", regi[sp], regi[sp], regi[t0])
	}
}

// storeSlotAt/loadSlotAt move a register to/from a raw sp-relative
// offset not tied to any midir.Value (used for ra, whose save slot
// sits outside the per-instruction offset map).
func (c *genCtx) storeSlotAt(off int, src string) {
	if a := c.addr(off, scratchFor(src)); a != "" {
		c.w.Write("\tsw\t%s, %s\n", src, a)
		return
	}
	c.w.LoadStore("sw", src, off, regi[sp])
}

func (c *genCtx) loadSlotAt(off int, dst string) {
	if a := c.addr(off, scratchFor(dst)); a != "" {
		c.w.Write("\tlw\t%s, %s\n", dst, a)
		return
	}
	c.w.LoadStore("lw", dst, off, regi[sp])
}

// genInstr dispatches on v's kind. Alloc needs no code: its slot IS
// the variable's storage, addressed on demand by whatever references
// it (see loadAddress in instr.go).
func genInstr(c *genCtx, v *midir.Value) {
	switch v.Kind() {
	case midir.KindAlloc:
	case midir.KindLoad:
		genLoad(c, v)
	case midir.KindStore:
		genStore(c, v)
	case midir.KindGetElemPtr:
		genGetElemPtr(c, v)
	case midir.KindGetPtr:
		genGetPtr(c, v)
	case midir.KindBinary:
		genBinary(c, v)
	case midir.KindBranch:
		genBranch(c, v)
	case midir.KindJump:
		genJump(c, v)
	case midir.KindCall:
		genCall(c, v)
	case midir.KindReturn:
		genReturn(c, v)
	}
}

func genLoad(c *genCtx, v *midir.Value) {
	src := v.Src()
	switch src.Kind() {
	case midir.KindAlloc:
		// The slot is the cell; read it straight off sp.
		c.loadSlotAt(c.fr.Offset(src), regi[t0])
	case midir.KindGlobalAlloc:
		c.w.Write("\tla\t%s, %s\n", regi[t0], src.Name())
		c.w.LoadStore("lw", regi[t0], 0, regi[t0])
	default:
		// A computed address (GetElemPtr/GetPtr result): reload it,
		// then dereference.
		c.loadSlot(src, regi[t0])
		c.w.LoadStore("lw", regi[t0], 0, regi[t0])
	}
	c.storeResult(v, regi[t0])
}

func genStore(c *genCtx, v *midir.Value) {
	val, dest := v.StoreOperands()
	c.loadOperand(val, regi[t0])
	switch dest.Kind() {
	case midir.KindAlloc:
		c.storeSlotAt(c.fr.Offset(dest), regi[t0])
	case midir.KindGlobalAlloc:
		c.w.Write("\tla\t%s, %s\n", regi[t1], dest.Name())
		c.w.LoadStore("sw", regi[t0], 0, regi[t1])
	default:
		c.loadSlot(dest, regi[t1])
		c.w.LoadStore("sw", regi[t0], 0, regi[t1])
	}
}

func genGetElemPtr(c *genCtx, v *midir.Value) {
	elemSize := v.Type().Elem.Size()
	c.loadAddress(v.Src(), regi[t0])
	c.loadOperand(v.Index(), regi[t1])
	if shift, ok := log2PowerOfTwo(elemSize); ok {
		if shift != 0 {
			c.w.Ins2imm("slli", regi[t1], regi[t1], shift)
		}
	} else {
		c.w.Write("\tli\t%s, %d\n", regi[t2], elemSize)
		c.w.Ins3("mul", regi[t1], regi[t1], regi[t2])
	}
	c.w.Ins3("add", regi[t0], regi[t0], regi[t1])
	c.storeResult(v, regi[t0])
}

// log2PowerOfTwo returns (log2(n), true) when n is a power of two
// greater than zero, so a scale-by-n multiply can be done with a
// single slli instead of synthesizing a constant and multiplying.
func log2PowerOfTwo(n int) (int, bool) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, false
	}
	log2 := 0
	for n > 1 {
		n >>= 1
		log2++
	}
	return log2, true
}

func genGetPtr(c *genCtx, v *midir.Value) {
	genGetElemPtr(c, v)
}

func genBinary(c *genCtx, v *midir.Value) {
	op, lhs, rhs := v.BinaryOp()
	c.loadOperand(lhs, regi[t0])
	c.loadOperand(rhs, regi[t1])
	switch op {
	case midir.OpAdd:
		c.w.Ins3("add", regi[t0], regi[t0], regi[t1])
	case midir.OpSub:
		c.w.Ins3("sub", regi[t0], regi[t0], regi[t1])
	case midir.OpMul:
		c.w.Ins3("mul", regi[t0], regi[t0], regi[t1])
	case midir.OpDiv:
		c.w.Ins3("div", regi[t0], regi[t0], regi[t1])
	case midir.OpMod:
		c.w.Ins3("rem", regi[t0], regi[t0], regi[t1])
	case midir.OpAnd:
		c.w.Ins3("and", regi[t0], regi[t0], regi[t1])
	case midir.OpOr:
		c.w.Ins3("or", regi[t0], regi[t0], regi[t1])
	case midir.OpXor:
		c.w.Ins3("xor", regi[t0], regi[t0], regi[t1])
	case midir.OpShl:
		c.w.Ins3("sll", regi[t0], regi[t0], regi[t1])
	case midir.OpShr:
		c.w.Ins3("srl", regi[t0], regi[t0], regi[t1])
	case midir.OpSar:
		c.w.Ins3("sra", regi[t0], regi[t0], regi[t1])
	case midir.OpSlt:
		c.w.Ins3("slt", regi[t0], regi[t0], regi[t1])
	case midir.OpSgt:
		c.w.Ins3("sgt", regi[t0], regi[t0], regi[t1])
	case midir.OpEq:
		c.w.Ins3("xor", regi[t0], regi[t0], regi[t1])
		c.w.Ins2("seqz", regi[t0], regi[t0])
	case midir.OpNeq:
		c.w.Ins3("xor", regi[t0], regi[t0], regi[t1])
		c.w.Ins2("snez", regi[t0], regi[t0])
	case midir.OpLe:
		c.w.Ins3("sgt", regi[t0], regi[t0], regi[t1])
		c.w.Ins2("seqz", regi[t0], regi[t0])
	case midir.OpGe:
		c.w.Ins3("slt", regi[t0], regi[t0], regi[t1])
		c.w.Ins2("seqz", regi[t0], regi[t0])
	}
	c.storeResult(v, regi[t0])
}

func genBranch(c *genCtx, v *midir.Value) {
	cond, trueBB, falseBB := v.BranchOperands()
	c.loadOperand(cond, regi[t0])
	c.w.Write("\tbnez\t%s, %s\n", regi[t0], trueBB.Name())
	c.w.Write("\tj\t%s\n", falseBB.Name())
}

func genJump(c *genCtx, v *midir.Value) {
	c.w.Write("\tj\t%s\n", v.JumpTarget().Name())
}

func genCall(c *genCtx, v *midir.Value) {
	callee, args := v.CallOperands()
	for i, a := range args {
		if i < len(argRegs) {
			c.loadOperand(a, regi[argRegs[i]])
			continue
		}
		c.loadOperand(a, regi[t0])
		c.storeSlotAt(frame.OutArgOffset(i-len(argRegs)), regi[t0])
	}
	c.w.Write("\tcall\t%s\n", callee.Name())
	if !callee.RetType().IsUnit() {
		c.storeResult(v, regi[a0])
	}
}

func genReturn(c *genCtx, v *midir.Value) {
	if val := v.ReturnValue(); val != nil {
		c.loadOperand(val, regi[a0])
	}
	genEpilogue(c)
	c.w.Write("\tret\n")
}
