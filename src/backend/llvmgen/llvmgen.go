//go:build llvm

// Package llvmgen lowers a MidIR program straight to LLVM IR and emits a
// target object file through LLVM's own code generator, as an
// alternative to the hand-written RISC-V backend in backend/riscv.
// Unlike that backend, nothing here spills every value to a stack
// slot: MidIR is already in SSA form, so each midir.Value maps
// one-to-one onto the llvm.Value its defining instruction produces,
// and LLVM's own register allocator takes it from there.
package llvmgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tinygo.org/x/go-llvm"

	"rvslc/src/midir"
	"rvslc/src/util"
)

// gen carries the state one module's translation needs.
type gen struct {
	ctx llvm.Context
	m   llvm.Module
	b   llvm.Builder

	funcs map[*midir.Function]llvm.Value
	vals  map[*midir.Value]llvm.Value
}

// GenLLVM translates prog to LLVM IR, runs it through a riscv32 target
// machine, and writes the resulting object code to opt.Out.
func GenLLVM(opt util.Options, prog *midir.Program) error {
	g := &gen{
		ctx:   llvm.NewContext(),
		funcs: make(map[*midir.Function]llvm.Value),
		vals:  make(map[*midir.Value]llvm.Value),
	}
	defer g.ctx.Dispose()

	g.m = g.ctx.NewModule(filepath.Base(opt.Src))
	defer g.m.Dispose()

	g.b = g.ctx.NewBuilder()
	defer g.b.Dispose()

	for _, gl := range prog.Globals() {
		g.genGlobal(gl)
	}

	// Declare every function signature before generating any body, so
	// calls to functions defined later in the program resolve.
	for _, fn := range prog.Functions() {
		g.declareFunc(fn)
	}
	for _, fn := range prog.Functions() {
		if !fn.IsDeclaration() {
			g.genFunc(fn)
		}
	}

	if opt.Verbose {
		fmt.Println("LLVM IR:")
		g.m.Dump()
	}

	return g.emit(opt)
}

// llvmType translates a midir.Type to its LLVM counterpart.
func (g *gen) llvmType(t *midir.Type) llvm.Type {
	switch t.Kind {
	case midir.KindInt32:
		return llvm.Int32Type()
	case midir.KindUnit:
		return llvm.VoidType()
	case midir.KindPointer:
		return llvm.PointerType(g.llvmType(t.Elem), 0)
	case midir.KindArray:
		return llvm.ArrayType(g.llvmType(t.Elem), t.Len)
	default:
		panic("llvmgen: unknown type kind")
	}
}

// genGlobal declares a module-level global and its constant initializer.
func (g *gen) genGlobal(v *midir.Value) {
	typ := g.llvmType(v.AllocType())
	gv := llvm.AddGlobal(g.m, typ, v.Name())
	gv.SetInitializer(g.constInit(v.AllocType(), v.Init()))
	g.vals[v] = gv
}

// constInit builds a constant LLVM value for a GlobalAlloc's initializer.
func (g *gen) constInit(t *midir.Type, v *midir.Value) llvm.Value {
	switch v.Kind() {
	case midir.KindInteger:
		return llvm.ConstInt(llvm.Int32Type(), uint64(uint32(v.IntValue())), false)
	case midir.KindZeroInit:
		return llvm.ConstNull(g.llvmType(t))
	case midir.KindAggregate:
		elemT := t.Elem
		elems := make([]llvm.Value, len(v.Elems()))
		for i1, e1 := range v.Elems() {
			elems[i1] = g.constInit(elemT, e1)
		}
		return llvm.ConstArray(g.llvmType(elemT), elems)
	default:
		panic("llvmgen: unexpected global initializer kind")
	}
}

// declareFunc creates fn's LLVM function signature.
func (g *gen) declareFunc(fn *midir.Function) {
	params := make([]llvm.Type, len(fn.ParamTypes()))
	for i1, t := range fn.ParamTypes() {
		params[i1] = g.llvmType(t)
	}
	ftyp := llvm.FunctionType(g.llvmType(fn.RetType()), params, false)
	lf := llvm.AddFunction(g.m, fn.Name(), ftyp)
	g.funcs[fn] = lf
}

// genFunc generates the body of a function with blocks. Basic blocks
// are created up front (a forward Jump/Branch may target a block not
// yet filled in) and then filled in layout order.
func (g *gen) genFunc(fn *midir.Function) {
	lf := g.funcs[fn]
	for i1, p := range fn.Params() {
		g.vals[p] = lf.Param(i1)
	}

	blocks := make(map[*midir.Block]llvm.BasicBlock, len(fn.Blocks()))
	for _, bb := range fn.Blocks() {
		blocks[bb] = llvm.AddBasicBlock(lf, bb.Name())
	}

	for _, bb := range fn.Blocks() {
		g.b.SetInsertPointAtEnd(blocks[bb])
		for _, v := range bb.Instrs() {
			g.genInstr(v, blocks)
		}
	}
}

func (g *gen) genInstr(v *midir.Value, blocks map[*midir.Block]llvm.BasicBlock) {
	switch v.Kind() {
	case midir.KindAlloc:
		g.vals[v] = g.b.CreateAlloca(g.llvmType(v.AllocType()), v.Name())
	case midir.KindLoad:
		g.vals[v] = g.b.CreateLoad(g.operand(v.Src()), "")
	case midir.KindStore:
		val, dest := v.StoreOperands()
		g.b.CreateStore(g.operand(val), g.operand(dest))
	case midir.KindGetElemPtr:
		g.vals[v] = g.genGetElemPtr(v)
	case midir.KindGetPtr:
		src := g.operand(v.Src())
		idx := g.operand(v.Index())
		g.vals[v] = g.b.CreateGEP(src, []llvm.Value{idx}, "")
	case midir.KindBinary:
		g.vals[v] = g.genBinary(v)
	case midir.KindBranch:
		cond, trueBB, falseBB := v.BranchOperands()
		g.b.CreateCondBr(g.operand(cond), blocks[trueBB], blocks[falseBB])
	case midir.KindJump:
		g.b.CreateBr(blocks[v.JumpTarget()])
	case midir.KindCall:
		g.genCall(v)
	case midir.KindReturn:
		if val := v.ReturnValue(); val != nil {
			g.b.CreateRet(g.operand(val))
		} else {
			g.b.CreateRetVoid()
		}
	case midir.KindFuncArgRef:
		// Bound to its Param() value in genFunc; nothing to do here.
	}
}

// genGetElemPtr steps into src by index. When src's pointee is itself
// an array (a local/global array's own address, or a prior
// outer-dimension step), a leading zero index dereferences the pointer
// first, matching how LLVM addresses into an aggregate through a
// pointer; anything else is already a flat element pointer and takes a
// single index, the same as GetPtr.
func (g *gen) genGetElemPtr(v *midir.Value) llvm.Value {
	src := g.operand(v.Src())
	idx := g.operand(v.Index())
	if v.Src().Type().Elem.Kind == midir.KindArray {
		zero := llvm.ConstInt(llvm.Int32Type(), 0, false)
		return g.b.CreateGEP(src, []llvm.Value{zero, idx}, "")
	}
	return g.b.CreateGEP(src, []llvm.Value{idx}, "")
}

func (g *gen) genBinary(v *midir.Value) llvm.Value {
	op, lhsV, rhsV := v.BinaryOp()
	lhs, rhs := g.operand(lhsV), g.operand(rhsV)
	switch op {
	case midir.OpAdd:
		return g.b.CreateAdd(lhs, rhs, "")
	case midir.OpSub:
		return g.b.CreateSub(lhs, rhs, "")
	case midir.OpMul:
		return g.b.CreateMul(lhs, rhs, "")
	case midir.OpDiv:
		return g.b.CreateSDiv(lhs, rhs, "")
	case midir.OpMod:
		return g.b.CreateSRem(lhs, rhs, "")
	case midir.OpAnd:
		return g.b.CreateAnd(lhs, rhs, "")
	case midir.OpOr:
		return g.b.CreateOr(lhs, rhs, "")
	case midir.OpXor:
		return g.b.CreateXor(lhs, rhs, "")
	case midir.OpShl:
		return g.b.CreateShl(lhs, rhs, "")
	case midir.OpShr:
		return g.b.CreateLShr(lhs, rhs, "")
	case midir.OpSar:
		return g.b.CreateAShr(lhs, rhs, "")
	case midir.OpSlt:
		return zext(g.b, g.b.CreateICmp(llvm.IntSLT, lhs, rhs, ""))
	case midir.OpSgt:
		return zext(g.b, g.b.CreateICmp(llvm.IntSGT, lhs, rhs, ""))
	case midir.OpEq:
		return zext(g.b, g.b.CreateICmp(llvm.IntEQ, lhs, rhs, ""))
	case midir.OpNeq:
		return zext(g.b, g.b.CreateICmp(llvm.IntNE, lhs, rhs, ""))
	case midir.OpLe:
		return zext(g.b, g.b.CreateICmp(llvm.IntSLE, lhs, rhs, ""))
	case midir.OpGe:
		return zext(g.b, g.b.CreateICmp(llvm.IntSGE, lhs, rhs, ""))
	default:
		panic("llvmgen: unknown binary op")
	}
}

// zext widens an i1 comparison result to i32, the width every MidIR
// value is declared with.
func zext(b llvm.Builder, i1 llvm.Value) llvm.Value {
	return b.CreateZExt(i1, llvm.Int32Type(), "")
}

func (g *gen) genCall(v *midir.Value) {
	callee, args := v.CallOperands()
	lf := g.funcs[callee]
	largs := make([]llvm.Value, len(args))
	for i1, a := range args {
		largs[i1] = g.operand(a)
	}
	call := g.b.CreateCall(lf, largs, "")
	if !callee.RetType().IsUnit() {
		g.vals[v] = call
	}
}

// operand returns the already-generated LLVM value backing v.
// Constants are materialized on demand since they never pass through
// genInstr.
func (g *gen) operand(v *midir.Value) llvm.Value {
	if v.Kind() == midir.KindInteger {
		return llvm.ConstInt(llvm.Int32Type(), uint64(uint32(v.IntValue())), false)
	}
	lv, ok := g.vals[v]
	if !ok {
		panic("llvmgen: value referenced before definition")
	}
	return lv
}

// emit runs prog's generated module through LLVM's riscv32 code
// generator and writes the resulting object file to opt.Out.
func (g *gen) emit(opt util.Options) error {
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargets()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()

	triple := "riscv32-unknown-linux-gnu"
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return fmt.Errorf("llvmgen: %s", err)
	}

	tm := target.CreateTargetMachine(triple, "generic-rv32", "",
		llvm.CodeGenLevelNone, llvm.RelocDefault, llvm.CodeModelDefault)
	defer tm.Dispose()

	td := tm.CreateTargetData()
	defer td.Dispose()
	g.m.SetDataLayout(td.String())
	g.m.SetTarget(triple)

	buf, err := tm.EmitToMemoryBuffer(g.m, llvm.ObjectFile)
	if err != nil {
		return err
	}
	if buf.IsNil() {
		return errors.New("llvmgen: could not emit compiled code to memory")
	}

	out := opt.Out
	if out == "" {
		out = "a.out"
	}
	f, err := os.OpenFile(out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Println(err)
		}
	}()
	_, err = f.Write(buf.Bytes())
	return err
}
