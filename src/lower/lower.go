// lower.go is the IR-lowering engine (C4): it walks the typed syntax
// tree and emits a MidIR program. Scopes, constant folding and array
// flattening are handled by the rest of the package; this file owns
// control flow, statement sequencing and expression codegen.
//
// Every non-unit value the engine produces is either a MidIR SSA handle
// (returned directly from an expression) or lives in a stack slot
// reached through its Sym's Addr — there is no cross-block SSA merge
// (no phi), so any value that must survive a branch (a short-circuit
// && / || result, a loop variable) is routed through a temporary Alloc
// instead.

package lower

import (
	"fmt"

	"rvslc/src/frontend"
	"rvslc/src/midir"
	"rvslc/src/util"
)

// Lower translates a parsed translation unit into a MidIR program.
func Lower(tu *frontend.TranslationUnit) (*midir.Program, error) {
	prog := midir.NewProgram()
	sym := NewSymTab()
	registerRuntime(prog, sym)

	// Pass 1: register every function's signature and lower every
	// global declaration, in source order. Registering signatures
	// before lowering any body lets functions call each other
	// regardless of textual definition order.
	for _, item := range tu.Items {
		switch n := item.(type) {
		case *frontend.FuncDef:
			if err := registerFuncSig(prog, sym, n); err != nil {
				return nil, err
			}
		case *frontend.Decl:
			if err := lowerGlobalDecl(prog, sym, n); err != nil {
				return nil, err
			}
		}
	}

	// Pass 2: lower function bodies.
	for _, item := range tu.Items {
		fd, ok := item.(*frontend.FuncDef)
		if !ok {
			continue
		}
		if err := lowerFuncBody(prog, sym, fd); err != nil {
			return nil, err
		}
	}

	return prog, nil
}

func registerFuncSig(prog *midir.Program, sym *SymTab, fd *frontend.FuncDef) error {
	if _, exists := sym.Lookup(fd.Name); exists {
		return fmt.Errorf("%d:%d: %q redeclared", fd.Line, fd.Col, fd.Name)
	}
	paramTypes := make([]*midir.Type, len(fd.Params))
	paramNames := make([]string, len(fd.Params))
	for i, p := range fd.Params {
		paramTypes[i] = midir.Int32
		paramNames[i] = p.Name
	}
	retType := midir.Int32
	if fd.RetType == frontend.Void {
		retType = midir.Unit
	}
	fn := prog.NewFunction(fd.Name, paramTypes, retType, paramNames)
	sym.Insert(fd.Name, Sym{Kind: SymFunction, Func: fn})
	return nil
}

func lowerGlobalDecl(prog *midir.Program, sym *SymTab, d *frontend.Decl) error {
	if _, exists := sym.Lookup(d.Name); exists {
		return fmt.Errorf("%d:%d: %q redeclared", d.Line, d.Col, d.Name)
	}
	if len(d.Dims) == 0 {
		return lowerGlobalScalar(prog, sym, d)
	}
	return lowerGlobalArray(prog, sym, d)
}

func lowerGlobalScalar(prog *midir.Program, sym *SymTab, d *frontend.Decl) error {
	var val int32
	if d.Init != nil {
		slots, err := flattenInit(nil, d.Init)
		if err != nil {
			return err
		}
		val, err = evalConst(sym, slots[0])
		if err != nil {
			return err
		}
	}
	if d.IsConst {
		if d.Init == nil {
			return fmt.Errorf("%d:%d: const %q needs an initializer", d.Line, d.Col, d.Name)
		}
		sym.Insert(d.Name, Sym{Kind: SymConstInt, ConstVal: val})
		return nil
	}
	init := prog.ZeroInit(midir.Int32)
	if d.Init != nil {
		init = prog.ConstInt(val)
	}
	g := prog.GlobalAlloc(d.Name, midir.Int32, init)
	sym.Insert(d.Name, Sym{Kind: SymStorage, Addr: g, ValType: midir.Int32})
	return nil
}

func lowerGlobalArray(prog *midir.Program, sym *SymTab, d *frontend.Decl) error {
	dims, err := evalDims(sym, d.Dims)
	if err != nil {
		return err
	}
	arrType := buildArrayType(dims)

	var init *midir.Value
	if d.Init == nil {
		init = prog.ZeroInit(arrType)
	} else {
		slots, err := flattenInit(dims, d.Init)
		if err != nil {
			return err
		}
		init, err = buildAggregate(prog, sym, dims, slots)
		if err != nil {
			return err
		}
	}
	g := prog.GlobalAlloc(d.Name, arrType, init)
	sym.Insert(d.Name, Sym{Kind: SymStorage, Addr: g, ValType: arrType, IsArray: true, ArrDims: dims})
	return nil
}

// buildAggregate folds a flattened slot sequence into nested Aggregate
// values, bottom-up by dimension (innermost dimension first).
func buildAggregate(prog *midir.Program, sym *SymTab, dims []int, slots []frontend.Expr) (*midir.Value, error) {
	if len(dims) == 1 {
		elems := make([]*midir.Value, dims[0])
		for i := range elems {
			if slots[i] == nil {
				elems[i] = prog.ConstInt(0)
				continue
			}
			v, err := evalConst(sym, slots[i])
			if err != nil {
				return nil, err
			}
			elems[i] = prog.ConstInt(v)
		}
		return prog.Aggregate(midir.Int32, elems), nil
	}
	rowCap := capacity(dims, 1)
	elemType := buildArrayType(dims[1:])
	rows := make([]*midir.Value, dims[0])
	for i := range rows {
		chunk := slots[i*rowCap : (i+1)*rowCap]
		row, err := buildAggregate(prog, sym, dims[1:], chunk)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return prog.Aggregate(elemType, rows), nil
}

func buildArrayType(dims []int) *midir.Type {
	t := midir.Int32
	for i := len(dims) - 1; i >= 0; i-- {
		t = midir.NewArray(t, dims[i])
	}
	return t
}

func evalDims(sym *SymTab, exprs []frontend.Expr) ([]int, error) {
	dims := make([]int, len(exprs))
	for i, e := range exprs {
		v, err := evalConst(sym, e)
		if err != nil {
			return nil, err
		}
		if v <= 0 {
			line, col := e.ExprPos()
			return nil, fmt.Errorf("%d:%d: array dimension must be positive", line, col)
		}
		dims[i] = int(v)
	}
	return dims, nil
}

// funcCtx carries the mutable lowering state for a single function body.
type funcCtx struct {
	prog *midir.Program
	fn   *midir.Function
	sym  *SymTab
	cur  *midir.Block
	loops []loopFrame
}

type loopFrame struct {
	contBB *midir.Block
	endBB  *midir.Block
}

func lowerFuncBody(prog *midir.Program, sym *SymTab, fd *frontend.FuncDef) error {
	fn := prog.GetFunction(fd.Name)
	sym.EnterScope()
	defer sym.ExitScope()

	entry := fn.NewBlock("entry")
	fn.AppendBlock(entry)
	ctx := &funcCtx{prog: prog, fn: fn, sym: sym, cur: entry}

	for i, p := range fd.Params {
		addr := fn.NewAlloc(entry, midir.Int32, sym.IRName(p.Name))
		fn.NewStore(entry, fn.Params()[i], addr)
		sym.Insert(p.Name, Sym{Kind: SymStorage, Addr: addr, ValType: midir.Int32})
	}

	if err := lowerBlock(ctx, fd.Body); err != nil {
		return err
	}

	if !ctx.cur.Terminated() {
		if fn.RetType().IsUnit() {
			fn.NewReturn(ctx.cur, nil)
		} else {
			fn.NewReturn(ctx.cur, prog.ConstInt(0))
		}
	}
	return nil
}

func lowerBlock(ctx *funcCtx, b *frontend.Block) error {
	for _, s := range b.Stmts {
		if ctx.cur.Terminated() {
			break
		}
		if err := lowerStmt(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func lowerStmt(ctx *funcCtx, s frontend.Stmt) error {
	switch n := s.(type) {
	case *frontend.Decl:
		return lowerLocalDecl(ctx, n)
	case *frontend.ReturnStmt:
		return lowerReturn(ctx, n)
	case *frontend.AssignStmt:
		return lowerAssign(ctx, n)
	case *frontend.ExprStmt:
		_, err := lowerExpr(ctx, n.X)
		return err
	case *frontend.Block:
		ctx.sym.EnterScope()
		defer ctx.sym.ExitScope()
		return lowerBlock(ctx, n)
	case *frontend.IfStmt:
		return lowerIf(ctx, n)
	case *frontend.WhileStmt:
		return lowerWhile(ctx, n)
	case *frontend.BreakStmt:
		return lowerBreak(ctx, n)
	case *frontend.ContinueStmt:
		return lowerContinue(ctx, n)
	default:
		return fmt.Errorf("lower: unhandled statement %T", s)
	}
}

func lowerReturn(ctx *funcCtx, n *frontend.ReturnStmt) error {
	if n.Value == nil {
		ctx.fn.NewReturn(ctx.cur, nil)
		return nil
	}
	v, err := lowerExpr(ctx, n.Value)
	if err != nil {
		return err
	}
	ctx.fn.NewReturn(ctx.cur, v)
	return nil
}

func lowerAssign(ctx *funcCtx, n *frontend.AssignStmt) error {
	addr, err := lowerLValueAddr(ctx, n.Target)
	if err != nil {
		return err
	}
	v, err := lowerExpr(ctx, n.Value)
	if err != nil {
		return err
	}
	ctx.fn.NewStore(ctx.cur, v, addr)
	return nil
}

func lowerLocalDecl(ctx *funcCtx, d *frontend.Decl) error {
	if ctx.sym.DeclaredInCurrentScope(d.Name) {
		return fmt.Errorf("%d:%d: %q redeclared in this scope", d.Line, d.Col, d.Name)
	}
	if len(d.Dims) == 0 {
		return lowerLocalScalar(ctx, d)
	}
	return lowerLocalArray(ctx, d)
}

func lowerLocalScalar(ctx *funcCtx, d *frontend.Decl) error {
	if d.IsConst {
		if d.Init == nil {
			return fmt.Errorf("%d:%d: const %q needs an initializer", d.Line, d.Col, d.Name)
		}
		slots, err := flattenInit(nil, d.Init)
		if err != nil {
			return err
		}
		val, err := evalConst(ctx.sym, slots[0])
		if err != nil {
			return err
		}
		ctx.sym.Insert(d.Name, Sym{Kind: SymConstInt, ConstVal: val})
		return nil
	}
	addr := ctx.fn.NewAlloc(ctx.cur, midir.Int32, ctx.sym.IRName(d.Name))
	ctx.sym.Insert(d.Name, Sym{Kind: SymStorage, Addr: addr, ValType: midir.Int32})
	if d.Init == nil {
		return nil
	}
	slots, err := flattenInit(nil, d.Init)
	if err != nil {
		return err
	}
	v, err := lowerExpr(ctx, slots[0])
	if err != nil {
		return err
	}
	ctx.fn.NewStore(ctx.cur, v, addr)
	return nil
}

func lowerLocalArray(ctx *funcCtx, d *frontend.Decl) error {
	dims, err := evalDims(ctx.sym, d.Dims)
	if err != nil {
		return err
	}
	arrType := buildArrayType(dims)
	addr := ctx.fn.NewAlloc(ctx.cur, arrType, ctx.sym.IRName(d.Name))
	ctx.sym.Insert(d.Name, Sym{Kind: SymStorage, Addr: addr, ValType: arrType, IsArray: true, ArrDims: dims})
	if d.Init == nil {
		return nil
	}
	slots, err := flattenInit(dims, d.Init)
	if err != nil {
		return err
	}
	for i, slot := range slots {
		idx := indicesOf(dims, i)
		elemAddr := emitElemAddr(ctx, addr, idx)
		var v *midir.Value
		if slot == nil {
			v = ctx.prog.ConstInt(0)
		} else {
			v, err = lowerExpr(ctx, slot)
			if err != nil {
				return err
			}
		}
		ctx.fn.NewStore(ctx.cur, v, elemAddr)
	}
	return nil
}

// emitElemAddr walks addr down through one GetElemPtr per dimension
// index in idx.
func emitElemAddr(ctx *funcCtx, addr *midir.Value, idx []int) *midir.Value {
	cur := addr
	for _, ix := range idx {
		cur = ctx.fn.NewGetElemPtr(ctx.cur, cur, ctx.prog.ConstInt(int32(ix)))
	}
	return cur
}

func lowerIf(ctx *funcCtx, n *frontend.IfStmt) error {
	cond, err := lowerExpr(ctx, n.Cond)
	if err != nil {
		return err
	}
	condBool := ctx.fn.NewBinary(ctx.cur, midir.OpNeq, cond, ctx.prog.ConstInt(0))

	thenBB := ctx.fn.NewBlock(util.NewLabel(util.LabelThen))
	endBB := ctx.fn.NewBlock(util.NewLabel(util.LabelIfEnd))

	if n.Else == nil {
		ctx.fn.NewBranch(ctx.cur, condBool, thenBB, endBB)
		ctx.fn.AppendBlock(thenBB)
		ctx.cur = thenBB
		ctx.sym.EnterScope()
		if err := lowerBlock(ctx, n.Then); err != nil {
			ctx.sym.ExitScope()
			return err
		}
		ctx.sym.ExitScope()
		if !ctx.cur.Terminated() {
			ctx.fn.NewJump(ctx.cur, endBB)
		}
		ctx.fn.AppendBlock(endBB)
		ctx.cur = endBB
		return nil
	}

	elseBB := ctx.fn.NewBlock(util.NewLabel(util.LabelElse))
	ctx.fn.NewBranch(ctx.cur, condBool, thenBB, elseBB)

	ctx.fn.AppendBlock(thenBB)
	ctx.cur = thenBB
	ctx.sym.EnterScope()
	if err := lowerBlock(ctx, n.Then); err != nil {
		ctx.sym.ExitScope()
		return err
	}
	ctx.sym.ExitScope()
	if !ctx.cur.Terminated() {
		ctx.fn.NewJump(ctx.cur, endBB)
	}

	ctx.fn.AppendBlock(elseBB)
	ctx.cur = elseBB
	ctx.sym.EnterScope()
	if err := lowerBlock(ctx, n.Else); err != nil {
		ctx.sym.ExitScope()
		return err
	}
	ctx.sym.ExitScope()
	if !ctx.cur.Terminated() {
		ctx.fn.NewJump(ctx.cur, endBB)
	}

	ctx.fn.AppendBlock(endBB)
	ctx.cur = endBB
	return nil
}

func lowerWhile(ctx *funcCtx, n *frontend.WhileStmt) error {
	condBB := ctx.fn.NewBlock(util.NewLabel(util.LabelWhileCond))
	bodyBB := ctx.fn.NewBlock(util.NewLabel(util.LabelWhileBody))
	endBB := ctx.fn.NewBlock(util.NewLabel(util.LabelWhileEnd))

	ctx.fn.NewJump(ctx.cur, condBB)

	ctx.fn.AppendBlock(condBB)
	ctx.cur = condBB
	cond, err := lowerExpr(ctx, n.Cond)
	if err != nil {
		return err
	}
	condBool := ctx.fn.NewBinary(ctx.cur, midir.OpNeq, cond, ctx.prog.ConstInt(0))
	ctx.fn.NewBranch(ctx.cur, condBool, bodyBB, endBB)

	ctx.fn.AppendBlock(bodyBB)
	ctx.cur = bodyBB
	ctx.loops = append(ctx.loops, loopFrame{contBB: condBB, endBB: endBB})
	ctx.sym.EnterScope()
	err = lowerBlock(ctx, n.Body)
	ctx.sym.ExitScope()
	ctx.loops = ctx.loops[:len(ctx.loops)-1]
	if err != nil {
		return err
	}
	if !ctx.cur.Terminated() {
		ctx.fn.NewJump(ctx.cur, condBB)
	}

	ctx.fn.AppendBlock(endBB)
	ctx.cur = endBB
	return nil
}

func lowerBreak(ctx *funcCtx, n *frontend.BreakStmt) error {
	if len(ctx.loops) == 0 {
		return fmt.Errorf("%d:%d: break outside a loop", n.Line, n.Col)
	}
	ctx.fn.NewJump(ctx.cur, ctx.loops[len(ctx.loops)-1].endBB)
	return nil
}

func lowerContinue(ctx *funcCtx, n *frontend.ContinueStmt) error {
	if len(ctx.loops) == 0 {
		return fmt.Errorf("%d:%d: continue outside a loop", n.Line, n.Col)
	}
	ctx.fn.NewJump(ctx.cur, ctx.loops[len(ctx.loops)-1].contBB)
	return nil
}

// lowerLValueAddr resolves the address an assignment target denotes.
func lowerLValueAddr(ctx *funcCtx, lv *frontend.LValue) (*midir.Value, error) {
	sym, ok := ctx.sym.Lookup(lv.Name)
	if !ok {
		return nil, fmt.Errorf("%d:%d: undeclared identifier %q", lv.Line, lv.Col, lv.Name)
	}
	if sym.Kind != SymStorage {
		return nil, fmt.Errorf("%d:%d: %q is not assignable", lv.Line, lv.Col, lv.Name)
	}
	if len(lv.Indices) == 0 {
		if sym.IsArray {
			return nil, fmt.Errorf("%d:%d: cannot assign to array %q as a whole", lv.Line, lv.Col, lv.Name)
		}
		return sym.Addr, nil
	}
	if !sym.IsArray || len(lv.Indices) != len(sym.ArrDims) {
		return nil, fmt.Errorf("%d:%d: index count does not match %q's rank", lv.Line, lv.Col, lv.Name)
	}
	addr := sym.Addr
	for _, ie := range lv.Indices {
		iv, err := lowerExpr(ctx, ie)
		if err != nil {
			return nil, err
		}
		addr = ctx.fn.NewGetElemPtr(ctx.cur, addr, iv)
	}
	return addr, nil
}

func lowerExpr(ctx *funcCtx, e frontend.Expr) (*midir.Value, error) {
	// Fold first: an expression whose operands are all compile-time
	// constants collapses to a single interned Integer instead of a
	// tree of Binary instructions. Anything evalConst rejects (a
	// variable read, a call, a division by zero that only the hardware
	// gets to decide) falls through to ordinary instruction emission.
	if v, err := evalConst(ctx.sym, e); err == nil {
		return ctx.prog.ConstInt(v), nil
	}

	switch n := e.(type) {
	case *frontend.IntLit:
		return ctx.prog.ConstInt(n.Value), nil

	case *frontend.LValue:
		return lowerLValueRead(ctx, n)

	case *frontend.UnaryExpr:
		x, err := lowerExpr(ctx, n.X)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case frontend.UnaryPlus:
			return x, nil
		case frontend.UnaryMinus:
			return ctx.fn.NewBinary(ctx.cur, midir.OpSub, ctx.prog.ConstInt(0), x), nil
		case frontend.UnaryNot:
			return ctx.fn.NewBinary(ctx.cur, midir.OpEq, x, ctx.prog.ConstInt(0)), nil
		}
		return nil, fmt.Errorf("%d:%d: unsupported unary operator", n.Line, n.Col)

	case *frontend.BinaryExpr:
		if n.Op == frontend.LAnd {
			return lowerShortCircuit(ctx, n, true)
		}
		if n.Op == frontend.LOr {
			return lowerShortCircuit(ctx, n, false)
		}
		l, err := lowerExpr(ctx, n.L)
		if err != nil {
			return nil, err
		}
		r, err := lowerExpr(ctx, n.R)
		if err != nil {
			return nil, err
		}
		op, err := binaryOpOf(n.Op)
		if err != nil {
			return nil, err
		}
		return ctx.fn.NewBinary(ctx.cur, op, l, r), nil

	case *frontend.CallExpr:
		return lowerCall(ctx, n)

	default:
		return nil, fmt.Errorf("lower: unhandled expression %T", e)
	}
}

func binaryOpOf(op frontend.BinaryOp) (midir.BinaryOp, error) {
	switch op {
	case frontend.Add:
		return midir.OpAdd, nil
	case frontend.Sub:
		return midir.OpSub, nil
	case frontend.Mul:
		return midir.OpMul, nil
	case frontend.Div:
		return midir.OpDiv, nil
	case frontend.Mod:
		return midir.OpMod, nil
	case frontend.Lt:
		return midir.OpSlt, nil
	case frontend.Gt:
		return midir.OpSgt, nil
	case frontend.Le:
		return midir.OpLe, nil
	case frontend.Ge:
		return midir.OpGe, nil
	case frontend.Eq:
		return midir.OpEq, nil
	case frontend.Neq:
		return midir.OpNeq, nil
	}
	return 0, fmt.Errorf("lower: unsupported binary operator %d", op)
}

func lowerLValueRead(ctx *funcCtx, lv *frontend.LValue) (*midir.Value, error) {
	sym, ok := ctx.sym.Lookup(lv.Name)
	if !ok {
		return nil, fmt.Errorf("%d:%d: undeclared identifier %q", lv.Line, lv.Col, lv.Name)
	}
	switch sym.Kind {
	case SymConstInt:
		if len(lv.Indices) != 0 {
			return nil, fmt.Errorf("%d:%d: %q is not an array", lv.Line, lv.Col, lv.Name)
		}
		return ctx.prog.ConstInt(sym.ConstVal), nil
	case SymStorage:
		if len(lv.Indices) == 0 {
			if sym.IsArray {
				return nil, fmt.Errorf("%d:%d: %q used as a scalar value", lv.Line, lv.Col, lv.Name)
			}
			return ctx.fn.NewLoad(ctx.cur, sym.Addr), nil
		}
		if !sym.IsArray || len(lv.Indices) != len(sym.ArrDims) {
			return nil, fmt.Errorf("%d:%d: index count does not match %q's rank", lv.Line, lv.Col, lv.Name)
		}
		addr := sym.Addr
		for _, ie := range lv.Indices {
			iv, err := lowerExpr(ctx, ie)
			if err != nil {
				return nil, err
			}
			addr = ctx.fn.NewGetElemPtr(ctx.cur, addr, iv)
		}
		return ctx.fn.NewLoad(ctx.cur, addr), nil
	default:
		return nil, fmt.Errorf("%d:%d: %q is not a value", lv.Line, lv.Col, lv.Name)
	}
}

func lowerCall(ctx *funcCtx, n *frontend.CallExpr) (*midir.Value, error) {
	sym, ok := ctx.sym.Lookup(n.Callee)
	if !ok || sym.Kind != SymFunction {
		return nil, fmt.Errorf("%d:%d: %q is not a function", n.Line, n.Col, n.Callee)
	}
	if len(n.Args) != len(sym.Func.ParamTypes()) {
		return nil, fmt.Errorf("%d:%d: %q takes %d argument(s), got %d", n.Line, n.Col, n.Callee, len(sym.Func.ParamTypes()), len(n.Args))
	}
	args := make([]*midir.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := lowerCallArg(ctx, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return ctx.fn.NewCall(ctx.cur, sym.Func, args), nil
}

// lowerCallArg lowers one call argument. An array name with fewer
// indices than its rank decays to the address of its first uncovered
// element, which is how the array I/O runtime functions (getarray,
// putarray) take their buffers; everything else is an ordinary value.
func lowerCallArg(ctx *funcCtx, a frontend.Expr) (*midir.Value, error) {
	lv, ok := a.(*frontend.LValue)
	if !ok {
		return lowerExpr(ctx, a)
	}
	sym, found := ctx.sym.Lookup(lv.Name)
	if !found || sym.Kind != SymStorage || !sym.IsArray || len(lv.Indices) >= len(sym.ArrDims) {
		return lowerExpr(ctx, a)
	}
	addr := sym.Addr
	for _, ie := range lv.Indices {
		iv, err := lowerExpr(ctx, ie)
		if err != nil {
			return nil, err
		}
		addr = ctx.fn.NewGetElemPtr(ctx.cur, addr, iv)
	}
	return ctx.fn.NewGetElemPtr(ctx.cur, addr, ctx.prog.ConstInt(0)), nil
}

// lowerShortCircuit lowers && (isAnd) or || expressions through a
// temporary stack slot, since the engine has no cross-block SSA merge.
func lowerShortCircuit(ctx *funcCtx, n *frontend.BinaryExpr, isAnd bool) (*midir.Value, error) {
	tmp := ctx.fn.NewAlloc(ctx.cur, midir.Int32, "")

	l, err := lowerExpr(ctx, n.L)
	if err != nil {
		return nil, err
	}
	lBool := ctx.fn.NewBinary(ctx.cur, midir.OpNeq, l, ctx.prog.ConstInt(0))

	var rhsLabel, shortLabel string
	if isAnd {
		rhsLabel = util.NewLabel(util.LabelAndRHS)
	} else {
		rhsLabel = util.NewLabel(util.LabelOrRHS)
	}
	shortLabel = util.NewLabel(util.LabelScEnd)
	endLabel := util.NewLabel(util.LabelScEnd)

	rhsBB := ctx.fn.NewBlock(rhsLabel)
	shortBB := ctx.fn.NewBlock(shortLabel)
	endBB := ctx.fn.NewBlock(endLabel)

	if isAnd {
		// lhs false -> result false without evaluating rhs.
		ctx.fn.NewBranch(ctx.cur, lBool, rhsBB, shortBB)
	} else {
		// lhs true -> result true without evaluating rhs.
		ctx.fn.NewBranch(ctx.cur, lBool, shortBB, rhsBB)
	}

	ctx.fn.AppendBlock(shortBB)
	ctx.cur = shortBB
	if isAnd {
		ctx.fn.NewStore(ctx.cur, ctx.prog.ConstInt(0), tmp)
	} else {
		ctx.fn.NewStore(ctx.cur, ctx.prog.ConstInt(1), tmp)
	}
	ctx.fn.NewJump(ctx.cur, endBB)

	ctx.fn.AppendBlock(rhsBB)
	ctx.cur = rhsBB
	r, err := lowerExpr(ctx, n.R)
	if err != nil {
		return nil, err
	}
	rBool := ctx.fn.NewBinary(ctx.cur, midir.OpNeq, r, ctx.prog.ConstInt(0))
	ctx.fn.NewStore(ctx.cur, rBool, tmp)
	ctx.fn.NewJump(ctx.cur, endBB)

	ctx.fn.AppendBlock(endBB)
	ctx.cur = endBB
	return ctx.fn.NewLoad(ctx.cur, tmp), nil
}
