package midir

import (
	"strings"
	"sync"
)

// Program is a MidIR program: a set of globals and a set of functions.
// Construction (lowering) may run on a single goroutine, but the id
// counter is still guarded so a Program built this way is safe to hand
// to a parallel code generator afterwards without races on read-only
// access.
type Program struct {
	mu        sync.Mutex
	seq       int
	globals   []*Value
	functions []*Function
	funcIndex map[string]*Function
}

// NewProgram constructs a fresh, empty program.
func NewProgram() *Program {
	return &Program{
		funcIndex: make(map[string]*Function),
	}
}

func (p *Program) nextId() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.seq
	p.seq++
	return id
}

// NewFunction creates a function (possibly declaration-only: call
// AppendBlock zero times to leave it so) with the given name,
// parameter types, return type and optional parameter display names.
func (p *Program) NewFunction(name string, paramTypes []*Type, retType *Type, paramNames []string) *Function {
	f := &Function{
		prog:       p,
		id:         p.nextId(),
		name:       name,
		paramTypes: paramTypes,
		paramNames: paramNames,
		retType:    retType,
	}
	f.params = make([]*Value, len(paramTypes))
	for i1, t := range paramTypes {
		pv := &Value{id: p.nextId(), kind: KindFuncArgRef, typ: t, argIndex: i1}
		if i1 < len(paramNames) {
			pv.name = paramNames[i1]
		}
		f.params[i1] = pv
	}
	p.functions = append(p.functions, f)
	p.funcIndex[name] = f
	return f
}

// GetFunction returns the function with the given name, or nil.
func (p *Program) GetFunction(name string) *Function {
	return p.funcIndex[name]
}

// Functions returns every function declared in the program, in
// declaration order.
func (p *Program) Functions() []*Function { return p.functions }

// Globals returns every global in the program, in declaration order.
func (p *Program) Globals() []*Value { return p.globals }

// ConstInt interns an Integer(n) constant value.
func (p *Program) ConstInt(n int32) *Value {
	return &Value{id: p.nextId(), kind: KindInteger, typ: Int32, intVal: n}
}

// ZeroInit interns a ZeroInit value of type t.
func (p *Program) ZeroInit(t *Type) *Value {
	return &Value{id: p.nextId(), kind: KindZeroInit, typ: t}
}

// Aggregate interns an Aggregate value built from the given element
// handles, typed as an array of len(elems) of the elements' common
// type.
func (p *Program) Aggregate(elemType *Type, elems []*Value) *Value {
	return &Value{id: p.nextId(), kind: KindAggregate, typ: NewArray(elemType, len(elems)), elems: elems}
}

// GlobalAlloc interns a named global memory cell of type t with
// constant initializer init.
func (p *Program) GlobalAlloc(name string, t *Type, init *Value) *Value {
	g := &Value{
		id:        p.nextId(),
		name:      name,
		kind:      KindGlobalAlloc,
		typ:       NewPointer(t),
		allocType: t,
		init:      init,
		global:    true,
	}
	p.globals = append(p.globals, g)
	return g
}

// String returns the deterministic textual serialization of the
// program (the "MidIR textual form" of the output-format contract).
func (p *Program) String() string {
	var sb strings.Builder
	for _, g := range p.globals {
		sb.WriteString(formatGlobal(g))
		sb.WriteByte('\n')
	}
	if len(p.globals) > 0 {
		sb.WriteByte('\n')
	}
	for _, f := range p.functions {
		sb.WriteString(formatFunction(f))
		sb.WriteByte('\n')
	}
	return sb.String()
}
