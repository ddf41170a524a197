// symtab.go implements the scope-stack symbol table the lowering engine
// consults to resolve names. Frames are pushed/popped in lockstep with
// SL block scopes; lookup walks frames innermost-first so an inner
// declaration shadows an outer one of the same name.

package lower

import (
	"fmt"

	"rvslc/src/midir"
	"rvslc/src/util"
)

// SymKind distinguishes the three things a name can be bound to.
type SymKind int

const (
	SymConstInt SymKind = iota
	SymStorage
	SymFunction
)

// Sym is one symbol-table entry. Exactly the fields matching Kind are
// meaningful.
type Sym struct {
	Kind SymKind

	// SymConstInt: the name is a compile-time constant integer (a
	// constant declaration's value, folded at declaration time).
	ConstVal int32

	// SymStorage: the name is a variable or array; Addr is the
	// Alloc/GlobalAlloc handle holding its address, ValType the type of
	// the stored value (the whole array type for an array).
	Addr     *midir.Value
	ValType  *midir.Type
	IsArray  bool
	ArrDims  []int // element counts per dimension, outermost first.

	// SymFunction: the name is a callable.
	Func *midir.Function
}

// SymTab is a stack of lexical scope frames, one map per open scope.
// Frames are held in a util.Stack, innermost frame on top.
type SymTab struct {
	frames util.Stack
	level  int
}

// NewSymTab returns a symbol table with a single, already-open global
// scope (level 0).
func NewSymTab() *SymTab {
	s := &SymTab{}
	s.frames.Push(make(map[string]Sym))
	return s
}

// EnterScope pushes a fresh, empty frame.
func (s *SymTab) EnterScope() {
	s.frames.Push(make(map[string]Sym))
	s.level++
}

// ExitScope pops the innermost frame. Calling it with only the global
// frame left is a programming error in the lowering engine.
func (s *SymTab) ExitScope() {
	if s.level == 0 {
		panic("lower: ExitScope on global scope")
	}
	s.frames.Pop()
	s.level--
}

// Level returns the current nesting depth; the global scope is level 0.
func (s *SymTab) Level() int { return s.level }

// IsGlobalScope reports whether the innermost open frame is the global
// one.
func (s *SymTab) IsGlobalScope() bool { return s.level == 0 }

// IRName returns the display name for the IR cell backing a source
// identifier, suffixed with the current scope level so a declaration
// shadowing an outer one of the same name gets a distinct name in the
// textual IR.
func (s *SymTab) IRName(name string) string {
	return fmt.Sprintf("%%%s_%d", name, s.level)
}

// top returns the innermost open frame.
func (s *SymTab) top() map[string]Sym {
	return s.frames.Peek().(map[string]Sym)
}

// Insert binds name in the innermost open frame, shadowing any binding
// of the same name from an outer frame (and overwriting one already
// present in this same frame).
func (s *SymTab) Insert(name string, sym Sym) {
	s.top()[name] = sym
}

// DeclaredInCurrentScope reports whether name is already bound in the
// innermost open frame (used to reject redeclaration within one
// scope, as opposed to legitimate shadowing of an outer scope).
func (s *SymTab) DeclaredInCurrentScope(name string) bool {
	_, ok := s.top()[name]
	return ok
}

// Lookup searches frames innermost-first and reports the first match.
// It walks the stack by popping every frame into a holding slice and
// pushing them all back in the same order.
func (s *SymTab) Lookup(name string) (Sym, bool) {
	n := s.frames.Size()
	held := make([]map[string]Sym, 0, n)
	var found Sym
	ok := false
	for i := 0; i < n; i++ {
		frame := s.frames.Pop().(map[string]Sym)
		held = append(held, frame)
		if !ok {
			if sym, exists := frame[name]; exists {
				found, ok = sym, true
			}
		}
	}
	for i := n - 1; i >= 0; i-- {
		s.frames.Push(held[i])
	}
	return found, ok
}
