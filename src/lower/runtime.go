// runtime.go registers the fixed set of runtime-library functions every
// translation unit can call without declaring them: numeric and
// character I/O, array I/O, and the timing pair used by benchmark
// programs. They are declaration-only MidIR functions (no blocks),
// registered before the translation unit itself is lowered so calls to
// them resolve like any other forward-visible function.

package lower

import "rvslc/src/midir"

func registerRuntime(prog *midir.Program, sym *SymTab) {
	reg := func(name string, params []*midir.Type, ret *midir.Type) {
		fn := prog.NewFunction(name, params, ret, nil)
		sym.Insert(name, Sym{Kind: SymFunction, Func: fn})
	}

	ptrInt := midir.NewPointer(midir.Int32)

	reg("getint", nil, midir.Int32)
	reg("getch", nil, midir.Int32)
	reg("getarray", []*midir.Type{ptrInt}, midir.Int32)
	reg("putint", []*midir.Type{midir.Int32}, midir.Unit)
	reg("putch", []*midir.Type{midir.Int32}, midir.Unit)
	reg("putarray", []*midir.Type{midir.Int32, ptrInt}, midir.Unit)
	reg("starttime", nil, midir.Unit)
	reg("stoptime", nil, midir.Unit)
}
