package midir

import (
	"fmt"
	"strings"
)

func typeString(t *Type) string { return t.String() }

func formatInitializer(v *Value) string {
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.intVal)
	case KindZeroInit:
		return "zeroinit"
	case KindAggregate:
		parts := make([]string, len(v.elems))
		for i1, e1 := range v.elems {
			parts[i1] = formatInitializer(e1)
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	default:
		return "?"
	}
}

func formatGlobal(g *Value) string {
	return fmt.Sprintf("global @%s = alloc %s, %s", g.name, typeString(g.allocType), formatInitializer(g.init))
}

func formatOperand(v *Value) string {
	if v == nil {
		return ""
	}
	if v.global {
		return "@" + v.name
	}
	if v.kind == KindInteger {
		return fmt.Sprintf("%d", v.intVal)
	}
	return v.displayName()
}

func formatFunction(f *Function) string {
	var sb strings.Builder
	params := make([]string, len(f.paramTypes))
	for i1, t := range f.paramTypes {
		name := ""
		if i1 < len(f.paramNames) {
			name = f.paramNames[i1]
		}
		params[i1] = fmt.Sprintf("%%%s: %s", name, typeString(t))
	}
	sig := fmt.Sprintf("fun @%s(%s)", f.name, strings.Join(params, ", "))
	if !f.retType.IsUnit() {
		sig += ": " + typeString(f.retType)
	}
	if f.IsDeclaration() {
		sb.WriteString("decl " + sig + "\n")
		return sb.String()
	}
	sb.WriteString(sig + " {\n")
	for _, b := range f.blocks {
		sb.WriteString(formatBlock(b))
	}
	sb.WriteString("}\n")
	return sb.String()
}

func formatBlock(b *Block) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%%%s:\n", b.name))
	for _, inst := range b.instrs {
		sb.WriteString("  " + formatInstr(inst) + "\n")
	}
	return sb.String()
}

func formatInstr(v *Value) string {
	switch v.kind {
	case KindAlloc:
		return fmt.Sprintf("%s = alloc %s", v.displayName(), typeString(v.allocType))
	case KindLoad:
		return fmt.Sprintf("%s = load %s", v.displayName(), formatOperand(v.src))
	case KindStore:
		return fmt.Sprintf("store %s, %s", formatOperand(v.storeVal), formatOperand(v.storeDest))
	case KindGetElemPtr:
		return fmt.Sprintf("%s = getelemptr %s, %s", v.displayName(), formatOperand(v.src), formatOperand(v.index))
	case KindGetPtr:
		return fmt.Sprintf("%s = getptr %s, %s", v.displayName(), formatOperand(v.src), formatOperand(v.index))
	case KindBinary:
		return fmt.Sprintf("%s = %s %s, %s", v.displayName(), v.op, formatOperand(v.lhs), formatOperand(v.rhs))
	case KindBranch:
		return fmt.Sprintf("br %s, %%%s, %%%s", formatOperand(v.cond), v.trueBB.name, v.falseBB.name)
	case KindJump:
		return fmt.Sprintf("jump %%%s", v.target.name)
	case KindCall:
		args := make([]string, len(v.elems))
		for i1, a1 := range v.elems {
			args[i1] = formatOperand(a1)
		}
		prefix := ""
		if !v.typ.IsUnit() {
			prefix = v.displayName() + " = "
		}
		return fmt.Sprintf("%scall @%s(%s)", prefix, v.callee.name, strings.Join(args, ", "))
	case KindReturn:
		if v.retVal == nil {
			return "ret"
		}
		return fmt.Sprintf("ret %s", formatOperand(v.retVal))
	case KindInteger:
		return fmt.Sprintf("%d", v.intVal)
	default:
		return "?"
	}
}
