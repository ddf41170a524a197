// consteval.go folds a constant expression to its int32 value at
// lowering time (array dimensions, const-declaration initializers).
// Arithmetic runs in Go's native int32, which already wraps on overflow
// the way two's-complement arithmetic does, so no explicit masking is
// needed. && and || are evaluated eagerly: both operands are folded even
// when the left one alone would decide the result, since short-circuit
// evaluation is a run-time control-flow property and a constant
// expression has none.

package lower

import (
	"fmt"

	"rvslc/src/frontend"
)

// evalConst folds e to a constant int32 using sym to resolve named
// constants. It fails (a name error or a domain error per the
// diagnostic taxonomy) if e is not a constant expression: a reference
// to a non-const name, a function call, or a division/modulo by zero.
func evalConst(sym *SymTab, e frontend.Expr) (int32, error) {
	switch n := e.(type) {
	case *frontend.IntLit:
		return n.Value, nil

	case *frontend.LValue:
		if len(n.Indices) != 0 {
			return 0, fmt.Errorf("%d:%d: array element is not a constant expression", n.Line, n.Col)
		}
		s, ok := sym.Lookup(n.Name)
		if !ok {
			return 0, fmt.Errorf("%d:%d: undeclared identifier %q", n.Line, n.Col, n.Name)
		}
		if s.Kind != SymConstInt {
			return 0, fmt.Errorf("%d:%d: %q is not a constant expression", n.Line, n.Col, n.Name)
		}
		return s.ConstVal, nil

	case *frontend.UnaryExpr:
		x, err := evalConst(sym, n.X)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case frontend.UnaryPlus:
			return x, nil
		case frontend.UnaryMinus:
			return -x, nil
		case frontend.UnaryNot:
			return boolToInt(x == 0), nil
		}
		return 0, fmt.Errorf("%d:%d: unsupported unary operator", n.Line, n.Col)

	case *frontend.BinaryExpr:
		l, err := evalConst(sym, n.L)
		if err != nil {
			return 0, err
		}
		r, err := evalConst(sym, n.R)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case frontend.Add:
			return l + r, nil
		case frontend.Sub:
			return l - r, nil
		case frontend.Mul:
			return l * r, nil
		case frontend.Div:
			if r == 0 {
				return 0, fmt.Errorf("%d:%d: division by zero in constant expression", n.Line, n.Col)
			}
			return l / r, nil
		case frontend.Mod:
			if r == 0 {
				return 0, fmt.Errorf("%d:%d: modulo by zero in constant expression", n.Line, n.Col)
			}
			return l % r, nil
		case frontend.Lt:
			return boolToInt(l < r), nil
		case frontend.Gt:
			return boolToInt(l > r), nil
		case frontend.Le:
			return boolToInt(l <= r), nil
		case frontend.Ge:
			return boolToInt(l >= r), nil
		case frontend.Eq:
			return boolToInt(l == r), nil
		case frontend.Neq:
			return boolToInt(l != r), nil
		case frontend.LAnd:
			return boolToInt(l != 0 && r != 0), nil
		case frontend.LOr:
			return boolToInt(l != 0 || r != 0), nil
		}
		return 0, fmt.Errorf("%d:%d: unsupported binary operator", n.Line, n.Col)

	case *frontend.CallExpr:
		return 0, fmt.Errorf("%d:%d: function call is not a constant expression", n.Line, n.Col)

	default:
		return 0, fmt.Errorf("not a constant expression")
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
