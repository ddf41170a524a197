// arrayinit.go flattens a (possibly partial, possibly raggedly nested)
// brace initializer into a linear slot sequence of length
// product(dims), one slot per array element in row-major order. A nil
// slot means "not covered by the initializer" (zero per the shape
// invariant).
//
// A nested brace is required to start a fresh row: if the cursor isn't
// already sitting on a multiple of the capacity of the next dimension
// down, it is advanced to the next such boundary first (the skipped
// positions stay nil, i.e. zero). The nested list is then flattened one
// dimension in, and its own cursor simply keeps advancing into that row
// without being forced to consume the whole thing — a short inner brace
// leaves the rest of the row to be filled by whatever the enclosing
// list writes next, exactly as a flat sequence would.

package lower

import (
	"fmt"

	"rvslc/src/frontend"
)

// capacity returns the number of scalar elements spanned by dimension d
// together with every dimension inside it (the product of dims[d:]),
// i.e. by one element of dimension d-1; the capacity of "one past the
// innermost dimension" is 1.
func capacity(dims []int, d int) int {
	n := 1
	for i := d; i < len(dims); i++ {
		n *= dims[i]
	}
	return n
}

// flattenInit flattens init against dims (outermost dimension first)
// and returns a length-product(dims) slot slice. For a scalar
// declaration pass dims == nil; a single optional wrapping brace is
// tolerated.
func flattenInit(dims []int, init *frontend.InitList) ([]frontend.Expr, error) {
	if len(dims) == 0 {
		return flattenScalar(init)
	}
	n := capacity(dims, 0)
	slots := make([]frontend.Expr, n)
	if init.IsLeaf() {
		return nil, fmt.Errorf("%d:%d: array initializer must be a brace list", init.Line, init.Col)
	}
	c := 0
	if err := fillRow(dims, 0, init, slots, &c); err != nil {
		return nil, err
	}
	return slots, nil
}

func flattenScalar(init *frontend.InitList) ([]frontend.Expr, error) {
	for !init.IsLeaf() {
		if len(init.List) != 1 {
			return nil, fmt.Errorf("%d:%d: too many initializers for scalar", init.Line, init.Col)
		}
		init = init.List[0]
	}
	return []frontend.Expr{init.Expr}, nil
}

// fillRow flattens the children of list, a brace list sitting at
// dimension depth (depth < len(dims)), writing into slots starting at
// *c and advancing *c as it goes.
func fillRow(dims []int, depth int, list *frontend.InitList, slots []frontend.Expr, c *int) error {
	rowCap := capacity(dims, depth+1)
	for _, child := range list.List {
		if *c >= len(slots) {
			return fmt.Errorf("%d:%d: too many initializers", list.Line, list.Col)
		}
		if child.IsLeaf() {
			slots[*c] = child.Expr
			*c++
			continue
		}
		if depth+1 >= len(dims) {
			return fmt.Errorf("%d:%d: brace nesting exceeds array rank", child.Line, child.Col)
		}
		if *c%rowCap != 0 {
			*c = (*c/rowCap + 1) * rowCap
		}
		if err := fillRow(dims, depth+1, child, slots, c); err != nil {
			return err
		}
	}
	return nil
}

// indicesOf converts a linear row-major index into its per-dimension
// coordinates, outermost first.
func indicesOf(dims []int, flat int) []int {
	idx := make([]int, len(dims))
	for j := range dims {
		idx[j] = (flat / capacity(dims, j+1)) % dims[j]
	}
	return idx
}
