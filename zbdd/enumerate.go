package zbdd

// Enumerate walks ref and returns every member set as a sorted slice of
// variable orders, one slice per product (spec §3.5 "Product: sorted
// sequence of signed variable indices").
func (f *Family) Enumerate(ref int) [][]int {
	var out [][]int
	var walk func(ref int, acc []int)
	walk = func(ref int, acc []int) {
		switch ref {
		case EMPTY:
			return
		case BASE:
			out = append(out, append([]int(nil), acc...))
			return
		}
		n := f.nodes[ref]
		walk(n.high, append(acc, n.varOrder))
		walk(n.low, acc)
	}
	walk(ref, nil)
	return out
}

// BuildFromProducts rebuilds a family from an explicit product list,
// each inner slice a set of variable orders (order within a slice does
// not matter).
func (f *Family) BuildFromProducts(products [][]int) int {
	result := EMPTY
	for _, p := range products {
		term := BASE
		for _, v := range p {
			term = f.Product(term, f.Singleton(v))
		}
		result = f.Union(result, term)
	}
	return result
}
