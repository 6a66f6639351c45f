package assemble

// Support intervals are half-open ranges of mesh element indices, one per
// basis function along one tensor axis. Tables are sorted by function index
// with non-decreasing endpoints, a consequence of B-spline local support
// ordering; NeighborRange relies on that to stop scanning early.

// IntersectSupport returns the intersection of two support intervals,
// [max(a.lo, b.lo), min(a.hi, b.hi)). The result is empty iff lo >= hi.
func IntersectSupport(a, b [2]int) (c [2]int) {
	c[0] = a[0]
	if b[0] > c[0] {
		c[0] = b[0]
	}
	c[1] = a[1]
	if b[1] < c[1] {
		c[1] = b[1]
	}
	return
}

// EmptyInterval reports whether a half-open interval contains no elements.
func EmptyInterval(iv [2]int) bool {
	return iv[0] >= iv[1]
}

// NeighborRange returns the contiguous range [lo, hi) of function indices
// whose support overlaps the support of function i. It expands outward from
// i and stops each direction at the first non-overlapping function, which
// the table ordering guarantees bounds all further ones.
func NeighborRange(table [][2]int, i int) (rng [2]int) {
	var (
		s  = table[i]
		lo = i
		hi = i + 1
	)
	if EmptyInterval(s) {
		return [2]int{i, i}
	}
	for lo > 0 && !EmptyInterval(IntersectSupport(table[lo-1], s)) {
		lo--
	}
	for hi < len(table) && !EmptyInterval(IntersectSupport(table[hi], s)) {
		hi++
	}
	rng = [2]int{lo, hi}
	return
}
