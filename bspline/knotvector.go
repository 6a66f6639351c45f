package bspline

import (
	"fmt"
	"sort"
)

// KnotVector describes one parametric axis of a tensor-product spline basis:
// polynomial degree and a nondecreasing knot sequence. Open (clamped) knot
// vectors are expected, with degree+1 repeated knots at each end.
type KnotVector struct {
	Degree int
	Knots  []float64
}

func NewKnotVector(degree int, knots []float64) (kv KnotVector, err error) {
	if degree < 0 {
		err = fmt.Errorf("negative spline degree %d", degree)
		return
	}
	if len(knots) < 2*(degree+1) {
		err = fmt.Errorf("knot vector of length %d too short for degree %d", len(knots), degree)
		return
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			err = fmt.Errorf("knot vector not nondecreasing at position %d", i)
			return
		}
	}
	kv = KnotVector{Degree: degree, Knots: knots}
	return
}

// UniformKnotVector builds an open knot vector of the given degree with
// numElements uniform spans over [a, b].
func UniformKnotVector(degree, numElements int, a, b float64) (kv KnotVector) {
	var (
		knots = make([]float64, 0, 2*(degree+1)+numElements-1)
		h     = (b - a) / float64(numElements)
	)
	for i := 0; i <= degree; i++ {
		knots = append(knots, a)
	}
	for i := 1; i < numElements; i++ {
		knots = append(knots, a+float64(i)*h)
	}
	for i := 0; i <= degree; i++ {
		knots = append(knots, b)
	}
	kv = KnotVector{Degree: degree, Knots: knots}
	return
}

// NumDofs is the number of basis functions along this axis.
func (kv KnotVector) NumDofs() int {
	return len(kv.Knots) - kv.Degree - 1
}

// Mesh returns the unique breakpoints of the knot vector.
func (kv KnotVector) Mesh() (mesh []float64) {
	mesh = append(mesh, kv.Knots[0])
	for _, t := range kv.Knots[1:] {
		if t > mesh[len(mesh)-1] {
			mesh = append(mesh, t)
		}
	}
	return
}

// NumSpans is the number of mesh elements (nonempty knot spans).
func (kv KnotVector) NumSpans() int {
	return len(kv.Mesh()) - 1
}

// SupportTable returns, per basis function, the half-open interval of mesh
// element indices over which it is nonzero. Intervals are sorted by function
// index with non-decreasing left endpoints, a consequence of B-spline local
// support ordering.
func (kv KnotVector) SupportTable() (table [][2]int) {
	var (
		mesh = kv.Mesh()
		n    = kv.NumDofs()
		p    = kv.Degree
	)
	table = make([][2]int, n)
	for i := 0; i < n; i++ {
		lo := sort.SearchFloat64s(mesh, kv.Knots[i])
		hi := sort.SearchFloat64s(mesh, kv.Knots[i+p+1])
		table[i] = [2]int{lo, hi}
	}
	return
}

// findSpan locates the knot span index mu with Knots[mu] <= x < Knots[mu+1],
// clamped to the last nonempty span at the right boundary.
func (kv KnotVector) findSpan(x float64) (mu int) {
	var (
		p = kv.Degree
		n = kv.NumDofs()
	)
	if x >= kv.Knots[n] {
		// right boundary: step back to the last nonempty span
		mu = n - 1
		for kv.Knots[mu+1] <= kv.Knots[mu] {
			mu--
		}
		return
	}
	mu = sort.Search(len(kv.Knots), func(i int) bool { return kv.Knots[i] > x }) - 1
	if mu < p {
		mu = p
	}
	return
}
