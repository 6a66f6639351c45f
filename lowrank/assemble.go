package lowrank

import (
	"io"

	"github.com/OVGULIU/pyiga/utils"
)

// AxisDesc describes one tensor axis of the dof space at the entry-callback
// boundary: the dof count and a bandwidth proxy bounding how far apart two
// dof indices along the axis can be while their supports still overlap.
type AxisDesc struct {
	NumDofs   int
	Bandwidth int
}

// AssembleEntries approximates the (N,N) operator defined by the entry
// callback via ACA and samples the approximation on the banded sparsity
// pattern implied by the axis descriptors, returning parallel row/column/
// value triplet slices. A convergence failure is reported together with the
// triplets of the partial approximation; it is never silently truncated.
func AssembleEntries(entry func(i, j int) float64, axes []AxisDesc, tol float64,
	maxiter, skipCount, tolCount int, log io.Writer) (rows, cols []int, vals []float64, err error) {
	var (
		dims = make([]int, len(axes))
	)
	for d, ax := range axes {
		dims[d] = ax.NumDofs
	}
	N := utils.ProdInt(dims)
	crosses, err := ACA(Generator{Rows: N, Cols: N, Entry: entry}, tol, maxiter, skipCount, tolCount, log)
	for ii := 0; ii < N; ii++ {
		i := utils.Delinearize(ii, dims)
		forEachBandNeighbor(i, axes, dims, func(jj int) {
			rows = append(rows, ii)
			cols = append(cols, jj)
			vals = append(vals, Approx(crosses, ii, jj))
		})
	}
	return
}

// AssembleCSR wraps the triplet output of AssembleEntries into the same
// compressed sparse form full assembly produces, shape (N,N). On a
// convergence failure the partial matrix is returned along with the error.
func AssembleCSR(entry func(i, j int) float64, axes []AxisDesc, tol float64,
	maxiter, skipCount, tolCount int, log io.Writer) (M utils.CSR, err error) {
	rows, cols, vals, err := AssembleEntries(entry, axes, tol, maxiter, skipCount, tolCount, log)
	var (
		dims = make([]int, len(axes))
	)
	for d, ax := range axes {
		dims[d] = ax.NumDofs
	}
	N := utils.ProdInt(dims)
	R := utils.NewDOK(N, N)
	for n := range rows {
		R.Accumulate(rows[n], cols[n], vals[n])
	}
	M = R.ToCSR()
	return
}

// forEachBandNeighbor visits the linearized indices j with
// |i_d - j_d| <= bandwidth_d on every axis.
func forEachBandNeighbor(i utils.MultiIndex, axes []AxisDesc, dims []int, fn func(jj int)) {
	j := make(utils.MultiIndex, len(dims))
	var rec func(d int)
	rec = func(d int) {
		if d == len(dims) {
			fn(utils.Linearize(j, dims))
			return
		}
		lo := i[d] - axes[d].Bandwidth
		if lo < 0 {
			lo = 0
		}
		hi := i[d] + axes[d].Bandwidth
		if hi > dims[d]-1 {
			hi = dims[d] - 1
		}
		for v := lo; v <= hi; v++ {
			j[d] = v
			rec(d + 1)
		}
	}
	rec(0)
}
