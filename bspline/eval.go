package bspline

import (
	"github.com/OVGULIU/pyiga/utils"
)

// activeBasis evaluates the degree+1 basis functions that are nonzero at x.
// It returns the index of the first active function and the function values,
// via the Cox-de Boor recursion on the active span.
func (kv KnotVector) activeBasis(x float64) (first int, vals []float64) {
	tri := kv.basisTriangle(x)
	mu := kv.findSpan(x)
	first = mu - kv.Degree
	vals = tri[kv.Degree]
	return
}

// activeBasisDerivs additionally returns the first parametric derivatives of
// the active functions.
func (kv KnotVector) activeBasisDerivs(x float64) (first int, vals, ders []float64) {
	var (
		p  = kv.Degree
		mu = kv.findSpan(x)
		U  = kv.Knots
	)
	tri := kv.basisTriangle(x)
	first = mu - p
	vals = tri[p]
	ders = make([]float64, p+1)
	if p == 0 {
		return
	}
	// N'_{first+r} = p*( N_{first+r,p-1}/(U[mu+r]-U[first+r])
	//               - N_{first+r+1,p-1}/(U[mu+r+1]-U[first+r+1]) )
	lower := tri[p-1]
	for r := 0; r <= p; r++ {
		var d float64
		if r > 0 {
			if den := U[mu+r] - U[first+r]; den != 0 {
				d += lower[r-1] / den
			}
		}
		if r < p {
			if den := U[mu+r+1] - U[first+r+1]; den != 0 {
				d -= lower[r] / den
			}
		}
		ders[r] = float64(p) * d
	}
	return
}

// basisTriangle computes the full Cox-de Boor triangle at x: row j holds the
// j+1 degree-j basis functions active on the span containing x.
func (kv KnotVector) basisTriangle(x float64) (tri [][]float64) {
	var (
		p     = kv.Degree
		mu    = kv.findSpan(x)
		U     = kv.Knots
		left  = make([]float64, p+1)
		right = make([]float64, p+1)
	)
	tri = make([][]float64, p+1)
	tri[0] = []float64{1}
	for j := 1; j <= p; j++ {
		left[j] = x - U[mu+1-j]
		right[j] = U[mu+j] - x
		row := make([]float64, j+1)
		prev := tri[j-1]
		var saved float64
		for r := 0; r < j; r++ {
			den := right[r+1] + left[j-r]
			var temp float64
			if den != 0 {
				temp = prev[r] / den
			}
			row[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		row[j] = saved
		tri[j] = row
	}
	return
}

// EvalBasisGrid evaluates every basis function at every point, returning a
// (numDofs x len(points)) matrix. Inactive functions contribute exact zeros.
func (kv KnotVector) EvalBasisGrid(points []float64) (V utils.Matrix) {
	V = utils.NewMatrix(kv.NumDofs(), len(points))
	for k, x := range points {
		first, vals := kv.activeBasis(x)
		for r, v := range vals {
			V.Set(first+r, k, v)
		}
	}
	return
}

// EvalBasisDerivGrid evaluates values and first derivatives of every basis
// function at every point.
func (kv KnotVector) EvalBasisDerivGrid(points []float64) (V, D utils.Matrix) {
	V = utils.NewMatrix(kv.NumDofs(), len(points))
	D = utils.NewMatrix(kv.NumDofs(), len(points))
	for k, x := range points {
		first, vals, ders := kv.activeBasisDerivs(x)
		for r := range vals {
			V.Set(first+r, k, vals[r])
			D.Set(first+r, k, ders[r])
		}
	}
	return
}

// Greville returns the Greville abscissae, the knot averages commonly used
// as collocation or anchor points for the basis.
func (kv KnotVector) Greville() (xi []float64) {
	var (
		p = kv.Degree
		n = kv.NumDofs()
	)
	xi = make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 1; j <= p; j++ {
			sum += kv.Knots[i+j]
		}
		if p > 0 {
			xi[i] = sum / float64(p)
		} else {
			xi[i] = 0.5 * (kv.Knots[i] + kv.Knots[i+1])
		}
	}
	return
}
