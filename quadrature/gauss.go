package quadrature

import (
	"math"

	"github.com/OVGULIU/pyiga/utils"
	"gonum.org/v1/gonum/mat"
)

// GaussLegendre computes the n-point Gauss-Legendre rule on [-1, 1] by the
// Golub-Welsch method: eigen-decomposition of the Jacobi tridiagonal matrix,
// weights from the squared first eigenvector components.
func GaussLegendre(n int) (X, W utils.Vector) {
	if n < 1 {
		panic("GaussLegendre requires at least one node")
	}
	if n == 1 {
		return utils.NewVector(1, []float64{0}), utils.NewVector(1, []float64{2})
	}
	var (
		d0 = make([]float64, n)
		d1 = make([]float64, n-1)
	)
	for i := 0; i < n-1; i++ {
		ip1 := float64(i + 1)
		d1[i] = ip1 / math.Sqrt((2*ip1-1)*(2*ip1+1))
	}
	JJ := utils.NewSymTriDiagonal(d0, d1)

	var eig mat.EigenSym
	ok := eig.Factorize(JJ, true)
	if !ok {
		panic("eigenvalue decomposition failed")
	}
	x := eig.Values(nil)
	X = utils.NewVector(n, x)

	VVr := mat.NewDense(n, n, nil)
	eig.VectorsTo(VVr)
	W = utils.NewVector(n, append([]float64{}, VVr.RawRowView(0)...)).POW(2).Scale(2)
	return
}

// IteratedRule tensors the n-point Gauss-Legendre rule over every span of a
// 1-D mesh, returning global node and weight slices ordered span by span.
func IteratedRule(mesh []float64, n int) (nodes, weights []float64) {
	var (
		X, W     = GaussLegendre(n)
		numSpans = len(mesh) - 1
	)
	nodes = make([]float64, 0, numSpans*n)
	weights = make([]float64, 0, numSpans*n)
	for s := 0; s < numSpans; s++ {
		var (
			a, b = mesh[s], mesh[s+1]
			mid  = 0.5 * (a + b)
			scal = 0.5 * (b - a)
		)
		for k := 0; k < n; k++ {
			nodes = append(nodes, mid+scal*X.AtVec(k))
			weights = append(weights, scal*W.AtVec(k))
		}
	}
	return
}
