package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Map is a geometry transformation from the parametric domain into physical
// space, specified through its Jacobian. Implementations must be safe for
// concurrent evaluation.
type Map interface {
	Dim() int
	// Jacobian returns the dim x dim Jacobian matrix at the parametric
	// point x, in row-major order.
	Jacobian(x []float64) []float64
}

// Identity is the identity geometry map of a given dimension.
type Identity struct {
	Dimension int
}

func (g Identity) Dim() int { return g.Dimension }

func (g Identity) Jacobian(x []float64) (jac []float64) {
	jac = make([]float64, g.Dimension*g.Dimension)
	for i := 0; i < g.Dimension; i++ {
		jac[i*g.Dimension+i] = 1
	}
	return
}

// Affine is a geometry map with constant Jacobian A, i.e. x -> A x + b.
type Affine struct {
	Dimension int
	A         []float64 // row-major Dimension x Dimension
}

func NewAffine(dim int, a []float64) (g Affine, err error) {
	if len(a) != dim*dim {
		err = fmt.Errorf("affine matrix has %d entries, want %d", len(a), dim*dim)
		return
	}
	g = Affine{Dimension: dim, A: a}
	return
}

func (g Affine) Dim() int { return g.Dimension }

func (g Affine) Jacobian(x []float64) (jac []float64) {
	jac = make([]float64, len(g.A))
	copy(jac, g.A)
	return
}

// FuncMap adapts a Jacobian callback into a Map.
type FuncMap struct {
	Dimension int
	Jac       func(x []float64) []float64
}

func (g FuncMap) Dim() int { return g.Dimension }

func (g FuncMap) Jacobian(x []float64) []float64 { return g.Jac(x) }

// DetInv returns the determinant and inverse of a dim x dim row-major
// Jacobian. A zero or NaN determinant is an error: the geometry map is
// singular at that point and assembly cannot proceed.
func DetInv(jac []float64, dim int) (det float64, inv []float64, err error) {
	J := mat.NewDense(dim, dim, jac)
	det = mat.Det(J)
	if det == 0 || math.IsNaN(det) {
		err = fmt.Errorf("singular geometry Jacobian (det = %v)", det)
		return
	}
	var Ji mat.Dense
	if err = Ji.Inverse(J); err != nil {
		err = fmt.Errorf("inverting geometry Jacobian: %w", err)
		return
	}
	inv = make([]float64, dim*dim)
	copy(inv, Ji.RawMatrix().Data)
	return
}
