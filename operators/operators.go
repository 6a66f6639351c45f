// Package operators provides composable linear-operator helpers used around
// assembled matrices: null and diagonal placeholders, Kronecker products
// applied without materializing them, block-diagonal composition and
// factorization-backed solver operators.
package operators

import (
	"fmt"

	"github.com/OVGULIU/pyiga/utils"
	"gonum.org/v1/gonum/mat"
)

// Operator is anything that can apply itself to a vector.
type Operator interface {
	Dims() (r, c int)
	MatVec(x []float64) []float64
}

// Null is the zero operator of a given shape, used as a placeholder.
type Null struct {
	R, C int
}

func (o Null) Dims() (r, c int) { return o.R, o.C }

func (o Null) MatVec(x []float64) []float64 {
	o.checkLen(x)
	return make([]float64, o.R)
}

func (o Null) checkLen(x []float64) {
	if len(x) != o.C {
		panic(fmt.Errorf("operator input length %d, want %d", len(x), o.C))
	}
}

// Diagonal acts like a diagonal matrix with the given diagonal.
type Diagonal struct {
	Diag []float64
}

func (o Diagonal) Dims() (r, c int) { return len(o.Diag), len(o.Diag) }

func (o Diagonal) MatVec(x []float64) (y []float64) {
	if len(x) != len(o.Diag) {
		panic(fmt.Errorf("operator input length %d, want %d", len(x), len(o.Diag)))
	}
	y = make([]float64, len(x))
	for i, d := range o.Diag {
		y[i] = d * x[i]
	}
	return
}

// Dense wraps a dense matrix as an Operator.
type Dense struct {
	M utils.Matrix
}

func (o Dense) Dims() (r, c int) { return o.M.Dims() }

func (o Dense) MatVec(x []float64) (y []float64) {
	var (
		nr, nc = o.M.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("operator input length %d, want %d", len(x), nc))
	}
	y = make([]float64, nr)
	v := mat.NewVecDense(nr, y)
	v.MulVec(o.M.M, mat.NewVecDense(nc, x))
	return
}

// Kronecker applies the Kronecker product of square operators without ever
// forming it. With operators A1..Ad of sizes n1..nd it acts on vectors of
// length n1*...*nd laid out row-major, axis 1 slowest.
type Kronecker struct {
	Ops []Operator
}

func NewKronecker(ops ...Operator) (k Kronecker, err error) {
	if len(ops) == 0 {
		err = fmt.Errorf("kronecker product of no operators")
		return
	}
	for n, op := range ops {
		r, c := op.Dims()
		if r != c {
			err = fmt.Errorf("kronecker factor %d is %dx%d, want square", n, r, c)
			return
		}
	}
	k = Kronecker{Ops: ops}
	return
}

func (o Kronecker) Dims() (r, c int) {
	n := 1
	for _, op := range o.Ops {
		d, _ := op.Dims()
		n *= d
	}
	return n, n
}

func (o Kronecker) MatVec(x []float64) []float64 {
	n, _ := o.Dims()
	if len(x) != n {
		panic(fmt.Errorf("operator input length %d, want %d", len(x), n))
	}
	return applyKron(o.Ops, x)
}

func applyKron(ops []Operator, x []float64) (y []float64) {
	if len(ops) == 1 {
		return ops[0].MatVec(x)
	}
	var (
		n0, _ = ops[0].Dims()
		m     = len(x) / n0
		tmp   = make([]float64, len(x))
	)
	for i := 0; i < n0; i++ {
		copy(tmp[i*m:(i+1)*m], applyKron(ops[1:], x[i*m:(i+1)*m]))
	}
	// mix the blocks through the leading factor, one fiber at a time
	y = make([]float64, len(x))
	var (
		z = make([]float64, n0)
	)
	for k := 0; k < m; k++ {
		for i := 0; i < n0; i++ {
			z[i] = tmp[i*m+k]
		}
		w := ops[0].MatVec(z)
		for i := 0; i < n0; i++ {
			y[i*m+k] = w[i]
		}
	}
	return
}

// BlockDiagonal composes operators along the diagonal.
type BlockDiagonal struct {
	Ops []Operator
}

func (o BlockDiagonal) Dims() (r, c int) {
	for _, op := range o.Ops {
		br, bc := op.Dims()
		r += br
		c += bc
	}
	return
}

func (o BlockDiagonal) MatVec(x []float64) (y []float64) {
	nr, nc := o.Dims()
	if len(x) != nc {
		panic(fmt.Errorf("operator input length %d, want %d", len(x), nc))
	}
	y = make([]float64, nr)
	var ro, co int
	for _, op := range o.Ops {
		br, bc := op.Dims()
		copy(y[ro:ro+br], op.MatVec(x[co:co+bc]))
		ro += br
		co += bc
	}
	return
}
