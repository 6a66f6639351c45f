package operators

import (
	"fmt"

	"github.com/OVGULIU/pyiga/utils"
	"gonum.org/v1/gonum/mat"
)

// MakeSolver factorizes a square dense matrix once and returns an Operator
// applying its inverse: LU in general, Cholesky when the caller declares the
// matrix symmetric positive definite.
func MakeSolver(B utils.Matrix, symmetric bool) (op Operator, err error) {
	var (
		nr, nc = B.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("solver requires a square matrix, got %dx%d", nr, nc)
		return
	}
	if symmetric {
		sym := mat.NewSymDense(nr, nil)
		for i := 0; i < nr; i++ {
			for j := i; j < nr; j++ {
				sym.SetSym(i, j, B.At(i, j))
			}
		}
		var chol mat.Cholesky
		if ok := chol.Factorize(sym); !ok {
			err = fmt.Errorf("matrix is not positive definite")
			return
		}
		op = cholSolver{n: nr, chol: &chol}
		return
	}
	lu := &mat.LU{}
	lu.Factorize(B.M)
	op = luSolver{n: nr, lu: lu}
	return
}

// MakeKroneckerSolver returns an operator applying the inverse of the
// Kronecker product of the given square matrices, factor by factor.
func MakeKroneckerSolver(Bs ...utils.Matrix) (op Operator, err error) {
	var (
		inverses = make([]Operator, len(Bs))
	)
	for n, B := range Bs {
		if inverses[n], err = MakeSolver(B, false); err != nil {
			return
		}
	}
	var k Kronecker
	if k, err = NewKronecker(inverses...); err != nil {
		return
	}
	op = k
	return
}

type luSolver struct {
	n  int
	lu *mat.LU
}

func (s luSolver) Dims() (r, c int) { return s.n, s.n }

func (s luSolver) MatVec(x []float64) (y []float64) {
	var (
		dst = mat.NewVecDense(s.n, nil)
	)
	if err := s.lu.SolveVecTo(dst, false, mat.NewVecDense(s.n, x)); err != nil {
		panic(err)
	}
	y = dst.RawVector().Data
	return
}

type cholSolver struct {
	n    int
	chol *mat.Cholesky
}

func (s cholSolver) Dims() (r, c int) { return s.n, s.n }

func (s cholSolver) MatVec(x []float64) (y []float64) {
	var (
		dst = mat.NewVecDense(s.n, nil)
	)
	if err := s.chol.SolveVecTo(dst, mat.NewVecDense(s.n, x)); err != nil {
		panic(err)
	}
	y = dst.RawVector().Data
	return
}
