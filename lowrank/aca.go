// Package lowrank implements adaptive cross approximation (ACA): building a
// low-rank approximation of a matrix from a sparse sample of its entries,
// evaluated on demand through a callback. It serves as the matrix-free
// alternative to full assembly for smooth geometry coefficients.
package lowrank

import (
	"fmt"
	"io"
	"math"

	"github.com/OVGULIU/pyiga/utils"
)

// Generator provides on-demand entries of an implicitly defined matrix. The
// Entry callback must be safe for concurrent invocation; an assembler's
// Assemble method satisfies this because its precomputed state is immutable.
type Generator struct {
	Rows, Cols int
	Entry      func(i, j int) float64
}

// FromMatrix wraps a dense matrix as a Generator.
func FromMatrix(M utils.Matrix) Generator {
	nr, nc := M.Dims()
	return Generator{Rows: nr, Cols: nc, Entry: M.At}
}

func (g Generator) Row(i int) (r []float64) {
	r = make([]float64, g.Cols)
	for j := range r {
		r[j] = g.Entry(i, j)
	}
	return
}

func (g Generator) Col(j int) (c []float64) {
	c = make([]float64, g.Rows)
	for i := range c {
		c[i] = g.Entry(i, j)
	}
	return
}

// Cross is one rank-1 term u v^T of the approximation.
type Cross struct {
	U, V []float64
}

// ErrNoConvergence reports that ACA hit its iteration cap before the
// residual estimate dropped below the target tolerance. The partial
// approximation accumulated so far accompanies the error; the caller decides
// whether to accept it.
type ErrNoConvergence struct {
	Iterations int
	Residual   float64
}

func (e *ErrNoConvergence) Error() string {
	return fmt.Sprintf("aca: no convergence within %d iterations (residual estimate %.3g)", e.Iterations, e.Residual)
}

// ACA runs adaptive cross approximation with partial pivoting. tol is the
// relative tolerance on the rank-1 update magnitude against the first cross;
// maxiter caps the rank. skipCount near-zero pivot rows are tolerated in a
// row (each advancing to the next unused row) before the matrix is declared
// numerically exhausted, and tolCount consecutive updates below tolerance
// are required before declaring convergence. Progress lines go to log when
// it is non-nil.
func ACA(gen Generator, tol float64, maxiter, skipCount, tolCount int, log io.Writer) (crosses []Cross, err error) {
	var (
		usedRows  = make([]bool, gen.Rows)
		firstNorm float64
		row       = 0
		skipped   = 0
		belowTol  = 0
		residual  float64
	)
	if maxiter <= 0 {
		maxiter = min(gen.Rows, gen.Cols)
	}
	if tolCount < 1 {
		tolCount = 1
	}
	for iter := 0; iter < maxiter; iter++ {
		if row < 0 {
			return // every row consumed: matrix fully reproduced
		}
		usedRows[row] = true
		v := gen.Row(row)
		for _, c := range crosses {
			ui := c.U[row]
			for j := range v {
				v[j] -= ui * c.V[j]
			}
		}
		col, pivot := argmaxAbs(v)
		if math.Abs(pivot) < 1e-15*(1+firstNorm) {
			skipped++
			if skipped > skipCount {
				return // no significant pivots remain
			}
			row = nextUnusedRow(usedRows, row)
			iter--
			continue
		}
		skipped = 0
		for j := range v {
			v[j] /= pivot
		}
		u := gen.Col(col)
		for _, c := range crosses {
			vj := c.V[col]
			for i := range u {
				u[i] -= vj * c.U[i]
			}
		}
		crosses = append(crosses, Cross{U: u, V: v})

		residual = norm2(u) * norm2(v)
		if firstNorm == 0 {
			firstNorm = residual
		}
		if log != nil {
			fmt.Fprintf(log, "aca: iter %d pivot (%d,%d) = %.4g update %.4g\n", iter, row, col, pivot, residual)
		}
		if residual <= tol*firstNorm {
			belowTol++
			if belowTol >= tolCount {
				return
			}
		} else {
			belowTol = 0
		}
		row = nextPivotRow(u, usedRows)
	}
	err = &ErrNoConvergence{Iterations: maxiter, Residual: residual}
	return
}

// Approx evaluates the rank-k approximation at entry (i, j).
func Approx(crosses []Cross, i, j int) (v float64) {
	for _, c := range crosses {
		v += c.U[i] * c.V[j]
	}
	return
}

func argmaxAbs(v []float64) (idx int, val float64) {
	var best float64 = -1
	for j, x := range v {
		if a := math.Abs(x); a > best {
			best = a
			idx = j
			val = x
		}
	}
	return
}

func nextPivotRow(u []float64, used []bool) (row int) {
	var best float64 = -1
	row = -1
	for i, x := range u {
		if used[i] {
			continue
		}
		if a := math.Abs(x); a > best {
			best = a
			row = i
		}
	}
	return
}

func nextUnusedRow(used []bool, from int) (row int) {
	for i := range used {
		r := (from + 1 + i) % len(used)
		if !used[r] {
			return r
		}
	}
	return -1
}

func norm2(v []float64) (n float64) {
	for _, x := range v {
		n += x * x
	}
	return math.Sqrt(n)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
