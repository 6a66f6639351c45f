package utils

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK wraps a dictionary-of-keys sparse matrix used as the triplet
// accumulator during assembly. Duplicate (row, column) contributions are
// summed, never overwritten - the symmetric-mirror mechanism and the
// cross-chunk reduction both rely on this.
type DOK struct {
	M *sparse.DOK
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{sparse.NewDOK(nr, nc)}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) NNZ() int { return m.M.NNZ() }

// Accumulate adds val into entry (i, j).
func (m DOK) Accumulate(i, j int, val float64) {
	if val == 0. {
		return
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
}

// Merge sums all entries of other into the receiver.
func (m DOK) Merge(other DOK) {
	other.M.DoNonZero(func(i, j int, v float64) {
		m.Accumulate(i, j, v)
	})
}

func (m DOK) ToCSR() CSR {
	return CSR{m.M.ToCSR()}
}

// CSR wraps the compressed sparse row form produced at the end of assembly.
type CSR struct {
	M *sparse.CSR
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }

func (m CSR) NNZ() int { return m.M.NNZ() }

func (m CSR) DoNonZero(fn func(i, j int, v float64)) { m.M.DoNonZero(fn) }

// SumEntries returns the sum over all stored entries.
func (m CSR) SumEntries() (sum float64) {
	m.M.DoNonZero(func(i, j int, v float64) {
		sum += v
	})
	return
}

// MaxAbsDiff returns the largest absolute entrywise difference between two
// sparse matrices of identical shape.
func MaxAbsDiff(a, b CSR) (maxDiff float64) {
	var (
		ar, ac = a.Dims()
		br, bc = b.Dims()
	)
	if ar != br || ac != bc {
		err := fmt.Errorf("shape mismatch: (%d,%d) vs (%d,%d)", ar, ac, br, bc)
		panic(err)
	}
	a.DoNonZero(func(i, j int, v float64) {
		if d := math.Abs(v - b.At(i, j)); d > maxDiff {
			maxDiff = d
		}
	})
	b.DoNonZero(func(i, j int, v float64) {
		if d := math.Abs(v - a.At(i, j)); d > maxDiff {
			maxDiff = d
		}
	})
	return
}

// WriteSparseMatrix writes m as a text triplet file: a header line
// "nrows ncols nnz" followed by one 1-based "i j value" line per entry.
func WriteSparseMatrix(w io.Writer, m CSR) (err error) {
	var (
		nr, nc = m.Dims()
		bw     = bufio.NewWriter(w)
	)
	if _, err = fmt.Fprintf(bw, "%d %d %d\n", nr, nc, m.NNZ()); err != nil {
		return
	}
	m.DoNonZero(func(i, j int, v float64) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(bw, "%d %d %.17g\n", i+1, j+1, v)
	})
	if err != nil {
		return
	}
	return bw.Flush()
}

// ReadSparseMatrix reads the triplet format written by WriteSparseMatrix.
// Indices in the file are 1-based.
func ReadSparseMatrix(r io.Reader) (m CSR, err error) {
	var (
		br          = bufio.NewReader(r)
		nr, nc, nnz int
		i, j        int
		val         float64
	)
	if _, err = fmt.Fscanf(br, "%d %d %d\n", &nr, &nc, &nnz); err != nil {
		err = fmt.Errorf("reading sparse matrix header: %w", err)
		return
	}
	dok := NewDOK(nr, nc)
	for n := 0; n < nnz; n++ {
		if _, err = fmt.Fscanf(br, "%d %d %g\n", &i, &j, &val); err != nil {
			err = fmt.Errorf("reading sparse matrix entry %d: %w", n, err)
			return
		}
		dok.Accumulate(i-1, j-1, val)
	}
	m = dok.ToCSR()
	return
}
