package assemble

import (
	"fmt"

	"github.com/OVGULIU/pyiga/utils"
)

// MaxTupleWidth is the fixed capacity of a tile index tuple.
const MaxTupleWidth = 16

// TileAccumulator sums consecutive runs of (index-tuple, value) pairs that
// share the same tuple into single output entries. It supports the
// tensor-decomposition assembly path, which produces one partial value per
// quadrature tile instead of one value per dof pair. The caller must deliver
// the stream truly grouped by tuple: the accumulator cannot distinguish a
// new entry from corrupted grouping and would silently produce wrong sums.
type TileAccumulator struct {
	width   int
	cursor  int
	current [MaxTupleWidth]int
	started bool
	tuples  [][]int
	values  []float64
}

func NewTileAccumulator(width int) *TileAccumulator {
	if width < 1 || width > MaxTupleWidth {
		panic(fmt.Errorf("tile tuple width %d outside [1,%d]", width, MaxTupleWidth))
	}
	return &TileAccumulator{width: width, cursor: -1}
}

// Process consumes a pre-grouped stream of tuples and partial values.
func (ta *TileAccumulator) Process(tuples [][]int, values []float64) {
	if len(tuples) != len(values) {
		panic(fmt.Errorf("tile stream length mismatch: %d tuples, %d values", len(tuples), len(values)))
	}
	for n, tup := range tuples {
		if len(tup) != ta.width {
			panic(fmt.Errorf("tile tuple %d has width %d, want %d", n, len(tup), ta.width))
		}
		if ta.started && ta.sameTuple(tup) {
			ta.values[ta.cursor] += values[n]
			continue
		}
		ta.tuples = append(ta.tuples, append([]int{}, tup...))
		ta.values = append(ta.values, values[n])
		ta.cursor++
		copy(ta.current[:ta.width], tup)
		ta.started = true
	}
}

func (ta *TileAccumulator) sameTuple(tup []int) bool {
	for d := 0; d < ta.width; d++ {
		if ta.current[d] != tup[d] {
			return false
		}
	}
	return true
}

// Result returns the entries written so far.
func (ta *TileAccumulator) Result() (tuples [][]int, values []float64) {
	return ta.tuples, ta.values
}

// PrepareTileIndices enumerates, for every dof pair and every quadrature
// tile contained in the intersection of the pair's per-axis supports, the
// grouping tuple (i..., j..., t...) recording the pair's multi-indices and
// the tile coordinate. With three axes this is the 9-tuple
// (i0,i1,i2, j0,j1,j2, t0,t1,t2). Tuples for identical pairs are contiguous,
// ready for TileAccumulator.
func PrepareTileIndices(a *Assembler, pairs [][2]int) (tuples [][]int) {
	var (
		dims = a.DofDims()
		dim  = len(dims)
	)
	for _, p := range pairs {
		var (
			i   = utils.Delinearize(p[0], dims)
			j   = utils.Delinearize(p[1], dims)
			box = make([][2]int, dim)
		)
		overlap := true
		for d := 0; d < dim; d++ {
			box[d] = IntersectSupport(a.qc.supports[d][i[d]], a.qc.supports[d][j[d]])
			if EmptyInterval(box[d]) {
				overlap = false
				break
			}
		}
		if !overlap {
			continue
		}
		_ = forEachMulti(box, func(t []int) error {
			tup := make([]int, 0, 3*dim)
			tup = append(tup, i...)
			tup = append(tup, j...)
			tup = append(tup, t...)
			tuples = append(tuples, tup)
			return nil
		})
	}
	return
}

// assembleTile evaluates the contribution of a single quadrature tile to the
// entry (i, j).
func (a *Assembler) assembleTile(i, j utils.MultiIndex, tile []int) float64 {
	var (
		nps    = a.qc.nodesPerSpan
		ranges [3][2]int
	)
	for d := 0; d < a.qc.dim; d++ {
		ranges[d] = [2]int{tile[d] * nps, (tile[d] + 1) * nps}
	}
	return a.kernel(a.qc, i, j, ranges[:a.qc.dim])
}

// AssembleTilewise is the alternative assembly path: it evaluates each dof
// pair tile by tile and reduces the grouped partial sums through a
// TileAccumulator keyed on the (i..., j...) prefix of the tuples produced by
// PrepareTileIndices. Each returned value equals AssembleImpl for its pair
// up to floating-point rounding of the split summation.
func AssembleTilewise(a *Assembler, pairs [][2]int) (tuples [][]int, values []float64) {
	var (
		dims = a.DofDims()
		dim  = len(dims)
		tidx = PrepareTileIndices(a, pairs)
		ta   = NewTileAccumulator(2 * dim)
	)
	partials := make([]float64, len(tidx))
	keys := make([][]int, len(tidx))
	for n, tup := range tidx {
		partials[n] = a.assembleTile(tup[:dim], tup[dim:2*dim], tup[2*dim:])
		keys[n] = tup[:2*dim]
	}
	ta.Process(keys, partials)
	return ta.Result()
}
