package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OVGULIU/pyiga/utils"
)

func TestTileAccumulator(t *testing.T) {
	var (
		ta     = NewTileAccumulator(2)
		tuples = [][]int{
			{0, 0}, {0, 0}, {0, 1}, {0, 0}, {0, 0}, {2, 3},
		}
		values = []float64{1, 2, 10, 4, 8, 100}
	)
	ta.Process(tuples, values)
	rt, rv := ta.Result()
	// a repeated tuple after the run broke starts a fresh entry
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {0, 0}, {2, 3}}, rt)
	assert.Equal(t, []float64{3, 10, 12, 100}, rv)
}

func TestTileAccumulatorIncremental(t *testing.T) {
	// a run split across Process calls is still a single entry
	ta := NewTileAccumulator(1)
	ta.Process([][]int{{5}, {5}}, []float64{1, 1})
	ta.Process([][]int{{5}, {6}}, []float64{1, 7})
	rt, rv := ta.Result()
	assert.Equal(t, [][]int{{5}, {6}}, rt)
	assert.Equal(t, []float64{3, 7}, rv)
}

func TestTileAccumulatorPanics(t *testing.T) {
	assert.Panics(t, func() { NewTileAccumulator(0) })
	assert.Panics(t, func() { NewTileAccumulator(MaxTupleWidth + 1) })
	assert.NotPanics(t, func() { NewTileAccumulator(MaxTupleWidth) })
	ta := NewTileAccumulator(2)
	assert.Panics(t, func() { ta.Process([][]int{{1, 2}}, []float64{1, 2}) })
	assert.Panics(t, func() { ta.Process([][]int{{1, 2, 3}}, []float64{1}) })
}

func TestPrepareTileIndices(t *testing.T) {
	a := testAssembler(t)
	// a pair with disjoint supports contributes no tuples
	none := PrepareTileIndices(a, [][2]int{{0, a.NumDofs() - 1}})
	assert.Equal(t, 0, len(none))

	pairs := [][2]int{{0, 0}, {0, 1}}
	tuples := PrepareTileIndices(a, pairs)
	assert.True(t, len(tuples) > 0)
	for _, tup := range tuples {
		assert.Equal(t, 6, len(tup))
		var (
			i    = tup[:2]
			j    = tup[2:4]
			tile = tup[4:]
		)
		for d := 0; d < 2; d++ {
			iv := IntersectSupport(a.qc.supports[d][i[d]], a.qc.supports[d][j[d]])
			assert.True(t, tile[d] >= iv[0] && tile[d] < iv[1])
		}
	}
}

func TestAssembleTilewise(t *testing.T) {
	var (
		a    = testAssembler(t)
		dims = a.DofDims()
		n    = a.NumDofs()
	)
	var pairs [][2]int
	for ii := 0; ii < n; ii += 4 {
		for jj := 0; jj < n; jj += 5 {
			pairs = append(pairs, [2]int{ii, jj})
		}
	}
	tuples, values := AssembleTilewise(a, pairs)
	assert.Equal(t, len(tuples), len(values))
	// each grouped sum matches the single-pass entry for its pair
	for k, tup := range tuples {
		var (
			i = utils.MultiIndex(tup[:2])
			j = utils.MultiIndex(tup[2:])
		)
		assert.InDelta(t, a.AssembleImpl(i, j), values[k], 1e-13)
	}
	// exactly the overlapping pairs appear, in input order
	var want [][]int
	for _, p := range pairs {
		i := utils.Delinearize(p[0], dims)
		j := utils.Delinearize(p[1], dims)
		if overlapEverywhere(a, i, j) {
			want = append(want, append(append([]int{}, i...), j...))
		}
	}
	assert.Equal(t, len(want), len(tuples))
	for k := range want {
		assert.Equal(t, want[k], tuples[k])
	}
}

func overlapEverywhere(a *Assembler, i, j utils.MultiIndex) bool {
	for d := 0; d < a.Dim(); d++ {
		if EmptyInterval(IntersectSupport(a.qc.supports[d][i[d]], a.qc.supports[d][j[d]])) {
			return false
		}
	}
	return true
}
