package lowrank

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OVGULIU/pyiga/assemble"
	"github.com/OVGULIU/pyiga/bspline"
	"github.com/OVGULIU/pyiga/geometry"
	"github.com/OVGULIU/pyiga/utils"
)

// rankKGenerator builds an exactly rank-k matrix sum_m u_m v_m^T.
func rankKGenerator(n, k int) Generator {
	var (
		us = make([][]float64, k)
		vs = make([][]float64, k)
	)
	for m := 0; m < k; m++ {
		us[m] = make([]float64, n)
		vs[m] = make([]float64, n)
		for i := 0; i < n; i++ {
			x := float64(i) / float64(n-1)
			us[m][i] = math.Pow(x, float64(m))
			vs[m][i] = math.Cos(float64(m+1) * x)
		}
	}
	return Generator{
		Rows: n,
		Cols: n,
		Entry: func(i, j int) float64 {
			var v float64
			for m := 0; m < k; m++ {
				v += us[m][i] * vs[m][j]
			}
			return v
		},
	}
}

func TestGeneratorRowCol(t *testing.T) {
	gen := rankKGenerator(6, 2)
	row := gen.Row(2)
	col := gen.Col(3)
	assert.Equal(t, 6, len(row))
	assert.Equal(t, 6, len(col))
	for j := 0; j < 6; j++ {
		assert.Equal(t, gen.Entry(2, j), row[j])
		assert.Equal(t, gen.Entry(j, 3), col[j])
	}
}

func TestACARankK(t *testing.T) {
	// an exactly rank-3 matrix is reproduced to machine precision
	var (
		n           = 20
		gen         = rankKGenerator(n, 3)
		crosses, er = ACA(gen, 1e-12, 0, 2, 1, nil)
	)
	assert.NoError(t, er)
	assert.True(t, len(crosses) <= 5, "rank-3 matrix needed %d crosses", len(crosses))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.InDelta(t, gen.Entry(i, j), Approx(crosses, i, j), 1e-10)
		}
	}
}

func TestACAZeroMatrix(t *testing.T) {
	gen := Generator{Rows: 5, Cols: 5, Entry: func(i, j int) float64 { return 0 }}
	crosses, err := ACA(gen, 1e-10, 0, 3, 1, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(crosses))
}

func TestACANoConvergence(t *testing.T) {
	// identity has full rank; capping the iterations forces the failure
	// path and hands back the partial approximation
	gen := Generator{
		Rows: 16, Cols: 16,
		Entry: func(i, j int) float64 {
			if i == j {
				return 1
			}
			return 0
		},
	}
	crosses, err := ACA(gen, 1e-12, 4, 2, 1, nil)
	var nc *ErrNoConvergence
	if assert.ErrorAs(t, err, &nc) {
		assert.Equal(t, 4, nc.Iterations)
		assert.True(t, nc.Residual > 0)
	}
	assert.Equal(t, 4, len(crosses))
}

func TestACALog(t *testing.T) {
	var buf bytes.Buffer
	_, err := ACA(rankKGenerator(10, 2), 1e-12, 0, 2, 1, &buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "aca: iter 0 pivot")
}

func TestFromMatrix(t *testing.T) {
	M := utils.NewMatrix(2, 3)
	M.Set(0, 0, 1)
	M.Set(1, 2, 5)
	gen := FromMatrix(M)
	assert.Equal(t, 2, gen.Rows)
	assert.Equal(t, 3, gen.Cols)
	assert.Equal(t, 5.0, gen.Entry(1, 2))
	assert.Equal(t, 1.0, gen.Row(0)[0])
}

func TestAssembleCSRMatchesDirect(t *testing.T) {
	// approximating a 1D spline mass operator through the entry callback
	// reproduces direct assembly on the banded pattern
	var (
		kv     = bspline.UniformKnotVector(2, 6, 0, 1)
		a, err = assemble.NewMassAssembler([]bspline.KnotVector{kv}, geometry.Identity{Dimension: 1})
	)
	assert.NoError(t, err)
	direct, err := assemble.GenericAssembleParallelDegree(a, 1)
	assert.NoError(t, err)
	axes := []AxisDesc{{NumDofs: a.NumDofs(), Bandwidth: kv.Degree}}
	// the operator has full rank 8; give ACA room to exhaust it cleanly
	M, err := AssembleCSR(a.Assemble, axes, 1e-12, 20, 2, 1, nil)
	assert.NoError(t, err)
	assert.InDelta(t, 0.0, utils.MaxAbsDiff(direct, M), 1e-9)
}
