package assemble

import (
	"fmt"
	"math"

	"github.com/OVGULIU/pyiga/bspline"
	"github.com/OVGULIU/pyiga/geometry"
	"github.com/OVGULIU/pyiga/quadrature"
	"github.com/OVGULIU/pyiga/utils"
)

// QuadratureCache holds everything an assembler precomputes on the iterated
// global quadrature grid: per-axis basis samples (values and, for stiffness,
// parametric derivatives) and the geometry weight tensor combining quadrature
// weights, |det J| and, for stiffness, the pulled-back metric J^-1 J^-T.
// It is built once at assembler construction and never mutated afterwards,
// which is what makes sharing one instance across all workers safe.
type QuadratureCache struct {
	dim          int
	dims         []int      // dofs per axis
	supports     [][][2]int // per axis, per dof: mesh-support interval
	nodesPerSpan int
	nqp          []int          // quadrature nodes per axis
	values       []utils.Matrix // per axis: numDofs x nqp
	derivs       []utils.Matrix // per axis, metric caches only
	weights      []float64      // flat geometry weight tensor
	wstride      []int          // node stride per axis, in metric blocks
	blockSize    int            // floats per node: 1, or dim*dim with metric
}

// newQuadratureCache samples the basis and geometry on the global quadrature
// grid. The node count per knot span is max degree + 1, exact for products
// of two basis functions of that degree. A singular Jacobian anywhere on the
// grid is a fatal construction error.
func newQuadratureCache(kvs []bspline.KnotVector, geo geometry.Map, withMetric bool) (qc *QuadratureCache, err error) {
	var (
		dim = len(kvs)
	)
	if geo.Dim() != dim {
		err = fmt.Errorf("geometry dimension %d does not match axis count %d", geo.Dim(), dim)
		return
	}
	qc = &QuadratureCache{
		dim:          dim,
		dims:         make([]int, dim),
		supports:     make([][][2]int, dim),
		nqp:          make([]int, dim),
		values:       make([]utils.Matrix, dim),
		derivs:       make([]utils.Matrix, dim),
		wstride:      make([]int, dim),
		blockSize:    1,
		nodesPerSpan: 1,
	}
	if withMetric {
		qc.blockSize = dim * dim
	}
	for _, kv := range kvs {
		if kv.Degree+1 > qc.nodesPerSpan {
			qc.nodesPerSpan = kv.Degree + 1
		}
	}
	var (
		axisNodes   = make([][]float64, dim)
		axisWeights = make([][]float64, dim)
	)
	for d, kv := range kvs {
		qc.dims[d] = kv.NumDofs()
		qc.supports[d] = kv.SupportTable()
		axisNodes[d], axisWeights[d] = quadrature.IteratedRule(kv.Mesh(), qc.nodesPerSpan)
		qc.nqp[d] = len(axisNodes[d])
		if withMetric {
			qc.values[d], qc.derivs[d] = kv.EvalBasisDerivGrid(axisNodes[d])
		} else {
			qc.values[d] = kv.EvalBasisGrid(axisNodes[d])
		}
	}
	for d := dim - 1; d >= 0; d-- {
		if d == dim-1 {
			qc.wstride[d] = 1
		} else {
			qc.wstride[d] = qc.wstride[d+1] * qc.nqp[d+1]
		}
	}
	qc.weights = make([]float64, utils.ProdInt(qc.nqp)*qc.blockSize)

	var (
		x      = make([]float64, dim)
		ranges = make([][2]int, dim)
	)
	for d := 0; d < dim; d++ {
		ranges[d] = [2]int{0, qc.nqp[d]}
	}
	err = forEachMulti(ranges, func(k []int) error {
		var w float64 = 1
		for d := 0; d < dim; d++ {
			x[d] = axisNodes[d][k[d]]
			w *= axisWeights[d][k[d]]
		}
		jac := geo.Jacobian(x)
		det, inv, derr := geometry.DetInv(jac, dim)
		if derr != nil {
			return fmt.Errorf("at quadrature node %v: %w", k, derr)
		}
		w *= math.Abs(det)
		base := qc.nodeOffset(k) * qc.blockSize
		if !withMetric {
			qc.weights[base] = w
			return nil
		}
		// pulled-back metric B = J^-1 J^-T, scaled by the node weight
		for a := 0; a < dim; a++ {
			for b := 0; b < dim; b++ {
				var g float64
				for c := 0; c < dim; c++ {
					g += inv[a*dim+c] * inv[b*dim+c]
				}
				qc.weights[base+a*dim+b] = w * g
			}
		}
		return nil
	})
	if err != nil {
		qc = nil
	}
	return
}

// nodeOffset linearizes a quadrature node multi-index, row-major with axis 0
// varying slowest.
func (qc *QuadratureCache) nodeOffset(k []int) (off int) {
	for d := 0; d < qc.dim; d++ {
		off += k[d] * qc.wstride[d]
	}
	return
}

// forEachMulti visits every multi-index in lexicographic order within the
// per-axis half-open ranges, stopping at the first error.
func forEachMulti(ranges [][2]int, fn func(mi []int) error) (err error) {
	var (
		dim = len(ranges)
		mi  = make([]int, dim)
	)
	for d := 0; d < dim; d++ {
		if EmptyInterval(ranges[d]) {
			return
		}
		mi[d] = ranges[d][0]
	}
	for {
		if err = fn(mi); err != nil {
			return
		}
		d := dim - 1
		for d >= 0 {
			mi[d]++
			if mi[d] < ranges[d][1] {
				break
			}
			mi[d] = ranges[d][0]
			d--
		}
		if d < 0 {
			return
		}
	}
}
