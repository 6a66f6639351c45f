package assemble

import (
	"fmt"
	"sync"

	"github.com/OVGULIU/pyiga/bspline"
	"github.com/OVGULIU/pyiga/geometry"
	"github.com/OVGULIU/pyiga/utils"
)

// Assembler evaluates single entries of a mass or stiffness operator on a
// tensor-product spline basis under a geometry map. The operator variant is
// selected at construction by binding the matching entry kernel; everything
// the kernel reads lives in the immutable QuadratureCache, so one Assembler
// may be shared read-only across any number of goroutines.
type Assembler struct {
	qc     *QuadratureCache
	kernel kernelFunc
}

// NewMassAssembler builds an assembler for the bilinear form of the L2 inner
// product over the mapped geometry. One, two and three axes are supported.
func NewMassAssembler(kvs []bspline.KnotVector, geo geometry.Map) (a *Assembler, err error) {
	var kern kernelFunc
	switch len(kvs) {
	case 1:
		kern = massKernel1D
	case 2:
		kern = massKernel2D
	case 3:
		kern = massKernel3D
	default:
		err = fmt.Errorf("mass assembler supports 1 to 3 axes, got %d", len(kvs))
		return
	}
	qc, err := newQuadratureCache(kvs, geo, false)
	if err != nil {
		return nil, err
	}
	a = &Assembler{qc: qc, kernel: kern}
	return
}

// NewStiffnessAssembler builds an assembler for the Laplace bilinear form,
// contracting physical gradients through the pulled-back metric.
func NewStiffnessAssembler(kvs []bspline.KnotVector, geo geometry.Map) (a *Assembler, err error) {
	var kern kernelFunc
	switch len(kvs) {
	case 1:
		kern = stiffnessKernel1D
	case 2:
		kern = stiffnessKernel2D
	case 3:
		kern = stiffnessKernel3D
	default:
		err = fmt.Errorf("stiffness assembler supports 1 to 3 axes, got %d", len(kvs))
		return
	}
	qc, err := newQuadratureCache(kvs, geo, true)
	if err != nil {
		return nil, err
	}
	a = &Assembler{qc: qc, kernel: kern}
	return
}

func (a *Assembler) Dim() int { return a.qc.dim }

// DofDims returns the per-axis dof counts; their product is the matrix size.
func (a *Assembler) DofDims() []int { return a.qc.dims }

func (a *Assembler) NumDofs() int { return utils.ProdInt(a.qc.dims) }

// NeighborRanges bounds, per axis, the dof indices whose support overlaps
// that of the multi-index i.
func (a *Assembler) NeighborRanges(i utils.MultiIndex) (ranges [][2]int) {
	ranges = make([][2]int, a.qc.dim)
	for d := 0; d < a.qc.dim; d++ {
		ranges[d] = NeighborRange(a.qc.supports[d], i[d])
	}
	return
}

// AssembleImpl evaluates the matrix entry for a pair of multi-indices. When
// the supports fail to overlap on any axis the entry is exactly zero and no
// quadrature data is touched; most pairs take this path.
func (a *Assembler) AssembleImpl(i, j utils.MultiIndex) float64 {
	var (
		dim    = a.qc.dim
		nps    = a.qc.nodesPerSpan
		ranges [3][2]int
	)
	for d := 0; d < dim; d++ {
		iv := IntersectSupport(a.qc.supports[d][i[d]], a.qc.supports[d][j[d]])
		if EmptyInterval(iv) {
			return 0.
		}
		ranges[d] = [2]int{iv[0] * nps, iv[1] * nps}
	}
	return a.kernel(a.qc, i, j, ranges[:dim])
}

// Assemble evaluates the entry for two linearized dof indices. It is safe to
// call concurrently, which is what the low-rank entry-callback boundary
// requires.
func (a *Assembler) Assemble(ii, jj int) float64 {
	return a.AssembleImpl(utils.Delinearize(ii, a.qc.dims), utils.Delinearize(jj, a.qc.dims))
}

// SharedClone returns an assembler handle for use by another worker. The
// QuadratureCache is immutable after construction, so the same instance is
// returned rather than a deep copy; any future assembler variant carrying
// mutable state must override this decision.
func (a *Assembler) SharedClone() *Assembler {
	return a
}

// MultiAssemble evaluates Assemble for every pair, in input order. The work
// is chunked over the configured number of threads, one chunk per thread.
func (a *Assembler) MultiAssemble(pairs [][2]int) (values []float64, err error) {
	return a.multiAssemble(pairs, utils.NumThreads())
}

func (a *Assembler) multiAssemble(pairs [][2]int, np int) (values []float64, err error) {
	values = make([]float64, len(pairs))
	if np <= 1 || len(pairs) < 2 {
		for n, p := range pairs {
			values[n] = a.Assemble(p[0], p[1])
		}
		return
	}
	if np > len(pairs) {
		np = len(pairs)
	}
	var (
		pm      = utils.NewPartitionMap(np, len(pairs))
		wg      = sync.WaitGroup{}
		errs    = make([]error, np)
		handles = make([]*Assembler, np)
	)
	handles[0] = a
	for n := 1; n < np; n++ {
		handles[n] = a.SharedClone()
	}
	for n := 0; n < np; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[n] = fmt.Errorf("multi-assemble worker %d: %v", n, r)
				}
			}()
			kMin, kMax := pm.GetBucketRange(n)
			for k := kMin; k < kMax; k++ {
				values[k] = handles[n].Assemble(pairs[k][0], pairs[k][1])
			}
		}(n)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	return
}
