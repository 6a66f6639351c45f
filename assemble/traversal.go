package assemble

import (
	"fmt"
	"sync"

	"github.com/OVGULIU/pyiga/utils"
)

// GenericAssemble walks every dof multi-index whose axis-0 component lies in
// the half-open rowRange and, for each, only the support-neighbor columns.
// Only the upper triangle plus diagonal is evaluated; the mirrored entry is
// emitted alongside, which halves the kernel work for a symmetric operator.
// Duplicate coordinates accumulate by summation in the returned DOK.
func GenericAssemble(a *Assembler, rowRange [2]int) (R utils.DOK) {
	var (
		dims = a.DofDims()
		dim  = len(dims)
		N    = utils.ProdInt(dims)
		iBox = make([][2]int, dim)
	)
	R = utils.NewDOK(N, N)
	iBox[0] = rowRange
	for d := 1; d < dim; d++ {
		iBox[d] = [2]int{0, dims[d]}
	}
	_ = forEachMulti(iBox, func(i []int) error {
		var (
			jBox = a.NeighborRanges(i)
			ii   = utils.Linearize(i, dims)
		)
		for d := 0; d < dim; d++ {
			if EmptyInterval(jBox[d]) {
				return nil // no column can interact with this row
			}
		}
		return forEachMulti(jBox, func(j []int) error {
			jj := utils.Linearize(j, dims)
			if jj < ii {
				return nil
			}
			entry := a.AssembleImpl(i, j)
			R.Accumulate(ii, jj, entry)
			if ii != jj {
				R.Accumulate(jj, ii, entry)
			}
			return nil
		})
	})
	return
}

// GenericAssembleParallel assembles the full operator using the process-wide
// thread count (see utils.NumThreads).
func GenericAssembleParallel(a *Assembler) (utils.CSR, error) {
	return GenericAssembleParallelDegree(a, utils.NumThreads())
}

// GenericAssembleParallelDegree assembles the operator with np workers. The
// axis-0 dof range is over-partitioned into 4*np chunks to smooth the load
// imbalance caused by data-dependent neighbor-range sizes; chunks are served
// round-robin by np shared-clone handles and the per-chunk matrices are
// reduced coordinate-wise on the calling goroutine after the join barrier.
// The result is bit-identical for every np, since each entry's node sum is
// computed whole by exactly one worker.
func GenericAssembleParallelDegree(a *Assembler, np int) (M utils.CSR, err error) {
	var (
		dims = a.DofDims()
		N    = utils.ProdInt(dims)
	)
	if np <= 1 {
		M = GenericAssemble(a, [2]int{0, dims[0]}).ToCSR()
		return
	}
	var (
		numChunks = 4 * np
		pm        = utils.NewPartitionMap(numChunks, dims[0])
		parts     = make([]utils.DOK, numChunks)
		errs      = make([]error, np)
		handles   = make([]*Assembler, np)
		wg        = sync.WaitGroup{}
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
					errs[n] = fmt.Errorf("assembly worker %d: %v", n, r)
				}
			}()
			for c := n; c < numChunks; c += np {
				kMin, kMax := pm.GetBucketRange(c)
				parts[c] = GenericAssemble(handles[n], [2]int{kMin, kMax})
			}
		}(n)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			err = e
			return
		}
	}
	R := utils.NewDOK(N, N)
	for _, part := range parts {
		R.Merge(part)
	}
	M = R.ToCSR()
	return
}
