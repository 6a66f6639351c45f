package utils

import "fmt"

// MultiIndex addresses one tensor-product degree of freedom, one component
// per parametric axis. The scalar linearization is row-major with axis 0
// varying slowest.
type MultiIndex []int

func Linearize(mi MultiIndex, dims []int) (ind int) {
	if len(mi) != len(dims) {
		err := fmt.Errorf("multi-index rank %d does not match dimension count %d", len(mi), len(dims))
		panic(err)
	}
	for d, m := range mi {
		if m < 0 || m >= dims[d] {
			err := fmt.Errorf("multi-index component %d = %d out of range [0,%d)", d, m, dims[d])
			panic(err)
		}
		ind = ind*dims[d] + m
	}
	return
}

func Delinearize(ind int, dims []int) (mi MultiIndex) {
	mi = make(MultiIndex, len(dims))
	for d := len(dims) - 1; d >= 0; d-- {
		mi[d] = ind % dims[d]
		ind /= dims[d]
	}
	if ind != 0 {
		panic(fmt.Errorf("scalar index out of range for dimensions %v", dims))
	}
	return
}

func ProdInt(dims []int) (p int) {
	p = 1
	for _, d := range dims {
		p *= d
	}
	return
}
