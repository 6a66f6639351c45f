package assemble

import "github.com/OVGULIU/pyiga/utils"

// Entry kernels combine the precomputed basis samples and geometry weights
// over a restricted quadrature-node box into one scalar matrix entry. They
// are pure: no allocation, no shared mutable state, and a fixed node-major,
// axis-minor summation order so identical inputs always reproduce the same
// floating-point result regardless of which worker evaluates them.

type kernelFunc func(qc *QuadratureCache, i, j utils.MultiIndex, ranges [][2]int) float64

func massKernel1D(qc *QuadratureCache, i, j utils.MultiIndex, ranges [][2]int) (sum float64) {
	var (
		vi0, vj0 = qc.values[0].Row(i[0]), qc.values[0].Row(j[0])
		w        = qc.weights
	)
	for k0 := ranges[0][0]; k0 < ranges[0][1]; k0++ {
		sum += vi0[k0] * vj0[k0] * w[k0]
	}
	return
}

func massKernel2D(qc *QuadratureCache, i, j utils.MultiIndex, ranges [][2]int) (sum float64) {
	var (
		vi0, vj0 = qc.values[0].Row(i[0]), qc.values[0].Row(j[0])
		vi1, vj1 = qc.values[1].Row(i[1]), qc.values[1].Row(j[1])
		w        = qc.weights
		s0       = qc.wstride[0]
	)
	for k0 := ranges[0][0]; k0 < ranges[0][1]; k0++ {
		var (
			u0   = vi0[k0] * vj0[k0]
			base = k0 * s0
		)
		for k1 := ranges[1][0]; k1 < ranges[1][1]; k1++ {
			sum += u0 * vi1[k1] * vj1[k1] * w[base+k1]
		}
	}
	return
}

func massKernel3D(qc *QuadratureCache, i, j utils.MultiIndex, ranges [][2]int) (sum float64) {
	var (
		vi0, vj0 = qc.values[0].Row(i[0]), qc.values[0].Row(j[0])
		vi1, vj1 = qc.values[1].Row(i[1]), qc.values[1].Row(j[1])
		vi2, vj2 = qc.values[2].Row(i[2]), qc.values[2].Row(j[2])
		w        = qc.weights
		s0, s1   = qc.wstride[0], qc.wstride[1]
	)
	for k0 := ranges[0][0]; k0 < ranges[0][1]; k0++ {
		u0 := vi0[k0] * vj0[k0]
		for k1 := ranges[1][0]; k1 < ranges[1][1]; k1++ {
			var (
				u01  = u0 * vi1[k1] * vj1[k1]
				base = k0*s0 + k1*s1
			)
			for k2 := ranges[2][0]; k2 < ranges[2][1]; k2++ {
				sum += u01 * vi2[k2] * vj2[k2] * w[base+k2]
			}
		}
	}
	return
}

func stiffnessKernel1D(qc *QuadratureCache, i, j utils.MultiIndex, ranges [][2]int) (sum float64) {
	var (
		di0, dj0 = qc.derivs[0].Row(i[0]), qc.derivs[0].Row(j[0])
		w        = qc.weights
	)
	for k0 := ranges[0][0]; k0 < ranges[0][1]; k0++ {
		sum += di0[k0] * dj0[k0] * w[k0]
	}
	return
}

func stiffnessKernel2D(qc *QuadratureCache, i, j utils.MultiIndex, ranges [][2]int) (sum float64) {
	var (
		vi0, vj0 = qc.values[0].Row(i[0]), qc.values[0].Row(j[0])
		vi1, vj1 = qc.values[1].Row(i[1]), qc.values[1].Row(j[1])
		di0, dj0 = qc.derivs[0].Row(i[0]), qc.derivs[0].Row(j[0])
		di1, dj1 = qc.derivs[1].Row(i[1]), qc.derivs[1].Row(j[1])
		w        = qc.weights
		s0       = qc.wstride[0]
	)
	for k0 := ranges[0][0]; k0 < ranges[0][1]; k0++ {
		for k1 := ranges[1][0]; k1 < ranges[1][1]; k1++ {
			var (
				gxi  = di0[k0] * vi1[k1]
				gyi  = vi0[k0] * di1[k1]
				gxj  = dj0[k0] * vj1[k1]
				gyj  = vj0[k0] * dj1[k1]
				base = (k0*s0 + k1) * 4
			)
			sum += gxi*(w[base]*gxj+w[base+1]*gyj) +
				gyi*(w[base+2]*gxj+w[base+3]*gyj)
		}
	}
	return
}

func stiffnessKernel3D(qc *QuadratureCache, i, j utils.MultiIndex, ranges [][2]int) (sum float64) {
	var (
		vi0, vj0 = qc.values[0].Row(i[0]), qc.values[0].Row(j[0])
		vi1, vj1 = qc.values[1].Row(i[1]), qc.values[1].Row(j[1])
		vi2, vj2 = qc.values[2].Row(i[2]), qc.values[2].Row(j[2])
		di0, dj0 = qc.derivs[0].Row(i[0]), qc.derivs[0].Row(j[0])
		di1, dj1 = qc.derivs[1].Row(i[1]), qc.derivs[1].Row(j[1])
		di2, dj2 = qc.derivs[2].Row(i[2]), qc.derivs[2].Row(j[2])
		w        = qc.weights
		s0, s1   = qc.wstride[0], qc.wstride[1]
	)
	for k0 := ranges[0][0]; k0 < ranges[0][1]; k0++ {
		for k1 := ranges[1][0]; k1 < ranges[1][1]; k1++ {
			for k2 := ranges[2][0]; k2 < ranges[2][1]; k2++ {
				var (
					gxi  = di0[k0] * vi1[k1] * vi2[k2]
					gyi  = vi0[k0] * di1[k1] * vi2[k2]
					gzi  = vi0[k0] * vi1[k1] * di2[k2]
					gxj  = dj0[k0] * vj1[k1] * vj2[k2]
					gyj  = vj0[k0] * dj1[k1] * vj2[k2]
					gzj  = vj0[k0] * vj1[k1] * dj2[k2]
					base = (k0*s0 + k1*s1 + k2) * 9
				)
				sum += gxi*(w[base]*gxj+w[base+1]*gyj+w[base+2]*gzj) +
					gyi*(w[base+3]*gxj+w[base+4]*gyj+w[base+5]*gzj) +
					gzi*(w[base+6]*gxj+w[base+7]*gyj+w[base+8]*gzj)
			}
		}
	}
	return
}
