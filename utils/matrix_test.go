package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	A := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
	nr, nc := A.Dims()
	assert.Equal(t, 2, nr)
	assert.Equal(t, 3, nc)
	assert.Equal(t, 6.0, A.At(1, 2))
	assert.Equal(t, []float64{4, 5, 6}, A.Row(1))

	At := A.Transpose()
	nr, nc = At.Dims()
	assert.Equal(t, 3, nr)
	assert.Equal(t, 2, nc)
	assert.Equal(t, A.At(0, 2), At.At(2, 0))

	// Copy is independent of the receiver
	B := A.Copy()
	B.Set(0, 0, -1)
	assert.Equal(t, 1.0, A.At(0, 0))

	B.SetCol(1, []float64{7, 8})
	assert.Equal(t, 7.0, B.At(0, 1))
	assert.Panics(t, func() { B.SetCol(0, []float64{1}) })

	// (2x3)*(3x2)
	C := A.Mul(At)
	assert.InDelta(t, 14.0, C.At(0, 0), 1e-14)
	assert.InDelta(t, 32.0, C.At(0, 1), 1e-14)

	assert.Panics(t, func() { NewMatrix(2, 2, []float64{1}) })
}

func TestVector(t *testing.T) {
	v := NewVector(3, []float64{1, 2, 3})
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 2.0, v.AtVec(1))
	v.POW(2).Scale(2)
	assert.Equal(t, []float64{2, 8, 18}, v.Data())
	assert.Panics(t, func() { NewVector(2, []float64{1}) })
}

func TestPOW(t *testing.T) {
	assert.Equal(t, 1.0, POW(3, 0))
	assert.Equal(t, 8.0, POW(2, 3))
	assert.Equal(t, 16.0, POW(2, 4))
	assert.Equal(t, 0.25, POW(2, -2))
	assert.InDelta(t, 32.0, POW(2, 5), 1e-12)
}

func TestNewSymTriDiagonal(t *testing.T) {
	J := NewSymTriDiagonal([]float64{1, 2, 3}, []float64{4, 5})
	assert.Equal(t, 4.0, J.At(0, 1))
	assert.Equal(t, 4.0, J.At(1, 0))
	assert.Equal(t, 2.0, J.At(1, 1))
	assert.Equal(t, 0.0, J.At(0, 2))
	assert.Panics(t, func() { NewSymTriDiagonal([]float64{1, 2}, []float64{1, 2}) })
}
