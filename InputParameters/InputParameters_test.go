package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	var (
		data = `
Title: "Unit square mass matrix"
Dimension: 2
Degree: 2
Elements: [5, 4]
Operator: mass
NumThreads: 4
`
		ap AssemblyParameters
	)
	err := ap.Parse([]byte(data))
	assert.NoError(t, err)
	assert.Equal(t, "Unit square mass matrix", ap.Title)
	assert.Equal(t, 2, ap.Dimension)
	assert.Equal(t, 2, ap.Degree)
	assert.Equal(t, []int{5, 4}, ap.Elements)
	assert.Equal(t, "mass", ap.Operator)
	assert.Equal(t, "", ap.Geometry)
	assert.Equal(t, 4, ap.NumThreads)
}

func TestParseAffine(t *testing.T) {
	var (
		data = `
Title: "Stretched domain"
Dimension: 2
Degree: 1
Elements: [3, 3]
Operator: stiffness
Geometry: affine
GeometryMatrix: [2, 0, 0, 3]
`
		ap AssemblyParameters
	)
	err := ap.Parse([]byte(data))
	assert.NoError(t, err)
	assert.Equal(t, "affine", ap.Geometry)
	assert.Equal(t, []float64{2, 0, 0, 3}, ap.GeometryMatrix)
}

func TestValidate(t *testing.T) {
	base := `
Title: "t"
Dimension: 2
Degree: 1
Elements: [3, 3]
Operator: mass
`
	var ap AssemblyParameters
	assert.NoError(t, ap.Parse([]byte(base)))

	cases := []struct {
		name string
		yaml string
	}{
		{"bad dimension", "Dimension: 4\nDegree: 1\nElements: [1,1,1,1]\nOperator: mass\n"},
		{"negative degree", "Dimension: 1\nDegree: -1\nElements: [3]\nOperator: mass\n"},
		{"elements mismatch", "Dimension: 2\nDegree: 1\nElements: [3]\nOperator: mass\n"},
		{"zero elements", "Dimension: 1\nDegree: 1\nElements: [0]\nOperator: mass\n"},
		{"bad operator", "Dimension: 1\nDegree: 1\nElements: [3]\nOperator: advection\n"},
		{"bad geometry", "Dimension: 1\nDegree: 1\nElements: [3]\nOperator: mass\nGeometry: polar\n"},
		{"affine matrix size", "Dimension: 2\nDegree: 1\nElements: [3,3]\nOperator: mass\nGeometry: affine\nGeometryMatrix: [1,2]\n"},
	}
	for _, tc := range cases {
		var p AssemblyParameters
		assert.Error(t, p.Parse([]byte(tc.yaml)), tc.name)
	}
}
