package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type AssemblyParameters struct {
	Title          string    `yaml:"Title"`
	Dimension      int       `yaml:"Dimension"`
	Degree         int       `yaml:"Degree"`
	Elements       []int     `yaml:"Elements"` // Mesh elements per axis
	Operator       string    `yaml:"Operator"` // "mass" or "stiffness"
	Geometry       string    `yaml:"Geometry"` // "identity" or "affine"
	GeometryMatrix []float64 `yaml:"GeometryMatrix"`
	NumThreads     int       `yaml:"NumThreads"`
}

func (ap *AssemblyParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ap); err != nil {
		return err
	}
	return ap.validate()
}

func (ap *AssemblyParameters) validate() error {
	if ap.Dimension < 1 || ap.Dimension > 3 {
		return fmt.Errorf("Dimension must be 1, 2 or 3, got %d", ap.Dimension)
	}
	if ap.Degree < 0 {
		return fmt.Errorf("Degree must be nonnegative, got %d", ap.Degree)
	}
	if len(ap.Elements) != ap.Dimension {
		return fmt.Errorf("Elements must list %d per-axis counts, got %d", ap.Dimension, len(ap.Elements))
	}
	for d, k := range ap.Elements {
		if k < 1 {
			return fmt.Errorf("Elements[%d] must be positive, got %d", d, k)
		}
	}
	switch ap.Operator {
	case "mass", "stiffness":
	default:
		return fmt.Errorf("Operator must be \"mass\" or \"stiffness\", got %q", ap.Operator)
	}
	switch ap.Geometry {
	case "", "identity":
	case "affine":
		if len(ap.GeometryMatrix) != ap.Dimension*ap.Dimension {
			return fmt.Errorf("GeometryMatrix needs %d entries for dimension %d, got %d",
				ap.Dimension*ap.Dimension, ap.Dimension, len(ap.GeometryMatrix))
		}
	default:
		return fmt.Errorf("Geometry must be \"identity\" or \"affine\", got %q", ap.Geometry)
	}
	return nil
}

func (ap *AssemblyParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ap.Title)
	fmt.Printf("[%d]\t\t\t= Dimension\n", ap.Dimension)
	fmt.Printf("[%d]\t\t\t= Degree\n", ap.Degree)
	fmt.Printf("%v\t\t= Elements\n", ap.Elements)
	fmt.Printf("[%s]\t\t= Operator\n", ap.Operator)
	if ap.Geometry != "" {
		fmt.Printf("[%s]\t\t= Geometry\n", ap.Geometry)
	}
	if ap.NumThreads > 0 {
		fmt.Printf("[%d]\t\t\t= NumThreads\n", ap.NumThreads)
	}
}
