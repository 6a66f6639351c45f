/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/OVGULIU/pyiga/InputParameters"
	"github.com/OVGULIU/pyiga/assemble"
	"github.com/OVGULIU/pyiga/bspline"
	"github.com/OVGULIU/pyiga/geometry"
	"github.com/OVGULIU/pyiga/utils"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// AssembleCmd represents the assemble command
var AssembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble a mass or stiffness matrix from a YAML problem description",
	Long: `Assemble a mass or stiffness matrix over a tensor-product B-spline
basis and write it as a sparse triplet file`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		inputFile, err := cmd.Flags().GetString("inputFile")
		if err != nil {
			panic(err)
		}
		outputFile, _ := cmd.Flags().GetString("outputFile")
		doProfile, _ := cmd.Flags().GetBool("profile")
		if doProfile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		ap := processInput(inputFile)
		RunAssemble(ap, outputFile)
	},
}

func init() {
	rootCmd.AddCommand(AssembleCmd)
	AssembleCmd.Flags().StringP("inputFile", "I", "", "YAML file describing the problem:\n\t- Dimension\n\t- Degree\n\t- Elements per axis\n\t- Operator (mass|stiffness)")
	AssembleCmd.Flags().StringP("outputFile", "o", "", "file to write the assembled matrix to, triplet text format")
	AssembleCmd.Flags().Bool("profile", false, "write a CPU profile of the assembly")
}

func processInput(inputFile string) (ap *InputParameters.AssemblyParameters) {
	if len(inputFile) == 0 {
		err := fmt.Errorf("must supply an input parameters file (-I, --inputFile)")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Unit square, quadratic splines"
Dimension: 2
Degree: 2
Elements: [8, 8]
Operator: stiffness
Geometry: identity
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	data, err := os.ReadFile(inputFile)
	if err != nil {
		panic(err)
	}
	ap = &InputParameters.AssemblyParameters{}
	if err = ap.Parse(data); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	return
}

func RunAssemble(ap *InputParameters.AssemblyParameters, outputFile string) {
	ap.Print()
	if ap.NumThreads > 0 {
		viper.Set("numThreads", ap.NumThreads)
	}
	var (
		kvs = make([]bspline.KnotVector, ap.Dimension)
		geo geometry.Map
		err error
	)
	for d := 0; d < ap.Dimension; d++ {
		kvs[d] = bspline.UniformKnotVector(ap.Degree, ap.Elements[d], 0, 1)
	}
	switch ap.Geometry {
	case "affine":
		geo, err = geometry.NewAffine(ap.Dimension, ap.GeometryMatrix)
		if err != nil {
			panic(err)
		}
	default:
		geo = geometry.Identity{Dimension: ap.Dimension}
	}
	var a *assemble.Assembler
	switch ap.Operator {
	case "stiffness":
		a, err = assemble.NewStiffnessAssembler(kvs, geo)
	default:
		a, err = assemble.NewMassAssembler(kvs, geo)
	}
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	start := time.Now()
	M, err := assemble.GenericAssembleParallel(a)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	elapsed := time.Since(start)
	nr, _ := M.Dims()
	fmt.Printf("assembled %dx%d %s matrix, %d nonzeros, %d threads, %v\n",
		nr, nr, ap.Operator, M.NNZ(), utils.NumThreads(), elapsed)
	if len(outputFile) != 0 {
		f, ferr := os.Create(outputFile)
		if ferr != nil {
			panic(ferr)
		}
		defer f.Close()
		if ferr = utils.WriteSparseMatrix(f, M); ferr != nil {
			panic(ferr)
		}
		fmt.Printf("wrote %s\n", outputFile)
	}
}
