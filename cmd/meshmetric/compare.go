package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/meshmetric/internal/loader"
	"github.com/philipparndt/meshmetric/internal/processing"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [input] [output]",
	Short: "Check that two meshes have the same points and cells",
	Long: `Check that the second mesh has the same points, in the same order, and the
same cells as the first. Use it to verify that a filter kept the structure of
a mesh.`,
	Args: cobra.ExactArgs(2),
	Run:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) {
	in, err := loader.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", args[0], err)
		os.Exit(1)
	}
	out, err := loader.Load(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", args[1], err)
		os.Exit(1)
	}

	if err := processing.Equivalent(in, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Meshes are equivalent")
}
