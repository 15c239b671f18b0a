package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var decimateReduction float64

var decimateCmd = &cobra.Command{
	Use:   "decimate [input] [output]",
	Short: "Reduce the number of triangles of a mesh",
	Long: `Collapse the shortest edges until the requested fraction of triangles is
removed. The topology of the mesh is preserved.`,
	Args: cobra.ExactArgs(2),
	Run:  runDecimate,
}

func init() {
	rootCmd.AddCommand(decimateCmd)

	decimateCmd.Flags().Float64VarP(&decimateReduction, "reduction", "r", 0, "Fraction of triangles to remove, in [0, 1) (default from config)")
}

func runDecimate(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if cmd.Flags().Changed("reduction") {
		cfg.Decimation.Reduction = decimateReduction
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := newProcessor(cfg)
	ds, _ := openDataset(p, cfg, args[0])
	before := ds.PolyData().NumberOfCells()

	out, err := p.Decimate(ds.PolyData(), cfg.Decimation.Reduction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ds.SetPolyData(out)

	fmt.Printf("Decimated %s from %d to %d cells\n", ds.Name, before, out.NumberOfCells())
	save(p, args[1], ds)
}
