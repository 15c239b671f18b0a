package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	recolorMin    float64
	recolorMax    float64
	recolorCenter float64
	recolorDelta  float64
	recolorSave   string
)

var recolorCmd = &cobra.Command{
	Use:   "recolor [file]",
	Short: "Change the color map of a distance result",
	Long: `Rebuild the color map of a mesh that carries a distance result. Distances
within delta of center are green; larger ones blend to yellow and red,
smaller signed ones to cyan and blue. Range flags that are not given keep the
range stored in the file.`,
	Args: cobra.ExactArgs(1),
	Run:  runRecolor,
}

func init() {
	rootCmd.AddCommand(recolorCmd)
	addRenderFlags(recolorCmd)

	recolorCmd.Flags().Float64Var(&recolorMin, "min", 0, "Lower end of the color range")
	recolorCmd.Flags().Float64Var(&recolorMax, "max", 0, "Upper end of the color range")
	recolorCmd.Flags().Float64Var(&recolorCenter, "center", 0, "Center of the green band (default from config)")
	recolorCmd.Flags().Float64Var(&recolorDelta, "delta", 0, "Half width of the green band (default from config)")
	recolorCmd.Flags().StringVar(&recolorSave, "save", "", "Also save the mesh (.vtk)")
}

func runRecolor(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	p := newProcessor(cfg)
	ds, c := openDataset(p, cfg, args[0])
	if !c.Status.Valid() {
		fmt.Fprintf(os.Stderr, "Error: %s has no valid distance result (%s)\n", ds.Name, c.Status)
		os.Exit(1)
	}

	lo, hi := ds.Min, ds.Max
	center, delta := ds.Center, ds.Delta
	flags := cmd.Flags()
	if flags.Changed("min") {
		lo = recolorMin
	}
	if flags.Changed("max") {
		hi = recolorMax
	}
	if flags.Changed("center") {
		center = recolorCenter
	}
	if flags.Changed("delta") {
		delta = recolorDelta
	}
	if lo > hi {
		fmt.Fprintf(os.Stderr, "Error: min %g is larger than max %g\n", lo, hi)
		os.Exit(1)
	}

	p.UpdateColor(lo, hi, center, delta, ds)
	fmt.Printf("Color range of %s: [%.6f, %.6f], green band %.6f +/- %.6f\n", ds.Name, lo, hi, center, delta)

	if recolorSave != "" {
		save(p, recolorSave, ds)
	}
	if renderOutput != "" {
		renderDataset(ds, renderOutput)
	}
}
