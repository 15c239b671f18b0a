package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Inspect the distance arrays stored in a mesh",
	Long: `Classify the point arrays of a mesh. A valid result has an "Original"
array together with exactly one "Signed" or "Absolute" array. The command
exits with status 1 when the arrays are inconsistent.`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	p := newProcessor(cfg)
	ds, c := openDataset(p, cfg, args[0])

	fmt.Printf("%s: %s (code %d)\n", ds.Name, c.Status, c.Status.Code())
	if c.Marker != "" {
		fmt.Printf("  Marker: %s\n", c.Marker)
		fmt.Printf("  Range: [%.6f, %.6f]\n", c.Min, c.Max)
	}
	if c.Status.Valid() {
		fmt.Printf("  Color range: [%.6f, %.6f]\n", ds.Min, ds.Max)
	}

	if c.Status.Problem() {
		os.Exit(1)
	}
}
