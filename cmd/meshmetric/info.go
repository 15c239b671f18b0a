package main

import (
	"fmt"

	"github.com/philipparndt/meshmetric/pkg/analysis"
	"github.com/spf13/cobra"
)

var infoEdges int

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about a mesh",
	Long:  "Show point and cell counts, dimensions, surface area, edge statistics and the point arrays of a mesh.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().IntVarP(&infoEdges, "edges", "e", 0, "Number of longest edges to list")
}

func runInfo(cmd *cobra.Command, args []string) {
	filename := args[0]

	cfg := loadConfig()
	p := newProcessor(cfg)
	ds, c := openDataset(p, cfg, filename)
	m := ds.PolyData()

	result := analysis.AnalyzeMesh(m)

	fmt.Println("Mesh Information")
	fmt.Println("================")
	fmt.Printf("Name: %s\n", ds.Name)
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Mesh Statistics:")
	fmt.Printf("  Points: %d\n", result.PointCount)
	fmt.Printf("  Cells: %d\n", result.CellCount)
	fmt.Printf("  Edges: %d\n", result.EdgeCount)
	fmt.Printf("  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Printf("  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Printf("  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Printf("  Diagonal: %.6f units\n\n", result.BoundingBox.Diagonal())

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Printf("  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Printf("  Average: %.6f units\n", result.AvgEdgeLength)

	if len(result.Arrays) > 0 {
		fmt.Println("\nPoint Arrays:")
		for _, a := range result.Arrays {
			active := ""
			if a.Active {
				active = " (active)"
			}
			fmt.Printf("  %-12s [%.6f, %.6f]%s\n", a.Name, a.Min, a.Max, active)
		}
	}
	fmt.Printf("\nDistance Arrays: %s (%d)\n", c.Status, c.Status.Code())

	if infoEdges > 0 {
		edges := analysis.FindLongestEdges(result, infoEdges)
		fmt.Printf("\nTop %d Longest Edges:\n", len(edges))
		fmt.Printf("%-6s %-35s %-35s %-15s\n", "Index", "Start", "End", "Length")
		for i, e := range edges {
			fmt.Printf("%-6d %-35s %-35s %.6f\n", i+1,
				analysis.FormatVector(m.Points[e.Start]),
				analysis.FormatVector(m.Points[e.End]),
				e.Length)
		}
	}
}
