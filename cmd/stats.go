package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"primekg/kgx/internal/graph"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report graph-wide connectivity, node types, and degree distribution",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, source, err := LoadGraph()
		if err != nil {
			return err
		}

		report := graph.ComputeConnectivity(g)

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		printStatsHumanReadable(report, g, source)
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func printStatsHumanReadable(r *graph.ConnectivityReport, g *graph.Graph, source string) {
	fmt.Printf("Graph from %s\n\n", source)

	fmt.Println("  CONNECTIVITY")
	fmt.Println("  ────────────────────────────────────────")
	fmt.Printf("  Nodes: %d  Edges: %d\n", r.TotalNodes, r.TotalEdges)
	fmt.Printf("  Weak components: %d (largest: %d)\n", r.WeakComponents, r.LargestWeak)
	fmt.Printf("  Strong components: %d (largest: %d)\n", r.StrongComponents, r.LargestStrong)

	if len(r.TypeCounts) > 0 {
		fmt.Println("\n  NODE TYPES")
		fmt.Println("  ────────────────────────────────────────")
		for _, tc := range r.TypeCounts {
			fmt.Printf("  %-24s %8d\n", tc.Type, tc.Count)
		}
	}

	if r.TotalNodes > 0 {
		fmt.Println("\n  DEGREES")
		fmt.Println("  ────────────────────────────────────────")
		maxName := "?"
		if n := g.Nodes[r.Degrees.MaxNode]; n != nil {
			maxName = n.Name
		}
		fmt.Printf("  min=%d  mean=%.1f  max=%d (%s, node %d)\n",
			r.Degrees.Min, r.Degrees.Mean, r.Degrees.Max, trunc(maxName, 40), r.Degrees.MaxNode)

		fmt.Println("\n  Degree distribution:")
		for _, b := range r.DegreeHistogram {
			if b.Count > 0 {
				barWidth := int(math.Log2(float64(b.Count))) + 2
				if barWidth < 1 {
					barWidth = 1
				}
				fmt.Printf("    %5s: %7d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
			}
		}
	}
}
