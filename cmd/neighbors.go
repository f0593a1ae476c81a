package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"primekg/kgx/internal/graph"
)

var (
	neighborsType   string
	neighborsExport string
	neighborsJSON   bool
)

var neighborsCmd = &cobra.Command{
	Use:   "neighbors <node-index>",
	Short: "List the nodes one edge away from a node, optionally filtered by type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("node index must be an integer, got %q", args[0])
		}

		g, _, err := LoadGraph()
		if err != nil {
			return err
		}
		if !g.HasNode(idx) {
			return fmt.Errorf("node %d is not in the graph", idx)
		}

		refs := graph.NeighborsByType(g, idx, neighborsType)

		var exported string
		if neighborsExport != "" {
			exported, err = graph.ExportNeighbors(g, idx, neighborsExport)
			if err != nil {
				return err
			}
		}

		if neighborsJSON {
			output := struct {
				Node      graph.NodeAttrs `json:"node"`
				Type      string          `json:"type,omitempty"`
				Neighbors []graph.NodeRef `json:"neighbors"`
				Count     int             `json:"count"`
				Exported  string          `json:"exported,omitempty"`
			}{*g.Nodes[idx], neighborsType, refs, len(refs), exported}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(output)
		}

		node := g.Nodes[idx]
		filter := ""
		if neighborsType != "" {
			filter = fmt.Sprintf(" of type %s", neighborsType)
		}
		if len(refs) == 0 {
			fmt.Printf("%s (node %d) has no neighbors%s.\n", node.Name, idx, filter)
		} else {
			fmt.Printf("%d neighbor(s)%s of %s (node %d):\n", len(refs), filter, node.Name, idx)
			for _, ref := range refs {
				fmt.Printf("  %7d  %-40s  %s\n", ref.Index, trunc(ref.Name, 40), ref.Type)
			}
		}
		if exported != "" {
			fmt.Printf("exported one-hop edges to %s\n", exported)
		}
		return nil
	},
}

func init() {
	neighborsCmd.Flags().StringVar(&neighborsType, "type", "", "Only show neighbors of this node type")
	neighborsCmd.Flags().StringVar(&neighborsExport, "export", "", "Write the one-hop edges as CSV into this directory")
	neighborsCmd.Flags().BoolVar(&neighborsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(neighborsCmd)
}
