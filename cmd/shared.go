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
	sharedVia  string
	sharedPeer string
	sharedJSON bool
)

var sharedCmd = &cobra.Command{
	Use:   "shared <node-index>",
	Short: "Find nodes sharing a neighbor of one type with a node",
	Long: `Find the peer nodes that share at least one neighbor of a given type with
the query node. The default answers "which drugs share a phenotype with this
disease"; --via and --peer generalize it to any type pair.`,
	Args: cobra.ExactArgs(1),
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

		refs := graph.SharedNeighbors(g, idx, sharedVia, sharedPeer)

		if sharedJSON {
			output := struct {
				Node  graph.NodeAttrs `json:"node"`
				Via   string          `json:"via"`
				Peer  string          `json:"peer"`
				Peers []graph.NodeRef `json:"peers"`
				Count int             `json:"count"`
			}{*g.Nodes[idx], sharedVia, sharedPeer, refs, len(refs)}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(output)
		}

		node := g.Nodes[idx]
		if len(refs) == 0 {
			// an empty answer is still an answer
			fmt.Printf("No %s nodes share a %s neighbor with %s (node %d).\n",
				sharedPeer, sharedVia, node.Name, idx)
			return nil
		}
		fmt.Printf("%d %s node(s) share a %s neighbor with %s (node %d):\n",
			len(refs), sharedPeer, sharedVia, node.Name, idx)
		for _, ref := range refs {
			fmt.Printf("  %7d  %s\n", ref.Index, trunc(ref.Name, 50))
		}
		return nil
	},
}

func init() {
	sharedCmd.Flags().StringVar(&sharedVia, "via", "effect/phenotype", "Neighbor type that must be shared")
	sharedCmd.Flags().StringVar(&sharedPeer, "peer", "drug", "Type of the peers to report")
	sharedCmd.Flags().BoolVar(&sharedJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(sharedCmd)
}
