package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"primekg/kgx/internal/dataset"
	"primekg/kgx/internal/graph"
	"primekg/kgx/internal/store"
)

var (
	buildOut    string
	buildNoBert bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the graph from the csv files and save it as a snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := LoadDataset()
		if err != nil {
			return err
		}
		if len(ds.Missing) > 0 {
			fmt.Printf("optional tables not found: %v\n", ds.Missing)
		}

		g, stats := graph.Build(ds, graph.BuildOptions{SkipSimilarity: buildNoBert})

		out := buildOut
		if out == "" {
			out = filepath.Join(ds.Dir, SnapshotFile)
		}
		s, err := store.Open(out)
		if err != nil {
			return err
		}
		defer s.Close()

		fp := dataset.Stamp(ds.Dir, dataset.GraphInputs)
		if err := s.SaveGraph(g, fp); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}

		fmt.Printf("Built graph from %s\n", ds.Dir)
		fmt.Printf("  nodes: %d\n", stats.Nodes)
		fmt.Printf("  edges: %d (similarity pairs: %d, dropped: %d)\n",
			stats.Edges, stats.SimilarityPairs, stats.DroppedEdges)
		fmt.Printf("  snapshot: %s\n", out)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildOut, "out", "", "Snapshot path (default: kgx.db beside the csv files)")
	buildCmd.Flags().BoolVar(&buildNoBert, "no-bert", false, "Skip the cluster-derived disease similarity edges")
	rootCmd.AddCommand(buildCmd)
}
