package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"primekg/kgx/internal/dataset"
	"primekg/kgx/internal/graph"
	"primekg/kgx/internal/store"
)

// SnapshotFile is the default snapshot name inside a dataset directory
const SnapshotFile = "kgx.db"

var (
	dataDir      string
	snapshotPath string
)

var rootCmd = &cobra.Command{
	Use:   "kgx",
	Short: "PrimeKG exploration: validate, build, and query the biomedical knowledge graph",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Directory containing the PrimeKG csv files")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "Path to a kgx.db snapshot")
}

// DiscoverData finds the dataset directory using priority: env > flag > walk-up
func DiscoverData() (string, error) {
	// 1. Environment variable
	if envDir := os.Getenv("KGX_DATA"); envDir != "" {
		if hasNodesFile(envDir) {
			return envDir, nil
		}
	}

	// 2. CLI flag
	if dataDir != "" {
		if hasNodesFile(dataDir) {
			return dataDir, nil
		}
		return "", fmt.Errorf("no %s under --data directory: %s", dataset.NodesFile, dataDir)
	}

	// 3. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			if hasNodesFile(dir) {
				return dir, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	return "", fmt.Errorf("no dataset found (set KGX_DATA, use --data, or run from a directory containing %s)", dataset.NodesFile)
}

func hasNodesFile(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, dataset.NodesFile))
	return err == nil
}

// LoadDataset discovers and loads the csv tables
func LoadDataset() (*dataset.Dataset, error) {
	dir, err := DiscoverData()
	if err != nil {
		return nil, err
	}
	return dataset.Load(dir)
}

// findSnapshot returns the snapshot to read, or "" when none exists.
// Priority: --snapshot flag > kgx.db beside the csv files.
func findSnapshot() string {
	if snapshotPath != "" {
		return snapshotPath
	}
	if dir, err := DiscoverData(); err == nil {
		candidate := filepath.Join(dir, SnapshotFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// LoadGraph loads the graph from a snapshot when one is discoverable and
// otherwise builds it in process from the csv files. The second return names
// where the graph came from.
func LoadGraph() (*graph.Graph, string, error) {
	if path := findSnapshot(); path != "" {
		s, err := store.Open(path)
		if err != nil {
			return nil, "", err
		}
		defer s.Close()

		g, err := s.LoadGraph()
		if err != nil {
			return nil, "", fmt.Errorf("reading snapshot %s: %w", path, err)
		}
		warnStale(s, path)
		return g, path, nil
	}

	ds, err := LoadDataset()
	if err != nil {
		return nil, "", err
	}
	g, _ := graph.Build(ds, graph.BuildOptions{})
	return g, ds.Dir, nil
}

// warnStale reports on stderr when the csv files changed after the snapshot
// was built. The snapshot is still served; staleness is advisory.
func warnStale(s *store.Store, path string) {
	stored, err := s.Fingerprint()
	if err != nil || stored == nil {
		return
	}
	dir, err := DiscoverData()
	if err != nil {
		return
	}
	current := dataset.Stamp(dir, dataset.GraphInputs)
	if diff := stored.Diff(current); len(diff) > 0 {
		built := ""
		if ms, err := s.BuiltAt(); err == nil && ms > 0 {
			built = fmt.Sprintf(" (built %s)", time.UnixMilli(ms).Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(os.Stderr, "warning: snapshot %s%s is stale:\n", path, built)
		for _, line := range diff {
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		}
		fmt.Fprintln(os.Stderr, "  rerun 'kgx build' to refresh it")
	}
}
