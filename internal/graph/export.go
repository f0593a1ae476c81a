package graph

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ExportNeighbors writes every edge touching nodeIndex to a CSV file named
// after the node under dir, and returns the path written.
func ExportNeighbors(g *Graph, nodeIndex int, dir string) (string, error) {
	node, ok := g.Nodes[nodeIndex]
	if !ok {
		return "", fmt.Errorf("node %d not in graph", nodeIndex)
	}

	name := exportName(node.Name)
	path := filepath.Join(dir, name+"_neighbors.csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"source_index", "source_name", "source_type",
		"target_index", "target_name", "target_type",
		"relation",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	// Out then in, each in edge-table order
	for _, pos := range g.Out[nodeIndex] {
		if err := writeEdgeRow(w, g, g.Edges[pos]); err != nil {
			return "", err
		}
	}
	for _, pos := range g.In[nodeIndex] {
		e := g.Edges[pos]
		if e.Source == nodeIndex && e.Target == nodeIndex {
			continue // self-loop already written from Out
		}
		if err := writeEdgeRow(w, g, e); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing export: %w", err)
	}
	return path, nil
}

func writeEdgeRow(w *csv.Writer, g *Graph, e Edge) error {
	src := g.Nodes[e.Source]
	dst := g.Nodes[e.Target]
	row := []string{
		strconv.Itoa(e.Source), src.Name, src.Type,
		strconv.Itoa(e.Target), dst.Name, dst.Type,
		e.Relation,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("writing edge row: %w", err)
	}
	return nil
}

// exportName turns a node name into a filesystem-safe stem.
func exportName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "node"
	}
	return b.String()
}
