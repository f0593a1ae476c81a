package graph

import "primekg/kgx/internal/dataset"

// Reserved labels for similarity edges, distinguishing them from
// biologically curated relations
const (
	SimilarityRelation        = "bert_group"
	SimilarityDisplayRelation = "BERT similarity"
)

// BuildOptions controls graph construction
type BuildOptions struct {
	SkipSimilarity bool // leave out the cluster-derived disease edges
}

// BuildStats summarizes what Build produced
type BuildStats struct {
	Nodes           int `json:"nodes"`
	Edges           int `json:"edges"`
	SimilarityPairs int `json:"similarity_pairs"`
	DroppedEdges    int `json:"dropped_edges"`
}

// Build constructs the directed multigraph from a loaded dataset: one graph
// node per node-table row carrying type-matched feature columns as
// attributes, one edge per edge-table row, and two similarity edges (one per
// direction) for every distinct disease pair co-listed in a cluster.
// Building from identical inputs is idempotent.
func Build(ds *dataset.Dataset, opts BuildOptions) (*Graph, BuildStats) {
	nodes := make([]*NodeAttrs, 0, len(ds.Nodes))
	for i := range ds.Nodes {
		n := &ds.Nodes[i]
		attrs := &NodeAttrs{
			Index:  n.NodeIndex,
			ID:     n.NodeID,
			Type:   n.NodeType,
			Name:   n.NodeName,
			Source: n.NodeSource,
		}
		switch n.NodeType {
		case "disease":
			if f := ds.DiseaseFeatureByIndex(n.NodeIndex); f != nil {
				attrs.Features = f.Attributes()
			}
		case "drug":
			if f := ds.DrugFeatureByIndex(n.NodeIndex); f != nil {
				attrs.Features = f.Attributes()
			}
		case "gene/protein":
			if f := ds.GeneFeatureByIndex(n.NodeIndex); f != nil && f.Summary != "" {
				attrs.Features = map[string]string{"summary": f.Summary}
			}
		}
		nodes = append(nodes, attrs)
	}

	edges := make([]Edge, 0, len(ds.Edges))
	for i := range ds.Edges {
		e := &ds.Edges[i]
		edges = append(edges, Edge{
			Source:          e.XIndex,
			Target:          e.YIndex,
			Relation:        e.Relation,
			DisplayRelation: e.DisplayRelation,
		})
	}

	var pairCount int
	if !opts.SkipSimilarity {
		known := make(map[int]bool, len(nodes))
		for _, n := range nodes {
			known[n.Index] = true
		}
		pairs := similarityPairs(ds.BertGroups, known)
		pairCount = len(pairs)
		for _, p := range pairs {
			edges = append(edges,
				Edge{Source: p[0], Target: p[1], Relation: SimilarityRelation, DisplayRelation: SimilarityDisplayRelation},
				Edge{Source: p[1], Target: p[0], Relation: SimilarityRelation, DisplayRelation: SimilarityDisplayRelation},
			)
		}
	}

	g := NewGraph(nodes, edges)
	return g, BuildStats{
		Nodes:           len(g.Nodes),
		Edges:           len(g.Edges),
		SimilarityPairs: pairCount,
		DroppedEdges:    len(edges) - len(g.Edges),
	}
}

// similarityPairs collects the distinct unordered pairs co-listed in any
// cluster row, restricted to nodes in the graph. A pair co-listed by several
// rows appears once; cluster membership is pairwise, never transitive.
func similarityPairs(groups []dataset.BertGroup, known map[int]bool) [][2]int {
	seen := make(map[[2]int]bool)
	var pairs [][2]int
	for _, g := range groups {
		if !known[g.NodeIndex] {
			continue
		}
		for _, member := range g.Members() {
			if member == g.NodeIndex || !known[member] {
				continue
			}
			key := [2]int{g.NodeIndex, member}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, key)
		}
	}
	return pairs
}
