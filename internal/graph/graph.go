package graph

import "sort"

// NodeAttrs carries one node's attributes: the node-table columns plus any
// type-matched feature columns
type NodeAttrs struct {
	Index    int               `json:"index"`
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	Source   string            `json:"source"`
	Features map[string]string `json:"features,omitempty"`
}

// Edge is one directed labeled edge. Parallel edges between the same ordered
// pair under different relations are distinct entries.
type Edge struct {
	Source          int    `json:"source"`
	Target          int    `json:"target"`
	Relation        string `json:"relation"`
	DisplayRelation string `json:"display_relation"`
}

// Graph is a directed multigraph with precomputed adjacency. Out and In map
// a node index to positions in Edges, so parallel edges survive and every
// traversal can reach the relation labels.
type Graph struct {
	Nodes map[int]*NodeAttrs
	Edges []Edge
	Out   map[int][]int // node -> edge positions where node is source
	In    map[int][]int // node -> edge positions where node is target
}

// NewGraph assembles a graph from raw nodes and edges. Edges referencing an
// unknown endpoint are dropped.
func NewGraph(nodes []*NodeAttrs, edges []Edge) *Graph {
	nodeMap := make(map[int]*NodeAttrs, len(nodes))
	out := make(map[int][]int)
	in := make(map[int][]int)

	for _, n := range nodes {
		nodeMap[n.Index] = n
		out[n.Index] = nil // ensure entry exists
		in[n.Index] = nil
	}

	kept := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := nodeMap[e.Source]; !ok {
			continue
		}
		if _, ok := nodeMap[e.Target]; !ok {
			continue
		}
		pos := len(kept)
		kept = append(kept, e)
		out[e.Source] = append(out[e.Source], pos)
		in[e.Target] = append(in[e.Target], pos)
	}

	return &Graph{
		Nodes: nodeMap,
		Edges: kept,
		Out:   out,
		In:    in,
	}
}

// HasNode reports whether a node index is in the graph
func (g *Graph) HasNode(idx int) bool {
	_, ok := g.Nodes[idx]
	return ok
}

// Degree is in-degree plus out-degree, counting parallel edges
func (g *Graph) Degree(idx int) int {
	return len(g.Out[idx]) + len(g.In[idx])
}

// NodeIndexes returns all node indexes in ascending order (for
// deterministic output)
func (g *Graph) NodeIndexes() []int {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
