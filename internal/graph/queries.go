package graph

import "sort"

// NodeRef identifies a node in query results
type NodeRef struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

func (g *Graph) ref(idx int) NodeRef {
	r := NodeRef{Index: idx}
	if n := g.Nodes[idx]; n != nil {
		r.Name = n.Name
		r.Type = n.Type
	}
	return r
}

// NeighborsByType lists the distinct nodes exactly one outgoing or incoming
// edge away from idx, filtered to a node type (empty means all types),
// sorted by node index
func NeighborsByType(g *Graph, idx int, nodeType string) []NodeRef {
	seen := make(map[int]bool)
	collect := func(other int) {
		if other == idx || seen[other] {
			return
		}
		n := g.Nodes[other]
		if n == nil {
			return
		}
		if nodeType != "" && n.Type != nodeType {
			return
		}
		seen[other] = true
	}
	for _, pos := range g.Out[idx] {
		collect(g.Edges[pos].Target)
	}
	for _, pos := range g.In[idx] {
		collect(g.Edges[pos].Source)
	}

	indexes := make([]int, 0, len(seen))
	for other := range seen {
		indexes = append(indexes, other)
	}
	sort.Ints(indexes)

	refs := make([]NodeRef, len(indexes))
	for i, other := range indexes {
		refs[i] = g.ref(other)
	}
	return refs
}

// ShortestPath returns one shortest directed path from src to dst by edge
// count, as a node index sequence, or false when dst is unreachable along
// directed edges. src to itself is the zero-length path [src]. Ties among
// equal-length paths follow edge insertion order.
func ShortestPath(g *Graph, src, dst int) ([]int, bool) {
	if !g.HasNode(src) || !g.HasNode(dst) {
		return nil, false
	}
	if src == dst {
		return []int{src}, true
	}

	prev := map[int]int{src: src}
	queue := []int{src}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, pos := range g.Out[current] {
			next := g.Edges[pos].Target
			if _, visited := prev[next]; visited {
				continue
			}
			prev[next] = current
			if next == dst {
				return walkBack(prev, src, dst), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

// walkBack reconstructs the path from the prev map, source to target order
func walkBack(prev map[int]int, src, dst int) []int {
	var path []int
	for current := dst; ; current = prev[current] {
		path = append(path, current)
		if current == src {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathRefs resolves a path's node indexes for display
func PathRefs(g *Graph, path []int) []NodeRef {
	refs := make([]NodeRef, len(path))
	for i, idx := range path {
		refs[i] = g.ref(idx)
	}
	return refs
}

// SharedNeighbors finds the other nodes sharing an attribute-typed neighbor
// with idx: collect idx's neighbors of viaType (either direction), then
// every other peerType node incident to at least one of them. An empty
// result is a valid outcome, not an error.
func SharedNeighbors(g *Graph, idx int, viaType, peerType string) []NodeRef {
	via := NeighborsByType(g, idx, viaType)

	seen := make(map[int]bool)
	for _, v := range via {
		for _, peer := range NeighborsByType(g, v.Index, peerType) {
			if peer.Index == idx {
				continue
			}
			seen[peer.Index] = true
		}
	}

	indexes := make([]int, 0, len(seen))
	for other := range seen {
		indexes = append(indexes, other)
	}
	sort.Ints(indexes)

	refs := make([]NodeRef, len(indexes))
	for i, other := range indexes {
		refs[i] = g.ref(other)
	}
	return refs
}
