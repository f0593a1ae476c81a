package graph

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TypeCount is one node type's population
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// DegreeBucket is one bucket in the degree histogram
type DegreeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DegreeSummary describes the degree distribution, where degree is
// in-degree plus out-degree with parallel edges counted
type DegreeSummary struct {
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Mean    float64 `json:"mean"`
	MaxNode int     `json:"max_node"`
}

// ConnectivityReport contains the graph-wide statistics
type ConnectivityReport struct {
	TotalNodes       int            `json:"total_nodes"`
	TotalEdges       int            `json:"total_edges"`
	WeakComponents   int            `json:"weak_components"`
	LargestWeak      int            `json:"largest_weak"`
	StrongComponents int            `json:"strong_components"`
	LargestStrong    int            `json:"largest_strong"`
	TypeCounts       []TypeCount    `json:"type_counts"`
	Degrees          DegreeSummary  `json:"degrees"`
	DegreeHistogram  []DegreeBucket `json:"degree_histogram"`
}

// ComputeConnectivity analyzes components, node-type population, and degree
// distribution
func ComputeConnectivity(g *Graph) *ConnectivityReport {
	totalNodes := len(g.Nodes)
	if totalNodes == 0 {
		return &ConnectivityReport{DegreeHistogram: defaultHistogram()}
	}

	nodeIDs := g.NodeIndexes()

	// Weak components: reachability ignoring direction
	uf := NewUnionFind(nodeIDs)
	for _, e := range g.Edges {
		uf.Union(e.Source, e.Target)
	}
	weak := uf.Components()
	largestWeak := 0
	for _, c := range weak {
		if len(c) > largestWeak {
			largestWeak = len(c)
		}
	}

	strongCount, largestStrong := stronglyConnected(g, nodeIDs)

	// Node type counts, largest first
	byType := make(map[string]int)
	for _, id := range nodeIDs {
		byType[g.Nodes[id].Type]++
	}
	typeCounts := make([]TypeCount, 0, len(byType))
	for t, c := range byType {
		typeCounts = append(typeCounts, TypeCount{Type: t, Count: c})
	}
	sort.Slice(typeCounts, func(i, j int) bool {
		if typeCounts[i].Count != typeCounts[j].Count {
			return typeCounts[i].Count > typeCounts[j].Count
		}
		return typeCounts[i].Type < typeCounts[j].Type
	})

	// Degree distribution
	degrees := make([]float64, len(nodeIDs))
	summary := DegreeSummary{Min: g.Degree(nodeIDs[0]), MaxNode: nodeIDs[0]}
	buckets := [7]int{}
	for i, id := range nodeIDs {
		d := g.Degree(id)
		degrees[i] = float64(d)
		if d < summary.Min {
			summary.Min = d
		}
		if d > summary.Max {
			summary.Max = d
			summary.MaxNode = id
		}
		buckets[degreeBucket(d)]++
	}
	summary.Mean = stat.Mean(degrees, nil)

	histogram := defaultHistogram()
	for i := range histogram {
		histogram[i].Count = buckets[i]
	}

	return &ConnectivityReport{
		TotalNodes:       totalNodes,
		TotalEdges:       len(g.Edges),
		WeakComponents:   len(weak),
		LargestWeak:      largestWeak,
		StrongComponents: strongCount,
		LargestStrong:    largestStrong,
		TypeCounts:       typeCounts,
		Degrees:          summary,
		DegreeHistogram:  histogram,
	}
}

// stronglyConnected counts SCCs with an iterative Tarjan over the directed
// adjacency. Returns the count and the largest component's size.
func stronglyConnected(g *Graph, nodeIDs []int) (count, largest int) {
	n := len(nodeIDs)
	idToPos := make(map[int]int, n)
	for i, id := range nodeIDs {
		idToPos[id] = i
	}

	// Compressed out-adjacency as positions
	adj := make([][]int, n)
	for i, id := range nodeIDs {
		for _, pos := range g.Out[id] {
			adj[i] = append(adj[i], idToPos[g.Edges[pos].Target])
		}
	}

	disc := make([]int, n) // 0 = unvisited
	low := make([]int, n)
	onStack := make([]bool, n)
	var stack []int
	counter := 1

	type frame struct {
		node, ni int
	}

	for start := 0; start < n; start++ {
		if disc[start] != 0 {
			continue
		}

		disc[start] = counter
		low[start] = counter
		counter++
		stack = append(stack, start)
		onStack[start] = true

		frames := []frame{{start, 0}}

		for len(frames) > 0 {
			top := &frames[len(frames)-1]
			node := top.node

			if top.ni < len(adj[node]) {
				next := adj[node][top.ni]
				top.ni++

				if disc[next] == 0 {
					// Tree edge
					disc[next] = counter
					low[next] = counter
					counter++
					stack = append(stack, next)
					onStack[next] = true
					frames = append(frames, frame{next, 0})
				} else if onStack[next] {
					// Back edge into the current SCC
					if disc[next] < low[node] {
						low[node] = disc[next]
					}
				}
			} else {
				// Done with this node, pop and propagate
				frames = frames[:len(frames)-1]
				if len(frames) > 0 {
					parent := frames[len(frames)-1].node
					if low[node] < low[parent] {
						low[parent] = low[node]
					}
				}

				// Root of an SCC: unwind the stack down to node
				if low[node] == disc[node] {
					size := 0
					for {
						w := stack[len(stack)-1]
						stack = stack[:len(stack)-1]
						onStack[w] = false
						size++
						if w == node {
							break
						}
					}
					count++
					if size > largest {
						largest = size
					}
				}
			}
		}
	}
	return count, largest
}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"},
		{Label: "4-7"}, {Label: "8-15"}, {Label: "16-31"}, {Label: "32+"},
	}
}

func degreeBucket(degree int) int {
	switch {
	case degree == 0:
		return 0
	case degree == 1:
		return 1
	case degree <= 3:
		return 2
	case degree <= 7:
		return 3
	case degree <= 15:
		return 4
	case degree <= 31:
		return 5
	default:
		return 6
	}
}
