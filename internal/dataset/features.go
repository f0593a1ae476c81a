package dataset

import "fmt"

// NodeSummary is the joined display form of one node: name from the node
// table, description from the class-appropriate features table when one
// exists
type NodeSummary struct {
	NodeIndex   int    `json:"node_index"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Describe joins display metadata for a node index. A missing features row
// degrades to a name-only summary; an unknown index degrades to a
// placeholder name. Neither is an error.
func (ds *Dataset) Describe(idx int) NodeSummary {
	s := NodeSummary{NodeIndex: idx}

	n := ds.NodeByIndex(idx)
	if n == nil {
		s.Name = fmt.Sprintf("node %d", idx)
		return s
	}
	s.Name = n.NodeName
	s.Type = n.NodeType

	switch n.NodeType {
	case "disease":
		if f := ds.DiseaseFeatureByIndex(idx); f != nil {
			s.Description = firstNonEmpty(f.MondoDefinition, f.UMLSDescription, f.OrphanetDefinition)
		}
	case "drug":
		if f := ds.DrugFeatureByIndex(idx); f != nil {
			s.Description = firstNonEmpty(f.Description, f.Indication)
		}
	case "gene/protein":
		if f := ds.GeneFeatureByIndex(idx); f != nil {
			s.Description = f.Summary
		}
	}
	return s
}

// DescribeRelations joins metadata onto the other endpoint of each relation
func (ds *Dataset) DescribeRelations(rels []Relation) []NodeSummary {
	summaries := make([]NodeSummary, len(rels))
	for i, r := range rels {
		summaries[i] = ds.Describe(r.OtherIndex)
	}
	return summaries
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
