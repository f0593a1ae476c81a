package dataset

import "strings"

// Edge directions relative to the queried node
const (
	DirOut = "out"
	DirIn  = "in"
)

// Relation is one edge row touching a queried node, with the other endpoint
// resolved from the denormalized edge columns
type Relation struct {
	Relation        string `json:"relation"`
	DisplayRelation string `json:"display_relation"`
	Direction       string `json:"direction"`
	OtherIndex      int    `json:"other_index"`
	OtherType       string `json:"other_type"`
	OtherName       string `json:"other_name"`
}

// Relations returns every edge row where the node index appears as x_index
// or y_index, in edge-table order. A self-loop yields two entries, one per
// endpoint role. relationFilter, when non-empty, keeps only rows whose
// relation contains it (case-insensitive). No deduplication across relation
// types.
func (ds *Dataset) Relations(nodeIndex int, relationFilter string) []Relation {
	needle := strings.ToLower(relationFilter)
	var out []Relation
	for i := range ds.Edges {
		e := &ds.Edges[i]
		if needle != "" && !strings.Contains(strings.ToLower(e.Relation), needle) {
			continue
		}
		if e.XIndex == nodeIndex {
			out = append(out, Relation{
				Relation:        e.Relation,
				DisplayRelation: e.DisplayRelation,
				Direction:       DirOut,
				OtherIndex:      e.YIndex,
				OtherType:       e.YType,
				OtherName:       e.YName,
			})
		}
		if e.YIndex == nodeIndex {
			out = append(out, Relation{
				Relation:        e.Relation,
				DisplayRelation: e.DisplayRelation,
				Direction:       DirIn,
				OtherIndex:      e.XIndex,
				OtherType:       e.XType,
				OtherName:       e.XName,
			})
		}
	}
	return out
}
