package dataset

import (
	"fmt"
	"strings"
)

// Class selects which table an entity keyword is resolved against
type Class string

const (
	ClassDisease Class = "disease"
	ClassDrug    Class = "drug"
	ClassGene    Class = "gene"
)

// ParseClass validates a user-supplied entity class
func ParseClass(s string) (Class, error) {
	switch Class(strings.ToLower(s)) {
	case ClassDisease:
		return ClassDisease, nil
	case ClassDrug:
		return ClassDrug, nil
	case ClassGene:
		return ClassGene, nil
	}
	return "", fmt.Errorf("unknown entity class %q (want disease, drug, or gene)", s)
}

// Match is one resolver hit
type Match struct {
	NodeIndex int    `json:"node_index"`
	Name      string `json:"name"`
	Column    string `json:"column"`
}

// Resolve returns the first row, in table order, where any of the class's
// configured text columns contains the keyword (case-insensitive). The bool
// is false when nothing matches; that is an ordinary outcome, not an error.
func (ds *Dataset) Resolve(keyword string, class Class) (Match, bool, error) {
	matches, err := ds.ResolveAll(keyword, class, 1)
	if err != nil {
		return Match{}, false, err
	}
	if len(matches) == 0 {
		return Match{}, false, nil
	}
	return matches[0], true, nil
}

// ResolveAll returns every matching row in table order, up to limit
// (limit <= 0 means all). Substring match only; no stemming, no ranking.
func (ds *Dataset) ResolveAll(keyword string, class Class, limit int) ([]Match, error) {
	needle := strings.ToLower(keyword)
	switch class {
	case ClassDisease:
		return ds.resolveDiseases(needle, limit)
	case ClassDrug:
		return ds.resolveDrugs(needle, limit)
	case ClassGene:
		return ds.resolveGenes(needle, limit)
	}
	return nil, fmt.Errorf("unknown entity class %q", class)
}

func (ds *Dataset) resolveDiseases(needle string, limit int) ([]Match, error) {
	if !ds.HasFile(DiseaseFile) {
		return nil, fmt.Errorf("%s not loaded from %s", DiseaseFile, ds.Dir)
	}
	var matches []Match
	for i := range ds.DiseaseFeatures {
		f := &ds.DiseaseFeatures[i]
		col, ok := firstContaining(needle, [][2]string{
			{"mondo_name", f.MondoName},
			{"mondo_definition", f.MondoDefinition},
			{"umls_description", f.UMLSDescription},
			{"orphanet_definition", f.OrphanetDefinition},
			{"orphanet_clinical_description", f.OrphanetClinical},
			{"mayo_symptoms", f.MayoSymptoms},
		})
		if !ok {
			continue
		}
		name := f.MondoName
		if name == "" {
			name = ds.displayName(f.NodeIndex)
		}
		matches = append(matches, Match{NodeIndex: f.NodeIndex, Name: name, Column: col})
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

func (ds *Dataset) resolveDrugs(needle string, limit int) ([]Match, error) {
	if !ds.HasFile(DrugFile) {
		return nil, fmt.Errorf("%s not loaded from %s", DrugFile, ds.Dir)
	}
	var matches []Match
	for i := range ds.DrugFeatures {
		f := &ds.DrugFeatures[i]
		name := ds.displayName(f.NodeIndex)
		col, ok := firstContaining(needle, [][2]string{
			{"node_name", name},
			{"description", f.Description},
			{"indication", f.Indication},
			{"mechanism_of_action", f.MechanismOfAction},
		})
		if !ok {
			continue
		}
		matches = append(matches, Match{NodeIndex: f.NodeIndex, Name: name, Column: col})
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

func (ds *Dataset) resolveGenes(needle string, limit int) ([]Match, error) {
	var matches []Match
	for i := range ds.Nodes {
		n := &ds.Nodes[i]
		if n.NodeType != "gene/protein" {
			continue
		}
		cols := [][2]string{{"node_name", n.NodeName}}
		if gf := ds.GeneFeatureByIndex(n.NodeIndex); gf != nil {
			cols = append(cols, [2]string{"summary", gf.Summary})
		}
		col, ok := firstContaining(needle, cols)
		if !ok {
			continue
		}
		matches = append(matches, Match{NodeIndex: n.NodeIndex, Name: n.NodeName, Column: col})
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// firstContaining returns the name of the first (column, value) pair whose
// value contains the lowercased needle
func firstContaining(needle string, cols [][2]string) (string, bool) {
	for _, c := range cols {
		if c[1] == "" {
			continue
		}
		if strings.Contains(strings.ToLower(c[1]), needle) {
			return c[0], true
		}
	}
	return "", false
}

func (ds *Dataset) displayName(idx int) string {
	if n := ds.NodeByIndex(idx); n != nil {
		return n.NodeName
	}
	return fmt.Sprintf("node %d", idx)
}
