package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Canonical PrimeKG file names
const (
	NodesFile   = "nodes.csv"
	KGFile      = "kg.csv"
	DiseaseFile = "disease_features.csv"
	DrugFile    = "drug_features.csv"
	GeneFile    = "gene_features.csv"
	BertMapFile = "kg_grouped_diseases_bert_map.csv"
)

// Load materializes all tables of a dataset directory. nodes.csv and kg.csv
// are required; feature tables and the similarity map load when present and
// are recorded in Missing otherwise.
func Load(dir string) (*Dataset, error) {
	ds := &Dataset{Dir: dir}

	var err error
	ds.Nodes, err = LoadNodes(filepath.Join(dir, NodesFile))
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}
	ds.Edges, err = LoadEdges(filepath.Join(dir, KGFile))
	if err != nil {
		return nil, fmt.Errorf("loading edges: %w", err)
	}

	if path := filepath.Join(dir, DiseaseFile); fileExists(path) {
		ds.DiseaseFeatures, err = LoadDiseaseFeatures(path)
		if err != nil {
			return nil, fmt.Errorf("loading disease features: %w", err)
		}
	} else {
		ds.Missing = append(ds.Missing, DiseaseFile)
	}

	if path := filepath.Join(dir, DrugFile); fileExists(path) {
		ds.DrugFeatures, err = LoadDrugFeatures(path)
		if err != nil {
			return nil, fmt.Errorf("loading drug features: %w", err)
		}
	} else {
		ds.Missing = append(ds.Missing, DrugFile)
	}

	if path := filepath.Join(dir, GeneFile); fileExists(path) {
		ds.GeneFeatures, err = LoadGeneFeatures(path)
		if err != nil {
			return nil, fmt.Errorf("loading gene features: %w", err)
		}
	} else {
		ds.Missing = append(ds.Missing, GeneFile)
	}

	if path := filepath.Join(dir, BertMapFile); fileExists(path) {
		ds.BertGroups, err = LoadBertMap(path)
		if err != nil {
			return nil, fmt.Errorf("loading similarity map: %w", err)
		}
	} else {
		ds.Missing = append(ds.Missing, BertMapFile)
	}

	ds.buildIndexes()
	return ds, nil
}

// LoadNodes reads nodes.csv
func LoadNodes(path string) ([]Node, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if missing := t.missingColumns([]string{"node_index", "node_id", "node_type", "node_name", "node_source"}); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing columns %v", path, missing)
	}

	nodes := make([]Node, 0, len(t.rows))
	for i, row := range t.rows {
		idx, err := atoi(t.get(row, "node_index"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: node_index: %w", path, i+2, err)
		}
		nodes = append(nodes, Node{
			NodeIndex:  idx,
			NodeID:     t.get(row, "node_id"),
			NodeType:   t.get(row, "node_type"),
			NodeName:   t.get(row, "node_name"),
			NodeSource: t.get(row, "node_source"),
		})
	}
	return nodes, nil
}

// LoadEdges reads kg.csv, the denormalized edge table
func LoadEdges(path string) ([]Edge, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if missing := t.missingColumns([]string{"relation", "display_relation", "x_index", "y_index"}); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing columns %v", path, missing)
	}

	edges := make([]Edge, 0, len(t.rows))
	for i, row := range t.rows {
		x, err := atoi(t.get(row, "x_index"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: x_index: %w", path, i+2, err)
		}
		y, err := atoi(t.get(row, "y_index"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: y_index: %w", path, i+2, err)
		}
		edges = append(edges, Edge{
			Relation:        t.get(row, "relation"),
			DisplayRelation: t.get(row, "display_relation"),
			XIndex:          x,
			XID:             t.get(row, "x_id"),
			XType:           t.get(row, "x_type"),
			XName:           t.get(row, "x_name"),
			XSource:         t.get(row, "x_source"),
			YIndex:          y,
			YID:             t.get(row, "y_id"),
			YType:           t.get(row, "y_type"),
			YName:           t.get(row, "y_name"),
			YSource:         t.get(row, "y_source"),
		})
	}
	return edges, nil
}

// diseaseNamedCols are the disease feature columns carried as struct fields;
// everything else lands in Extra
var diseaseNamedCols = map[string]bool{
	"node_index":                    true,
	"mondo_name":                    true,
	"mondo_definition":              true,
	"umls_description":              true,
	"orphanet_definition":           true,
	"orphanet_clinical_description": true,
	"mayo_symptoms":                 true,
}

// LoadDiseaseFeatures reads disease_features.csv
func LoadDiseaseFeatures(path string) ([]DiseaseFeature, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if missing := t.missingColumns([]string{"node_index", "mondo_name"}); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing columns %v", path, missing)
	}

	feats := make([]DiseaseFeature, 0, len(t.rows))
	for i, row := range t.rows {
		idx, err := atoi(t.get(row, "node_index"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: node_index: %w", path, i+2, err)
		}
		feats = append(feats, DiseaseFeature{
			NodeIndex:          idx,
			MondoName:          t.get(row, "mondo_name"),
			MondoDefinition:    t.get(row, "mondo_definition"),
			UMLSDescription:    t.get(row, "umls_description"),
			OrphanetDefinition: t.get(row, "orphanet_definition"),
			OrphanetClinical:   t.get(row, "orphanet_clinical_description"),
			MayoSymptoms:       t.get(row, "mayo_symptoms"),
			Extra:              extraColumns(t, row, diseaseNamedCols),
		})
	}
	return feats, nil
}

var drugNamedCols = map[string]bool{
	"node_index":          true,
	"description":         true,
	"indication":          true,
	"mechanism_of_action": true,
}

// LoadDrugFeatures reads drug_features.csv
func LoadDrugFeatures(path string) ([]DrugFeature, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if missing := t.missingColumns([]string{"node_index", "description"}); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing columns %v", path, missing)
	}

	feats := make([]DrugFeature, 0, len(t.rows))
	for i, row := range t.rows {
		idx, err := atoi(t.get(row, "node_index"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: node_index: %w", path, i+2, err)
		}
		feats = append(feats, DrugFeature{
			NodeIndex:         idx,
			Description:       t.get(row, "description"),
			Indication:        t.get(row, "indication"),
			MechanismOfAction: t.get(row, "mechanism_of_action"),
			Extra:             extraColumns(t, row, drugNamedCols),
		})
	}
	return feats, nil
}

// LoadGeneFeatures reads the optional gene_features.csv
func LoadGeneFeatures(path string) ([]GeneFeature, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if missing := t.missingColumns([]string{"node_index", "summary"}); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing columns %v", path, missing)
	}

	feats := make([]GeneFeature, 0, len(t.rows))
	for i, row := range t.rows {
		idx, err := atoi(t.get(row, "node_index"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: node_index: %w", path, i+2, err)
		}
		feats = append(feats, GeneFeature{NodeIndex: idx, Summary: t.get(row, "summary")})
	}
	return feats, nil
}

// LoadBertMap reads kg_grouped_diseases_bert_map.csv. Rows whose node_id is
// not numeric cannot join the graph and are skipped.
func LoadBertMap(path string) ([]BertGroup, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if missing := t.missingColumns([]string{"node_id", "group_id_bert"}); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing columns %v", path, missing)
	}

	groups := make([]BertGroup, 0, len(t.rows))
	for _, row := range t.rows {
		idx, err := atoi(t.get(row, "node_id"))
		if err != nil {
			continue
		}
		groups = append(groups, BertGroup{
			NodeIndex: idx,
			GroupID:   t.get(row, "group_id_bert"),
			GroupName: t.get(row, "group_name_bert"),
		})
	}
	return groups, nil
}

// Members parses the "_"-delimited member list of a similarity group,
// skipping non-numeric entries
func (g BertGroup) Members() []int {
	var members []int
	start := 0
	raw := g.GroupID
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == '_' {
			if i > start {
				if idx, err := strconv.Atoi(raw[start:i]); err == nil {
					members = append(members, idx)
				}
			}
			start = i + 1
		}
	}
	return members
}

// Attributes returns every non-empty disease feature column keyed by its CSV name
func (f DiseaseFeature) Attributes() map[string]string {
	attrs := make(map[string]string)
	putAttr(attrs, "mondo_name", f.MondoName)
	putAttr(attrs, "mondo_definition", f.MondoDefinition)
	putAttr(attrs, "umls_description", f.UMLSDescription)
	putAttr(attrs, "orphanet_definition", f.OrphanetDefinition)
	putAttr(attrs, "orphanet_clinical_description", f.OrphanetClinical)
	putAttr(attrs, "mayo_symptoms", f.MayoSymptoms)
	for k, v := range f.Extra {
		putAttr(attrs, k, v)
	}
	return attrs
}

// Attributes returns every non-empty drug feature column keyed by its CSV name
func (f DrugFeature) Attributes() map[string]string {
	attrs := make(map[string]string)
	putAttr(attrs, "description", f.Description)
	putAttr(attrs, "indication", f.Indication)
	putAttr(attrs, "mechanism_of_action", f.MechanismOfAction)
	for k, v := range f.Extra {
		putAttr(attrs, k, v)
	}
	return attrs
}

func putAttr(attrs map[string]string, key, val string) {
	if val != "" {
		attrs[key] = val
	}
}

func extraColumns(t *table, row []string, named map[string]bool) map[string]string {
	var extra map[string]string
	for _, name := range t.header {
		if named[name] {
			continue
		}
		val := t.get(row, name)
		if val == "" {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[name] = val
	}
	return extra
}

func atoi(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
