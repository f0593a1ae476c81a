package dataset

// Node is a row of nodes.csv
type Node struct {
	NodeIndex  int    `json:"node_index"`
	NodeID     string `json:"node_id"`
	NodeType   string `json:"node_type"`
	NodeName   string `json:"node_name"`
	NodeSource string `json:"node_source"`
}

// Edge is a row of kg.csv, directed x -> y with denormalized endpoint info
type Edge struct {
	Relation        string `json:"relation"`
	DisplayRelation string `json:"display_relation"`
	XIndex          int    `json:"x_index"`
	XID             string `json:"x_id"`
	XType           string `json:"x_type"`
	XName           string `json:"x_name"`
	XSource         string `json:"x_source"`
	YIndex          int    `json:"y_index"`
	YID             string `json:"y_id"`
	YType           string `json:"y_type"`
	YName           string `json:"y_name"`
	YSource         string `json:"y_source"`
}

// DiseaseFeature is a row of disease_features.csv. Text fields may be empty.
type DiseaseFeature struct {
	NodeIndex          int               `json:"node_index"`
	MondoName          string            `json:"mondo_name"`
	MondoDefinition    string            `json:"mondo_definition"`
	UMLSDescription    string            `json:"umls_description"`
	OrphanetDefinition string            `json:"orphanet_definition"`
	OrphanetClinical   string            `json:"orphanet_clinical_description"`
	MayoSymptoms       string            `json:"mayo_symptoms"`
	Extra              map[string]string `json:"extra,omitempty"`
}

// DrugFeature is a row of drug_features.csv
type DrugFeature struct {
	NodeIndex         int               `json:"node_index"`
	Description       string            `json:"description"`
	Indication        string            `json:"indication"`
	MechanismOfAction string            `json:"mechanism_of_action"`
	Extra             map[string]string `json:"extra,omitempty"`
}

// GeneFeature is a row of the optional gene_features.csv
type GeneFeature struct {
	NodeIndex int    `json:"node_index"`
	Summary   string `json:"summary"`
}

// BertGroup is a row of kg_grouped_diseases_bert_map.csv. GroupID encodes
// cluster membership as a "_"-delimited list of node indices.
type BertGroup struct {
	NodeIndex int    `json:"node_index"`
	GroupID   string `json:"group_id_bert"`
	GroupName string `json:"group_name_bert"`
}

// Dataset holds the fully materialized tables of one PrimeKG directory.
// All tables are read-only after Load.
type Dataset struct {
	Dir             string
	Nodes           []Node
	Edges           []Edge
	DiseaseFeatures []DiseaseFeature
	DrugFeatures    []DrugFeature
	GeneFeatures    []GeneFeature
	BertGroups      []BertGroup
	Missing         []string // optional files absent at load time

	nodeAt    map[int]int // node_index -> position in Nodes (first occurrence)
	diseaseAt map[int]int
	drugAt    map[int]int
	geneAt    map[int]int
}

// NodeByIndex returns the node row for a node index, or nil if unknown
func (ds *Dataset) NodeByIndex(idx int) *Node {
	pos, ok := ds.nodeAt[idx]
	if !ok {
		return nil
	}
	return &ds.Nodes[pos]
}

// DiseaseFeatureByIndex returns the disease features row for a node index, or nil
func (ds *Dataset) DiseaseFeatureByIndex(idx int) *DiseaseFeature {
	pos, ok := ds.diseaseAt[idx]
	if !ok {
		return nil
	}
	return &ds.DiseaseFeatures[pos]
}

// DrugFeatureByIndex returns the drug features row for a node index, or nil
func (ds *Dataset) DrugFeatureByIndex(idx int) *DrugFeature {
	pos, ok := ds.drugAt[idx]
	if !ok {
		return nil
	}
	return &ds.DrugFeatures[pos]
}

// GeneFeatureByIndex returns the gene features row for a node index, or nil
func (ds *Dataset) GeneFeatureByIndex(idx int) *GeneFeature {
	pos, ok := ds.geneAt[idx]
	if !ok {
		return nil
	}
	return &ds.GeneFeatures[pos]
}

// HasFile reports whether a file was present when the dataset was loaded
func (ds *Dataset) HasFile(name string) bool {
	for _, m := range ds.Missing {
		if m == name {
			return false
		}
	}
	return true
}

// buildIndexes fills the lookup maps. First occurrence wins on duplicates,
// matching the table-order semantics of every lookup.
func (ds *Dataset) buildIndexes() {
	ds.nodeAt = make(map[int]int, len(ds.Nodes))
	for i, n := range ds.Nodes {
		if _, ok := ds.nodeAt[n.NodeIndex]; !ok {
			ds.nodeAt[n.NodeIndex] = i
		}
	}
	ds.diseaseAt = make(map[int]int, len(ds.DiseaseFeatures))
	for i, f := range ds.DiseaseFeatures {
		if _, ok := ds.diseaseAt[f.NodeIndex]; !ok {
			ds.diseaseAt[f.NodeIndex] = i
		}
	}
	ds.drugAt = make(map[int]int, len(ds.DrugFeatures))
	for i, f := range ds.DrugFeatures {
		if _, ok := ds.drugAt[f.NodeIndex]; !ok {
			ds.drugAt[f.NodeIndex] = i
		}
	}
	ds.geneAt = make(map[int]int, len(ds.GeneFeatures))
	for i, f := range ds.GeneFeatures {
		if _, ok := ds.geneAt[f.NodeIndex]; !ok {
			ds.geneAt[f.NodeIndex] = i
		}
	}
}
