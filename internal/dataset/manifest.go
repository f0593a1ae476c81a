package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileSpec describes one expected dataset file. Columns lists the names the
// toolkit actually consumes; nil means presence and readability only.
type FileSpec struct {
	Name     string   `yaml:"name"`
	Columns  []string `yaml:"columns,omitempty"`
	Optional bool     `yaml:"optional,omitempty"`
}

// Manifest is the expected shape of a dataset directory
type Manifest struct {
	Files []FileSpec `yaml:"files"`
}

// DefaultManifest returns the compiled-in PrimeKG file set
func DefaultManifest() Manifest {
	return Manifest{Files: []FileSpec{
		{Name: NodesFile, Columns: []string{"node_index", "node_id", "node_type", "node_name", "node_source"}},
		{Name: KGFile, Columns: []string{"relation", "display_relation", "x_index", "x_id", "x_type", "x_name", "x_source", "y_index", "y_id", "y_type", "y_name", "y_source"}},
		{Name: DiseaseFile, Columns: []string{"node_index", "mondo_name", "mondo_definition", "umls_description", "orphanet_definition", "orphanet_clinical_description", "mayo_symptoms"}},
		{Name: DrugFile, Columns: []string{"node_index", "description", "indication", "mechanism_of_action"}},
		{Name: BertMapFile, Columns: []string{"node_id", "group_id_bert", "group_name_bert"}},
		{Name: GeneFile, Columns: []string{"node_index", "summary"}, Optional: true},
		{Name: "edges.csv", Columns: []string{"relation", "display_relation", "x_index", "y_index"}, Optional: true},
		{Name: "kg_raw.csv", Optional: true},
		{Name: "kg_grouped.csv", Optional: true},
		{Name: "kg_grouped_diseases.csv", Optional: true},
		{Name: "kg.giant.csv", Optional: true},
	}}
}

// LoadManifest reads a manifest from a YAML file
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	if len(m.Files) == 0 {
		return Manifest{}, fmt.Errorf("manifest %s lists no files", path)
	}
	for i, f := range m.Files {
		if f.Name == "" {
			return Manifest{}, fmt.Errorf("manifest %s: file entry %d has no name", path, i)
		}
	}
	return m, nil
}
