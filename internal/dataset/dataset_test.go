package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// writeFixture lays out a small but complete dataset directory:
// a gene (0), an effect (8), two drugs (9, 5732), and three diseases
// (77, 78, 1423), with 1423 and 77 co-listed in one similarity cluster.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, NodesFile,
		`node_index,node_id,node_type,node_name,node_source
0,7157,gene/protein,TP53,NCBI
8,HP:0002104,effect/phenotype,dyspnea,HPO
9,DB00123,drug,examplamides,DrugBank
77,MONDO:0009242,disease,brittle cornea syndrome,MONDO
78,MONDO:0044000,disease,undescribed disease,MONDO
1423,MONDO:0019019,disease,osteogenesis imperfecta,MONDO
5732,DB01001,drug,albuterol,DrugBank
`)

	writeFile(t, dir, KGFile,
		`relation,display_relation,x_index,x_id,x_type,x_name,x_source,y_index,y_id,y_type,y_name,y_source
drug_disease,indication,5732,DB01001,drug,albuterol,DrugBank,1423,MONDO:0019019,disease,osteogenesis imperfecta,MONDO
disease_protein,associated with,1423,MONDO:0019019,disease,osteogenesis imperfecta,MONDO,0,7157,gene/protein,TP53,NCBI
drug_effect,side effect,5732,DB01001,drug,albuterol,DrugBank,8,HP:0002104,effect/phenotype,dyspnea,HPO
drug_drug,synergistic interaction,9,DB00123,drug,examplamides,DrugBank,9,DB00123,drug,examplamides,DrugBank
`)

	writeFile(t, dir, DiseaseFile,
		`node_index,mondo_id,mondo_name,mondo_definition,umls_description,orphanet_definition,orphanet_clinical_description,mayo_symptoms
1423,0019019,osteogenesis imperfecta,A disorder of bone fragility.,brittle bone disease,,,Bones that break easily
77,0009242,brittle cornea syndrome,,corneal thinning disorder,,,
`)

	writeFile(t, dir, DrugFile,
		`node_index,description,half_life,indication,mechanism_of_action
5732,A short-acting beta-2 agonist.,4-6 hours,For relief of bronchospasm.,Relaxes airway smooth muscle.
9,An example compound.,,For rare aches.,Binds nothing in particular.
`)

	writeFile(t, dir, BertMapFile,
		`node_id,node_name,group_id_bert,group_name_bert
1423,osteogenesis imperfecta,1423_77,bone disorders
77,brittle cornea syndrome,1423_77,bone disorders
`)

	return dir
}

func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Load(writeFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestLoad_Tables(t *testing.T) {
	ds := loadFixture(t)

	if len(ds.Nodes) != 7 {
		t.Errorf("expected 7 nodes, got %d", len(ds.Nodes))
	}
	if len(ds.Edges) != 4 {
		t.Errorf("expected 4 edges, got %d", len(ds.Edges))
	}
	if len(ds.DiseaseFeatures) != 2 {
		t.Errorf("expected 2 disease feature rows, got %d", len(ds.DiseaseFeatures))
	}
	if len(ds.BertGroups) != 2 {
		t.Errorf("expected 2 similarity rows, got %d", len(ds.BertGroups))
	}

	n := ds.NodeByIndex(1423)
	if n == nil || n.NodeName != "osteogenesis imperfecta" {
		t.Errorf("NodeByIndex(1423) = %+v", n)
	}
	if ds.NodeByIndex(999) != nil {
		t.Error("unknown index should return nil")
	}
}

func TestLoad_OptionalFilesRecorded(t *testing.T) {
	ds := loadFixture(t)
	if ds.HasFile(GeneFile) {
		t.Errorf("gene features absent from fixture, Missing = %v", ds.Missing)
	}
	if !ds.HasFile(DiseaseFile) {
		t.Error("disease features present in fixture but marked missing")
	}
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	dir := writeFixture(t)
	if err := os.Remove(filepath.Join(dir, KGFile)); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error when kg.csv is absent")
	}
}

func TestLoad_QuotedFieldsWithCommas(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, NodesFile,
		`node_index,node_id,node_type,node_name,node_source
3,X:1,disease,"niemann-pick disease, type c",MONDO
`)
	nodes, err := LoadNodes(filepath.Join(dir, NodesFile))
	if err != nil {
		t.Fatal(err)
	}
	if nodes[0].NodeName != "niemann-pick disease, type c" {
		t.Errorf("quoted field mangled: %q", nodes[0].NodeName)
	}
}

func TestBertGroup_Members(t *testing.T) {
	g := BertGroup{GroupID: "12_34_nan_56"}
	got := g.Members()
	want := []int{12, 34, 56}
	if len(got) != len(want) {
		t.Fatalf("Members() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Members()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBertGroup_SingleMember(t *testing.T) {
	g := BertGroup{GroupID: "1423"}
	got := g.Members()
	if len(got) != 1 || got[0] != 1423 {
		t.Errorf("Members() = %v, want [1423]", got)
	}
}

// --- Validator ---

func TestValidate_AllRequiredPresent(t *testing.T) {
	dir := writeFixture(t)
	report := Validate(dir, DefaultManifest())

	if !report.Passed {
		t.Errorf("expected pass, report: %+v", report.Files)
	}
	for _, fr := range report.Files {
		if fr.Name == KGFile {
			if fr.Status != StatusOK {
				t.Errorf("kg.csv status = %s", fr.Status)
			}
			if fr.Rows != 4 {
				t.Errorf("kg.csv rows = %d, want 4", fr.Rows)
			}
			if fr.Columns != 12 {
				t.Errorf("kg.csv columns = %d, want 12", fr.Columns)
			}
		}
	}
}

func TestValidate_MissingRequiredFile(t *testing.T) {
	dir := writeFixture(t)
	if err := os.Remove(filepath.Join(dir, DrugFile)); err != nil {
		t.Fatal(err)
	}
	report := Validate(dir, DefaultManifest())

	if report.Passed {
		t.Error("expected failure with drug_features.csv absent")
	}
	var checked, okCount int
	for _, fr := range report.Files {
		if fr.Name == DrugFile {
			checked++
			if fr.Status != StatusMissing {
				t.Errorf("drug_features status = %s, want %s", fr.Status, StatusMissing)
			}
		}
		if fr.Status == StatusOK {
			okCount++
		}
	}
	if checked != 1 {
		t.Error("drug_features.csv not in report")
	}
	// One bad file must not stop the rest
	if okCount < 4 {
		t.Errorf("expected remaining files checked, only %d ok", okCount)
	}
}

func TestValidate_ReportsAllMissingColumns(t *testing.T) {
	dir := writeFixture(t)
	writeFile(t, dir, NodesFile, "node_index,node_id\n1,x\n")
	report := Validate(dir, DefaultManifest())

	for _, fr := range report.Files {
		if fr.Name != NodesFile {
			continue
		}
		if fr.Status != StatusMissingColumns {
			t.Fatalf("status = %s, want %s", fr.Status, StatusMissingColumns)
		}
		if len(fr.MissingColumns) != 3 {
			t.Errorf("missing columns = %v, want node_type, node_name, node_source", fr.MissingColumns)
		}
	}
	if report.Passed {
		t.Error("expected failure")
	}
}

func TestValidate_OptionalMissingStillPasses(t *testing.T) {
	dir := writeFixture(t)
	report := Validate(dir, DefaultManifest())
	if !report.Passed {
		t.Error("absent optional files must not fail validation")
	}
	for _, fr := range report.Files {
		if fr.Name == "edges.csv" && fr.Status != StatusMissing {
			t.Errorf("edges.csv status = %s, want missing", fr.Status)
		}
	}
}

func TestValidate_EmptyFile(t *testing.T) {
	dir := writeFixture(t)
	writeFile(t, dir, NodesFile, "")
	report := Validate(dir, DefaultManifest())
	for _, fr := range report.Files {
		if fr.Name == NodesFile && fr.Status != StatusEmpty {
			t.Errorf("empty nodes.csv status = %s, want %s", fr.Status, StatusEmpty)
		}
	}
}

func TestManifest_LoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "manifest.yaml",
		`files:
  - name: nodes.csv
    columns: [node_index, node_name]
  - name: notes.csv
    optional: true
`)
	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Files) != 2 {
		t.Fatalf("expected 2 file specs, got %d", len(m.Files))
	}
	if m.Files[0].Name != "nodes.csv" || len(m.Files[0].Columns) != 2 {
		t.Errorf("first spec = %+v", m.Files[0])
	}
	if !m.Files[1].Optional {
		t.Error("second spec should be optional")
	}
}

func TestManifest_EmptyRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "manifest.yaml", "files: []\n")
	if _, err := LoadManifest(filepath.Join(dir, "manifest.yaml")); err == nil {
		t.Error("expected error for manifest with no files")
	}
}

// --- Fingerprint ---

func TestFingerprint_Stable(t *testing.T) {
	dir := writeFixture(t)
	a := Stamp(dir, GraphInputs)
	b := Stamp(dir, GraphInputs)
	if !a.Equal(b) {
		t.Errorf("same files should produce equal fingerprints:\n%v\n%v", a, b)
	}
	// gene_features.csv absent: 5 of 6 inputs stamped
	if len(a) != 5 {
		t.Errorf("expected 5 stamps, got %d", len(a))
	}
}

func TestFingerprint_DetectsChange(t *testing.T) {
	dir := writeFixture(t)
	before := Stamp(dir, GraphInputs)

	writeFile(t, dir, NodesFile,
		"node_index,node_id,node_type,node_name,node_source\n1,x,drug,added later,src\n")
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, NodesFile), past, past); err != nil {
		t.Fatal(err)
	}

	after := Stamp(dir, GraphInputs)
	if before.Equal(after) {
		t.Fatal("fingerprint should change when a source file changes")
	}
	diff := before.Diff(after)
	if len(diff) != 1 {
		t.Fatalf("expected 1 diff line, got %v", diff)
	}
}

func TestFingerprint_DiffAddedRemoved(t *testing.T) {
	dir := writeFixture(t)
	before := Stamp(dir, GraphInputs)

	writeFile(t, dir, GeneFile, "node_index,summary\n0,tumor suppressor\n")
	after := Stamp(dir, GraphInputs)

	diff := before.Diff(after)
	if len(diff) != 1 || diff[0] != "gene_features.csv: added" {
		t.Errorf("diff = %v", diff)
	}
	back := after.Diff(before)
	if len(back) != 1 || back[0] != "gene_features.csv: removed" {
		t.Errorf("reverse diff = %v", back)
	}
}
