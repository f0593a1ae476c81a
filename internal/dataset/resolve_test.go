package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve_DiseaseByName(t *testing.T) {
	ds := loadFixture(t)

	m, ok, err := ds.Resolve("osteogenesis imperfecta", ClassDisease)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a match")
	}
	if m.NodeIndex != 1423 {
		t.Errorf("node index = %d, want 1423", m.NodeIndex)
	}
	if m.Column != "mondo_name" {
		t.Errorf("matched column = %s, want mondo_name", m.Column)
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	ds := loadFixture(t)
	m, ok, err := ds.Resolve("OSTEOGENESIS Imperfecta", ClassDisease)
	if err != nil || !ok || m.NodeIndex != 1423 {
		t.Errorf("got (%+v, %v, %v), want match on 1423", m, ok, err)
	}
}

func TestResolve_FirstRowInTableOrder(t *testing.T) {
	ds := loadFixture(t)

	// "brittle" appears in 1423's umls_description (row 1) and in 77's
	// mondo_name (row 2); first row wins regardless of which column hit.
	m, ok, err := ds.Resolve("brittle", ClassDisease)
	if err != nil || !ok {
		t.Fatalf("got (%v, %v)", ok, err)
	}
	if m.NodeIndex != 1423 {
		t.Errorf("node index = %d, want first row 1423", m.NodeIndex)
	}
	if m.Column != "umls_description" {
		t.Errorf("matched column = %s, want umls_description", m.Column)
	}
}

func TestResolve_NoMatchIsNotAnError(t *testing.T) {
	ds := loadFixture(t)
	_, ok, err := ds.Resolve("definitely absent keyword", ClassDisease)
	if err != nil {
		t.Fatalf("no-match must not error: %v", err)
	}
	if ok {
		t.Error("expected no match")
	}
}

func TestResolve_DrugByName(t *testing.T) {
	ds := loadFixture(t)
	m, ok, err := ds.Resolve("albuterol", ClassDrug)
	if err != nil || !ok {
		t.Fatalf("got (%v, %v)", ok, err)
	}
	if m.NodeIndex != 5732 {
		t.Errorf("node index = %d, want 5732", m.NodeIndex)
	}
	if m.Column != "node_name" {
		t.Errorf("matched column = %s, want node_name", m.Column)
	}
	if m.Name != "albuterol" {
		t.Errorf("name = %s", m.Name)
	}
}

func TestResolve_DrugByIndication(t *testing.T) {
	ds := loadFixture(t)
	m, ok, err := ds.Resolve("bronchospasm", ClassDrug)
	if err != nil || !ok || m.NodeIndex != 5732 {
		t.Errorf("got (%+v, %v, %v), want 5732", m, ok, err)
	}
	if m.Column != "indication" {
		t.Errorf("matched column = %s, want indication", m.Column)
	}
}

func TestResolve_GeneByName(t *testing.T) {
	ds := loadFixture(t)
	m, ok, err := ds.Resolve("tp53", ClassGene)
	if err != nil || !ok {
		t.Fatalf("got (%v, %v)", ok, err)
	}
	if m.NodeIndex != 0 {
		t.Errorf("node index = %d, want 0", m.NodeIndex)
	}
}

func TestResolve_GeneIgnoresOtherTypes(t *testing.T) {
	ds := loadFixture(t)
	// "albuterol" is a drug name; the gene class must not see it.
	_, ok, err := ds.Resolve("albuterol", ClassGene)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("drug row matched under gene class")
	}
}

func TestResolve_MissingTableErrors(t *testing.T) {
	dir := writeFixture(t)
	if err := os.Remove(filepath.Join(dir, DiseaseFile)); err != nil {
		t.Fatal(err)
	}
	ds, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := ds.Resolve("anything", ClassDisease); err == nil {
		t.Error("resolving against an unloaded table should error")
	}
}

func TestResolveAll_TableOrderAndLimit(t *testing.T) {
	ds := loadFixture(t)

	// "for" hits both drug rows via their indications, in table order.
	matches, err := ds.ResolveAll("for", ClassDrug, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].NodeIndex != 5732 || matches[1].NodeIndex != 9 {
		t.Errorf("order = %d, %d; want 5732, 9", matches[0].NodeIndex, matches[1].NodeIndex)
	}

	limited, err := ds.ResolveAll("for", ClassDrug, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].NodeIndex != 5732 {
		t.Errorf("limited = %+v", limited)
	}
}

func TestParseClass(t *testing.T) {
	if _, err := ParseClass("Disease"); err != nil {
		t.Errorf("class parse should be case-insensitive: %v", err)
	}
	if _, err := ParseClass("protein"); err == nil {
		t.Error("expected error for unknown class")
	}
}

// --- Relationship extraction ---

func TestRelations_Cardinality(t *testing.T) {
	ds := loadFixture(t)

	// 1423 appears once as x (disease_protein) and once as y (drug_disease).
	rels := ds.Relations(1423, "")
	if len(rels) != 2 {
		t.Fatalf("expected 2 relations, got %d", len(rels))
	}

	var out, in int
	for _, r := range rels {
		switch r.Direction {
		case DirOut:
			out++
			if r.OtherIndex != 0 || r.OtherType != "gene/protein" {
				t.Errorf("outgoing other = %d (%s)", r.OtherIndex, r.OtherType)
			}
		case DirIn:
			in++
			if r.OtherIndex != 5732 || r.OtherName != "albuterol" {
				t.Errorf("incoming other = %d (%s)", r.OtherIndex, r.OtherName)
			}
		}
	}
	if out != 1 || in != 1 {
		t.Errorf("out=%d in=%d, want 1 and 1", out, in)
	}
}

func TestRelations_SelfLoopCountedTwice(t *testing.T) {
	ds := loadFixture(t)
	rels := ds.Relations(9, "")
	if len(rels) != 2 {
		t.Errorf("self-loop should appear as both endpoints, got %d rows", len(rels))
	}
}

func TestRelations_FilterBySubstring(t *testing.T) {
	ds := loadFixture(t)

	rels := ds.Relations(5732, "drug_effect")
	if len(rels) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(rels))
	}
	if rels[0].OtherIndex != 8 {
		t.Errorf("other = %d, want 8", rels[0].OtherIndex)
	}

	if got := ds.Relations(5732, "no_such_relation"); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestRelations_UnknownIndexIsEmpty(t *testing.T) {
	ds := loadFixture(t)
	if got := ds.Relations(424242, ""); len(got) != 0 {
		t.Errorf("unknown index should match nothing, got %d", len(got))
	}
}

// --- Metadata joining ---

func TestDescribe_DiseaseDescriptionPriority(t *testing.T) {
	ds := loadFixture(t)

	s := ds.Describe(1423)
	if s.Description != "A disorder of bone fragility." {
		t.Errorf("description = %q, want mondo_definition", s.Description)
	}

	// 77 has no mondo_definition; umls_description is next.
	s = ds.Describe(77)
	if s.Description != "corneal thinning disorder" {
		t.Errorf("description = %q, want umls fallback", s.Description)
	}
}

func TestDescribe_MissingFeatureRowDegradesToName(t *testing.T) {
	ds := loadFixture(t)
	s := ds.Describe(78)
	if s.Name != "undescribed disease" {
		t.Errorf("name = %q", s.Name)
	}
	if s.Description != "" {
		t.Errorf("expected no description, got %q", s.Description)
	}
}

func TestDescribe_UnknownIndexPlaceholder(t *testing.T) {
	ds := loadFixture(t)
	s := ds.Describe(999999)
	if s.Name != "node 999999" {
		t.Errorf("name = %q", s.Name)
	}
}

func TestDescribeRelations(t *testing.T) {
	ds := loadFixture(t)
	rels := ds.Relations(1423, "")
	summaries := ds.DescribeRelations(rels)
	if len(summaries) != len(rels) {
		t.Fatalf("summaries = %d, rels = %d", len(summaries), len(rels))
	}
	for i, s := range summaries {
		if s.NodeIndex != rels[i].OtherIndex {
			t.Errorf("summary %d joined wrong node: %d != %d", i, s.NodeIndex, rels[i].OtherIndex)
		}
		if s.Name == "" {
			t.Errorf("summary %d has empty name", i)
		}
	}
}
