package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileStamp records one source file's identity at a point in time
type FileStamp struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"mtime_ms"`
}

// Fingerprint identifies the state of a dataset's source files. Equal
// fingerprints mean the inputs are unchanged for caching purposes. Nothing
// acts on a mismatch automatically; it is surfaced as a warning only.
type Fingerprint []FileStamp

// GraphInputs are the files the graph builder reads
var GraphInputs = []string{NodesFile, KGFile, DiseaseFile, DrugFile, GeneFile, BertMapFile}

// Stamp fingerprints the named files under dir. Files that do not exist are
// omitted, mirroring the loader's tolerance for absent optional tables.
func Stamp(dir string, names []string) Fingerprint {
	var fp Fingerprint
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		fp = append(fp, FileStamp{
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime().UnixMilli(),
		})
	}
	sort.Slice(fp, func(i, j int) bool { return fp[i].Name < fp[j].Name })
	return fp
}

// Equal reports whether two fingerprints describe the same inputs
func (fp Fingerprint) Equal(other Fingerprint) bool {
	if len(fp) != len(other) {
		return false
	}
	for i := range fp {
		if fp[i] != other[i] {
			return false
		}
	}
	return true
}

// Diff describes, per file, how other differs from fp. Empty means equal.
func (fp Fingerprint) Diff(other Fingerprint) []string {
	byName := make(map[string]FileStamp, len(fp))
	for _, s := range fp {
		byName[s.Name] = s
	}
	seen := make(map[string]bool, len(other))

	var lines []string
	for _, o := range other {
		seen[o.Name] = true
		s, ok := byName[o.Name]
		if !ok {
			lines = append(lines, fmt.Sprintf("%s: added", o.Name))
			continue
		}
		if s != o {
			lines = append(lines, fmt.Sprintf("%s: size %d -> %d, mtime %d -> %d",
				o.Name, s.Size, o.Size, s.ModTime, o.ModTime))
		}
	}
	for _, s := range fp {
		if !seen[s.Name] {
			lines = append(lines, fmt.Sprintf("%s: removed", s.Name))
		}
	}
	sort.Strings(lines)
	return lines
}
