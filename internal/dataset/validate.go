package dataset

import (
	"errors"
	"os"
	"path/filepath"
)

// File statuses reported by Validate
const (
	StatusOK             = "ok"
	StatusMissing        = "missing"
	StatusEmpty          = "empty"
	StatusMissingColumns = "missing_columns"
	StatusUnreadable     = "unreadable"
)

// FileReport is the validation outcome for one expected file
type FileReport struct {
	Name           string   `json:"name"`
	Status         string   `json:"status"`
	Rows           int      `json:"rows"`
	Columns        int      `json:"columns"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	Optional       bool     `json:"optional"`
	Error          string   `json:"error,omitempty"`
}

// ValidationReport is the outcome of checking a dataset directory against a
// manifest. Passed covers required files only.
type ValidationReport struct {
	Dir    string       `json:"dir"`
	Files  []FileReport `json:"files"`
	Passed bool         `json:"passed"`
}

// Validate checks every manifest file independently. A failed file never
// stops validation of the rest.
func Validate(dir string, m Manifest) *ValidationReport {
	report := &ValidationReport{Dir: dir, Passed: true}

	for _, spec := range m.Files {
		fr := validateFile(dir, spec)
		if fr.Status != StatusOK && !fr.Optional {
			report.Passed = false
		}
		report.Files = append(report.Files, fr)
	}
	return report
}

func validateFile(dir string, spec FileSpec) FileReport {
	fr := FileReport{Name: spec.Name, Optional: spec.Optional}
	path := filepath.Join(dir, spec.Name)

	if _, err := os.Stat(path); err != nil {
		fr.Status = StatusMissing
		return fr
	}

	header, rows, err := scanHeader(path)
	if errors.Is(err, errEmptyFile) {
		fr.Status = StatusEmpty
		return fr
	}
	if err != nil {
		fr.Status = StatusUnreadable
		fr.Error = err.Error()
		return fr
	}

	fr.Rows = rows
	fr.Columns = len(header)

	colPos := make(map[string]bool, len(header))
	for _, name := range header {
		colPos[name] = true
	}
	for _, name := range spec.Columns {
		if !colPos[name] {
			fr.MissingColumns = append(fr.MissingColumns, name)
		}
	}
	if len(fr.MissingColumns) > 0 {
		fr.Status = StatusMissingColumns
		return fr
	}

	fr.Status = StatusOK
	return fr
}
