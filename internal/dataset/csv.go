package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// table is a parsed CSV file with a column-name index over its header
type table struct {
	header []string
	colPos map[string]int
	rows   [][]string
}

// readTable reads a whole CSV file into memory. The first record is the
// header; column names are matched case-sensitively.
func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}

	colPos := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := colPos[name]; !ok {
			colPos[name] = i
		}
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, len(rows)+2, err)
		}
		rows = append(rows, record)
	}

	return &table{header: header, colPos: colPos, rows: rows}, nil
}

// missingColumns returns the required column names absent from the table
func (t *table) missingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := t.colPos[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// get returns a row's value for a named column, or "" when the column is
// absent or the row is short
func (t *table) get(row []string, name string) string {
	pos, ok := t.colPos[name]
	if !ok || pos >= len(row) {
		return ""
	}
	return row[pos]
}

// scanHeader reads just the header and a streaming row count, without
// materializing the file. Used by the validator on large edge files.
func scanHeader(path string) (header []string, rowCount int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // counting only, tolerate ragged rows

	header, err = r.Read()
	if err == io.EOF {
		return nil, 0, errEmptyFile
	}
	if err != nil {
		return nil, 0, err
	}

	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return header, rowCount, err
		}
		rowCount++
	}
	return header, rowCount, nil
}

var errEmptyFile = fmt.Errorf("empty file")
