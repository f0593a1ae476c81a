package download

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ConvertTabs rewrites every .tab file under Dest as a .csv and deletes the
// original. Files whose .csv already exists are skipped, and a file that
// fails to convert is logged and left in place.
func (c *Client) ConvertTabs() ([]string, error) {
	tabs, err := filepath.Glob(filepath.Join(c.Dest, "*.tab"))
	if err != nil {
		return nil, fmt.Errorf("scanning for tab files: %w", err)
	}

	var converted []string
	for _, tabPath := range tabs {
		csvPath := strings.TrimSuffix(tabPath, ".tab") + ".csv"
		if _, err := os.Stat(csvPath); err == nil {
			c.Logger.Info("csv already exists, skipping", "file", filepath.Base(csvPath))
			continue
		}
		if err := convertFile(tabPath, csvPath); err != nil {
			c.Logger.Error("conversion failed", "file", filepath.Base(tabPath), "error", err)
			continue
		}
		if err := os.Remove(tabPath); err != nil {
			c.Logger.Warn("could not remove tab original", "file", filepath.Base(tabPath), "error", err)
		}
		converted = append(converted, filepath.Base(csvPath))
		c.Logger.Info("converted", "from", filepath.Base(tabPath), "to", filepath.Base(csvPath))
	}
	return converted, nil
}

func convertFile(tabPath, csvPath string) error {
	in, err := os.Open(tabPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", tabPath, err)
	}
	defer in.Close()

	reader := csv.NewReader(in)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	out, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", csvPath, err)
	}
	writer := csv.NewWriter(out)

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			out.Close()
			os.Remove(csvPath)
			return fmt.Errorf("reading %s: %w", tabPath, err)
		}
		if err := writer.Write(record); err != nil {
			out.Close()
			os.Remove(csvPath)
			return fmt.Errorf("writing %s: %w", csvPath, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		out.Close()
		os.Remove(csvPath)
		return fmt.Errorf("flushing %s: %w", csvPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(csvPath)
		return fmt.Errorf("closing %s: %w", csvPath, err)
	}
	return nil
}
