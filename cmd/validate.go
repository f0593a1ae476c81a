package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"primekg/kgx/internal/dataset"
)

var (
	validateManifest string
	validateJSON     bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dataset files against the expected schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := validateDir()
		if err != nil {
			return err
		}

		manifest := dataset.DefaultManifest()
		if validateManifest != "" {
			manifest, err = dataset.LoadManifest(validateManifest)
			if err != nil {
				return fmt.Errorf("loading manifest: %w", err)
			}
		}

		report := dataset.Validate(dir, manifest)

		if validateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printValidationHumanReadable(report)
		}

		if !report.Passed {
			return fmt.Errorf("validation failed for %s", dir)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateManifest, "manifest", "", "YAML manifest overriding the expected files")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(validateCmd)
}

// validateDir accepts any existing directory from the environment or flag,
// since validation must run even when required files are absent
func validateDir() (string, error) {
	if envDir := os.Getenv("KGX_DATA"); envDir != "" && isDir(envDir) {
		return envDir, nil
	}
	if dataDir != "" {
		if isDir(dataDir) {
			return dataDir, nil
		}
		return "", fmt.Errorf("--data directory not found: %s", dataDir)
	}
	return DiscoverData()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func printValidationHumanReadable(report *dataset.ValidationReport) {
	fmt.Printf("Validating %s\n\n", report.Dir)

	for _, f := range report.Files {
		mark := "ok"
		detail := fmt.Sprintf("%d rows, %d columns", f.Rows, f.Columns)
		switch f.Status {
		case dataset.StatusMissing:
			mark, detail = "MISSING", "file not found"
		case dataset.StatusEmpty:
			mark, detail = "EMPTY", "no header row"
		case dataset.StatusMissingColumns:
			mark = "BAD COLUMNS"
			detail = "missing: " + strings.Join(f.MissingColumns, ", ")
		case dataset.StatusUnreadable:
			mark, detail = "UNREADABLE", f.Error
		}
		optional := ""
		if f.Optional {
			optional = " (optional)"
		}
		fmt.Printf("  %-36s %-12s %s%s\n", f.Name, mark, detail, optional)
	}

	fmt.Println()
	if report.Passed {
		fmt.Println("All required files pass.")
	} else {
		fmt.Println("Required files have problems; see above.")
	}
}
