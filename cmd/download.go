package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"primekg/kgx/internal/download"
)

var (
	downloadDOI  string
	downloadDest string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the PrimeKG csv files from Harvard Dataverse",
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := downloadDest
		if dest == "" {
			dest = defaultDownloadDest()
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		client := download.NewClient(downloadDOI, dest, logger)

		results, err := client.Run(cmd.Context())
		if err != nil {
			return err
		}

		var failed int
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		fmt.Printf("Downloaded %d of %d file(s) into %s\n", len(results)-failed, len(results), dest)
		if failed > 0 {
			return fmt.Errorf("%d file(s) failed; see the log above", failed)
		}
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVar(&downloadDOI, "doi", download.DefaultDOI, "Dataverse DOI to download")
	downloadCmd.Flags().StringVar(&downloadDest, "dest", "", "Destination directory (default: the data directory, else ./primekg)")
	rootCmd.AddCommand(downloadCmd)
}

// defaultDownloadDest prefers an existing data directory so a re-download
// refreshes in place
func defaultDownloadDest() string {
	if envDir := os.Getenv("KGX_DATA"); envDir != "" {
		return envDir
	}
	if dataDir != "" {
		return dataDir
	}
	if dir, err := DiscoverData(); err == nil {
		return dir
	}
	return "primekg"
}
