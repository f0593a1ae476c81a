package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"primekg/kgx/internal/openfda"
)

var fdaJSON bool

var fdaCmd = &cobra.Command{
	Use:   "fda <question>...",
	Short: "Answer a drug, device, or food question against the openFDA API",
	Long: `Answer a free-form question against openFDA. The first recognized keyword
(` + strings.Join(openfda.Keywords(), ", ") + `) picks the endpoint and the
last word of the question becomes the search term.

  kgx fda get drug label for Tylenol
  kgx fda what are side effects of Aspirin`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		client := openfda.NewClient()

		ans, err := client.Answer(cmd.Context(), question)
		if errors.Is(err, openfda.ErrNoQuery) || errors.Is(err, openfda.ErrNoEntity) {
			// an unroutable question is an answer, not a failure
			fmt.Println(err)
			fmt.Printf("recognized keywords: %s\n", strings.Join(openfda.Keywords(), ", "))
			return nil
		}
		if err != nil {
			return err
		}

		if fdaJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(ans)
		}

		fmt.Printf("Query: %s  Term: %s\n\n", ans.Keyword, ans.Entity)
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, ans.Body, "", "  "); err != nil {
			// not JSON after all, print it raw
			fmt.Println(string(ans.Body))
			return nil
		}
		fmt.Println(pretty.String())
		return nil
	},
}

func init() {
	fdaCmd.Flags().BoolVar(&fdaJSON, "json", false, "Output the full answer as JSON")
	rootCmd.AddCommand(fdaCmd)
}
