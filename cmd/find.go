package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"primekg/kgx/internal/dataset"
)

var (
	findClass    string
	findRelation string
	findAll      bool
	findLimit    int
	findJSON     bool
)

var findCmd = &cobra.Command{
	Use:   "find <keyword>...",
	Short: "Resolve an entity by name fragment and show its profile and relationships",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword := strings.Join(args, " ")
		class, err := dataset.ParseClass(findClass)
		if err != nil {
			return err
		}

		ds, err := LoadDataset()
		if err != nil {
			return err
		}

		if findAll {
			return runFindAll(ds, keyword, class)
		}

		match, ok, err := ds.Resolve(keyword, class)
		if err != nil {
			return err
		}
		if !ok {
			// not finding a match is an answer, not a failure
			fmt.Printf("No %s matching %q found.\n", class, keyword)
			return nil
		}

		relations := ds.Relations(match.NodeIndex, findRelation)
		attrs := classAttributes(ds, class, match.NodeIndex)
		summary := ds.Describe(match.NodeIndex)
		node := ds.NodeByIndex(match.NodeIndex)

		shown := capRelations(relations)
		related := ds.DescribeRelations(shown)

		if findJSON {
			output := struct {
				Keyword     string                `json:"keyword"`
				Class       string                `json:"class"`
				Match       dataset.Match         `json:"match"`
				Node        *dataset.Node         `json:"node"`
				Description string                `json:"description,omitempty"`
				Attributes  map[string]string     `json:"attributes,omitempty"`
				Relations   []dataset.Relation    `json:"relations"`
				Related     []dataset.NodeSummary `json:"related"`
				Count       int                   `json:"relation_count"`
			}{keyword, string(class), match, node, summary.Description, attrs, shown, related, len(relations)}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(output)
		}

		printFindHumanReadable(match, node, summary, attrs, shown, related, len(relations))
		return nil
	},
}

func init() {
	findCmd.Flags().StringVar(&findClass, "class", "disease", "Entity class: disease, drug, or gene")
	findCmd.Flags().StringVar(&findRelation, "relation", "", "Only show relations containing this substring")
	findCmd.Flags().BoolVar(&findAll, "all", false, "List every match instead of the first")
	findCmd.Flags().IntVar(&findLimit, "limit", 20, "Max matches or relations to show (0 = no limit)")
	findCmd.Flags().BoolVar(&findJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(findCmd)
}

func runFindAll(ds *dataset.Dataset, keyword string, class dataset.Class) error {
	matches, err := ds.ResolveAll(keyword, class, findLimit)
	if err != nil {
		return err
	}

	if findJSON {
		output := struct {
			Keyword string          `json:"keyword"`
			Class   string          `json:"class"`
			Matches []dataset.Match `json:"matches"`
			Count   int             `json:"count"`
		}{keyword, string(class), matches, len(matches)}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	if len(matches) == 0 {
		fmt.Printf("No %s matching %q found.\n", class, keyword)
		return nil
	}
	fmt.Printf("%d %s match(es) for %q:\n", len(matches), class, keyword)
	for _, m := range matches {
		fmt.Printf("  %7d  %-40s  via %s\n", m.NodeIndex, trunc(m.Name, 40), m.Column)
	}
	return nil
}

// classAttributes collects the feature columns backing an entity class
func classAttributes(ds *dataset.Dataset, class dataset.Class, idx int) map[string]string {
	switch class {
	case dataset.ClassDisease:
		if f := ds.DiseaseFeatureByIndex(idx); f != nil {
			return f.Attributes()
		}
	case dataset.ClassDrug:
		if f := ds.DrugFeatureByIndex(idx); f != nil {
			return f.Attributes()
		}
	case dataset.ClassGene:
		if f := ds.GeneFeatureByIndex(idx); f != nil && f.Summary != "" {
			return map[string]string{"summary": f.Summary}
		}
	}
	return nil
}

// capRelations applies --limit to the relation list
func capRelations(rels []dataset.Relation) []dataset.Relation {
	if findLimit > 0 && len(rels) > findLimit {
		return rels[:findLimit]
	}
	return rels
}

func printFindHumanReadable(match dataset.Match, node *dataset.Node, summary dataset.NodeSummary, attrs map[string]string, shown []dataset.Relation, related []dataset.NodeSummary, total int) {
	fmt.Printf("%s (node %d)\n", match.Name, match.NodeIndex)
	if node != nil {
		fmt.Printf("  type: %s  id: %s  source: %s\n", node.NodeType, node.NodeID, node.NodeSource)
	}
	fmt.Printf("  matched on: %s\n", match.Column)
	if summary.Description != "" {
		fmt.Printf("  %s\n", trunc(summary.Description, 200))
	}

	if len(attrs) > 0 {
		fmt.Println("\n  ATTRIBUTES")
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("    %-28s %s\n", k+":", trunc(attrs[k], 100))
		}
	}

	fmt.Printf("\n  RELATIONSHIPS: %d\n", total)
	for i, r := range shown {
		arrow := "->"
		if r.Direction == dataset.DirIn {
			arrow = "<-"
		}
		fmt.Printf("    %s %-28s %s (%s, node %d)\n",
			arrow, r.DisplayRelation, trunc(r.OtherName, 40), r.OtherType, r.OtherIndex)
		if i < len(related) && related[i].Description != "" {
			fmt.Printf("         %s\n", trunc(related[i].Description, 90))
		}
	}
	if len(shown) < total {
		fmt.Printf("    ... and %d more (raise --limit to see them)\n", total-len(shown))
	}
}

func trunc(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
