package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/kittengames/kittengames/internal/catalog"
	"github.com/spf13/cobra"
)

var (
	searchCategory string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the game catalog",
	Long: `Search the game catalog by name.

The query matches game names (case-insensitive substring). Use --category to
restrict results to one category (all, other, battle, platformer, shooter,
puzzle, skill, idle, racing).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "Filter by category")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	category, err := catalog.ParseCategory(searchCategory)
	if err != nil {
		return err
	}

	entries, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	matches := catalog.Filter(entries, query, category)
	if len(matches) == 0 {
		msg := "No games found"
		if query != "" {
			msg += fmt.Sprintf(" matching %q", query)
		}
		if category != catalog.All {
			msg += fmt.Sprintf(" in %s", category.Label())
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}

	if searchJSON {
		return printJSON(cmd, matches)
	}
	return printSearchTable(cmd, matches)
}

// loadCatalog opens the configured manifest source.
func loadCatalog(cmd *cobra.Command) ([]catalog.Entry, error) {
	a, err := openApp(cmd.OutOrStdout(), nil)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	entries, err := a.source.Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("loading game catalog: %w", err)
	}
	return entries, nil
}

func printSearchTable(cmd *cobra.Command, entries []catalog.Entry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tOPENS\tURL")
	for _, e := range entries {
		opens := "embedded"
		if e.NewTab {
			opens = "new tab"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Type.Label(), opens, e.URL)
	}
	return w.Flush()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
