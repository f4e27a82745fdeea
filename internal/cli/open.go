package cli

import (
	"fmt"
	"strings"

	"github.com/kittengames/kittengames/internal/catalog"
	"github.com/spf13/cobra"
)

var openJSON bool

func init() {
	openCmd.Flags().BoolVar(&openJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Show how a game would be opened",
	Long: `Look up a game by name (case-insensitive) and print whether it opens in a
new tab or embedded, together with its URL.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		entries, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		e, ok := catalog.Find(entries, name)
		if !ok {
			return fmt.Errorf("no game named %q", name)
		}
		return printLaunch(cmd, catalog.LaunchFor(e), openJSON)
	},
}

func printLaunch(cmd *cobra.Command, l catalog.Launch, asJSON bool) error {
	if asJSON {
		return printJSON(cmd, l)
	}
	mode := "embedded"
	if l.External {
		mode = "new tab"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n  %s\n", l.Name, mode, l.URL)
	return nil
}
