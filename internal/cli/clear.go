package cli

import (
	"fmt"
	"strings"

	"github.com/kittengames/kittengames/internal/catalog"
	"github.com/kittengames/kittengames/internal/storage"
	"github.com/spf13/cobra"
)

var clearYes bool

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(clearCmd)
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved data and caches",
	Long: `Delete every persisted record (theme selection, cloak, imported theme list)
together with the cached game manifest and the stored release check, then reload.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes && !confirm(cmd, "Delete all saved data?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}

		a, err := openApp(cmd.OutOrStdout(), nil)
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := storage.Clear(a.backend)
		if err != nil {
			return fmt.Errorf("clearing saved data: %w", err)
		}
		if err := catalog.ClearCache(cacheDir()); err != nil {
			return fmt.Errorf("clearing manifest cache: %w", err)
		}

		if len(removed) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", strings.Join(removed, ", "))
		}
		// Clear resets the in-memory state too and triggers the reload.
		return a.settings.Clear()
	},
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	var answer string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
