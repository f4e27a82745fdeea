package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kittengames/kittengames/internal/config"
	"github.com/kittengames/kittengames/internal/logging"
	"github.com/kittengames/kittengames/internal/tui"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(browseCmd)
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long: `Open the interactive catalog browser. Type to search, tab through
categories, and press enter to pick a game. Theme and cloak changes made in
the browser are saved immediately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reloads := tui.NewReloads()
		a, err := openApp(cmd.OutOrStdout(), reloads)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.restoreThemes(cmd.Context(), cmd.ErrOrStderr()); err != nil {
			return err
		}

		model := tui.New(tui.Deps{
			Catalog:  a.source,
			Themes:   a.themes,
			Cloak:    a.cloak,
			Reloads:  reloads,
			Debounce: config.Debounce(),
			Logger:   logging.Component("tui"),
		})

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running browser: %w", err)
		}

		if l, ok := model.Launched(); ok {
			return printLaunch(cmd, l, false)
		}
		return nil
	},
}
