package cli

import (
	"github.com/kittengames/kittengames/internal/branding"
	"github.com/kittengames/kittengames/internal/config"
	"github.com/kittengames/kittengames/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` is a catalog of browser games. Browse and search the catalog,
pick a theme for the browser, and disguise the tab with a custom title and icon.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()

		level := config.LogLevel()
		if verbose {
			level = "debug"
		}
		logging.Init(level, nil)

		// Skip banners for commands that own the terminal or manage their own state.
		if cmd.HasParent() && cmd.Parent() == configCmd {
			return
		}
		switch cmd.Name() {
		case "version", "browse", "clear":
			return
		}
		if !config.UpdateCheck() {
			return
		}
		startReleaseNotice(cmd.Context(), cmd.ErrOrStderr())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		finishReleaseNotice()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}
