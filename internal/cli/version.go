package cli

import (
	"encoding/json"
	"fmt"

	"github.com/kittengames/kittengames/internal/branding"
	"github.com/kittengames/kittengames/internal/config"
	"github.com/kittengames/kittengames/internal/storage"
	"github.com/kittengames/kittengames/internal/updater"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
	versionCheck bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		if versionJSON {
			info := map[string]string{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)

		if versionCheck {
			return checkRelease(cmd)
		}
		return nil
	},
}

// checkRelease looks up the latest release now, stores the result for the
// startup notice and reports it.
func checkRelease(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	backend, err := storage.Open(config.StorageBackend(), config.DataDir())
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", config.StorageBackend(), err)
	}
	defer backend.Close()

	n, err := newUpdater(backend).Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}
	switch {
	case n.Outdated:
		updater.WriteBanner(out, n)
	case !updater.IsRelease(buildVersion):
		fmt.Fprintf(out, "Development build (latest release: %s)\n", n.Latest)
	default:
		fmt.Fprintf(out, "Up to date (latest release: %s)\n", n.Latest)
	}
	return nil
}
