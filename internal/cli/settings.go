package cli

import (
	"fmt"

	"github.com/kittengames/kittengames/internal/settings"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var settingsFormat string

func init() {
	settingsShowCmd.Flags().StringVarP(&settingsFormat, "output", "o", "text", "Output format (text, json, yaml)")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsClearCmd)
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or reset the persisted theme selection",
}

// settingsView is the printable form of the persisted settings record.
type settingsView struct {
	Theme          string `json:"theme" yaml:"theme"`
	CustomThemeURL string `json:"customThemeUrl,omitempty" yaml:"customThemeUrl,omitempty"`
	Active         string `json:"active" yaml:"active"`
	Storage        string `json:"storage" yaml:"storage"`
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the persisted settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withThemes(cmd, func(a *app) error {
			s := a.settings.Get()
			v := settingsView{
				Theme:          s.ThemeID,
				CustomThemeURL: s.CustomThemeURL,
				Active:         a.themes.Active().Document.Name,
				Storage:        settings.Key + " @ " + storageLocation(),
			}

			switch settingsFormat {
			case "json":
				return printJSON(cmd, v)
			case "yaml":
				data, err := yaml.Marshal(v)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			case "text", "":
				fmt.Fprintf(cmd.OutOrStdout(), "Theme:   %s\n", v.Theme)
				if v.CustomThemeURL != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "URL:     %s\n", v.CustomThemeURL)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Active:  %s\n", v.Active)
				fmt.Fprintf(cmd.OutOrStdout(), "Storage: %s\n", v.Storage)
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", settingsFormat)
			}
		})
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the theme selection to defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.OutOrStdout(), nil)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.settings.Clear()
	},
}
