package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/kittengames/kittengames/internal/logging"
	"github.com/kittengames/kittengames/internal/personalize"
	"github.com/kittengames/kittengames/internal/theme"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var (
	themeListJSON   bool
	themeNoSelect   bool
	themeShowFormat string
)

func init() {
	themeListCmd.Flags().BoolVar(&themeListJSON, "json", false, "Output in JSON format")
	themeImportCmd.Flags().BoolVar(&themeNoSelect, "no-select", false, "Import without switching to the theme")
	themeShowCmd.Flags().StringVarP(&themeShowFormat, "output", "o", "json", "Output format (json, yaml)")

	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeImportCmd)
	themeCmd.AddCommand(themeUseCmd)
	themeCmd.AddCommand(themeRemoveCmd)
	themeCmd.AddCommand(themeShowCmd)
	rootCmd.AddCommand(themeCmd)
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage color themes",
	Long: `List, import and select color themes.

Built-in themes are addressed by id (dark, light, midnight, forest, sunset,
ocean). Imported themes are addressed by the URL they were imported from and
are re-imported on every start.`,
}

// withThemes opens the app and restores remembered custom themes.
func withThemes(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := openApp(cmd.OutOrStdout(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.restoreThemes(cmd.Context(), cmd.ErrOrStderr()); err != nil {
		return err
	}
	return fn(a)
}

// importFailure logs the cause and returns the line shown to the user.
func importFailure(url string, err error) error {
	log := logging.Component("cli")
	log.Debug().Err(err).Str("url", url).Msg("theme import failed")
	return errors.New(personalize.UserMessage(err))
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withThemes(cmd, func(a *app) error {
			choices := a.themes.Themes()
			if themeListJSON {
				return printJSON(cmd, choices)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "\tID\tNAME\tSCHEME")
			for _, c := range choices {
				mark := ""
				if c.Selected {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, c.ID, c.Document.Name, c.Document.ColorScheme)
			}
			return w.Flush()
		})
	},
}

var themeImportCmd = &cobra.Command{
	Use:   "import <url>",
	Short: "Import a theme from a URL and select it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		return withThemes(cmd, func(a *app) error {
			if themeNoSelect {
				doc, err := a.themes.Import(cmd.Context(), url)
				if err != nil {
					return importFailure(url, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %q\n", doc.Name)
				return nil
			}

			doc, err := a.themes.ImportAndSelect(cmd.Context(), url)
			if err != nil {
				return importFailure(url, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported and selected %q\n", doc.Name)
			return nil
		})
	},
}

var themeUseCmd = &cobra.Command{
	Use:   "use <id|url>",
	Short: "Select a built-in or imported theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withThemes(cmd, func(a *app) error {
			if err := a.themes.Select(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Using theme %q\n", a.themes.Active().Document.Name)
			return nil
		})
	},
}

var themeRemoveCmd = &cobra.Command{
	Use:     "remove <url>",
	Aliases: []string{"rm"},
	Short:   "Remove an imported theme",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withThemes(cmd, func(a *app) error {
			if err := a.themes.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (now using %q)\n", args[0], a.themes.Active().Document.Name)
			return nil
		})
	},
}

var themeShowCmd = &cobra.Command{
	Use:   "show [id|url]",
	Short: "Print a theme document (the active one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withThemes(cmd, func(a *app) error {
			entry := a.themes.Active()
			if len(args) == 1 {
				e, ok := a.themes.Registry().Get(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", theme.ErrNotFound, args[0])
				}
				entry = e
			}
			return printDocument(cmd, entry.Document, themeShowFormat)
		})
	},
}

func printDocument(cmd *cobra.Command, doc theme.Document, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json", "":
		data, err = theme.Marshal(doc)
	case "yaml":
		data, err = yaml.Marshal(doc)
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
