package cli

import (
	"fmt"
	"strings"

	"github.com/kittengames/kittengames/internal/config"
	"github.com/kittengames/kittengames/internal/logging"
	"github.com/kittengames/kittengames/internal/platform"
	"github.com/kittengames/kittengames/internal/theme"
	"github.com/kittengames/kittengames/internal/upload"
	"github.com/spf13/cobra"
)

var (
	newName   string
	newScheme string
	newColors map[string]string
	newOut    string
	newUpload bool
	newImport bool
)

func init() {
	themeNewCmd.Flags().StringVar(&newName, "name", "", "Theme name (default \"Custom Theme\")")
	themeNewCmd.Flags().StringVar(&newScheme, "scheme", "", "Color scheme hint (dark or light)")
	themeNewCmd.Flags().StringToStringVar(&newColors, "set", nil, "Palette overrides, e.g. --set primary=#ff00aa,accent=#00ffcc")
	themeNewCmd.Flags().StringVarP(&newOut, "output", "o", "", "Write the theme to a file instead of stdout")
	themeNewCmd.Flags().BoolVar(&newUpload, "upload", false, "Upload the theme and print its public URL")
	themeNewCmd.Flags().BoolVar(&newImport, "import", false, "Import and select the uploaded theme (implies --upload)")
	themeCmd.AddCommand(themeNewCmd)
}

var themeNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Author a theme from the editor palette",
	Long: `Build a theme document starting from the midnight palette with the given
overrides applied. Palette keys: ` + strings.Join(theme.RequiredKeys, ", ") + `.

  kittengames theme new --name Neon --set primary=#ff00aa
  kittengames theme new --name Neon --set primary=#ff00aa --upload --import`,
	Args: cobra.NoArgs,
	RunE: runThemeNew,
}

func runThemeNew(cmd *cobra.Command, args []string) error {
	doc, err := theme.Draft(newName, newScheme, newColors)
	if err != nil {
		return fmt.Errorf("building theme: %w", err)
	}
	data, err := theme.Marshal(doc)
	if err != nil {
		return err
	}

	if newOut != "" {
		if err := platform.WriteFileAtomic(newOut, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", newOut, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", newOut)
	}

	if !newUpload && !newImport {
		if newOut == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
		return nil
	}

	client := upload.New(
		upload.WithEndpoint(config.UploadURL()),
		upload.WithLogger(logging.Component("upload")),
	)
	url, err := client.Upload(cmd.Context(), themeFileName(doc.Name), data)
	if err != nil {
		return fmt.Errorf("uploading theme: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), url)

	if !newImport {
		return nil
	}
	return withThemes(cmd, func(a *app) error {
		imported, err := a.themes.ImportAndSelect(cmd.Context(), url)
		if err != nil {
			return importFailure(url, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported and selected %q\n", imported.Name)
		return nil
	})
}

// themeFileName derives an upload file name from a theme name.
func themeFileName(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(name))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "theme"
	}
	return slug + ".json"
}
