package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kittengames/kittengames/internal/catalog"
	"github.com/kittengames/kittengames/internal/config"
	"github.com/kittengames/kittengames/internal/icon"
	"github.com/kittengames/kittengames/internal/personalize"
	"github.com/kittengames/kittengames/internal/storage"
	"github.com/kittengames/kittengames/internal/theme"
	"github.com/spf13/cobra"
)

var (
	doctorOffline bool
	checkTheme    string
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorOffline, "offline", false, "Skip checks that need the network")
	doctorCmd.Flags().StringVar(&checkTheme, "check-theme", "", "Validate a theme document file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for saved data and remote sources",
	Long: `Run diagnostic checks on configuration, saved data, the game manifest,
imported themes and the cloak icon.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if checkTheme != "" {
			return runThemeCheck(out, checkTheme)
		}

		runConfigCheck(out)
		a, err := openApp(out, nil)
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return err
		}
		defer a.Close()

		runStorageCheck(out, a)
		runManifestCheck(cmd.Context(), out, a)
		if !doctorOffline {
			runThemesCheck(cmd.Context(), out, a)
			runCloakCheck(cmd.Context(), out, a)
		}
		return nil
	},
}

func runConfigCheck(out io.Writer) {
	fmt.Fprintln(out, "Config check:")
	if _, err := os.Stat(config.FilePath()); err != nil {
		fmt.Fprintf(out, "  [INFO] No config file at %s, using defaults\n", config.FilePath())
	} else {
		fmt.Fprintf(out, "  [ OK ] %s\n", config.FilePath())
	}
	fmt.Fprintf(out, "  [INFO] storage=%s manifest=%s\n", config.StorageBackend(), config.ManifestURL())
}

func runStorageCheck(out io.Writer, a *app) {
	fmt.Fprintln(out, "Storage check:")
	keys, err := a.backend.Keys()
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] Cannot list records: %v\n", err)
		return
	}
	fmt.Fprintf(out, "  [ OK ] %s backend at %s (%d records)\n", config.StorageBackend(), storageLocation(), len(keys))

	for _, key := range keys {
		var v any
		if _, err := storage.GetJSON(a.backend, key, &v); err != nil {
			fmt.Fprintf(out, "  [WARN] %s: unreadable record (%v); it will be reset to defaults\n", key, err)
		}
	}
}

func runManifestCheck(ctx context.Context, out io.Writer, a *app) {
	fmt.Fprintln(out, "Manifest check:")

	if cached := catalog.CachedAt(cacheDir()); !cached.IsZero() {
		age := time.Since(cached).Round(time.Minute)
		if catalog.IsStale(cacheDir(), catalog.DefaultMaxAge) {
			fmt.Fprintf(out, "  [WARN] Cached manifest is %s old\n", age)
		} else {
			fmt.Fprintf(out, "  [ OK ] Cached manifest is %s old\n", age)
		}
	}
	if doctorOffline && a.source.IsRemote() {
		return
	}

	entries, err := a.source.Load(ctx)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return
	}
	fmt.Fprintf(out, "  [ OK ] %d games from %s\n", len(entries), a.source.Location())
}

func runThemesCheck(ctx context.Context, out io.Writer, a *app) {
	fmt.Fprintln(out, "Themes check:")

	report, err := a.themes.Restore(ctx)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return
	}
	for _, url := range report.Restored {
		fmt.Fprintf(out, "  [ OK ] %s\n", url)
	}
	for url, ferr := range report.Failed {
		fmt.Fprintf(out, "  [WARN] %s: %s (dropped)\n", url, personalize.UserMessage(ferr))
	}
	for url, ferr := range report.Unavailable {
		fmt.Fprintf(out, "  [WARN] %s: %s (kept, retried next run)\n", url, personalize.UserMessage(ferr))
	}
	if report.FellBack {
		fmt.Fprintf(out, "  [WARN] Selected theme is unavailable, using %q for now\n", theme.DefaultID)
	}
	fmt.Fprintf(out, "  [INFO] Active theme: %s\n", a.themes.Active().Document.Name)
}

func runCloakCheck(ctx context.Context, out io.Writer, a *app) {
	fmt.Fprintln(out, "Cloak check:")

	id := a.cloak.Get()
	if id.IsZero() {
		fmt.Fprintln(out, "  [INFO] No cloak set")
		return
	}
	if id.IconURL == "" {
		fmt.Fprintln(out, "  [ OK ] Title only")
		return
	}
	checker := icon.NewChecker(icon.WithHTTPClient(a.client), icon.WithTimeout(config.HTTPTimeout()))
	if checker.Reachable(ctx, id.IconURL) {
		fmt.Fprintf(out, "  [ OK ] Icon reachable: %s\n", id.IconURL)
	} else {
		fmt.Fprintf(out, "  [WARN] Icon no longer reachable: %s\n", id.IconURL)
	}
}

func runThemeCheck(out io.Writer, path string) error {
	fmt.Fprintf(out, "Theme validation: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return fmt.Errorf("reading theme: %w", err)
	}

	doc, err := theme.Validate(data)
	if err == nil {
		fmt.Fprintf(out, "  [ OK ] Valid %s theme: %s\n", doc.ColorScheme, doc.Name)
		return nil
	}

	var schemaErr *theme.SchemaError
	if !errors.As(err, &schemaErr) {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return fmt.Errorf("theme validation failed: %w", err)
	}

	if len(schemaErr.Missing) > 0 {
		fmt.Fprintf(out, "  [FAIL] Missing colors: %v\n", schemaErr.Missing)
	}
	if len(schemaErr.Issues) > 0 {
		fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(schemaErr.Issues))
		for _, issue := range schemaErr.Issues {
			if issue.Path != "" {
				fmt.Fprintf(out, "    - %s: %s\n", issue.Path, issue.Message)
			} else {
				fmt.Fprintf(out, "    - %s\n", issue.Message)
			}
		}
	}
	return fmt.Errorf("theme validation failed: %w", err)
}
