package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/kittengames/kittengames/internal/catalog"
	"github.com/kittengames/kittengames/internal/cloak"
	"github.com/kittengames/kittengames/internal/config"
	"github.com/kittengames/kittengames/internal/icon"
	"github.com/kittengames/kittengames/internal/logging"
	"github.com/kittengames/kittengames/internal/personalize"
	"github.com/kittengames/kittengames/internal/settings"
	"github.com/kittengames/kittengames/internal/storage"
	"github.com/kittengames/kittengames/internal/theme"
)

// app bundles the services a single command invocation works with.
type app struct {
	backend  storage.Backend
	client   *http.Client
	settings *settings.BackendStore
	themes   *personalize.Service
	cloak    *cloak.Service
	source   *catalog.Source
}

// cacheDir is where the manifest HTTP cache lives.
func cacheDir() string {
	return filepath.Join(config.Dir(), "cache")
}

// openApp opens the configured storage backend and wires every service to it.
// reloader receives reload requests from Clear and cloak Remove; when nil,
// the now-effective state is re-read and printed to out.
func openApp(out io.Writer, reloader settings.Reloader) (*app, error) {
	backend, err := storage.Open(config.StorageBackend(), config.DataDir())
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", config.StorageBackend(), err)
	}

	a := &app{
		backend: backend,
		client:  &http.Client{Timeout: config.HTTPTimeout()},
	}
	if reloader == nil {
		reloader = settings.ReloadFunc(func() { a.reload(out) })
	}

	a.settings, err = settings.Open(backend, reloader, settings.WithLogger(logging.Component("settings")))
	if err != nil {
		backend.Close()
		return nil, err
	}

	fetcher := theme.NewHTTPFetcher(theme.WithHTTPClient(a.client))
	registry := theme.NewRegistry(fetcher, theme.WithLogger(logging.Component("theme")))
	a.themes = personalize.New(registry, a.settings, backend, personalize.WithLogger(logging.Component("personalize")))

	checker := icon.NewChecker(
		icon.WithHTTPClient(a.client),
		icon.WithTimeout(config.HTTPTimeout()),
		icon.WithLogger(logging.Component("icon")),
	)
	a.cloak, err = cloak.Open(backend, checker,
		cloak.WithLogger(logging.Component("cloak")),
		cloak.WithFaviconService(config.FaviconService()),
		cloak.WithReloader(reloader),
	)
	if err != nil {
		backend.Close()
		return nil, err
	}

	a.source = catalog.NewSource(config.ManifestURL(),
		catalog.WithHTTPClient(a.client),
		catalog.WithCacheDir(cacheDir()),
		catalog.WithLogger(logging.Component("catalog")),
	)
	return a, nil
}

// storageLocation describes where the configured backend keeps its records.
func storageLocation() string {
	if config.StorageBackend() == storage.KindSQLite {
		return filepath.Join(config.DataDir(), storage.DatabaseFile)
	}
	return config.DataDir()
}

// Close releases the storage backend.
func (a *app) Close() error {
	return a.backend.Close()
}

// restoreThemes re-imports the custom themes remembered by earlier sessions.
// Invalid themes are reported on w and forgotten; unreachable ones are
// reported and kept.
func (a *app) restoreThemes(ctx context.Context, w io.Writer) error {
	report, err := a.themes.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restoring custom themes: %w", err)
	}
	for url, ferr := range report.Failed {
		fmt.Fprintf(w, "Dropped custom theme %s: %s\n", url, personalize.UserMessage(ferr))
	}
	for url, ferr := range report.Unavailable {
		fmt.Fprintf(w, "Custom theme %s is unavailable right now: %s\n", url, personalize.UserMessage(ferr))
	}
	if report.FellBack {
		fmt.Fprintf(w, "Selected theme is unavailable, using %q\n", theme.DefaultID)
	}
	return nil
}

// reload is the terminal rendition of a full presentation reload: persisted
// state is re-read and the effective identity printed.
func (a *app) reload(out io.Writer) {
	log := logging.Component("cli")
	if err := a.settings.Reread(); err != nil {
		log.Warn().Err(err).Msg("re-reading settings")
	}
	if err := a.cloak.Reread(); err != nil {
		log.Warn().Err(err).Msg("re-reading cloak")
	}
	active := a.themes.Active()
	id := a.cloak.Get()
	title := id.PageTitle
	if title == "" {
		title = "(default)"
	}
	iconURL := id.IconURL
	if iconURL == "" {
		iconURL = "(default)"
	}
	fmt.Fprintf(out, "Reloaded: theme %q, title %s, icon %s\n", active.Document.Name, title, iconURL)
}
