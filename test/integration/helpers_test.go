//go:build integration

package integration_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kittengames/kittengames/internal/catalog"
	"github.com/kittengames/kittengames/internal/cloak"
	"github.com/kittengames/kittengames/internal/icon"
	"github.com/kittengames/kittengames/internal/personalize"
	"github.com/kittengames/kittengames/internal/settings"
	"github.com/kittengames/kittengames/internal/storage"
	"github.com/kittengames/kittengames/internal/theme"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir  string // KITTENGAMES_HOME, holds config.yaml and cache/
	DataDir  string // KITTENGAMES_DATA, where persisted records live
	CacheDir string // manifest HTTP cache
}

// setupTestEnv creates isolated temp directories and sets environment variables
// so all operations are sandboxed. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	env := &testEnv{
		HomeDir:  home,
		DataDir:  filepath.Join(home, "data"),
		CacheDir: filepath.Join(home, "cache"),
	}

	t.Setenv("KITTENGAMES_HOME", env.HomeDir)
	t.Setenv("KITTENGAMES_DATA", env.DataDir)
	t.Setenv("KITTENGAMES_UPDATE_CHECK", "false")
	return env
}

const gamesJSON = `[
  {"name": "Blocky Run", "image": "https://cdn.example/blocky.png", "url": "https://games.example/blocky", "type": "platformer"},
  {"name": "Ice Battle", "image": "https://cdn.example/ice.png", "url": "https://games.example/ice", "type": "battle", "newtab": true},
  {"name": "Block Breaker", "image": "https://cdn.example/breaker.png", "url": "https://games.example/breaker", "type": "skill"},
  {"name": "broken record"},
  {"name": "Drift King", "image": "https://cdn.example/drift.png", "url": "https://games.example/drift", "type": "racing"}
]`

const neonTheme = `{
  "name": "Neon",
  "colorScheme": "dark",
  "colors": {
    "background": "#0b0014", "foreground": "#fdf4ff",
    "card": "#1a0029", "card-hover": "#2a0040",
    "primary": "#ff00aa", "primary-hover": "#ff33bb",
    "secondary": "#3b0060", "secondary-hover": "#4c0080",
    "accent": "#00ffcc", "muted": "#a78bfa", "border": "#6b21a8"
  }
}`

// remote is a stand-in for every host the app talks to: the game manifest,
// theme documents and cloak icons. Setting down makes every request fail.
type remote struct {
	*httptest.Server
	down     atomic.Bool
	requests atomic.Int64
}

func newRemote(t *testing.T) *remote {
	t.Helper()
	r := &remote{}
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.requests.Add(1)
		if r.down.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		switch {
		case req.URL.Path == "/games.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(gamesJSON))
		case req.URL.Path == "/themes/neon.json":
			w.Write([]byte(neonTheme))
		case req.URL.Path == "/themes/plain.txt":
			w.Write([]byte("not a theme"))
		case strings.HasSuffix(req.URL.Path, ".ico"), strings.HasSuffix(req.URL.Path, ".png"):
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, req)
		}
	}))
	t.Cleanup(r.Close)
	return r
}

// services is one session's worth of wired services over a shared backend.
type services struct {
	backend  storage.Backend
	settings *settings.BackendStore
	themes   *personalize.Service
	cloak    *cloak.Service
	reloads  *atomic.Int64
}

// openServices starts a session the way the CLI does: open the backend,
// wire the services and restore remembered custom themes.
func openServices(t *testing.T, env *testEnv, kind string, client *http.Client) *services {
	t.Helper()

	backend, err := storage.Open(kind, env.DataDir)
	if err != nil {
		t.Fatalf("storage.Open(%s): %v", kind, err)
	}
	t.Cleanup(func() { backend.Close() })

	s := &services{backend: backend, reloads: new(atomic.Int64)}
	reloader := settings.ReloadFunc(func() { s.reloads.Add(1) })

	s.settings, err = settings.Open(backend, reloader)
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	registry := theme.NewRegistry(theme.NewHTTPFetcher(theme.WithHTTPClient(client)))
	s.themes = personalize.New(registry, s.settings, backend)

	s.cloak, err = cloak.Open(backend, icon.NewChecker(icon.WithHTTPClient(client)),
		cloak.WithReloader(reloader),
		cloak.WithFaviconService("https://favicons.example/s2/favicons"),
	)
	if err != nil {
		t.Fatalf("cloak.Open: %v", err)
	}
	return s
}

func newSource(env *testEnv, location string, client *http.Client) *catalog.Source {
	return catalog.NewSource(location, catalog.WithHTTPClient(client), catalog.WithCacheDir(env.CacheDir))
}

// assertFileExists fails the test if path does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("expected file to exist: %s", path)
	}
}

// assertNotExists fails the test if path exists.
func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected path to not exist: %s", path)
	}
}

func names(entries []catalog.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
