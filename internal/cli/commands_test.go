package cli

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestSettingsClear(t *testing.T) {
	setupCLI(t)
	mustRun(t, "theme", "use", "ocean")

	out := mustRun(t, "settings", "clear")
	if !strings.Contains(out, `Reloaded: theme "Dark"`) {
		t.Errorf("clear output = %q", out)
	}
	if out := mustRun(t, "settings", "show"); !strings.Contains(out, "Theme:   dark") {
		t.Errorf("settings after clear = %q", out)
	}
}

func TestSettingsShowYAML(t *testing.T) {
	setupCLI(t)
	mustRun(t, "theme", "use", "sunset")

	out := mustRun(t, "settings", "show", "-o", "yaml")
	if !strings.Contains(out, "theme: sunset") || !strings.Contains(out, "active: Sunset") {
		t.Errorf("yaml = %q", out)
	}
	if _, err := runCLI(t, "settings", "show", "-o", "toml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestClear(t *testing.T) {
	home := setupCLI(t)
	mustRun(t, "theme", "use", "light")
	mustRun(t, "cloak", "set", "--title", "Docs")

	out := mustRun(t, "clear")
	if !strings.Contains(out, "Aborted.") {
		t.Fatalf("clear without confirmation should abort: %q", out)
	}

	out = mustRun(t, "clear", "--yes")
	if !strings.Contains(out, "kittengames-cloak") || !strings.Contains(out, "kittengames-settings") {
		t.Errorf("clear output = %q", out)
	}
	entries, _ := os.ReadDir(filepath.Join(home, "data"))
	if len(entries) != 0 {
		t.Errorf("data dir still has %d entries", len(entries))
	}
	if out := mustRun(t, "cloak", "show"); !strings.Contains(out, "No cloak set.") {
		t.Errorf("cloak survived clear: %q", out)
	}
}

func TestSQLiteBackend(t *testing.T) {
	home := setupCLI(t)
	t.Setenv("KITTENGAMES_STORAGE", "sqlite")

	mustRun(t, "theme", "use", "midnight")
	mustRun(t, "cloak", "set", "--title", "Notes")

	if _, err := os.Stat(filepath.Join(home, "data", "kittengames.db")); err != nil {
		t.Fatalf("sqlite database not created: %v", err)
	}
	if out := mustRun(t, "settings", "show"); !strings.Contains(out, "Theme:   midnight") {
		t.Errorf("settings = %q", out)
	}
	if out := mustRun(t, "cloak", "show"); !strings.Contains(out, "Notes") {
		t.Errorf("cloak = %q", out)
	}
}

func TestConfigSetGet(t *testing.T) {
	home := setupCLI(t)

	mustRun(t, "config", "set", "debounce", "300ms")
	if out := mustRun(t, "config", "get", "debounce"); strings.TrimSpace(out) != "300ms" {
		t.Errorf("get = %q", out)
	}
	if _, err := os.Stat(filepath.Join(home, "config.yaml")); err != nil {
		t.Errorf("config file not written: %v", err)
	}
	if _, err := runCLI(t, "config", "set", "storage", "postgres"); err == nil {
		t.Error("expected error for invalid storage")
	}

	out := mustRun(t, "config", "list")
	for _, key := range []string{"manifest_url", "storage", "debounce"} {
		if !strings.Contains(out, key) {
			t.Errorf("config list missing %q", key)
		}
	}
}

func TestVersion(t *testing.T) {
	setupCLI(t)
	prev := buildVersion
	buildVersion = "1.2.3"
	t.Cleanup(func() { buildVersion = prev })

	if out := mustRun(t, "version", "--short"); strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version --short = %q", out)
	}
	if out := mustRun(t, "version"); !strings.Contains(out, "kittengames version 1.2.3") {
		t.Errorf("version = %q", out)
	}
}

// releaseServer serves tag as the latest release and counts lookups.
func releaseServer(t *testing.T, tag string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/releases/latest") {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.test/releases/%s"}`, tag, tag)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestVersionCheck(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{name: "outdated", version: "1.0.0", want: "Update available: 1.0.0 -> v1.2.0"},
		{name: "current", version: "1.2.0", want: "Up to date (latest release: v1.2.0)"},
		{name: "newer than release", version: "1.3.0", want: "Up to date (latest release: v1.2.0)"},
		{name: "dev build", version: "dev", want: "Development build (latest release: v1.2.0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t)
			srv, hits := releaseServer(t, "v1.2.0")
			t.Setenv("KITTENGAMES_RELEASE_API", srv.URL)
			prev := buildVersion
			buildVersion = tt.version
			t.Cleanup(func() { buildVersion = prev })

			out := mustRun(t, "version", "--check")
			if !strings.Contains(out, tt.want) {
				t.Errorf("version --check = %q, want %q", out, tt.want)
			}
			if got := hits.Load(); got != 1 {
				t.Errorf("release lookups = %d, want 1", got)
			}
		})
	}
}

func TestVersionCheckFeedsStartupNotice(t *testing.T) {
	setupCLI(t)
	srv, hits := releaseServer(t, "v1.2.0")
	t.Setenv("KITTENGAMES_RELEASE_API", srv.URL)
	prev := buildVersion
	buildVersion = "1.0.0"
	t.Cleanup(func() { buildVersion = prev })

	mustRun(t, "version", "--check")

	// With checks off the stored notice stays quiet.
	if out := mustRun(t, "settings", "show"); strings.Contains(out, "Update available") {
		t.Errorf("notice printed with update_check=false:\n%s", out)
	}

	t.Setenv("KITTENGAMES_UPDATE_CHECK", "true")
	out := mustRun(t, "settings", "show")
	if !strings.Contains(out, "Update available: 1.0.0 -> v1.2.0") {
		t.Errorf("startup notice missing:\n%s", out)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("release lookups = %d, want 1 while the notice is fresh", got)
	}

	// An interval shorter than the notice's age forces a refresh.
	t.Setenv("KITTENGAMES_UPDATE_INTERVAL", "1ns")
	mustRun(t, "settings", "show")
	if got := hits.Load(); got != 2 {
		t.Errorf("release lookups = %d, want 2 after the notice went stale", got)
	}
}

func TestDoctorCheckTheme(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "doctor", "--check-theme", filepath.Join("testdata", "neon.json"))
	if !strings.Contains(out, "[ OK ] Valid dark theme: Neon") {
		t.Errorf("valid theme output = %q", out)
	}

	out, err := runCLI(t, "doctor", "--check-theme", filepath.Join("testdata", "broken-theme.json"))
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(out, "Missing colors") || !strings.Contains(out, "accent") {
		t.Errorf("invalid theme output = %q", out)
	}
}

func TestDoctorOffline(t *testing.T) {
	setupCLI(t)
	out := mustRun(t, "doctor", "--offline")
	for _, want := range []string{"Config check:", "Storage check:", "Manifest check:", "4 games"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
}
