package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kittengames/kittengames/internal/catalog"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"all", []string{"search"}, []string{"Blocky Run", "Ice Battle", "Block Breaker", "Drift King"}, nil},
		{"query", []string{"search", "BLOCK"}, []string{"Blocky Run", "Block Breaker"}, []string{"Ice Battle", "Drift King"}},
		{"category", []string{"search", "--category", "battle"}, []string{"Ice Battle", "new tab"}, []string{"Blocky Run"}},
		{"query and category", []string{"search", "block", "-c", "skill"}, []string{"Block Breaker"}, []string{"Blocky Run"}},
		{"no match", []string{"search", "zzz", "-c", "racing"}, []string{`No games found matching "zzz" in Racing`}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t)
			out := mustRun(t, tt.args...)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("output unexpectedly contains %q:\n%s", nw, out)
				}
			}
		})
	}
}

func TestSearchJSON(t *testing.T) {
	setupCLI(t)
	out := mustRun(t, "search", "ice", "--json")

	var entries []catalog.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].Name != "Ice Battle" || !entries[0].NewTab {
		t.Errorf("entries = %+v", entries)
	}
}

func TestSearchUnknownCategory(t *testing.T) {
	setupCLI(t)
	if _, err := runCLI(t, "search", "--category", "strategy"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestOpen(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "open", "drift", "king")
	if !strings.Contains(out, "Drift King (embedded)") || !strings.Contains(out, "https://games.example/drift") {
		t.Errorf("output = %q", out)
	}

	out = mustRun(t, "open", "Ice Battle", "--json")
	var l catalog.Launch
	if err := json.Unmarshal([]byte(out), &l); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if !l.External {
		t.Errorf("launch = %+v, want external", l)
	}

	if _, err := runCLI(t, "open", "Minecraft"); err == nil {
		t.Error("expected error for unknown game")
	}
}

func TestRandom(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "random", "--category", "battle", "--json")
	var l catalog.Launch
	if err := json.Unmarshal([]byte(out), &l); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if l.Name != "Ice Battle" {
		t.Errorf("random battle game = %q, want the only one", l.Name)
	}

	if _, err := runCLI(t, "random", "--category", "shooter"); err == nil {
		t.Error("expected error when the category is empty")
	}
}

func TestThemeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Neon Nights", "neon-nights.json"},
		{"  ", "theme.json"},
		{"Über!", "ber.json"},
		{"dark2", "dark2.json"},
	}
	for _, tt := range tests {
		if got := themeFileName(tt.in); got != tt.want {
			t.Errorf("themeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
