// Package branding provides compile-time identity values for the CLI.
//
// branding.yaml is embedded into the binary. Forks change the product name,
// data directory, environment prefix and default remote endpoints there
// without touching code.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	GoModule       string `yaml:"go_module"`
	GitHubRepo     string `yaml:"github_repo"`
	ManifestURL    string `yaml:"manifest_url"`
	FaviconService string `yaml:"favicon_service"`
	UploadURL      string `yaml:"upload_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:        "kittengames",
			DisplayName:    "KittenGames",
			Description:    "Browse, search and personalize the KittenGames catalog",
			HomeDir:        ".kittengames",
			EnvPrefix:      "KITTENGAMES",
			GoModule:       "github.com/kittengames/kittengames",
			GitHubRepo:     "CodingKitten-YT/KittenGames",
			ManifestURL:    "https://raw.githubusercontent.com/CodingKitten-YT/KittenGames-gamelibrary/main/games.json",
			FaviconService: "https://www.google.com/s2/favicons",
			UploadURL:      "https://catbox.moe/user/api.php",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "kittengames").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name. It is also the page
// title shown when no cloak identity is active.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".kittengames").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "KITTENGAMES").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GitHubRepo returns the "owner/repo" string releases are checked against.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// ManifestURL returns the default game manifest location.
func ManifestURL() string { load(); return defaults.ManifestURL }

// FaviconService returns the favicon lookup endpoint (without query).
func FaviconService() string { load(); return defaults.FaviconService }

// UploadURL returns the default remote file upload endpoint.
func UploadURL() string { load(); return defaults.UploadURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("DATA") → "KITTENGAMES_DATA".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
