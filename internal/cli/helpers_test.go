package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// setupCLI sandboxes config, data and manifest locations for one test.
func setupCLI(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("KITTENGAMES_HOME", home)
	t.Setenv("KITTENGAMES_DATA", filepath.Join(home, "data"))
	t.Setenv("KITTENGAMES_UPDATE_CHECK", "false")

	manifest, err := filepath.Abs(filepath.Join("testdata", "games.json"))
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("KITTENGAMES_MANIFEST_URL", manifest)

	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

// runCLI executes the root command with args and returns combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// mustRun is runCLI that fails the test on error.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// resetFlags restores every flag in the tree to its default so package-level
// flag variables do not leak between invocations.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Value.Type() != "stringToString" {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
	newColors = map[string]string{}
	verbose = false
}
