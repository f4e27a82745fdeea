package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestEnsurePrivateDir(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
	}{
		{name: "missing", setup: func(t *testing.T, dir string) {}},
		{name: "nested missing", setup: func(t *testing.T, dir string) {}},
		{name: "world readable", setup: func(t *testing.T, dir string) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.Chmod(dir, 0o755); err != nil {
				t.Fatal(err)
			}
		}},
		{name: "already private", setup: func(t *testing.T, dir string) {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				t.Fatal(err)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "data")
			if tt.name == "nested missing" {
				dir = filepath.Join(dir, "a", "b")
			}
			tt.setup(t, dir)

			if err := EnsurePrivateDir(dir); err != nil {
				t.Fatalf("EnsurePrivateDir: %v", err)
			}
			info, err := os.Stat(dir)
			if err != nil {
				t.Fatal(err)
			}
			if !info.IsDir() {
				t.Fatal("expected a directory")
			}
			if runtime.GOOS != "windows" {
				if perm := info.Mode().Perm(); perm != PrivateDirPerm {
					t.Errorf("permissions = %o, want %o", perm, PrivateDirPerm)
				}
			}
		})
	}
}

func TestEnsurePrivateDir_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := EnsurePrivateDir(path); err == nil {
		t.Error("expected an error for a regular file")
	}
}
