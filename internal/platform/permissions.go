package platform

import (
	"fmt"
	"os"
	"runtime"
)

// PrivateDirPerm is the mode of directories holding saved settings.
const PrivateDirPerm os.FileMode = 0o700

// EnsurePrivateDir creates dir when missing and narrows an existing one to
// owner-only access. Permission bits are left alone on Windows.
func EnsurePrivateDir(dir string) error {
	if err := os.MkdirAll(dir, PrivateDirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if runtime.GOOS == "windows" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if info.Mode().Perm() == PrivateDirPerm {
		return nil
	}
	if err := os.Chmod(dir, PrivateDirPerm); err != nil {
		return fmt.Errorf("securing %s: %w", dir, err)
	}
	return nil
}
