// Package fsutil holds small filesystem helpers shared by the stores that
// keep rcpilot's files under the state directory.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadFileScoped reads a file through a root opened at its parent directory,
// so a symlink or ".." component cannot escape the state directory.
func ReadFileScoped(path string) ([]byte, error) {
	cleaned := filepath.Clean(path)
	dir := filepath.Dir(cleaned)
	base := filepath.Base(cleaned)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid file path: %q", path)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	file, err := root.Open(base)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// EnsureParent creates the parent directory of path with owner and group
// access only. State files sit next to daemon credentials, so the directory
// is not world-readable.
func EnsureParent(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o750)
}
