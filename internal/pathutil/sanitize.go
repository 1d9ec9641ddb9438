package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// SanitizeOutputPath validates and cleans the path a report is written to.
// The path is made absolute. Symlinks and directories are rejected, and the
// parent directory must already exist.
func SanitizeOutputPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("pathutil: cannot resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("pathutil: refusing to write to symlink: %s", abs)
		}
		if info.IsDir() {
			return "", fmt.Errorf("pathutil: output path is a directory: %s", abs)
		}
	case os.IsNotExist(err):
		parent, perr := os.Stat(filepath.Dir(abs))
		if perr != nil {
			return "", fmt.Errorf("pathutil: output directory: %w", perr)
		}
		if !parent.IsDir() {
			return "", fmt.Errorf("pathutil: output parent is not a directory: %s", filepath.Dir(abs))
		}
	default:
		return "", fmt.Errorf("pathutil: cannot stat path: %w", err)
	}

	return abs, nil
}
