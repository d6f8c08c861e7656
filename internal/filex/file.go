// Package filex holds small filesystem helpers used at startup.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir and any missing parents, resolving a relative path
// against the working directory. It returns the absolute path.
func EnsureDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("empty directory name")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}
