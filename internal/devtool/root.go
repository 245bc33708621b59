// Package devtool discovers the projects of the repository and sets them up,
// launches them and cleans their build artifacts.
package devtool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultMarker identifies the repository root.
const DefaultMarker = ".git"

var ErrRootNotFound = errors.New("could not find project root; make sure you are inside the repository")

// FindRoot walks up from start until it finds a directory containing marker.
func FindRoot(start, marker string) (string, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (no %s above %s)", ErrRootNotFound, marker, start)
		}
		dir = parent
	}
}
