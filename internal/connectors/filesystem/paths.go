package filesystem

import (
	"path/filepath"
	"strings"
)

// DisplayPath renders a ref path relative to the vault root for output.
// Paths outside the root, or paths that cannot be related to it, pass
// through unchanged.
func DisplayPath(root, path string) string {
	if root == "" {
		return path
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
