package middleware

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolvePath turns a requested repository path into an absolute path that
// must stay inside base. An empty request means base itself.
func ResolvePath(base, requested string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	if requested == "" {
		return absBase, nil
	}

	// Block dangerous patterns
	dangerous := []string{"$(", "`", "\x00", "\n", "\r"}
	for _, d := range dangerous {
		if strings.Contains(requested, d) {
			return "", fmt.Errorf("invalid characters in path")
		}
	}

	target := requested
	if !filepath.IsAbs(target) {
		target = filepath.Join(absBase, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(absBase, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the served root", requested)
	}
	return target, nil
}
