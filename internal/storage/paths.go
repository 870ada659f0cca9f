package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolve turns a user supplied path into an absolute, cleaned path. Relative
// paths are taken from base; "~" and "~/..." expand to the home directory.
func Resolve(base string, userPath string) string {
	trimmed := strings.TrimSpace(userPath)
	if trimmed == "" || trimmed == "." {
		return filepath.Clean(base)
	}

	if trimmed == "~" || strings.HasPrefix(trimmed, "~"+string(filepath.Separator)) || strings.HasPrefix(trimmed, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
		}
	}

	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}

	return filepath.Join(base, trimmed)
}

// IsProtectedRoot reports whether a delete or move target must be refused: the
// literal operands "/" and "..", a filesystem root, or the working directory
// base and any of its ancestors, however they are spelled.
func IsProtectedRoot(base string, userPath string, resolved string) bool {
	switch strings.TrimSpace(userPath) {
	case "/", "..", `\`:
		return true
	}

	cleaned := filepath.Clean(resolved)
	if filepath.Dir(cleaned) == cleaned {
		return true
	}

	return base != "" && IsWithin(cleaned, base)
}

// IsWithin reports whether candidate equals root or lies below it.
func IsWithin(root string, candidate string) bool {
	rootAbs := filepath.Clean(root)
	candidateAbs := filepath.Clean(candidate)
	if candidateAbs == rootAbs {
		return true
	}

	rootWithSeparator := rootAbs
	if !strings.HasSuffix(rootWithSeparator, string(filepath.Separator)) {
		rootWithSeparator += string(filepath.Separator)
	}
	return strings.HasPrefix(candidateAbs, rootWithSeparator)
}

// RelativeDir returns the directory of target relative to base, or "" when target
// sits directly in base or outside of it.
func RelativeDir(base string, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return ""
	}

	dir := filepath.Dir(rel)
	if dir == "." || dir == ".." || strings.HasPrefix(dir, ".."+string(filepath.Separator)) {
		return ""
	}

	return dir
}
