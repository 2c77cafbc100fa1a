// Package sandbox resolves tool path arguments against a fixed workspace
// root and rejects anything that would escape it.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sandbox pins every path resolution to a single canonical root directory.
type Sandbox struct {
	root string
}

// New canonicalizes workDir (resolving symlinks) and returns a Sandbox
// rooted there. The directory must already exist.
func New(workDir string) (*Sandbox, error) {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	info, err := os.Stat(real)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", real)
	}
	return &Sandbox{root: filepath.Clean(real)}, nil
}

// Root returns the canonical workspace root.
func (s *Sandbox) Root() string {
	return s.root
}

// Resolve maps a tool-supplied path argument onto an absolute, canonical
// path and verifies it is the workspace root or lives beneath it. Symlinks
// are followed; when the target does not yet exist (e.g. a file about to
// be written) symlinks are resolved as far as the existing prefix allows.
func (s *Sandbox) Resolve(rawPath string) (string, error) {
	candidate := rawPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(s.root, candidate)
	}
	candidate = filepath.Clean(candidate)

	resolved, err := resolveExistingPrefix(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	if !s.contains(resolved) {
		return "", fmt.Errorf("'%s' is outside the workspace", rawPath)
	}
	return resolved, nil
}

func (s *Sandbox) contains(path string) bool {
	if path == s.root {
		return true
	}
	return len(path) > len(s.root) &&
		path[:len(s.root)] == s.root &&
		path[len(s.root)] == filepath.Separator
}

// resolveExistingPrefix follows symlinks for the longest existing prefix of
// path, then rejoins any remaining (not-yet-created) suffix unresolved.
func resolveExistingPrefix(path string) (string, error) {
	if _, err := os.Lstat(path); err == nil {
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			return "", err
		}
		return filepath.Clean(real), nil
	}

	parent := filepath.Dir(path)
	if parent == path {
		// Reached the filesystem root without finding an existing entry.
		return filepath.Clean(path), nil
	}
	realParent, err := resolveExistingPrefix(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(realParent, filepath.Base(path)), nil
}
