// Package dotdir resolves the .aiscore/ directory that holds config.toml,
// credentials.toml, the history database and the last analysis state.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the aiscore directory.
	DirName = ".aiscore"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute path to an .aiscore/ directory.
// Order of precedence is as follows:
//  1. Provided override (created if missing)
//  2. Local ./.aiscore/ dir
//  3. Home ~/.aiscore/ dir
//
// If none of these exist, Target returns "" and callers decide whether to
// fall back to defaults or create ~/.aiscore/ themselves.
func (m *Manager) Target(overrideDir string) (string, error) {
	if overrideDir != "" {
		if err := os.MkdirAll(overrideDir, 0o755); err != nil {
			return "", fmt.Errorf("creating aiscore directory %s: %w", overrideDir, err)
		}
		return filepath.Abs(overrideDir)
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, DirName)
		if isDir(local) {
			return local, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	dir := filepath.Join(home, DirName)
	if isDir(dir) {
		return dir, nil
	}

	return "", nil
}

// Ensure is like Target but creates ~/.aiscore/ when nothing was found.
func (m *Manager) Ensure(overrideDir string) (string, error) {
	target, err := m.Target(overrideDir)
	if err != nil || target != "" {
		return target, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}

	target = filepath.Join(home, DirName)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("creating aiscore dir: %w", err)
	}

	return target, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
