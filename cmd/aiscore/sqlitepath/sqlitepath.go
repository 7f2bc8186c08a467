// Package sqlitepath resolves where the SQLite history database lives.
package sqlitepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/papercomputeco/aiscore/pkg/dotdir"
)

// DefaultFileName is the history database file inside the .aiscore/ dir.
const DefaultFileName = "history.db"

// ResolveSQLitePath returns override when set, then an existing database under
// $XDG_DATA_HOME/aiscore, then history.db in the resolved .aiscore/ dir
// (creating the directory when needed).
func ResolveSQLitePath(override, configDir string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		return override, nil
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidate := filepath.Join(xdgHome, "aiscore", DefaultFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	dir, err := dotdir.NewManager().Ensure(configDir)
	if err != nil {
		return "", fmt.Errorf("resolving history database: %w", err)
	}

	return filepath.Join(dir, DefaultFileName), nil
}
