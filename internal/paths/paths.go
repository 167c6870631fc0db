// Package paths centralises where kitout keeps its state on disk and how
// catalog paths with a leading ~ are resolved.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const appName = "kitout"

// StateRoot is the per-user state directory (XDG state home).
func StateRoot() string {
	return filepath.Join(xdg.StateHome, appName)
}

// LogDir holds run transcripts.
func LogDir() string {
	return filepath.Join(StateRoot(), "logs")
}

// BackupRoot holds per-run backup trees.
func BackupRoot() string {
	return filepath.Join(StateRoot(), "backups")
}

// ExpandHome resolves a leading ~ against the current user's home directory.
// Paths without a leading ~ are returned unchanged, as is everything when the
// home directory cannot be determined. The ~user form is not supported.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/"))
}
