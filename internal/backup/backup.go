// Package backup preserves files and directories before an install
// overwrites them. Backups are copies under a run-scoped root; nothing is
// ever deleted automatically.
package backup

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/kitout-sh/kitout/internal/logger"
	"github.com/kitout-sh/kitout/internal/model"
	"github.com/kitout-sh/kitout/internal/paths"
)

// backupStamp disambiguates same-named paths backed up within one second.
const backupStamp = "20060102-150405.000000000"

// Manager copies paths into a per-run backup root before they are touched.
// The root is created lazily on the first backup, so runs that overwrite
// nothing leave no empty directories behind.
type Manager struct {
	root    string
	log     *logger.Logger
	records []model.BackupRecord
}

// NewManager creates a Manager writing beneath root.
func NewManager(root string, log *logger.Logger) *Manager {
	return &Manager{root: root, log: log}
}

// DefaultRoot returns a run-scoped backup root named from the run's start.
func DefaultRoot(start time.Time) string {
	return filepath.Join(paths.BackupRoot(), start.Format("20060102-150405"))
}

// Root returns the backup root path.
func (m *Manager) Root() string {
	return m.root
}

// Records lists the backups taken so far, in order.
func (m *Manager) Records() []model.BackupRecord {
	out := make([]model.BackupRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Backup copies the file or directory tree at path into the backup root.
// A missing path returns (nil, nil): backing up something that is not there
// is not an error. The source is never mutated. Copy failures surface as
// errors for the caller to fail its own step on.
func (m *Manager) Backup(path string) (*model.BackupRecord, error) {
	src := paths.ExpandHome(path)

	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", src, err)
	}

	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return nil, fmt.Errorf("create backup root: %w", err)
	}

	now := time.Now()
	dest := filepath.Join(m.root, fmt.Sprintf("%s-%s", filepath.Base(src), now.Format(backupStamp)))

	if info.IsDir() {
		err = copyTree(src, dest)
	} else {
		err = copyFile(src, dest, info.Mode())
	}
	if err != nil {
		return nil, fmt.Errorf("back up %s: %w", src, err)
	}

	record := model.BackupRecord{Source: src, Dest: dest, CreatedAt: now}
	m.records = append(m.records, record)

	m.log.WithFields(map[string]any{
		"source": record.Source,
		"dest":   record.Dest,
	}).Info("Backed up path")

	return &record, nil
}

func copyTree(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}

	return filepath.Walk(src, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip the root source directory to avoid nesting it inside dst.
		if path == src {
			return nil
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}

		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, mode fs.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	return os.Chmod(dst, mode)
}
