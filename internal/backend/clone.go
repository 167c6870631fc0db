package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"

	"github.com/kitout-sh/kitout/internal/catalog"
	"github.com/kitout-sh/kitout/internal/paths"
)

// cloneInstall clones a repository to the method's destination. An existing
// destination is replaced: reaching this point means either the tool was
// absent or the operator confirmed a reinstall.
func (b *Backend) cloneInstall(ctx context.Context, m *catalog.CloneMethod) error {
	dest := paths.ExpandHome(m.Dest)

	if _, err := os.Stat(dest); err == nil {
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("remove existing %s: %w", dest, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create clone parent directory: %w", err)
	}

	opts := &git.CloneOptions{
		URL:      m.URL,
		Progress: b.runner.stdout,
	}
	if m.Depth > 0 {
		opts.Depth = m.Depth
	}

	if _, err := git.PlainCloneContext(ctx, dest, false, opts); err != nil {
		return fmt.Errorf("clone %s: %w", m.URL, err)
	}

	b.log.WithFields(map[string]any{
		"url":  m.URL,
		"dest": dest,
	}).Info("Cloned repository")

	return nil
}
