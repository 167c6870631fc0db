package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kitout-sh/kitout/internal/catalog"
	"github.com/kitout-sh/kitout/internal/paths"
)

// releaseInstall downloads a self-contained release archive, unpacks it
// under the method's destination, and links the binary into place. The
// destination is a directory this tool owns, so reinstalling replaces it
// wholesale.
func (b *Backend) releaseInstall(ctx context.Context, m *catalog.ReleaseMethod) error {
	archivePath, err := b.fetcher.DownloadTemp(ctx, m.URL)
	if err != nil {
		return fmt.Errorf("download release: %w", err)
	}
	defer cleanupTemp(archivePath)

	digest, err := FileSHA256(archivePath)
	if err != nil {
		return fmt.Errorf("hash release: %w", err)
	}
	b.log.WithFields(map[string]any{
		"url":    m.URL,
		"sha256": digest,
	}).Info("Downloaded release archive")

	dest := paths.ExpandHome(m.Dest)
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("clear %s: %w", dest, err)
	}
	if err := ExtractTar(archivePath, dest); err != nil {
		return fmt.Errorf("unpack release: %w", err)
	}

	if m.Bin == "" {
		return nil
	}

	binPath := filepath.Join(dest, m.Bin)
	if _, err := os.Stat(binPath); err != nil {
		return fmt.Errorf("release archive from %s has no %s: %w", m.URL, m.Bin, err)
	}
	if err := os.Chmod(binPath, 0o755); err != nil {
		return fmt.Errorf("mark %s executable: %w", binPath, err)
	}

	if m.Link == "" {
		return nil
	}

	link := paths.ExpandHome(m.Link)
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return fmt.Errorf("create link directory: %w", err)
	}
	os.Remove(link)
	if err := os.Symlink(binPath, link); err != nil {
		return fmt.Errorf("link %s -> %s: %w", link, binPath, err)
	}

	b.log.WithFields(map[string]any{
		"bin":  binPath,
		"link": link,
	}).Info("Linked release binary")

	return nil
}

// cleanupTemp removes the temporary directory DownloadTemp created for path.
func cleanupTemp(path string) {
	os.RemoveAll(filepath.Dir(path))
}
