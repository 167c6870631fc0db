package backend

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kitout-sh/kitout/internal/catalog"
)

// scriptInstall follows the download-then-verify pattern: fetch the installer
// script, sanity-check the payload, verify the pinned digest when one is
// configured, then run it.
func (b *Backend) scriptInstall(ctx context.Context, m *catalog.ScriptMethod) error {
	scriptPath, err := b.fetcher.DownloadTemp(ctx, m.URL)
	if err != nil {
		return fmt.Errorf("download installer: %w", err)
	}
	defer cleanupTemp(scriptPath)

	if err := verifyScript(scriptPath); err != nil {
		return fmt.Errorf("verify installer from %s: %w", m.URL, err)
	}

	digest, err := FileSHA256(scriptPath)
	if err != nil {
		return fmt.Errorf("hash installer: %w", err)
	}
	// The digest always goes on record so a run can be audited even when no
	// pin is configured.
	b.log.WithFields(map[string]any{
		"url":    m.URL,
		"sha256": digest,
	}).Info("Verified installer script")

	if m.SHA256 != "" && !strings.EqualFold(digest, m.SHA256) {
		return fmt.Errorf("installer from %s: sha256 mismatch: got %s, want %s", m.URL, digest, m.SHA256)
	}

	args := append([]string{"bash", scriptPath}, m.Args...)

	var res Result
	if m.Sudo {
		res, err = b.runner.Sudo(ctx, args...)
	} else {
		res, err = b.runner.Run(ctx, args[0], args[1:]...)
	}
	if err != nil {
		return fmt.Errorf("installer script failed: %s: %w", res.PrimaryOutput(), err)
	}

	return nil
}

// verifyScript rejects payloads that cannot be an installer script: empty
// downloads and HTML error pages served with a 200 status.
func verifyScript(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return fmt.Errorf("empty download")
	}
	if strings.HasPrefix(trimmed, "<") {
		return fmt.Errorf("payload looks like HTML, not a shell script")
	}
	return nil
}
