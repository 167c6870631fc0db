package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kitout-sh/kitout/internal/catalog"
)

// aptInstall installs distribution packages non-interactively.
func (b *Backend) aptInstall(ctx context.Context, m *catalog.AptMethod) error {
	if m.Update {
		if err := b.aptUpdate(ctx); err != nil {
			return err
		}
	}
	return b.installPackages(ctx, m.Packages)
}

func (b *Backend) aptUpdate(ctx context.Context) error {
	res, err := b.runner.Sudo(ctx, "apt-get", "update")
	if err != nil {
		return fmt.Errorf("apt-get update: %s: %w", res.PrimaryOutput(), err)
	}
	return nil
}

func (b *Backend) installPackages(ctx context.Context, packages []string) error {
	args := append([]string{
		"DEBIAN_FRONTEND=noninteractive",
		"apt-get", "install", "-y",
	}, packages...)

	res, err := b.runner.Sudo(ctx, args...)
	if err != nil {
		return fmt.Errorf("apt-get install %s: %s: %w", strings.Join(packages, " "), res.PrimaryOutput(), err)
	}

	b.log.WithFields(map[string]any{"packages": strings.Join(packages, " ")}).Info("Installed apt packages")
	return nil
}

// aptRepoInstall registers an external apt repository (signing key plus
// sources entry), refreshes the index, and installs the packages from it.
func (b *Backend) aptRepoInstall(ctx context.Context, m *catalog.AptRepoMethod) error {
	keyFile, err := b.fetcher.DownloadTemp(ctx, m.KeyURL)
	if err != nil {
		return fmt.Errorf("download signing key: %w", err)
	}
	defer cleanupTemp(keyFile)

	keyDest := filepath.Join("/etc/apt/keyrings", m.ListName+".asc")
	if res, err := b.runner.Sudo(ctx, "install", "-D", "-m", "0644", keyFile, keyDest); err != nil {
		return fmt.Errorf("install signing key: %s: %w", res.PrimaryOutput(), err)
	}

	line, err := b.repoLine(m.Repo)
	if err != nil {
		return err
	}

	listDest := filepath.Join("/etc/apt/sources.list.d", m.ListName+".list")
	writeList := fmt.Sprintf("echo %q > %s", line, listDest)
	if res, err := b.runner.Sudo(ctx, "sh", "-c", writeList); err != nil {
		return fmt.Errorf("write sources list: %s: %w", res.PrimaryOutput(), err)
	}

	b.log.WithFields(map[string]any{
		"list": listDest,
		"repo": line,
	}).Info("Registered apt repository")

	if err := b.aptUpdate(ctx); err != nil {
		return err
	}
	return b.installPackages(ctx, m.Packages)
}

// repoLine substitutes the {{codename}} placeholder with the host's release
// codename so one catalog entry serves every supported release.
func (b *Backend) repoLine(template string) (string, error) {
	if !strings.Contains(template, "{{codename}}") {
		return template, nil
	}

	rel, err := ParseOSRelease(b.osRelease)
	if err != nil {
		return "", fmt.Errorf("resolve release codename: %w", err)
	}
	if rel.Codename == "" {
		return "", fmt.Errorf("resolve release codename: VERSION_CODENAME missing from %s", b.osRelease)
	}
	return strings.ReplaceAll(template, "{{codename}}", rel.Codename), nil
}
