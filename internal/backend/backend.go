// Package backend performs install methods against the host: apt packages,
// external apt repositories, installer scripts, release archives, and git
// clones. The engine treats it as the opaque installer the catalog's methods
// run against.
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kitout-sh/kitout/internal/catalog"
	"github.com/kitout-sh/kitout/internal/logger"
)

// Backend executes catalog install methods on the host.
type Backend struct {
	runner    *Runner
	fetcher   *Fetcher
	log       *logger.Logger
	osRelease string
	probes    []string
}

// Options configures a Backend. Zero values pick production defaults; tests
// override the writers, client, os-release path, and network probes.
type Options struct {
	Log       *logger.Logger
	Stdout    io.Writer
	Stderr    io.Writer
	Client    *http.Client
	OSRelease string
	Probes    []string
}

// New creates a Backend.
func New(opts Options) *Backend {
	release := opts.OSRelease
	if release == "" {
		release = osReleasePath
	}

	probes := opts.Probes
	if len(probes) == 0 {
		probes = networkProbes
	}

	return &Backend{
		runner:    NewRunner(opts.Log, opts.Stdout, opts.Stderr),
		fetcher:   NewFetcher(opts.Client, opts.Log),
		log:       opts.Log,
		osRelease: release,
		probes:    probes,
	}
}

// Install runs one install method to completion. Errors carry enough context
// for the step to decide between fallback and failure.
func (b *Backend) Install(ctx context.Context, method *catalog.InstallMethod) error {
	switch method.Kind {
	case catalog.KindApt:
		if method.Apt == nil {
			return fmt.Errorf("apt configuration missing")
		}
		return b.aptInstall(ctx, method.Apt)
	case catalog.KindAptRepo:
		if method.AptRepo == nil {
			return fmt.Errorf("apt-repo configuration missing")
		}
		return b.aptRepoInstall(ctx, method.AptRepo)
	case catalog.KindScript:
		if method.Script == nil {
			return fmt.Errorf("script configuration missing")
		}
		return b.scriptInstall(ctx, method.Script)
	case catalog.KindRelease:
		if method.Release == nil {
			return fmt.Errorf("release configuration missing")
		}
		return b.releaseInstall(ctx, method.Release)
	case catalog.KindClone:
		if method.Clone == nil {
			return fmt.Errorf("clone configuration missing")
		}
		return b.cloneInstall(ctx, method.Clone)
	default:
		return fmt.Errorf("unknown install kind %q", method.Kind)
	}
}
