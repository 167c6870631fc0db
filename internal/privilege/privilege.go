// Package privilege acquires elevated credentials at the start of a run and
// keeps them fresh while installs are in flight.
package privilege

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/kitout-sh/kitout/internal/logger"
	kitouterrors "github.com/kitout-sh/kitout/pkg/errors"
)

// RefreshInterval is how often the keep-alive re-validates the sudo
// timestamp. Sudo's default credential cache is 15 minutes, so 4 keeps a
// comfortable margin.
const RefreshInterval = 4 * time.Minute

// IsRoot reports whether the process already runs with full privileges.
func IsRoot() bool {
	return os.Geteuid() == 0
}

// Ensure validates sudo credentials up front, prompting the operator once if
// needed. Without obtainable privileges the run cannot do anything useful,
// so failure here is fatal.
func Ensure(ctx context.Context, log *logger.Logger) error {
	if IsRoot() {
		log.Debug("Already running as root")
		return nil
	}

	cmd := exec.CommandContext(ctx, "sudo", "-v")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return kitouterrors.NewEnvError("cannot obtain elevated privileges via sudo", err)
	}

	log.Info("Elevated privileges acquired")
	return nil
}

// KeepAlive refreshes the sudo timestamp on a timer so long downloads never
// stall on a re-authentication prompt mid-run. Fire-and-forget: the
// goroutine carries no data back and dies with the process. A failed refresh
// is not fatal; the next privileged command will prompt again.
func KeepAlive(interval time.Duration, log *logger.Logger) {
	if IsRoot() {
		return
	}
	if interval <= 0 {
		interval = RefreshInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if err := exec.Command("sudo", "-nv").Run(); err != nil {
				log.WithFields(map[string]any{"error": err.Error()}).Debug("Privilege refresh failed")
			}
		}
	}()
}
