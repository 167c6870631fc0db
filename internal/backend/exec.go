package backend

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/kitout-sh/kitout/internal/logger"
)

// Result captures stdout/stderr emitted by a finished command.
type Result struct {
	Stdout string
	Stderr string
}

// PrimaryOutput returns stderr if present, otherwise stdout. Install tools
// tend to put the useful failure text on stderr.
func (r Result) PrimaryOutput() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	return r.Stdout
}

// Runner executes external commands, streaming their output to the run's
// console while collecting it for later inspection.
type Runner struct {
	log    *logger.Logger
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a Runner streaming to the given writers. Nil writers
// default to the process's own stdout/stderr.
func NewRunner(log *logger.Logger, stdout, stderr io.Writer) *Runner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{log: log, stdout: stdout, stderr: stderr}
}

// Run executes a command, wiring its output through to the console while
// capturing it.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdoutBuf, stderrBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.MultiWriter(r.stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(r.stderr, &stderrBuf)

	r.log.WithFields(map[string]any{
		"command": name,
		"args":    strings.Join(args, " "),
	}).Debug("Running command")

	err := cmd.Run()

	return Result{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}, err
}

// Sudo executes a command with elevated privileges. When already root the
// command runs through env(1) instead, so VAR=value prefix arguments keep
// working in both paths.
func (r *Runner) Sudo(ctx context.Context, args ...string) (Result, error) {
	if os.Geteuid() == 0 {
		return r.Run(ctx, "env", args...)
	}
	return r.Run(ctx, "sudo", args...)
}
