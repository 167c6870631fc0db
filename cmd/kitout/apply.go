package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kitout-sh/kitout/internal/backend"
	"github.com/kitout-sh/kitout/internal/backup"
	"github.com/kitout-sh/kitout/internal/detect"
	"github.com/kitout-sh/kitout/internal/engine"
	"github.com/kitout-sh/kitout/internal/logger"
	"github.com/kitout-sh/kitout/internal/privilege"
	"github.com/kitout-sh/kitout/internal/prompt"
	"github.com/kitout-sh/kitout/internal/report"
	"github.com/kitout-sh/kitout/internal/tui"
)

type applyOptions struct {
	CatalogPath string
	Yes         bool
	Verbose     bool
}

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Detect, confirm and install the catalog's components",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			return runApply(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.CatalogPath, "catalog", "c", "", "Path to a catalog file (defaults to the embedded catalog)")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Answer every prompt with yes (unattended mode)")

	return cmd
}

func runApply(ctx context.Context, opts applyOptions) error {
	cat, err := loadCatalog(opts.CatalogPath)
	if err != nil {
		return err
	}

	unattended := opts.Yes || !term.IsTerminal(int(os.Stdin.Fd()))
	showTUI := unattended && term.IsTerminal(int(os.Stdout.Fd()))

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	start := time.Now()

	var console io.Writer = os.Stdout
	if showTUI {
		// The live display owns stdout; the transcript still records everything.
		console = io.Discard
	}
	runLog, err := logger.NewRun(logger.RunOptions{Level: level, Console: console, Start: start})
	if err != nil {
		return err
	}
	defer runLog.Close()
	log := runLog.Logger

	b := backend.New(backend.Options{Log: log})
	if err := b.CheckPlatform(); err != nil {
		return err
	}
	if err := privilege.Ensure(ctx, log); err != nil {
		return err
	}
	if err := b.CheckNetwork(ctx); err != nil {
		return err
	}
	privilege.KeepAlive(0, log)

	var gate prompt.Gate
	if unattended {
		gate = prompt.NewUnattended(log)
	} else {
		gate = prompt.NewInteractive(os.Stdin, os.Stdout, log)
	}

	engOpts := engine.Options{
		Catalog: cat,
		Prober:  detect.New(log),
		Backend: b,
		Gate:    gate,
		Backups: backup.NewManager(backup.DefaultRoot(start), log),
		Log:     log,
	}

	var program *tea.Program
	done := make(chan error, 1)
	if showTUI {
		program = tea.NewProgram(tui.NewModel(cat.Name, cat.Components))
		engOpts.Progress = tui.Progress(program.Send)
		go func() {
			_, err := program.Run()
			done <- err
		}()
	}

	rep, runErr := engine.New(engOpts).Run(ctx)

	if program != nil {
		program.Send(tui.RunDoneMsg{})
		if err := <-done; err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return runErr
	}

	rep.LogPath = runLog.Path
	fmt.Fprint(os.Stdout, report.Render(rep))
	return nil
}
