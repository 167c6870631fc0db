package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kitout-sh/kitout/internal/catalog"
	"github.com/kitout-sh/kitout/internal/detect"
	"github.com/kitout-sh/kitout/internal/logger"
	"github.com/kitout-sh/kitout/internal/model"
)

type planOptions struct {
	CatalogPath string
	Verbose     bool
}

func newPlanCmd(root *rootFlags) *cobra.Command {
	opts := planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview what apply would do without changing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			return runPlan(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.CatalogPath, "catalog", "c", "", "Path to a catalog file (defaults to the embedded catalog)")

	return cmd
}

func runPlan(ctx context.Context, out io.Writer, opts planOptions) error {
	cat, err := loadCatalog(opts.CatalogPath)
	if err != nil {
		return err
	}

	// Detection only logs when asked; the preview itself is the output.
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true, Writer: out})
	if err != nil {
		return err
	}

	snap := detect.New(log).Snapshot(ctx, cat.Components)

	fmt.Fprintf(out, "%s — %d components\n\n", cat.Name, len(cat.Components))
	for _, comp := range cat.Components {
		res, _ := snap.Get(comp.ID)
		fmt.Fprintln(out, planLine(comp, res))
	}
	return nil
}

func planLine(comp catalog.Component, res model.DetectionResult) string {
	if res.Present {
		if comp.ConfirmReinstall {
			return fmt.Sprintf("  %-12s present (%s); would offer reinstall via %s", comp.ID, res.Version, comp.Install.Describe())
		}
		return fmt.Sprintf("  %-12s present (%s); would skip", comp.ID, res.Version)
	}

	def := "no"
	if comp.DefaultAnswer() {
		def = "yes"
	}
	line := fmt.Sprintf("  %-12s absent; would prompt to install via %s (default %s)", comp.ID, comp.Install.Describe(), def)
	if comp.Fallback != nil {
		line += fmt.Sprintf(", fallback %s", comp.Fallback.Describe())
	}
	return line
}
