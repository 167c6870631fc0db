// Package detect probes the host for the presence and version of catalog
// components. Probes are side-effect free and safe to repeat within a run.
package detect

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/kitout-sh/kitout/internal/catalog"
	"github.com/kitout-sh/kitout/internal/logger"
	"github.com/kitout-sh/kitout/internal/model"
	"github.com/kitout-sh/kitout/internal/paths"
)

// Detector resolves a component's DetectSpec against the host.
type Detector struct {
	log *logger.Logger
}

// New creates a Detector.
func New(log *logger.Logger) *Detector {
	return &Detector{log: log}
}

// Detect probes one component. Absence is a normal result, never an error:
// a component is present when its command resolves on PATH or its marker
// path exists. Present components get their version probed; a failed or
// unusable version probe degrades to a generic descriptor, not to absence.
func (d *Detector) Detect(ctx context.Context, comp catalog.Component) model.DetectionResult {
	if comp.Detect.Command != "" {
		if bin, err := exec.LookPath(comp.Detect.Command); err == nil {
			return model.Found(comp.ID, d.probeVersion(ctx, bin, comp.Detect.VersionArgs))
		}
	}

	if comp.Detect.Marker != "" {
		marker := paths.ExpandHome(comp.Detect.Marker)
		if _, err := os.Stat(marker); err == nil {
			return model.Found(comp.ID, "")
		}
	}

	return model.Absent(comp.ID)
}

// Snapshot probes every component in order and captures the results.
func (d *Detector) Snapshot(ctx context.Context, comps []catalog.Component) model.Snapshot {
	results := make([]model.DetectionResult, 0, len(comps))
	for _, comp := range comps {
		res := d.Detect(ctx, comp)
		d.log.WithFields(map[string]any{
			"component": res.ComponentID,
			"present":   res.Present,
			"version":   res.Version,
		}).Debug("Probed component")
		results = append(results, res)
	}
	return model.NewSnapshot(time.Now(), results)
}

func (d *Detector) probeVersion(ctx context.Context, bin string, args []string) string {
	if len(args) == 0 {
		return ""
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	out, err := cmd.Output()
	if err != nil {
		return ""
	}

	return firstLine(string(out))
}

// firstLine keeps the first non-empty line of a version probe's output.
// Tools like nvim print multi-line banners; only the headline matters.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
