// Package engine sequences installer steps over the catalog and derives the
// run report from before and after snapshots.
package engine

import (
	"context"
	"time"

	"github.com/kitout-sh/kitout/internal/backup"
	"github.com/kitout-sh/kitout/internal/catalog"
	"github.com/kitout-sh/kitout/internal/logger"
	"github.com/kitout-sh/kitout/internal/model"
	"github.com/kitout-sh/kitout/internal/prompt"
)

// Prober resolves the installed state of components. Detection is read-only
// and absence is a normal result.
type Prober interface {
	Detect(ctx context.Context, comp catalog.Component) model.DetectionResult
	Snapshot(ctx context.Context, comps []catalog.Component) model.Snapshot
}

// Backend executes install methods and post-install user adjustments.
type Backend interface {
	Install(ctx context.Context, method *catalog.InstallMethod) error
	Adjust(ctx context.Context, comp catalog.Component) error
}

// ProgressEvent reports step lifecycle to an optional observer. Outcome is
// nil when the step is starting and set once it has finished.
type ProgressEvent struct {
	Index     int
	Total     int
	Component catalog.Component
	Outcome   *model.ActionOutcome
}

// ProgressFunc receives progress events in execution order.
type ProgressFunc func(ProgressEvent)

// Engine runs every catalog component through its installer step in catalog
// order and assembles the final run report.
type Engine struct {
	catalog  *catalog.Catalog
	prober   Prober
	backend  Backend
	gate     prompt.Gate
	backups  *backup.Manager
	log      *logger.Logger
	progress ProgressFunc
}

// Options configures an Engine. Catalog, Prober, Backend, Gate and Backups
// are required; Log and Progress may be nil.
type Options struct {
	Catalog  *catalog.Catalog
	Prober   Prober
	Backend  Backend
	Gate     prompt.Gate
	Backups  *backup.Manager
	Log      *logger.Logger
	Progress ProgressFunc
}

// New creates an engine from the given options.
func New(opts Options) *Engine {
	return &Engine{
		catalog:  opts.Catalog,
		prober:   opts.Prober,
		backend:  opts.Backend,
		gate:     opts.Gate,
		backups:  opts.Backups,
		log:      opts.Log,
		progress: opts.Progress,
	}
}

// Run executes the reconciliation: pre-run snapshot, one gated step per
// component in catalog order, post-run snapshot, classification. A failing
// step never aborts the run; the only error Run returns is the context's.
func (e *Engine) Run(ctx context.Context) (*model.RunReport, error) {
	comps := e.catalog.Components
	started := time.Now()
	e.log.WithFields(map[string]any{"components": len(comps)}).Info("Starting reconciliation")

	pre := e.prober.Snapshot(ctx, comps)
	e.log.WithFields(map[string]any{"present": presentCount(pre)}).Debug("Captured pre-run snapshot")

	outcomes := make([]model.ActionOutcome, 0, len(comps))
	for i, comp := range comps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.emit(ProgressEvent{Index: i, Total: len(comps), Component: comp})
		out := e.newStep(comp).Run(ctx)
		outcomes = append(outcomes, out)
		e.emit(ProgressEvent{Index: i, Total: len(comps), Component: comp, Outcome: &out})
	}

	post := e.prober.Snapshot(ctx, comps)

	report := &model.RunReport{
		StartedAt:       started,
		FinishedAt:      time.Now(),
		Pre:             pre,
		Post:            post,
		Outcomes:        outcomes,
		Classifications: model.Classify(pre, post),
	}
	for _, entry := range report.Classifications {
		if entry.Kind == model.ClassVanished {
			e.log.WithFields(map[string]any{
				"component": entry.ComponentID,
				"was":       entry.From,
			}).Warn("Component present before the run is now missing")
		}
	}
	if e.backups != nil {
		report.Backups = e.backups.Records()
		if len(report.Backups) > 0 {
			report.BackupRoot = e.backups.Root()
		}
	}

	fields := map[string]any{"duration": report.Duration().Round(time.Millisecond).String()}
	for status, n := range tally(outcomes) {
		fields[string(status)] = n
	}
	e.log.WithFields(fields).Info("Reconciliation finished")
	return report, nil
}

func (e *Engine) newStep(comp catalog.Component) *Step {
	return &Step{
		comp:    comp,
		prober:  e.prober,
		backend: e.backend,
		gate:    e.gate,
		backups: e.backups,
		log:     e.log,
	}
}

func (e *Engine) emit(ev ProgressEvent) {
	if e.progress != nil {
		e.progress(ev)
	}
}

func presentCount(snap model.Snapshot) int {
	n := 0
	for _, id := range snap.IDs() {
		if res, ok := snap.Get(id); ok && res.Present {
			n++
		}
	}
	return n
}

func tally(outcomes []model.ActionOutcome) map[model.ActionStatus]int {
	counts := make(map[model.ActionStatus]int, 4)
	for _, out := range outcomes {
		counts[out.Status]++
	}
	return counts
}
