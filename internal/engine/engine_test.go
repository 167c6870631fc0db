package engine

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitout-sh/kitout/internal/backup"
	"github.com/kitout-sh/kitout/internal/catalog"
	"github.com/kitout-sh/kitout/internal/model"
	"github.com/kitout-sh/kitout/internal/prompt"
)

// fakeProber serves detection results from an in-memory state map. Absent is
// the default for unknown components, mirroring the real detector.
type fakeProber struct {
	state  map[string]model.DetectionResult
	probes []string
}

func newFakeProber(results ...model.DetectionResult) *fakeProber {
	p := &fakeProber{state: make(map[string]model.DetectionResult)}
	for _, res := range results {
		p.state[res.ComponentID] = res
	}
	return p
}

func (p *fakeProber) set(res model.DetectionResult) {
	p.state[res.ComponentID] = res
}

func (p *fakeProber) Detect(_ context.Context, comp catalog.Component) model.DetectionResult {
	p.probes = append(p.probes, comp.ID)
	if res, ok := p.state[comp.ID]; ok {
		return res
	}
	return model.Absent(comp.ID)
}

func (p *fakeProber) Snapshot(ctx context.Context, comps []catalog.Component) model.Snapshot {
	results := make([]model.DetectionResult, 0, len(comps))
	for _, comp := range comps {
		results = append(results, p.Detect(ctx, comp))
	}
	return model.NewSnapshot(time.Now(), results)
}

// fakeWorld is a Backend whose installs flip the paired prober's state to
// present. Methods are identified by their URL ("<component>/primary" or
// "<component>/fallback") so tests can fail them selectively.
type fakeWorld struct {
	prober    *fakeProber
	installs  []string
	adjusts   []string
	fail      map[string]error
	noMark    map[string]bool
	adjustErr error
	onInstall func(m *catalog.InstallMethod)
}

func newWorld() *fakeWorld {
	return &fakeWorld{
		prober: newFakeProber(),
		fail:   make(map[string]error),
		noMark: make(map[string]bool),
	}
}

func methodRef(m *catalog.InstallMethod) string {
	switch m.Kind {
	case catalog.KindScript:
		return m.Script.URL
	case catalog.KindClone:
		return m.Clone.URL
	}
	return m.Kind
}

func (w *fakeWorld) Install(_ context.Context, m *catalog.InstallMethod) error {
	ref := methodRef(m)
	w.installs = append(w.installs, ref)
	if w.onInstall != nil {
		w.onInstall(m)
	}
	if err := w.fail[ref]; err != nil {
		return err
	}
	id, _, _ := strings.Cut(ref, "/")
	if !w.noMark[id] {
		w.prober.set(model.Found(id, "1.0"))
	}
	return nil
}

func (w *fakeWorld) Adjust(_ context.Context, comp catalog.Component) error {
	w.adjusts = append(w.adjusts, comp.ID)
	return w.adjustErr
}

// fakeGate records every question and answers from a scripted reply list.
// Once the replies run out it answers with the default, like an operator
// pressing enter.
type fakeGate struct {
	replies   []bool
	questions []string
	defaults  []bool
}

func (g *fakeGate) Confirm(question string, def bool) bool {
	g.questions = append(g.questions, question)
	g.defaults = append(g.defaults, def)
	if len(g.replies) == 0 {
		return def
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply
}

func component(id string) catalog.Component {
	return catalog.Component{
		ID:    id,
		Label: id,
		Install: catalog.InstallMethod{
			Kind:   catalog.KindScript,
			Script: &catalog.ScriptMethod{URL: id + "/primary"},
		},
	}
}

func withFallback(comp catalog.Component) catalog.Component {
	comp.Fallback = &catalog.InstallMethod{
		Kind:  catalog.KindClone,
		Clone: &catalog.CloneMethod{URL: comp.ID + "/fallback", Dest: "/tmp/" + comp.ID},
	}
	return comp
}

func newTestEngine(t *testing.T, comps []catalog.Component, w *fakeWorld, gate prompt.Gate) (*Engine, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "backups")
	eng := New(Options{
		Catalog: &catalog.Catalog{Version: "1", Name: "test", Components: comps},
		Prober:  w.prober,
		Backend: w,
		Gate:    gate,
		Backups: backup.NewManager(root, nil),
	})
	return eng, root
}

func TestRunContinuesPastFailures(t *testing.T) {
	t.Parallel()

	w := newWorld()
	w.fail["bravo/primary"] = errors.New("exit status 100")
	comps := []catalog.Component{component("alpha"), component("bravo"), component("charlie")}

	eng, _ := newTestEngine(t, comps, w, &fakeGate{})
	report, err := eng.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, "alpha", report.Outcomes[0].ComponentID)
	assert.Equal(t, "bravo", report.Outcomes[1].ComponentID)
	assert.Equal(t, "charlie", report.Outcomes[2].ComponentID)
	assert.Equal(t, model.ActionSucceeded, report.Outcomes[0].Status)
	assert.Equal(t, model.ActionFailed, report.Outcomes[1].Status)
	assert.Equal(t, model.ActionSucceeded, report.Outcomes[2].Status)

	// The post snapshot still covers every component.
	require.Equal(t, 3, report.Post.Len())
	res, ok := report.Post.Get("charlie")
	require.True(t, ok)
	assert.True(t, res.Present)
}

func TestRunClassifiesTransitions(t *testing.T) {
	t.Parallel()

	w := newWorld()
	w.prober.set(model.Found("bravo", "0.9"))
	w.prober.set(model.Found("charlie", "2.0"))
	w.prober.set(model.Found("echo", "5.1"))

	// echo disappears mid-run, as if something external removed it.
	w.onInstall = func(m *catalog.InstallMethod) {
		if methodRef(m) == "alpha/primary" {
			w.prober.set(model.Absent("echo"))
		}
	}

	bravo := component("bravo")
	bravo.ConfirmReinstall = true

	comps := []catalog.Component{
		component("alpha"),   // absent, approved
		bravo,                // present 0.9, reinstall approved
		component("charlie"), // present, silently skipped
		component("delta"),   // absent, declined
		component("echo"),    // present, vanishes externally
	}

	// Replies consumed in prompt order: alpha install, bravo reinstall,
	// delta install. charlie and echo never prompt.
	gate := &fakeGate{replies: []bool{true, true, false}}

	eng, _ := newTestEngine(t, comps, w, gate)
	report, err := eng.Run(context.Background())
	require.NoError(t, err)

	kinds := make(map[string]model.ClassificationKind, len(report.Classifications))
	for _, entry := range report.Classifications {
		kinds[entry.ComponentID] = entry.Kind
	}
	assert.Equal(t, model.ClassNewlyInstalled, kinds["alpha"])
	assert.Equal(t, model.ClassUpgraded, kinds["bravo"])
	assert.Equal(t, model.ClassUnchanged, kinds["charlie"])
	assert.Equal(t, model.ClassStillAbsent, kinds["delta"])
	assert.Equal(t, model.ClassVanished, kinds["echo"])

	assert.Equal(t, []string{"alpha", "bravo"}, report.Succeeded())
	assert.Empty(t, report.Backups)
	assert.Empty(t, report.BackupRoot)
}

func TestRunUnattendedApprovesEverything(t *testing.T) {
	t.Parallel()

	w := newWorld()
	w.prober.set(model.Found("charlie", "2.0"))

	optional := component("bravo")
	optional.Category = catalog.CategoryOptional
	reinstall := component("charlie")
	reinstall.ConfirmReinstall = true

	comps := []catalog.Component{component("alpha"), optional, reinstall}

	eng, _ := newTestEngine(t, comps, w, prompt.NewUnattended(nil))
	report, err := eng.Run(context.Background())
	require.NoError(t, err)

	for _, out := range report.Outcomes {
		assert.Equal(t, model.ActionSucceeded, out.Status, out.ComponentID)
	}
	assert.Len(t, w.installs, 3)
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	w := newWorld()
	comps := []catalog.Component{component("alpha"), component("bravo")}

	eng, _ := newTestEngine(t, comps, w, prompt.NewUnattended(nil))
	first, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "bravo"}, first.Succeeded())
	installed := len(w.installs)

	second, err := eng.Run(context.Background())
	require.NoError(t, err)

	for _, out := range second.Outcomes {
		assert.Equal(t, model.ActionSkipped, out.Status, out.ComponentID)
		assert.Contains(t, out.Reason, "already present")
	}
	for _, entry := range second.Classifications {
		assert.Equal(t, model.ClassUnchanged, entry.Kind, entry.ComponentID)
	}
	assert.Len(t, w.installs, installed, "second run must not install anything")
}

func TestRunReportsBackups(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	rcPath := filepath.Join(home, ".zshrc")
	writeFile(t, rcPath, "export EDITOR=vim\n")

	comp := component("alpha")
	comp.BackupPaths = []string{rcPath}

	w := newWorld()
	eng, root := newTestEngine(t, []catalog.Component{comp}, w, prompt.NewUnattended(nil))
	report, err := eng.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Backups, 1)
	assert.Equal(t, rcPath, report.Backups[0].Source)
	assert.Equal(t, root, report.BackupRoot)
}

func TestRunEmitsProgressEvents(t *testing.T) {
	t.Parallel()

	w := newWorld()
	comps := []catalog.Component{component("alpha"), component("bravo")}

	var events []ProgressEvent
	root := filepath.Join(t.TempDir(), "backups")
	eng := New(Options{
		Catalog:  &catalog.Catalog{Version: "1", Name: "test", Components: comps},
		Prober:   w.prober,
		Backend:  w,
		Gate:     prompt.NewUnattended(nil),
		Backups:  backup.NewManager(root, nil),
		Progress: func(ev ProgressEvent) { events = append(events, ev) },
	})

	_, err := eng.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, events, 4)
	assert.Equal(t, "alpha", events[0].Component.ID)
	assert.Nil(t, events[0].Outcome)
	require.NotNil(t, events[1].Outcome)
	assert.Equal(t, model.ActionSucceeded, events[1].Outcome.Status)
	assert.Equal(t, "bravo", events[2].Component.ID)
	assert.Equal(t, 2, events[2].Total)
	assert.Equal(t, 1, events[2].Index)
	require.NotNil(t, events[3].Outcome)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := newWorld()
	eng, _ := newTestEngine(t, []catalog.Component{component("alpha")}, w, &fakeGate{})
	report, err := eng.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
	assert.Empty(t, w.installs)
}
