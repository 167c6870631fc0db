// Package tui renders live step progress for unattended runs.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kitout-sh/kitout/internal/catalog"
	"github.com/kitout-sh/kitout/internal/engine"
	"github.com/kitout-sh/kitout/internal/model"
)

// StepStartMsg indicates a component's step has started.
type StepStartMsg struct {
	ComponentID string
}

// StepDoneMsg reports that a component's step has finished.
type StepDoneMsg struct {
	Outcome model.ActionOutcome
}

// RunDoneMsg signals that the whole reconciliation finished and the display
// should quit.
type RunDoneMsg struct{}

const (
	statusPending = "pending"
	statusRunning = "running"
)

// Model contains the Bubbletea state for the progress display.
type Model struct {
	name      string
	order     []string
	labels    map[string]string
	statuses  map[string]string
	reasons   map[string]string
	spinner   spinner.Model
	total     int
	completed int
	finished  bool
	cancelled bool
}

// NewModel constructs the progress model for the catalog's components.
func NewModel(name string, comps []catalog.Component) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		name:     name,
		labels:   make(map[string]string, len(comps)),
		statuses: make(map[string]string, len(comps)),
		reasons:  make(map[string]string, len(comps)),
		spinner:  s,
	}
	for _, comp := range comps {
		m.order = append(m.order, comp.ID)
		m.labels[comp.ID] = comp.Label
		m.statuses[comp.ID] = statusPending
		m.total++
	}
	return m
}

// Init starts the spinner tick loop.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Progress adapts engine progress events into Bubbletea messages. Pass the
// program's Send so the engine can drive the display from its own goroutine.
func Progress(send func(tea.Msg)) engine.ProgressFunc {
	return func(ev engine.ProgressEvent) {
		if ev.Outcome == nil {
			send(StepStartMsg{ComponentID: ev.Component.ID})
			return
		}
		send(StepDoneMsg{Outcome: *ev.Outcome})
	}
}

// TotalSteps returns the number of steps tracked by the model.
func (m Model) TotalSteps() int {
	return m.total
}

// CompletedSteps returns the number of finished steps.
func (m Model) CompletedSteps() int {
	return m.completed
}

// IsFinished reports whether every step has completed.
func (m Model) IsFinished() bool {
	return m.finished
}

// Cancelled reports whether the operator interrupted the display.
func (m Model) Cancelled() bool {
	return m.cancelled
}
