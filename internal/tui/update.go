package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and advances the display state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case StepStartMsg:
		if _, tracked := m.statuses[msg.ComponentID]; tracked {
			m.statuses[msg.ComponentID] = statusRunning
		}
		return m, nil
	case StepDoneMsg:
		id := msg.Outcome.ComponentID
		status, tracked := m.statuses[id]
		if !tracked || (status != statusPending && status != statusRunning) {
			return m, nil
		}
		m.statuses[id] = string(msg.Outcome.Status)
		m.reasons[id] = msg.Outcome.Reason
		m.completed++
		if m.completed >= m.total {
			m.finished = true
		}
		return m, nil
	case RunDoneMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	}

	return m, nil
}
