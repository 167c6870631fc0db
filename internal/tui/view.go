package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/kitout-sh/kitout/internal/model"
)

// View renders the current state of the progress display.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("kitout • %s", m.title())))
	sections = append(sections, progressView(m.total, m.completed))

	var lines []string
	for _, id := range m.order {
		line := fmt.Sprintf(" %s %s", m.icon(id), m.labels[id])
		if reason := m.reasons[id]; strings.TrimSpace(reason) != "" {
			line = fmt.Sprintf("%s — %s", line, reason)
		}
		lines = append(lines, line)
	}
	if len(lines) > 0 {
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if m.cancelled {
		sections = append(sections, footerStyle.Render("Interrupted."))
	} else if m.finished {
		sections = append(sections, footerStyle.Render("All steps finished."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) title() string {
	if strings.TrimSpace(m.name) != "" {
		return m.name
	}
	return "provisioning"
}

func (m Model) icon(id string) string {
	switch m.statuses[id] {
	case statusRunning:
		return m.spinner.View()
	case string(model.ActionSucceeded):
		return successStyle.Render("✓")
	case string(model.ActionSkipped):
		return skippedStyle.Render("⊘")
	case string(model.ActionFailed):
		return failureStyle.Render("✗")
	case string(model.ActionUnverified):
		return failureStyle.Render("?")
	}
	return pendingStyle.Render("…")
}

func progressView(total, completed int) string {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30
	ratio := 0.0
	if total > 0 {
		ratio = math.Min(1.0, float64(completed)/float64(total))
	}
	label := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d/%d", completed, total))
	return lipgloss.JoinHorizontal(lipgloss.Left, label, " ", bar.ViewAs(ratio))
}
