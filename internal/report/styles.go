package report

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)

	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	upgradedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	absentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failureStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	anomalyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true)
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	noteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).MarginTop(1)
)
