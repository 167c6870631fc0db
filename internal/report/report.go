// Package report renders the end-of-run summary from a run report: what each
// step did, how every component's state changed, and where the backups and
// the full log ended up.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kitout-sh/kitout/internal/model"
)

// Render produces the human-readable summary for a finished run.
func Render(rep *model.RunReport) string {
	var sections []string

	title := titleStyle.Render(fmt.Sprintf("kitout • run finished in %s", rep.Duration().Truncate(100*time.Millisecond)))
	sections = append(sections, title)

	if steps := renderSteps(rep); steps != "" {
		sections = append(sections, sectionStyle.Render("Steps"), steps)
	}

	grouped := groupClassifications(rep.Classifications)

	if lines := renderEntries(grouped[model.ClassNewlyInstalled], func(e model.ClassificationEntry) string {
		return fmt.Sprintf(" %s %s — %s", successStyle.Render("✓"), e.ComponentID, e.To)
	}); lines != "" {
		sections = append(sections, sectionStyle.Render("Newly installed"), lines)
	}

	if lines := renderEntries(grouped[model.ClassUpgraded], func(e model.ClassificationEntry) string {
		return fmt.Sprintf(" %s %s — %s → %s", upgradedStyle.Render("↻"), e.ComponentID, e.From, e.To)
	}); lines != "" {
		sections = append(sections, sectionStyle.Render("Upgraded"), lines)
	}

	if lines := renderEntries(grouped[model.ClassUnchanged], func(e model.ClassificationEntry) string {
		return unchangedStyle.Render(fmt.Sprintf(" • %s — %s", e.ComponentID, e.To))
	}); lines != "" {
		sections = append(sections, sectionStyle.Render("Unchanged"), lines)
	}

	if lines := renderEntries(grouped[model.ClassStillAbsent], func(e model.ClassificationEntry) string {
		line := fmt.Sprintf(" %s %s", absentStyle.Render("○"), e.ComponentID)
		if why := absenceReason(rep, e.ComponentID); why != "" {
			line += " — " + why
		}
		return line
	}); lines != "" {
		sections = append(sections, sectionStyle.Render("Still absent"), lines)
		sections = append(sections, noteStyle.Render(" Nothing was changed for these components. Re-run kitout or install them manually."))
	}

	if lines := renderEntries(grouped[model.ClassVanished], func(e model.ClassificationEntry) string {
		return fmt.Sprintf(" %s %s — was %s before the run and is now missing", anomalyStyle.Render("!"), e.ComponentID, e.From)
	}); lines != "" {
		sections = append(sections, sectionStyle.Render("Vanished"), lines)
		sections = append(sections, noteStyle.Render(" These components disappeared outside of kitout's control. Inspect the system before re-running."))
	}

	if backups := renderBackups(rep); backups != "" {
		sections = append(sections, sectionStyle.Render("Backups"), backups)
	}

	if rep.LogPath != "" {
		sections = append(sections, footerStyle.Render(fmt.Sprintf("Full log: %s", rep.LogPath)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// renderSteps lists every outcome in execution order. This is the audit
// trail: it shows what each step decided, independent of how the component's
// detected state moved.
func renderSteps(rep *model.RunReport) string {
	var lines []string
	for _, out := range rep.Outcomes {
		line := fmt.Sprintf(" %s %s", statusIcon(out.Status), out.ComponentID)
		if strings.TrimSpace(out.Reason) != "" {
			line = fmt.Sprintf("%s — %s", line, out.Reason)
		}
		if out.Duration > 0 {
			line = fmt.Sprintf("%s (%s)", line, out.Duration.Truncate(10*time.Millisecond))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderEntries(entries []model.ClassificationEntry, render func(model.ClassificationEntry) string) string {
	if len(entries) == 0 {
		return ""
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, render(entry))
	}
	return strings.Join(lines, "\n")
}

func renderBackups(rep *model.RunReport) string {
	if len(rep.Backups) == 0 {
		return ""
	}
	lines := make([]string, 0, len(rep.Backups)+1)
	for _, rec := range rep.Backups {
		lines = append(lines, fmt.Sprintf(" %s → %s", rec.Source, rec.Dest))
	}
	lines = append(lines, noteStyle.Render(fmt.Sprintf(" Saved under %s. Backups are never deleted automatically.", rep.BackupRoot)))
	return strings.Join(lines, "\n")
}

func groupClassifications(entries []model.ClassificationEntry) map[model.ClassificationKind][]model.ClassificationEntry {
	grouped := make(map[model.ClassificationKind][]model.ClassificationEntry, 5)
	for _, entry := range entries {
		grouped[entry.Kind] = append(grouped[entry.Kind], entry)
	}
	return grouped
}

// absenceReason annotates a still-absent component with what its step
// decided, so the reader knows whether to retry or to answer differently.
func absenceReason(rep *model.RunReport, componentID string) string {
	out, ok := rep.Outcome(componentID)
	if !ok {
		return ""
	}
	switch out.Status {
	case model.ActionSkipped:
		return out.Reason
	case model.ActionFailed:
		return failureStyle.Render("install failed")
	case model.ActionUnverified:
		return failureStyle.Render("installed but not detectable")
	}
	return ""
}

// statusIcon returns the glyph representing a step outcome.
func statusIcon(status model.ActionStatus) string {
	switch status {
	case model.ActionSucceeded:
		return successStyle.Render("✓")
	case model.ActionSkipped:
		return skippedStyle.Render("⊘")
	case model.ActionFailed:
		return failureStyle.Render("✗")
	case model.ActionUnverified:
		return failureStyle.Render("?")
	}
	return skippedStyle.Render("…")
}
