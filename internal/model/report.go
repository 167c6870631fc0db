package model

import (
	"time"
)

// BackupRecord describes one pre-modification copy taken by the backup
// manager. Backups are never deleted automatically.
type BackupRecord struct {
	Source    string
	Dest      string
	CreatedAt time.Time
}

// RunReport is the complete result of one reconciliation run: the immutable
// before/after snapshots, every step outcome in execution order, and the
// derived classification.
type RunReport struct {
	StartedAt       time.Time
	FinishedAt      time.Time
	Pre             Snapshot
	Post            Snapshot
	Outcomes        []ActionOutcome
	Classifications []ClassificationEntry
	Backups         []BackupRecord
	LogPath         string
	BackupRoot      string
}

// Outcome returns the recorded outcome for a component, if any.
func (r *RunReport) Outcome(componentID string) (ActionOutcome, bool) {
	for _, out := range r.Outcomes {
		if out.ComponentID == componentID {
			return out, true
		}
	}
	return ActionOutcome{}, false
}

// Succeeded lists the components whose steps reported success, in execution
// order. This is the audit trail section of the report: a step can succeed
// while the component's descriptor stays identical, so it is distinct from
// the classification.
func (r *RunReport) Succeeded() []string {
	var ids []string
	for _, out := range r.Outcomes {
		if out.Status == ActionSucceeded {
			ids = append(ids, out.ComponentID)
		}
	}
	return ids
}

// Duration reports the wall-clock time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
