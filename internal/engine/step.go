package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/kitout-sh/kitout/internal/backup"
	"github.com/kitout-sh/kitout/internal/catalog"
	"github.com/kitout-sh/kitout/internal/logger"
	"github.com/kitout-sh/kitout/internal/model"
	"github.com/kitout-sh/kitout/internal/prompt"
	kitouterrors "github.com/kitout-sh/kitout/pkg/errors"
)

// Step executes the full lifecycle for a single component: probe, gate,
// backup, install (with fallback), adjust, and verify. It never mutates the
// system before the operator's gate has approved the action.
type Step struct {
	comp    catalog.Component
	prober  Prober
	backend Backend
	gate    prompt.Gate
	backups *backup.Manager
	log     *logger.Logger
}

// Run executes the step and reports how it concluded. Failures are captured
// in the outcome, never returned; the engine keeps going regardless.
func (s *Step) Run(ctx context.Context) model.ActionOutcome {
	start := time.Now()
	out := s.run(ctx)
	out.Duration = time.Since(start)

	fields := map[string]any{"component": s.comp.ID, "status": string(out.Status)}
	switch out.Status {
	case model.ActionFailed:
		s.log.WithFields(fields).Error(out.Err, "Component step failed")
	case model.ActionUnverified:
		s.log.WithFields(fields).Warn("Component step finished without a verifiable install")
	default:
		fields["reason"] = out.Reason
		s.log.WithFields(fields).Info("Component step finished")
	}
	return out
}

func (s *Step) run(ctx context.Context) model.ActionOutcome {
	current := s.prober.Detect(ctx, s.comp)

	if current.Present {
		if !s.comp.ConfirmReinstall {
			return model.Skipped(s.comp.ID, fmt.Sprintf("already present (%s)", current.Version))
		}
		question := fmt.Sprintf("%s is already installed (%s). Reinstall?", s.comp.Label, current.Version)
		if !s.gate.Confirm(question, false) {
			return model.Skipped(s.comp.ID, "already present, reinstall declined")
		}
	} else {
		question := fmt.Sprintf("Install %s?", s.comp.Label)
		if !s.gate.Confirm(question, s.comp.DefaultAnswer()) {
			return model.Skipped(s.comp.ID, "declined")
		}
	}

	// Backups run strictly before the install method touches anything. A
	// failed backup aborts the step so the component stays untouched.
	for _, path := range s.comp.BackupPaths {
		if _, err := s.backups.Backup(path); err != nil {
			err = fmt.Errorf("backup %s: %w", path, err)
			s.log.WithFields(map[string]any{"component": s.comp.ID}).Error(err, "Backup failed, component left untouched")
			return model.Failed(s.comp.ID, err)
		}
	}

	if err := s.install(ctx); err != nil {
		return model.Failed(s.comp.ID, err)
	}

	if err := s.backend.Adjust(ctx, s.comp); err != nil {
		return model.Failed(s.comp.ID, fmt.Errorf("post-install adjustment: %w", err))
	}

	after := s.prober.Detect(ctx, s.comp)
	if !after.Present {
		return model.Unverified(s.comp.ID, kitouterrors.NewVerifyError(s.comp.ID))
	}
	return model.Succeeded(s.comp.ID, fmt.Sprintf("installed (%s)", after.Version))
}

// install runs the primary method and falls back to the secondary one when
// the primary fails.
func (s *Step) install(ctx context.Context) error {
	primary := &s.comp.Install
	err := s.backend.Install(ctx, primary)
	if err == nil {
		return nil
	}

	if s.comp.Fallback == nil {
		return kitouterrors.NewInstallError(s.comp.ID, primary.Kind, err)
	}

	s.log.WithFields(map[string]any{
		"component": s.comp.ID,
		"primary":   primary.Kind,
		"fallback":  s.comp.Fallback.Kind,
		"error":     err.Error(),
	}).Warn("Primary install method failed, trying fallback")

	fbErr := s.backend.Install(ctx, s.comp.Fallback)
	if fbErr == nil {
		return nil
	}
	combined := fmt.Errorf("primary method %s: %v; fallback method %s: %w", primary.Kind, err, s.comp.Fallback.Kind, fbErr)
	return kitouterrors.NewInstallError(s.comp.ID, s.comp.Fallback.Kind, combined)
}
