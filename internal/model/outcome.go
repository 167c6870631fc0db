package model

import (
	"time"
)

// ActionStatus describes how an installer step concluded.
type ActionStatus string

const (
	// ActionSkipped indicates the step took no action: the operator declined,
	// or the component was already satisfied.
	ActionSkipped ActionStatus = "skipped"
	// ActionSucceeded indicates the install method ran and the component was
	// detectable afterwards.
	ActionSucceeded ActionStatus = "succeeded"
	// ActionFailed indicates every configured install method failed.
	ActionFailed ActionStatus = "failed"
	// ActionUnverified indicates the back-end reported success but the
	// component was still undetectable on re-probe. Tracked separately from
	// ActionFailed because it signals a false positive from the back-end.
	ActionUnverified ActionStatus = "unverified"
)

// IsValid reports whether the status is one of the defined constants.
func (s ActionStatus) IsValid() bool {
	switch s {
	case ActionSkipped, ActionSucceeded, ActionFailed, ActionUnverified:
		return true
	}
	return false
}

// ActionOutcome captures the result of running one installer step.
type ActionOutcome struct {
	ComponentID string
	Status      ActionStatus
	Reason      string
	Err         error
	Duration    time.Duration
	Timestamp   time.Time
}

// Skipped constructs a skip outcome with the deciding reason.
func Skipped(componentID, reason string) ActionOutcome {
	return ActionOutcome{ComponentID: componentID, Status: ActionSkipped, Reason: reason, Timestamp: time.Now()}
}

// Succeeded constructs a success outcome.
func Succeeded(componentID, reason string) ActionOutcome {
	return ActionOutcome{ComponentID: componentID, Status: ActionSucceeded, Reason: reason, Timestamp: time.Now()}
}

// Failed constructs a failure outcome wrapping the causing error.
func Failed(componentID string, err error) ActionOutcome {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return ActionOutcome{ComponentID: componentID, Status: ActionFailed, Reason: reason, Err: err, Timestamp: time.Now()}
}

// Unverified constructs the distinct post-condition-violation outcome.
func Unverified(componentID string, err error) ActionOutcome {
	reason := "back-end reported success but component is not detectable"
	if err != nil {
		reason = err.Error()
	}
	return ActionOutcome{ComponentID: componentID, Status: ActionUnverified, Reason: reason, Err: err, Timestamp: time.Now()}
}
