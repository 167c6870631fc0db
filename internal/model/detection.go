package model

import (
	"time"
)

const (
	// AbsentDescriptor is the sentinel version descriptor for a component the
	// detector could not find.
	AbsentDescriptor = "not installed"
	// GenericDescriptor marks a component that is present but whose version
	// probe failed or produced unusable output.
	GenericDescriptor = "installed"
)

// DetectionResult captures the outcome of probing a single component.
// Absence is a normal result, never an error. Immutable once created.
type DetectionResult struct {
	ComponentID string
	Present     bool
	Version     string
}

// Absent returns the canonical result for a component that was not found.
func Absent(componentID string) DetectionResult {
	return DetectionResult{ComponentID: componentID, Present: false, Version: AbsentDescriptor}
}

// Found returns the result for a present component. An empty version string
// falls back to the generic descriptor.
func Found(componentID, version string) DetectionResult {
	if version == "" {
		version = GenericDescriptor
	}
	return DetectionResult{ComponentID: componentID, Present: true, Version: version}
}

// Snapshot is the full set of detection results captured at one instant.
// It preserves the order results were recorded in (catalog priority order)
// and is immutable after construction.
type Snapshot struct {
	takenAt time.Time
	order   []string
	results map[string]DetectionResult
}

// NewSnapshot builds a snapshot from results in the order given. A later
// result for the same component replaces the earlier one without duplicating
// the order entry.
func NewSnapshot(takenAt time.Time, results []DetectionResult) Snapshot {
	s := Snapshot{
		takenAt: takenAt,
		order:   make([]string, 0, len(results)),
		results: make(map[string]DetectionResult, len(results)),
	}
	for _, res := range results {
		if _, seen := s.results[res.ComponentID]; !seen {
			s.order = append(s.order, res.ComponentID)
		}
		s.results[res.ComponentID] = res
	}
	return s
}

// TakenAt reports when the snapshot was captured.
func (s Snapshot) TakenAt() time.Time {
	return s.takenAt
}

// Get returns the detection result recorded for a component.
func (s Snapshot) Get(componentID string) (DetectionResult, bool) {
	res, ok := s.results[componentID]
	return res, ok
}

// IDs returns the component identifiers in recording order. The returned
// slice is a copy; mutating it does not affect the snapshot.
func (s Snapshot) IDs() []string {
	return append([]string(nil), s.order...)
}

// Len reports the number of components in the snapshot.
func (s Snapshot) Len() int {
	return len(s.order)
}
