package model

// ClassificationKind is the derived state transition for one component
// between the pre-run and post-run snapshots.
type ClassificationKind string

const (
	// ClassNewlyInstalled marks an absent→present transition.
	ClassNewlyInstalled ClassificationKind = "newly-installed"
	// ClassUpgraded marks present→present with a changed version descriptor.
	ClassUpgraded ClassificationKind = "upgraded"
	// ClassUnchanged marks present→present with an identical descriptor.
	ClassUnchanged ClassificationKind = "unchanged"
	// ClassStillAbsent marks absent→absent.
	ClassStillAbsent ClassificationKind = "still-absent"
	// ClassVanished marks present→absent. This should not happen during a
	// run and indicates an external anomaly; it is reported, never fatal.
	ClassVanished ClassificationKind = "vanished"
)

// ClassificationEntry records the transition for one component. From and To
// carry the version descriptors for upgrade reporting.
type ClassificationEntry struct {
	ComponentID string
	Kind        ClassificationKind
	From        string
	To          string
}

// Classify derives the per-component transitions between two snapshots. It is
// a pure function: neither snapshot is modified. Components are visited in
// pre-snapshot order, followed by components that only appear in post.
func Classify(pre, post Snapshot) []ClassificationEntry {
	ids := pre.IDs()
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for _, id := range post.IDs() {
		if _, ok := seen[id]; !ok {
			ids = append(ids, id)
		}
	}

	entries := make([]ClassificationEntry, 0, len(ids))
	for _, id := range ids {
		before, _ := pre.Get(id)
		after, ok := post.Get(id)
		if !ok {
			// Component never made it into the post snapshot; treat the pre
			// result as carried over so the diff stays total.
			after = before
		}

		entry := ClassificationEntry{ComponentID: id, From: before.Version, To: after.Version}
		switch {
		case !before.Present && after.Present:
			entry.Kind = ClassNewlyInstalled
		case before.Present && !after.Present:
			entry.Kind = ClassVanished
		case !before.Present && !after.Present:
			entry.Kind = ClassStillAbsent
		case before.Version == after.Version:
			entry.Kind = ClassUnchanged
		default:
			entry.Kind = ClassUpgraded
		}
		entries = append(entries, entry)
	}

	return entries
}
