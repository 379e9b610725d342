// Package tracker implements the activity lifecycle state machine.
package tracker

// State represents the lifecycle state of a tracked activity.
type State string

const (
	StatePending   State = "pending"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateRemoved   State = "removed"
)

// Tracker maintains the pool of known activities and which one, if any,
// is currently running. Invalid transitions are treated as no-ops rather
// than errors; the tracker sits behind render paths that must never fail.
type Tracker struct {
	states    map[string]State
	currentID string
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{states: make(map[string]State)}
}

// Select drives the running-activity pointer.
//
// With justAdd set, the id is registered into the pool without changing
// who is running. With id set and justAdd unset, the activity becomes the
// running one; any previously running activity is completed first. An
// empty id completes whichever activity is currently running (a no-op
// when nothing runs).
func (t *Tracker) Select(id string, justAdd bool) {
	if justAdd {
		if id == "" {
			return
		}
		if _, ok := t.states[id]; !ok {
			t.states[id] = StatePending
		}
		return
	}

	if id == "" {
		t.completeCurrent()
		return
	}

	if t.currentID != "" && t.currentID != id {
		t.completeCurrent()
	}

	t.states[id] = StateActive
	t.currentID = id
}

func (t *Tracker) completeCurrent() {
	if t.currentID == "" {
		return
	}
	t.states[t.currentID] = StateCompleted
	t.currentID = ""
}

// Remove drops an activity from the live pool. If it was running, the
// current pointer is cleared without marking it completed. Removing an
// unknown id registers the removal anyway so the id never counts against
// completion.
func (t *Tracker) Remove(id string) {
	if id == "" {
		return
	}
	t.states[id] = StateRemoved
	if t.currentID == id {
		t.currentID = ""
	}
}

// Reset clears every tracked activity and the running pointer.
func (t *Tracker) Reset() {
	t.states = make(map[string]State)
	t.currentID = ""
}

// CurrentID returns the running activity id, or "" when none runs.
func (t *Tracker) CurrentID() string { return t.currentID }

// StateOf returns the tracked state for an id, or "" if unknown.
func (t *Tracker) StateOf(id string) State { return t.states[id] }

// AllCompleted reports whether the session is finished: at least one
// activity completed AND every known activity is either completed or
// removed. Removing every activity without finishing one is an
// abandoned session, not a completed one.
func (t *Tracker) AllCompleted() bool {
	completed := 0
	for _, s := range t.states {
		switch s {
		case StateCompleted:
			completed++
		case StateRemoved:
		default:
			return false
		}
	}
	return completed > 0
}

// CompletedIDs returns the ids of completed activities.
func (t *Tracker) CompletedIDs() []string { return t.idsIn(StateCompleted) }

// RemovedIDs returns the ids of removed activities.
func (t *Tracker) RemovedIDs() []string { return t.idsIn(StateRemoved) }

// KnownIDs returns every id ever registered, including removed ones.
func (t *Tracker) KnownIDs() []string {
	ids := make([]string, 0, len(t.states))
	for id := range t.states {
		ids = append(ids, id)
	}
	return ids
}

func (t *Tracker) idsIn(want State) []string {
	var ids []string
	for id, s := range t.states {
		if s == want {
			ids = append(ids, id)
		}
	}
	return ids
}

// Snapshot returns a copy of the full id-to-state map for persistence.
func (t *Tracker) Snapshot() map[string]State {
	out := make(map[string]State, len(t.states))
	for id, s := range t.states {
		out[id] = s
	}
	return out
}

// RestoreSnapshot replaces the tracker contents from a persisted session.
func (t *Tracker) RestoreSnapshot(states map[string]State, currentID string) {
	t.states = make(map[string]State, len(states))
	for id, s := range states {
		t.states[id] = s
	}
	t.currentID = currentID
}
