// Package timer implements the session countdown engine.
package timer

import "time"

// Engine tracks elapsed wall-clock time against a caller-owned budget.
//
// Elapsed time is always recomputed from the wall-clock delta on Tick,
// never accumulated, so a missed or delayed tick cannot drift the count.
// The target duration is owned by the caller and passed into the derived
// queries; the engine itself only carries the completion latch.
type Engine struct {
	start     time.Time
	elapsed   time.Duration
	active    bool
	stopped   bool
	forced    bool
	completed bool
	forceUp   bool
}

// New creates an idle engine.
func New() *Engine {
	return &Engine{}
}

// Start begins (or resumes a restored) countdown. Calling Start while
// active is a no-op, as is starting a stopped engine; Reset is the only
// way back from a user stop.
func (e *Engine) Start(now time.Time) {
	if e.active || e.stopped {
		return
	}

	// Rebase the start instant so restored or frozen elapsed time
	// carries over without counting the idle gap.
	e.start = now.Add(-e.elapsed)
	e.active = true
}

// Stop freezes the elapsed count at its current computed value.
// Stopping an idle or already-stopped engine is a no-op.
func (e *Engine) Stop(now time.Time) {
	if e.stopped || e.start.IsZero() {
		return
	}

	if e.active {
		e.elapsed = now.Sub(e.start).Truncate(time.Second)
	}
	e.active = false
	e.stopped = true
}

// Reset clears all state back to idle. Always allowed, including mid-run.
func (e *Engine) Reset() {
	*e = Engine{}
}

// Tick recomputes elapsed time from the wall clock. Only advances while
// the engine is active and not stopped.
func (e *Engine) Tick(now time.Time) {
	if !e.active || e.stopped {
		return
	}
	e.elapsed = now.Sub(e.start).Truncate(time.Second)
}

// SetCompleted reports the external all-activities-completed signal.
// The engine force-stops exactly once per transition into the completed
// state and latches the time-up flag. Leaving the completed state lifts
// a completion-forced stop but never an explicit user stop.
func (e *Engine) SetCompleted(completed bool, now time.Time) {
	if completed && !e.completed {
		wasStopped := e.stopped
		e.Stop(now)
		e.forced = !wasStopped
		e.forceUp = true
	}
	if !completed && e.completed && e.forced {
		e.stopped = false
		e.forced = false
	}
	e.completed = completed
}

// ExtendDuration clears the time-up latch carried by the engine without
// touching elapsed time. The caller is expected to supply a larger target
// duration on its next query.
func (e *Engine) ExtendDuration() {
	e.forceUp = false
}

// Restore seeds the elapsed count from a persisted session. Ignored while
// the engine is active so a live countdown is never clobbered by a stale
// restoration value arriving late.
func (e *Engine) Restore(elapsed time.Duration) {
	if e.active {
		return
	}
	e.elapsed = elapsed
}

// Elapsed returns the elapsed time as of the last Tick (or Stop).
func (e *Engine) Elapsed() time.Duration { return e.elapsed }

// Active reports whether the countdown is running.
func (e *Engine) Active() bool { return e.active }

// Stopped reports whether the countdown has been frozen.
func (e *Engine) Stopped() bool { return e.stopped }

// Started reports whether the countdown has ever been started.
func (e *Engine) Started() bool { return !e.start.IsZero() }

// TimeLeft returns the remaining budget. Negative values mean overtime.
func (e *Engine) TimeLeft(target time.Duration) time.Duration {
	return target - e.elapsed
}

// TimeUp reports whether the budget is exhausted. Derived from elapsed vs
// target (or the completion latch); never independently stored, so it
// cannot desynchronize from the elapsed count.
func (e *Engine) TimeUp(target time.Duration) bool {
	return e.forceUp || e.TimeLeft(target) < 0
}
