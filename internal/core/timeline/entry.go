// Package timeline holds the chronological session record and the span
// calculator that turns it into a renderable model.
package timeline

import (
	"time"

	"github.com/timebox-sh/timebox/pkg/randid"
)

const entryIDLength = 8

// Entry is one contiguous interval of either "activity running" or
// "idle/break". An empty ActivityID denotes a break. A zero EndTime
// denotes an entry still in progress.
type Entry struct {
	ID           string    `json:"id"`
	ActivityID   string    `json:"activity_id,omitempty"`
	ActivityName string    `json:"activity_name,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time,omitzero"`
}

// Open reports whether the entry is still in progress.
func (e Entry) Open() bool { return e.EndTime.IsZero() }

// IsBreak reports whether the entry represents idle time.
func (e Entry) IsBreak() bool { return e.ActivityID == "" }

// Duration returns the entry length, measuring open entries against now.
func (e Entry) Duration(now time.Time) time.Duration {
	end := e.EndTime
	if e.Open() {
		end = now
	}
	d := end.Sub(e.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// Recorder owns the append-only chronological record. Entries are
// appended in order and never mutated except to stamp EndTime when an
// interval ends; at most one entry is open at a time.
type Recorder struct {
	entries []Entry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// StartActivity closes any open entry and appends a new open entry for
// the given activity.
func (r *Recorder) StartActivity(activityID, name string, now time.Time) {
	r.CloseOpen(now)
	r.entries = append(r.entries, Entry{
		ID:           randid.Generate(entryIDLength),
		ActivityID:   activityID,
		ActivityName: name,
		StartTime:    now,
	})
}

// StartBreak appends an open break entry marking the beginning of idle
// time. No-op when an entry is already open.
func (r *Recorder) StartBreak(now time.Time) {
	if r.hasOpen() {
		return
	}
	r.entries = append(r.entries, Entry{
		ID:        randid.Generate(entryIDLength),
		StartTime: now,
	})
}

// CloseOpen stamps EndTime on the open entry, if any.
func (r *Recorder) CloseOpen(now time.Time) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].Open() {
			r.entries[i].EndTime = now
			return
		}
	}
}

// Reset discards the record.
func (r *Recorder) Reset() {
	r.entries = nil
}

// Entries returns a copy of the record in chronological order.
func (r *Recorder) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// HasOpenBreak reports whether the record ends in an in-progress break.
func (r *Recorder) HasOpenBreak() bool {
	n := len(r.entries)
	return n > 0 && r.entries[n-1].Open() && r.entries[n-1].IsBreak()
}

// Restore replaces the record from a persisted session.
func (r *Recorder) Restore(entries []Entry) {
	r.entries = make([]Entry, len(entries))
	copy(r.entries, entries)
}

func (r *Recorder) hasOpen() bool {
	n := len(r.entries)
	return n > 0 && r.entries[n-1].Open()
}
