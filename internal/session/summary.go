package session

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/timebox-sh/timebox/internal/core/activity"
	"github.com/timebox-sh/timebox/internal/core/tracker"
)

// ActivityTotal is the accumulated time one activity spent running
// during the session.
type ActivityTotal struct {
	ID    string
	Name  string
	State tracker.State
	Total time.Duration
}

// Summary aggregates the session for the post-session view.
type Summary struct {
	Budget       time.Duration
	Elapsed      time.Duration
	BreakTotal   time.Duration
	Activities   []ActivityTotal
	AllCompleted bool
}

// Summary computes per-activity totals from the timeline record,
// arranged in display order.
func (s *Service) Summary(ctx context.Context, now time.Time) (Summary, error) {
	totals := make(map[string]time.Duration)
	names := make(map[string]string)
	var breakTotal time.Duration

	for _, entry := range s.recorder.Entries() {
		if entry.IsBreak() {
			breakTotal += entry.Duration(now)
			continue
		}
		totals[entry.ActivityID] += entry.Duration(now)
		names[entry.ActivityID] = entry.ActivityName
	}

	known := s.tracker.KnownIDs()

	// Display order follows the activity list; ids whose definition is
	// gone keep the name recorded on their entries and sort last.
	defs, err := s.activities.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list activities: %w", err)
	}

	sessionDefs := make([]activity.Definition, 0, len(known))
	for _, def := range defs {
		if slices.Contains(known, def.ID) {
			sessionDefs = append(sessionDefs, def)
		}
	}

	ordered, err := s.order.Sort(ctx, sessionDefs)
	if err != nil {
		return Summary{}, fmt.Errorf("sort activities: %w", err)
	}

	out := Summary{
		Budget:       s.target,
		Elapsed:      s.timer.Elapsed(),
		BreakTotal:   breakTotal,
		AllCompleted: s.tracker.AllCompleted(),
	}

	seen := make(map[string]bool, len(ordered))
	for _, def := range ordered {
		seen[def.ID] = true
		out.Activities = append(out.Activities, ActivityTotal{
			ID:    def.ID,
			Name:  def.Name,
			State: s.tracker.StateOf(def.ID),
			Total: totals[def.ID],
		})
	}

	leftovers := make([]string, 0, len(known))
	for _, id := range known {
		if !seen[id] {
			leftovers = append(leftovers, id)
		}
	}
	slices.Sort(leftovers)

	for _, id := range leftovers {
		out.Activities = append(out.Activities, ActivityTotal{
			ID:    id,
			Name:  names[id],
			State: s.tracker.StateOf(id),
			Total: totals[id],
		})
	}

	return out, nil
}
