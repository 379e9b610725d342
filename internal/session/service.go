// Package session orchestrates the timer, activity tracking, the
// timeline record, and persistence into a single session service.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/timebox-sh/timebox/internal/core/activity"
	"github.com/timebox-sh/timebox/internal/core/config"
	"github.com/timebox-sh/timebox/internal/core/palette"
	"github.com/timebox-sh/timebox/internal/core/state"
	"github.com/timebox-sh/timebox/internal/core/timeline"
	"github.com/timebox-sh/timebox/internal/core/timer"
	"github.com/timebox-sh/timebox/internal/core/tracker"
	"github.com/timebox-sh/timebox/internal/core/validate"
	"github.com/timebox-sh/timebox/pkg/executil"
	"github.com/timebox-sh/timebox/pkg/randid"
)

const activityIDLength = 8

// Orderer persists the user's custom activity ordering.
type Orderer interface {
	Get(ctx context.Context) ([]string, error)
	Set(ctx context.Context, ids []string) error
	Add(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	Cleanup(ctx context.Context, existing []string) error
	Clear(ctx context.Context) error
	Sort(ctx context.Context, defs []activity.Definition) ([]activity.Definition, error)
}

// Service orchestrates a timebox session.
type Service struct {
	timer    *timer.Engine
	tracker  *tracker.Tracker
	recorder *timeline.Recorder
	target   time.Duration

	activities activity.Store
	order      Orderer
	snapshots  state.SnapshotStore
	config     *config.Config
	hookRunner *HookRunner
	log        zerolog.Logger

	completionFired bool
	timeUpFired     bool
}

// New creates a new Service. The session budget starts at the config
// default and can be extended while running.
func New(
	cfg *config.Config,
	activities activity.Store,
	order Orderer,
	snapshots state.SnapshotStore,
	exec executil.Executor,
	log zerolog.Logger,
	stdout, stderr io.Writer,
) *Service {
	return &Service{
		timer:      timer.New(),
		tracker:    tracker.New(),
		recorder:   timeline.NewRecorder(),
		target:     cfg.DefaultBudget,
		activities: activities,
		order:      order,
		snapshots:  snapshots,
		config:     cfg,
		hookRunner: NewHookRunner(log.With().Str("component", "hooks").Logger(), exec, stdout, stderr),
		log:        log,
	}
}

// Target returns the current session budget.
func (s *Service) Target() time.Duration { return s.target }

// SetTarget overrides the session budget. Used by the --budget flag
// before the session starts.
func (s *Service) SetTarget(target time.Duration) { s.target = target }

// Timer exposes the countdown engine for read-only queries.
func (s *Service) Timer() *timer.Engine { return s.timer }

// Tracker exposes the activity state engine for read-only queries.
func (s *Service) Tracker() *tracker.Tracker { return s.tracker }

// Entries returns the session timeline record.
func (s *Service) Entries() []timeline.Entry { return s.recorder.Entries() }

// HasOpenBreak reports whether the record ends in an in-progress break.
func (s *Service) HasOpenBreak() bool { return s.recorder.HasOpenBreak() }

// Restore loads a saved session snapshot, if any. The timer comes back
// paused; elapsed time only advances while the program runs.
func (s *Service) Restore(ctx context.Context) error {
	snap, err := s.snapshots.Load(ctx)
	if errors.Is(err, state.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session snapshot: %w", err)
	}

	s.target = snap.Target
	s.timer.Restore(snap.Elapsed)
	s.recorder.Restore(snap.Entries)
	s.tracker.RestoreSnapshot(snap.States, snap.CurrentID)

	// Hooks fire once per session, not once per process run.
	s.completionFired = s.tracker.AllCompleted()
	s.timeUpFired = s.timer.TimeUp(s.target)

	s.log.Info().
		Dur("elapsed", snap.Elapsed).
		Int("entries", len(snap.Entries)).
		Time("saved_at", snap.SavedAt).
		Msg("restored session snapshot")
	return nil
}

// SelectActivity makes the activity the running one, completing
// whichever activity was running before, and starts the timer if it is
// not already counting.
func (s *Service) SelectActivity(ctx context.Context, id string, now time.Time) error {
	def, err := s.activities.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("select activity: %w", err)
	}

	s.tracker.Select(id, false)
	s.syncCompletion(ctx, now)

	s.timer.Start(now)
	s.recorder.StartActivity(def.ID, def.Name, now)

	return s.saveSnapshot(ctx, now)
}

// AddPending registers an activity for this session without starting it.
func (s *Service) AddPending(ctx context.Context, id string, now time.Time) error {
	if _, err := s.activities.Get(ctx, id); err != nil {
		return fmt.Errorf("add activity: %w", err)
	}

	return s.RegisterActivities(ctx, []string{id}, now)
}

// RegisterActivities enrolls definitions into the session pool as
// pending, without starting any of them. Already-known ids keep their
// state, so a removed or completed activity is never resurrected. The
// completion derivation runs over the whole pool afterward; a session
// that looked finished stops being finished once a new pending
// activity joins it.
func (s *Service) RegisterActivities(ctx context.Context, ids []string, now time.Time) error {
	for _, id := range ids {
		s.tracker.Select(id, true)
	}
	s.syncCompletion(ctx, now)
	return s.saveSnapshot(ctx, now)
}

// CompleteCurrent completes the running activity. With nothing running
// it is a no-op.
func (s *Service) CompleteCurrent(ctx context.Context, now time.Time) error {
	if s.tracker.CurrentID() == "" {
		return nil
	}

	s.tracker.Select("", false)
	s.recorder.CloseOpen(now)
	s.syncCompletion(ctx, now)

	// Idle time between activities is recorded as a break unless the
	// session just finished.
	if !s.tracker.AllCompleted() && s.timer.Active() {
		s.recorder.StartBreak(now)
	}

	return s.saveSnapshot(ctx, now)
}

// RemoveActivity drops an activity from the session. Removing the
// running activity closes its open timeline entry without completing it.
func (s *Service) RemoveActivity(ctx context.Context, id string, now time.Time) error {
	wasCurrent := s.tracker.CurrentID() == id

	s.tracker.Remove(id)

	if wasCurrent {
		s.recorder.CloseOpen(now)
	}

	s.syncCompletion(ctx, now)

	if wasCurrent && !s.tracker.AllCompleted() && s.timer.Active() {
		s.recorder.StartBreak(now)
	}

	return s.saveSnapshot(ctx, now)
}

// ExtendBudget grows the session budget and clears the engine's
// time-up latch so an extended session leaves overtime display.
func (s *Service) ExtendBudget(d time.Duration) {
	s.target += d
	s.timer.ExtendDuration()
}

// StopSession freezes the timer and closes any open timeline entry.
func (s *Service) StopSession(ctx context.Context, now time.Time) error {
	s.timer.Stop(now)
	s.recorder.CloseOpen(now)
	return s.saveSnapshot(ctx, now)
}

// ResetSession discards all session state and the saved snapshot.
func (s *Service) ResetSession(ctx context.Context) error {
	s.timer.Reset()
	s.tracker.Reset()
	s.recorder.Reset()
	s.completionFired = false
	s.timeUpFired = false

	if err := s.snapshots.Clear(ctx); err != nil {
		return fmt.Errorf("clear session snapshot: %w", err)
	}
	return nil
}

// Tick advances the countdown and fires the time-up hook the first
// time the budget runs out.
func (s *Service) Tick(ctx context.Context, now time.Time) {
	s.timer.Tick(now)

	if s.timer.TimeUp(s.target) && !s.timeUpFired {
		s.timeUpFired = true
		s.runHooks(ctx, config.EventTimeUp, "")
	}
}

// Span computes the timeline layout for the current session state.
func (s *Service) Span(now time.Time) timeline.Span {
	return timeline.Calculate(timeline.Input{
		Entries:      s.recorder.Entries(),
		Target:       s.target,
		Elapsed:      s.timer.Elapsed(),
		Now:          now,
		AllCompleted: s.tracker.AllCompleted(),
	})
}

// SaveSnapshot persists the current session so it survives a restart.
func (s *Service) SaveSnapshot(ctx context.Context, now time.Time) error {
	return s.saveSnapshot(ctx, now)
}

// CreateActivity validates and stores a new activity definition,
// assigning the next palette color not already in use.
func (s *Service) CreateActivity(ctx context.Context, name, description string) (activity.Definition, error) {
	if err := validate.ActivityName(name); err != nil {
		return activity.Definition{}, err
	}

	defs, err := s.activities.List(ctx)
	if err != nil {
		return activity.Definition{}, fmt.Errorf("list activities: %w", err)
	}

	def := activity.Definition{
		ID:          randid.Generate(activityIDLength),
		Name:        name,
		Description: description,
		ColorIndex:  nextColorIndex(defs),
		CreatedAt:   time.Now(),
		IsActive:    true,
	}

	if err := s.activities.Save(ctx, def); err != nil {
		return activity.Definition{}, fmt.Errorf("save activity: %w", err)
	}

	// A live session picks the new activity up as pending right away.
	s.tracker.Select(def.ID, true)

	s.log.Info().Str("id", def.ID).Str("name", def.Name).Msg("created activity")
	return def, nil
}

// DeleteActivity removes a definition and drops it from the custom order.
func (s *Service) DeleteActivity(ctx context.Context, id string) error {
	if err := s.activities.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.order.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove from order: %w", err)
	}
	return nil
}

// ListActivities returns all definitions in display order, pruning
// stale ids from the custom order along the way.
func (s *Service) ListActivities(ctx context.Context) ([]activity.Definition, error) {
	defs, err := s.activities.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		ids = append(ids, def.ID)
	}
	if err := s.order.Cleanup(ctx, ids); err != nil {
		return nil, fmt.Errorf("cleanup order: %w", err)
	}

	return s.order.Sort(ctx, defs)
}

// SetActivityColor assigns a palette color to an existing definition.
func (s *Service) SetActivityColor(ctx context.Context, id string, index int) error {
	def, err := s.activities.Get(ctx, id)
	if err != nil {
		return err
	}

	def.ColorIndex = ((index % palette.Len()) + palette.Len()) % palette.Len()
	return s.activities.Save(ctx, def)
}

// Order returns the stored custom activity order.
func (s *Service) Order(ctx context.Context) ([]string, error) {
	return s.order.Get(ctx)
}

// SetOrder replaces the custom activity order.
func (s *Service) SetOrder(ctx context.Context, ids []string) error {
	return s.order.Set(ctx, ids)
}

// ClearOrder removes the custom activity order entirely.
func (s *Service) ClearOrder(ctx context.Context) error {
	return s.order.Clear(ctx)
}

// CleanupOrder prunes order entries whose activity no longer exists.
func (s *Service) CleanupOrder(ctx context.Context) error {
	defs, err := s.activities.List(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		ids = append(ids, def.ID)
	}
	return s.order.Cleanup(ctx, ids)
}

// FindActivity resolves an activity by id or unique name.
func (s *Service) FindActivity(ctx context.Context, ref string) (activity.Definition, error) {
	if def, err := s.activities.Get(ctx, ref); err == nil {
		return def, nil
	}

	defs, err := s.activities.List(ctx)
	if err != nil {
		return activity.Definition{}, err
	}

	var matches []activity.Definition
	for _, def := range defs {
		if strings.EqualFold(def.Name, ref) {
			matches = append(matches, def)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return activity.Definition{}, activity.ErrNotFound
	default:
		return activity.Definition{}, fmt.Errorf("%q matches %d activities, use the id", ref, len(matches))
	}
}

// syncCompletion reconciles the timer with the tracker's all-completed
// state and fires completion hooks exactly once per session.
func (s *Service) syncCompletion(ctx context.Context, now time.Time) {
	if s.tracker.AllCompleted() {
		s.timer.SetCompleted(true, now)
		s.recorder.CloseOpen(now)

		if !s.completionFired {
			s.completionFired = true
			s.runHooks(ctx, config.EventComplete, "")
		}
		return
	}

	s.timer.SetCompleted(false, now)
	s.completionFired = false
}

// runHooks renders and executes the configured commands for an event.
// Hook failures are logged, never allowed to break the session.
func (s *Service) runHooks(ctx context.Context, event, activityName string) {
	data := config.HookTemplateData{
		Event:    event,
		Budget:   s.target.String(),
		Elapsed:  s.timer.Elapsed().String(),
		Activity: activityName,
	}

	if err := s.hookRunner.RunEvent(ctx, s.config.Hooks, event, data); err != nil {
		s.log.Warn().Err(err).Str("event", event).Msg("hook failed")
	}
}

func (s *Service) saveSnapshot(ctx context.Context, now time.Time) error {
	snap := state.Snapshot{
		Target:    s.target,
		Elapsed:   s.timer.Elapsed(),
		Entries:   s.recorder.Entries(),
		States:    s.tracker.Snapshot(),
		CurrentID: s.tracker.CurrentID(),
		SavedAt:   now,
	}

	if err := s.snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("save session snapshot: %w", err)
	}
	return nil
}

// nextColorIndex picks the lowest palette index not already assigned,
// cycling when every color is taken.
func nextColorIndex(defs []activity.Definition) int {
	used := make(map[int]bool, len(defs))
	for _, def := range defs {
		used[def.ColorIndex] = true
	}

	for i := 0; i < palette.Len(); i++ {
		if !used[i] {
			return i
		}
	}
	return len(defs) % palette.Len()
}
