package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timebox-sh/timebox/internal/core/config"
	"github.com/timebox-sh/timebox/internal/core/palette"
	"github.com/timebox-sh/timebox/internal/session"
	"github.com/timebox-sh/timebox/internal/store/jsonfile"
	"github.com/timebox-sh/timebox/pkg/executil"
)

func newTestService(t *testing.T, cfg *config.Config) *session.Service {
	t.Helper()

	kv := jsonfile.NewKVStore(cfg.StateFile())
	return session.New(
		cfg,
		jsonfile.NewActivityStore(cfg.ActivitiesFile()),
		jsonfile.NewOrderStore(kv, cfg.CleanupGlobs, zerolog.Nop()),
		jsonfile.NewSnapshotStore(cfg.SessionFile()),
		&executil.RecordingExecutor{},
		zerolog.Nop(),
		io.Discard, io.Discard,
	)
}

func newTestModel(t *testing.T) Model {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Theme = "dark"

	svc := newTestService(t, &cfg)

	ctx := context.Background()
	for _, name := range []string{"Deep Work", "Email", "Review"} {
		_, err := svc.CreateActivity(ctx, name, "")
		require.NoError(t, err)
	}

	m := New(svc, &cfg)
	defs, err := svc.ListActivities(ctx)
	require.NoError(t, err)

	next, _ := m.Update(activitiesLoadedMsg{defs: defs})
	return next.(Model)
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestResolveTheme(t *testing.T) {
	assert.Equal(t, palette.ThemeLight, resolveTheme("light"))
	assert.Equal(t, palette.ThemeDark, resolveTheme("dark"))
}

func TestModel_CursorMovement(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(keyPress('j'))
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)

	next, _ = m.Update(keyPress('j'))
	m = next.(Model)
	next, _ = m.Update(keyPress('j'))
	m = next.(Model)
	assert.Equal(t, 2, m.cursor, "cursor stops at the last activity")

	next, _ = m.Update(keyPress('k'))
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)
}

func TestModel_SelectStartsSessionAndTicks(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.True(t, m.service.Timer().Active())
	assert.True(t, m.ticking)
	assert.NotNil(t, cmd, "a tick must be scheduled once the timer starts")
}

func TestModel_ResetNeedsConfirmation(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	next, _ = m.Update(keyPress('r'))
	m = next.(Model)
	assert.Equal(t, stateConfirmingReset, m.state)

	// Declining keeps the session.
	next, _ = m.Update(keyPress('n'))
	m = next.(Model)
	assert.Equal(t, stateNormal, m.state)
	assert.NotEmpty(t, m.service.Entries())

	next, _ = m.Update(keyPress('r'))
	m = next.(Model)
	next, _ = m.Update(keyPress('y'))
	m = next.(Model)
	assert.Empty(t, m.service.Entries())
}

func TestModel_ExtendBudget(t *testing.T) {
	m := newTestModel(t)
	before := m.service.Target()

	next, _ := m.Update(keyPress('+'))
	m = next.(Model)

	assert.Greater(t, m.service.Target(), before)
}

func TestModel_LoadRegistersActivities(t *testing.T) {
	m := newTestModel(t)

	// Loading puts every listed activity in the session pool.
	for _, def := range m.defs {
		assert.NotEqual(t, "", string(m.service.Tracker().StateOf(def.ID)))
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	next, _ = m.Update(keyPress('c'))
	m = next.(Model)

	// Two activities are still pending, so completing the first one
	// must not finish the session or stop the timer.
	assert.False(t, m.service.Tracker().AllCompleted())
	assert.True(t, m.service.Timer().Active())
}

func TestModel_IdleLoadSchedulesNoTick(t *testing.T) {
	m := newTestModel(t)
	require.False(t, m.ticking)

	next, cmd := m.Update(activitiesLoadedMsg{defs: m.defs})
	m = next.(Model)
	assert.False(t, m.ticking)
	assert.Nil(t, cmd)
}

func TestModel_OpenBreakKeepsTicking(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Theme = "dark"

	ctx := context.Background()
	first := newTestService(t, &cfg)

	a, err := first.CreateActivity(ctx, "Deep Work", "")
	require.NoError(t, err)
	_, err = first.CreateActivity(ctx, "Email", "")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, first.SelectActivity(ctx, a.ID, now))
	require.NoError(t, first.CompleteCurrent(ctx, now.Add(5*time.Minute)))
	require.True(t, first.HasOpenBreak())
	require.NoError(t, first.SaveSnapshot(ctx, now.Add(6*time.Minute)))

	second := newTestService(t, &cfg)
	require.NoError(t, second.Restore(ctx))
	require.False(t, second.Timer().Active(), "restored sessions come back paused")
	require.True(t, second.HasOpenBreak())

	m := New(second, &cfg)
	defs, err := second.ListActivities(ctx)
	require.NoError(t, err)

	// The trailing break keeps growing, so the recompute loop must run
	// even though the timer is paused.
	next, cmd := m.Update(activitiesLoadedMsg{defs: defs})
	m = next.(Model)
	assert.True(t, m.ticking)
	require.NotNil(t, cmd)

	next, cmd = m.Update(tickMsg(time.Now()))
	m = next.(Model)
	assert.True(t, m.ticking)
	assert.NotNil(t, cmd)
}
