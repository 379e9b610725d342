// Package tui implements the interactive session view.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/timebox-sh/timebox/internal/core/activity"
	"github.com/timebox-sh/timebox/internal/core/config"
	"github.com/timebox-sh/timebox/internal/core/palette"
	"github.com/timebox-sh/timebox/internal/session"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateConfirmingReset
)

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	cfg     *config.Config
	service *session.Service
	keys    keyMap
	help    help.Model
	theme   palette.Theme

	defs   []activity.Definition
	cursor int
	now    time.Time

	state    UIState
	width    int
	height   int
	err      error
	ticking  bool
	quitting bool
}

// activitiesLoadedMsg is sent when the activity list is loaded.
type activitiesLoadedMsg struct {
	defs []activity.Definition
	err  error
}

// New creates a new TUI model.
func New(service *session.Service, cfg *config.Config) Model {
	return Model{
		cfg:     cfg,
		service: service,
		keys:    defaultKeyMap(),
		help:    help.New(),
		theme:   resolveTheme(cfg.Theme),
		state:   stateNormal,
		now:     time.Now(),
	}
}

// resolveTheme maps the configured theme to a palette theme, asking the
// terminal when set to auto.
func resolveTheme(theme string) palette.Theme {
	switch theme {
	case "light":
		return palette.ThemeLight
	case "dark":
		return palette.ThemeDark
	default:
		if lipgloss.HasDarkBackground() {
			return palette.ThemeDark
		}
		return palette.ThemeLight
	}
}

// Init initializes the model. The tick chain starts once the activity
// list arrives, where the started flag can be recorded on the model.
func (m Model) Init() tea.Cmd {
	return m.loadActivities()
}

// loadActivities returns a command that loads the ordered activity list.
func (m Model) loadActivities() tea.Cmd {
	return func() tea.Msg {
		defs, err := m.service.ListActivities(context.Background())
		return activitiesLoadedMsg{defs: defs, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case activitiesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.defs = msg.defs
		if m.cursor >= len(m.defs) {
			m.cursor = max(0, len(m.defs)-1)
		}

		// Every listed activity joins the session pool as pending so
		// the completion derivation sees the whole list, not just the
		// ones the user has started.
		ids := make([]string, 0, len(m.defs))
		for _, def := range m.defs {
			ids = append(ids, def.ID)
		}
		if err := m.service.RegisterActivities(context.Background(), ids, time.Now()); err != nil {
			m.err = err
		}

		if !m.ticking && m.shouldTick() {
			m.ticking = true
			return m, scheduleTick()
		}
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		m.service.Tick(context.Background(), m.now)

		// Keep ticking while the countdown runs or a trailing break is
		// still open; otherwise let the chain die.
		if m.shouldTick() {
			return m, scheduleTick()
		}
		m.ticking = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == stateConfirmingReset {
		return m.handleResetConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if err := m.service.SaveSnapshot(context.Background(), m.now); err != nil {
			m.err = err
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.defs)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		return m.selectCurrent()

	case key.Matches(msg, m.keys.Complete):
		m.now = time.Now()
		m.err = m.service.CompleteCurrent(context.Background(), m.now)
		return m, nil

	case key.Matches(msg, m.keys.Remove):
		return m.removeCurrent()

	case key.Matches(msg, m.keys.Extend):
		m.service.ExtendBudget(time.Minute)
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		m.now = time.Now()
		m.err = m.service.StopSession(context.Background(), m.now)
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.state = stateConfirmingReset
		return m, nil
	}

	return m, nil
}

// handleResetConfirmKey handles keys while the reset confirmation is shown.
func (m Model) handleResetConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.state = stateNormal
		m.err = m.service.ResetSession(context.Background())
		m.ticking = false
		return m, m.loadActivities()
	case "n", "esc", "q":
		m.state = stateNormal
		return m, nil
	}
	return m, nil
}

// shouldTick reports whether the once-per-second recompute loop has
// work: a running countdown, or a trailing break whose idle time keeps
// growing on the timeline.
func (m Model) shouldTick() bool {
	return m.service.Timer().Active() || m.service.HasOpenBreak()
}

// selectCurrent starts the activity under the cursor.
func (m Model) selectCurrent() (tea.Model, tea.Cmd) {
	def, ok := m.selectedActivity()
	if !ok {
		return m, nil
	}

	m.now = time.Now()
	if err := m.service.SelectActivity(context.Background(), def.ID, m.now); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil

	if !m.ticking {
		m.ticking = true
		return m, scheduleTick()
	}
	return m, nil
}

// removeCurrent drops the activity under the cursor from the session.
func (m Model) removeCurrent() (tea.Model, tea.Cmd) {
	def, ok := m.selectedActivity()
	if !ok {
		return m, nil
	}

	m.now = time.Now()
	m.err = m.service.RemoveActivity(context.Background(), def.ID, m.now)
	return m, nil
}

// selectedActivity returns the definition under the cursor.
func (m Model) selectedActivity() (activity.Definition, bool) {
	if m.cursor < 0 || m.cursor >= len(m.defs) {
		return activity.Definition{}, false
	}
	return m.defs[m.cursor], true
}

