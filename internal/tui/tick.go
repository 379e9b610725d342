package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = time.Second

// tickMsg carries the wall-clock instant of a countdown tick.
type tickMsg time.Time

// scheduleTick returns a command that delivers the next countdown tick.
// The chain is kept alive by rescheduling from the tick handler and
// stops by simply not rescheduling.
func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
