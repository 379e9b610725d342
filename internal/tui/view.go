package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/timebox-sh/timebox/internal/core/activity"
	"github.com/timebox-sh/timebox/internal/core/palette"
	"github.com/timebox-sh/timebox/internal/core/timeline"
	"github.com/timebox-sh/timebox/internal/core/tracker"
	"github.com/timebox-sh/timebox/internal/styles"
	"github.com/timebox-sh/timebox/pkg/timefmt"
)

const (
	markerLabelWidth = 7
	barWidth         = 6
	minTimelineRows  = 8
)

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	banner := styles.BannerStyle.Render(styles.Banner)
	timer := m.renderTimer()

	contentHeight := m.height - lipgloss.Height(banner) - lipgloss.Height(timer) - 4
	if contentHeight < minTimelineRows {
		contentHeight = minTimelineRows
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderActivities(),
		"   ",
		m.renderTimeline(contentHeight),
	)

	sections := []string{banner, timer, content}

	if m.state == stateConfirmingReset {
		sections = append(sections, styles.OvertimeStyle.Render("reset session and discard all progress? (y/n)"))
	} else if m.err != nil {
		sections = append(sections, styles.OvertimeStyle.Render(m.err.Error()))
	}

	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTimer renders the countdown readout.
func (m Model) renderTimer() string {
	target := m.service.Target()
	eng := m.service.Timer()

	var readout string
	if eng.TimeUp(target) {
		over := -eng.TimeLeft(target)
		if over < 0 {
			over = 0
		}
		readout = styles.OvertimeStyle.Render("+" + timefmt.Clock(over) + " over")
	} else {
		readout = styles.TimerStyle.Render(timefmt.Clock(eng.TimeLeft(target)))
	}

	label := styles.LabelStyle.Render("Time Remaining")
	budget := styles.LabelStyle.Render(fmt.Sprintf("budget %s · elapsed %s", timefmt.Short(target), timefmt.Clock(eng.Elapsed())))

	line := lipgloss.JoinHorizontal(lipgloss.Left, " ", label, "  ", readout, "  ", budget)
	return line + "\n"
}

// renderActivities renders the activity list with session states.
func (m Model) renderActivities() string {
	if len(m.defs) == 0 {
		return styles.LabelStyle.Render("no activities yet, create one with `timebox new`")
	}

	tr := m.service.Tracker()
	lines := make([]string, 0, len(m.defs))

	for i, def := range m.defs {
		cursor := "  "
		if i == m.cursor {
			cursor = styles.TimerStyle.Render("› ")
		}

		variant := m.variantFor(def)
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(variant.Border)).Render("■")

		var icon, name string
		switch tr.StateOf(def.ID) {
		case tracker.StateActive:
			icon = lipgloss.NewStyle().Foreground(styles.ColorGreen).Render("▶")
			name = lipgloss.NewStyle().Foreground(lipgloss.Color(variant.Text)).Bold(true).Render(def.Name)
		case tracker.StateCompleted:
			icon = styles.LabelStyle.Render("✓")
			name = styles.LabelStyle.Strikethrough(true).Render(def.Name)
		case tracker.StateRemoved:
			icon = styles.LabelStyle.Render("✗")
			name = styles.LabelStyle.Render(def.Name)
		default:
			icon = styles.LabelStyle.Render("○")
			name = lipgloss.NewStyle().Foreground(styles.ColorWhite).Render(def.Name)
		}

		lines = append(lines, fmt.Sprintf("%s%s %s %s", cursor, icon, swatch, name))
	}

	return strings.Join(lines, "\n")
}

// renderTimeline renders the vertical session timeline: a ruler with
// time markers alongside proportioned activity blocks.
func (m Model) renderTimeline(rows int) string {
	span := m.service.Span(m.now)

	if len(span.Items) == 0 && !m.service.Timer().Started() {
		return styles.LabelStyle.Render("session timeline will appear here")
	}

	byID := make(map[string]activity.Definition, len(m.defs))
	for _, def := range m.defs {
		byID[def.ID] = def
	}

	markerRows := make(map[int]timeline.Marker, len(span.Markers))
	for _, marker := range span.Markers {
		row := int(math.Round(marker.Position * float64(rows-1)))
		if row >= 0 && row < rows {
			markerRows[row] = marker
		}
	}

	boundaryRow := -1
	if span.Overtime {
		boundaryRow = int(math.Round(span.Boundary * float64(rows-1)))
	}

	lines := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		label := strings.Repeat(" ", markerLabelWidth)
		ruler := styles.DividerStyle.Render("│")

		if marker, ok := markerRows[row]; ok {
			text := fmt.Sprintf("%*s", markerLabelWidth, marker.Label)
			if marker.Overtime {
				label = styles.OvertimeStyle.Render(text)
			} else {
				label = styles.LabelStyle.Render(text)
			}
			ruler = styles.DividerStyle.Render("┤")
		}

		if row == boundaryRow {
			ruler = styles.OvertimeStyle.Render("┝")
		}

		rel := (float64(row) + 0.5) / float64(rows)
		lines = append(lines, label+" "+ruler+" "+m.renderBarCell(span, rel, byID))
	}

	return strings.Join(lines, "\n")
}

// renderBarCell renders the block for one timeline row.
func (m Model) renderBarCell(span timeline.Span, rel float64, byID map[string]activity.Definition) string {
	for _, item := range span.Items {
		if rel < item.StartRel || rel >= item.StartRel+item.DurationRel {
			continue
		}

		switch item.Kind {
		case timeline.ItemBreak:
			return styles.LabelStyle.Render(strings.Repeat("░", barWidth))
		case timeline.ItemLeftover:
			return styles.LabelStyle.Render(strings.Repeat("·", barWidth))
		default:
			variant := palette.At(0).Variant(m.theme)
			if def, ok := byID[item.Entry.ActivityID]; ok {
				variant = m.variantFor(def)
			}
			return lipgloss.NewStyle().
				Foreground(lipgloss.Color(variant.Border)).
				Render(strings.Repeat("█", barWidth))
		}
	}

	return ""
}

// variantFor resolves an activity's theme-aware color variant from its
// palette assignment.
func (m Model) variantFor(def activity.Definition) palette.Variant {
	base := palette.At(def.ColorIndex)
	return palette.Resolve(base.Light.Border, m.theme)
}
