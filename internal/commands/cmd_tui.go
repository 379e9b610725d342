package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/timebox-sh/timebox/internal/tui"
)

type TuiCmd struct {
	flags  *Flags
	budget time.Duration
	fresh  bool
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{
		flags: flags,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "budget",
			Aliases:     []string{"b"},
			Usage:       "session time budget (overrides the configured default)",
			Destination: &cmd.budget,
		},
		&cli.BoolFlag{
			Name:        "fresh",
			Usage:       "discard any saved session and start over",
			Destination: &cmd.fresh,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	svc := cmd.flags.Service

	if cmd.fresh {
		if err := svc.ResetSession(ctx); err != nil {
			return fmt.Errorf("reset session: %w", err)
		}
	} else if err := svc.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	// Flag beats saved snapshot beats configured default.
	if cmd.budget > 0 {
		svc.SetTarget(cmd.budget)
	}

	m := tui.New(svc, cmd.flags.Config)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
