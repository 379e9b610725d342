package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/timebox-sh/timebox/internal/core/tracker"
	"github.com/timebox-sh/timebox/internal/printer"
	"github.com/timebox-sh/timebox/pkg/timefmt"
)

type SummaryCmd struct {
	flags *Flags
}

// NewSummaryCmd creates a new summary command
func NewSummaryCmd(flags *Flags) *SummaryCmd {
	return &SummaryCmd{flags: flags}
}

// Register adds the summary command to the application
func (cmd *SummaryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "summary",
		Usage:       "Show totals for the saved session",
		UsageText:   "timebox summary",
		Description: "Displays per-activity time totals, break time, and budget usage for the saved session.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *SummaryCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if err := cmd.flags.Service.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	sum, err := cmd.flags.Service.Summary(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("compute summary: %w", err)
	}

	if len(sum.Activities) == 0 && sum.Elapsed == 0 {
		p.Infof("No session recorded")
		return nil
	}

	out := c.Root().Writer
	barSpace := barSpaceFor(os.Stdout)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ACTIVITY\tSTATE\tTIME\t")

	for _, at := range sum.Activities {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			at.Name, stateLabel(at.State), timefmt.Clock(at.Total), bar(at.Total, sum.Elapsed, barSpace))
	}
	if sum.BreakTotal > 0 {
		_, _ = fmt.Fprintf(w, "(break)\t\t%s\t%s\n",
			timefmt.Clock(sum.BreakTotal), bar(sum.BreakTotal, sum.Elapsed, barSpace))
	}
	_ = w.Flush()

	fmt.Fprintln(out)
	p.Printf("Budget %s, elapsed %s", timefmt.Short(sum.Budget), timefmt.Clock(sum.Elapsed))
	if sum.AllCompleted {
		p.Successf("All activities completed")
	} else if sum.Elapsed > sum.Budget {
		p.Warnf("Over budget by %s", timefmt.Clock(sum.Elapsed-sum.Budget))
	}

	return nil
}

// barSpaceFor reserves terminal columns for the proportion bars.
func barSpaceFor(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	space := width / 3
	if space < 10 {
		space = 10
	}
	return space
}

// bar renders a proportion of the session as a block bar.
func bar(part, whole time.Duration, space int) string {
	if whole <= 0 || part <= 0 {
		return ""
	}

	cells := int(float64(space) * float64(part) / float64(whole))
	if cells < 1 {
		cells = 1
	}
	if cells > space {
		cells = space
	}
	return strings.Repeat("█", cells)
}

func stateLabel(s tracker.State) string {
	switch s {
	case tracker.StateCompleted:
		return "done"
	case tracker.StateRemoved:
		return "removed"
	case tracker.StateActive:
		return "running"
	case tracker.StatePending:
		return "pending"
	default:
		return ""
	}
}
