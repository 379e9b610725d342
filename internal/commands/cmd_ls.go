package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/timebox-sh/timebox/internal/core/palette"
	"github.com/timebox-sh/timebox/internal/printer"
)

type LsCmd struct {
	flags  *Flags
	colors bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "ls",
		Usage:       "List all activities",
		UsageText:   "timebox ls",
		Description: "Displays a table of all activities with their id, color, and description, in session order.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "colors",
				Usage:       "list the available palette colors instead",
				Destination: &cmd.colors,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	out := c.Root().Writer

	if cmd.colors {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "COLOR\tLIGHT\tDARK")
		for _, set := range palette.Sets() {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", set.Name, set.Light.Border, set.Dark.Border)
		}
		return w.Flush()
	}

	defs, err := cmd.flags.Service.ListActivities(ctx)
	if err != nil {
		return fmt.Errorf("list activities: %w", err)
	}

	if len(defs) == 0 {
		p.Infof("No activities found. Create one with 'timebox new'")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCOLOR\tCREATED\tDESCRIPTION")

	for _, def := range defs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			def.ID,
			def.Name,
			palette.At(def.ColorIndex).Name,
			def.CreatedAt.Format("2006-01-02"),
			def.Description,
		)
	}

	return w.Flush()
}
