package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/timebox-sh/timebox/internal/printer"
)

type RmCmd struct {
	flags *Flags
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags) *RmCmd {
	return &RmCmd{flags: flags}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete an activity",
		UsageText: "timebox rm <id-or-name>",
		Description: `Deletes an activity and drops it from the custom order.

The activity can be referenced by id or by name when the name is
unambiguous.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	ref := c.Args().First()
	if ref == "" {
		return fmt.Errorf("activity required\n\nUsage: timebox rm <id-or-name>")
	}

	def, err := cmd.flags.Service.FindActivity(ctx, ref)
	if err != nil {
		return fmt.Errorf("resolve activity: %w", err)
	}

	if err := cmd.flags.Service.DeleteActivity(ctx, def.ID); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}

	p.Success("Activity deleted", def.Name)
	return nil
}
