package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/timebox-sh/timebox/internal/printer"
)

type OrderCmd struct {
	flags *Flags
}

// NewOrderCmd creates a new order command
func NewOrderCmd(flags *Flags) *OrderCmd {
	return &OrderCmd{flags: flags}
}

// Register adds the order command to the application
func (cmd *OrderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "order",
		Usage: "Manage the custom activity order",
		Description: `Controls the order activities appear in listings and the session view.

Activities named in the order sort first, in order; the rest follow by
creation time.`,
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show the stored order",
				UsageText: "timebox order show",
				Action:    cmd.runShow,
			},
			{
				Name:      "set",
				Usage:     "Replace the order",
				UsageText: "timebox order set <id-or-name>...",
				Action:    cmd.runSet,
			},
			{
				Name:      "clear",
				Usage:     "Remove the custom order entirely",
				UsageText: "timebox order clear",
				Action:    cmd.runClear,
			},
			{
				Name:      "cleanup",
				Usage:     "Drop order entries for deleted activities",
				UsageText: "timebox order cleanup",
				Action:    cmd.runCleanup,
			},
		},
	})

	return app
}

func (cmd *OrderCmd) runShow(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	ids, err := cmd.flags.Service.Order(ctx)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}

	if len(ids) == 0 {
		p.Infof("No custom order set")
		return nil
	}

	out := c.Root().Writer
	for i, id := range ids {
		name := id
		if def, err := cmd.flags.Service.FindActivity(ctx, id); err == nil {
			name = fmt.Sprintf("%s (%s)", def.Name, def.ID)
		}
		_, _ = fmt.Fprintf(out, "%d. %s\n", i+1, name)
	}

	return nil
}

func (cmd *OrderCmd) runSet(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	refs := c.Args().Slice()
	if len(refs) == 0 {
		return fmt.Errorf("at least one activity required\n\nUsage: timebox order set <id-or-name>...")
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		def, err := cmd.flags.Service.FindActivity(ctx, ref)
		if err != nil {
			return fmt.Errorf("resolve activity %q: %w", ref, err)
		}
		ids = append(ids, def.ID)
	}

	if err := cmd.flags.Service.SetOrder(ctx, ids); err != nil {
		return fmt.Errorf("set order: %w", err)
	}

	p.Successf("Order set (%d activities)", len(ids))
	return nil
}

func (cmd *OrderCmd) runClear(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	if err := cmd.flags.Service.ClearOrder(ctx); err != nil {
		return fmt.Errorf("clear order: %w", err)
	}

	p.Successf("Order cleared")
	return nil
}

func (cmd *OrderCmd) runCleanup(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	if err := cmd.flags.Service.CleanupOrder(ctx); err != nil {
		return fmt.Errorf("cleanup order: %w", err)
	}

	p.Successf("Order cleaned up")
	return nil
}
